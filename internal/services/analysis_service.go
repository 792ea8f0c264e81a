package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hrpulse/internal/config"
	"hrpulse/internal/dataprocessing"
	"hrpulse/internal/exporter"
	"hrpulse/internal/files"
	"hrpulse/internal/infrastructure"
	"hrpulse/pkg/contracts/domain"
)

// Row paging limits for the rows endpoint
const (
	DefaultRowsLimit = 100
	MaxRowsLimit     = 1000
)

// RowsPage is a window over the scoped rows of a sheet.
type RowsPage struct {
	Sheet  string        `json:"sheet"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Total  int           `json:"total"`
	Rows   *domain.Table `json:"rows"`
}

// GapExport is a cohort gap report ready to be written as CSV.
type GapExport struct {
	Filename string
	Report   *domain.GapReport
}

// AnalysisService runs the analytics engine over stored workbooks
type AnalysisService struct {
	store     *WorkbookStore
	maxUpload int64
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewAnalysisService creates the analysis service
func NewAnalysisService(store *WorkbookStore, upload config.UploadConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := upload.MaxSizeBytes
	if maxUpload <= 0 {
		maxUpload = config.DefaultMaxUploadBytes
	}

	return &AnalysisService{
		store:     store,
		maxUpload: maxUpload,
		metrics:   metrics,
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    logger.With(slog.String("component", "analysis_service")),
	}
}

// Upload parses an xlsx stream and stores the workbook.
func (s *AnalysisService) Upload(ctx context.Context, filename string, r io.Reader) (WorkbookInfo, error) {
	ctx, span := s.tracer.Start(ctx, "workbook.upload",
		trace.WithAttributes(attribute.String("workbook.filename", filename)))
	defer span.End()

	if !files.IsWorkbookName(filename) {
		return WorkbookInfo{}, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filename)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return WorkbookInfo{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if n > s.maxUpload {
		return WorkbookInfo{}, fmt.Errorf("%w: limit is %d bytes", ErrUploadTooLarge, s.maxUpload)
	}
	if n == 0 {
		return WorkbookInfo{}, ErrEmptyUpload
	}

	start := time.Now()
	wb, err := dataprocessing.LoadWorkbook(ctx, &buf)
	infrastructure.RecordUploadMetrics(ctx, s.metrics, n, len(workbookSheets(wb)), time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "workbook rejected",
			slog.String("filename", filename),
			slog.Int64("size", n),
			slog.String("error", err.Error()))
		return WorkbookInfo{}, fmt.Errorf("failed to load workbook: %w", err)
	}

	info, err := s.store.Put(ctx, filename, n, wb)
	if err != nil {
		return WorkbookInfo{}, err
	}
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"workbook.id":     info.ID,
		"workbook.size":   n,
		"workbook.sheets": len(info.Sheets),
	})

	s.logger.InfoContext(ctx, "workbook uploaded",
		slog.String("workbook_id", info.ID),
		slog.String("filename", filename),
		slog.Int64("size", n),
		slog.Int("sheets", len(info.Sheets)))
	return info, nil
}

// MaxUploadBytes is the largest accepted workbook.
func (s *AnalysisService) MaxUploadBytes() int64 {
	return s.maxUpload
}

func workbookSheets(wb *domain.Workbook) []string {
	if wb == nil {
		return nil
	}
	return wb.SheetNames()
}

// Workbook returns the info of a stored workbook
func (s *AnalysisService) Workbook(ctx context.Context, id string) (WorkbookInfo, error) {
	info, _, err := s.store.Get(id)
	return info, err
}

// Delete drops a stored workbook
func (s *AnalysisService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "workbook deleted", slog.String("workbook_id", id))
	return nil
}

// Dashboard builds every view, the overview and the cohort summaries of one sheet.
func (s *AnalysisService) Dashboard(ctx context.Context, id, sheet string) (*domain.Dashboard, error) {
	var dash *domain.Dashboard
	err := s.analyze(ctx, "dashboard", id, sheet, func(t *domain.Table) error {
		var err error
		dash, err = dataprocessing.BuildDashboard(sheet, t)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, sv := range dash.SkippedViews {
		infrastructure.RecordSkippedView(ctx, s.metrics, sv.View)
		s.logger.InfoContext(ctx, "view skipped",
			slog.String("view", sv.View),
			slog.Any("missing_columns", sv.MissingColumns))
	}
	return dash, nil
}

// View runs one named breakdown.
func (s *AnalysisService) View(ctx context.Context, id, sheet, name string) (*domain.ViewResult, error) {
	view, ok := dataprocessing.FindView(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}

	var res *domain.ViewResult
	err := s.analyze(ctx, "view:"+name, id, sheet, func(t *domain.Table) error {
		var err error
		res, err = view.Run(t)
		return err
	})
	if _, missing := dataprocessing.AsMissingColumn(err); missing {
		infrastructure.RecordSkippedView(ctx, s.metrics, name)
	}
	return res, err
}

// Missing audits the given columns, or every column when none is named.
// Naming a column the sheet lacks fails with a MissingColumnError.
func (s *AnalysisService) Missing(ctx context.Context, id, sheet string, columns ...string) ([]domain.MissingAudit, error) {
	var audits []domain.MissingAudit
	err := s.analyze(ctx, "missing", id, sheet, func(t *domain.Table) error {
		if len(columns) == 0 {
			audits = dataprocessing.AuditAll(t)
			return nil
		}
		if !t.HasColumns(columns...) {
			return &dataprocessing.MissingColumnError{View: "missing", Columns: t.MissingColumns(columns...)}
		}
		audits = make([]domain.MissingAudit, 0, len(columns))
		for _, c := range columns {
			audits = append(audits, dataprocessing.AuditMissing(t, c))
		}
		return nil
	})
	return audits, err
}

// Rows pages through the scoped rows of a sheet.
func (s *AnalysisService) Rows(ctx context.Context, id, sheet string, offset, limit int) (*RowsPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultRowsLimit
	}
	if limit > MaxRowsLimit {
		limit = MaxRowsLimit
	}

	var page *RowsPage
	err := s.analyze(ctx, "rows", id, sheet, func(t *domain.Table) error {
		page = &RowsPage{
			Sheet:  sheet,
			Offset: offset,
			Limit:  limit,
			Total:  t.Len(),
			Rows:   t.Slice(offset, limit),
		}
		return nil
	})
	return page, err
}

// Gaps runs one cohort detector.
func (s *AnalysisService) Gaps(ctx context.Context, id, sheet, cohort string) (*domain.GapReport, error) {
	det, ok := dataprocessing.FindCohort(cohort)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCohort, cohort)
	}

	var rep *domain.GapReport
	err := s.analyze(ctx, "gaps:"+cohort, id, sheet, func(t *domain.Table) error {
		var err error
		rep, err = det.Detect(t)
		return err
	})
	if err != nil {
		return nil, err
	}

	infrastructure.RecordGapRows(ctx, s.metrics, cohort, rep.GapCount)
	s.logger.InfoContext(ctx, "qualification gaps detected",
		slog.String("cohort", cohort),
		slog.Int("cohort_size", rep.CohortSize),
		slog.Int("gaps", rep.GapCount),
		slog.Float64("percent", rep.Percent))
	return rep, nil
}

// ExportGaps prepares a cohort's gap rows for CSV download. filename is the
// caller's preferred name; the cohort default is used when it is unusable.
func (s *AnalysisService) ExportGaps(ctx context.Context, id, sheet, cohort, filename string) (*GapExport, error) {
	rep, err := s.Gaps(ctx, id, sheet, cohort)
	if err != nil {
		return nil, err
	}

	infrastructure.RecordExport(ctx, s.metrics, cohort)
	return &GapExport{
		Filename: exporter.SafeFilename(filename, DefaultGapsFilename(cohort)),
		Report:   rep,
	}, nil
}

// DefaultGapsFilename is the download name of a cohort's gap export.
func DefaultGapsFilename(cohort string) string {
	if cohort == dataprocessing.CohortSecondary {
		return exporter.DefaultSecondaryGapsFilename
	}
	return exporter.DefaultTertiaryGapsFilename
}

// analyze resolves the scoped sheet and runs fn inside a span, recording the
// analysis metrics. Missing columns are an expected outcome, not a failure.
func (s *AnalysisService) analyze(ctx context.Context, kind, id, sheet string, fn func(*domain.Table) error) error {
	ctx, span := s.tracer.Start(ctx, "analysis."+kind,
		trace.WithAttributes(
			attribute.String("workbook.id", id),
			attribute.String("workbook.sheet", sheet),
		))
	defer span.End()

	start := time.Now()
	t, err := s.store.Prepared(ctx, id, sheet)
	if err == nil {
		infrastructure.AddSpanEvent(ctx, "sheet.prepared", map[string]interface{}{"rows": t.Len()})
		err = fn(t)
	}

	recorded := err
	if _, missing := dataprocessing.AsMissingColumn(err); missing {
		recorded = nil
	}
	infrastructure.RecordAnalysisMetrics(ctx, s.metrics, kindLabel(kind), time.Since(start), recorded)
	if recorded != nil && !errors.Is(err, ErrWorkbookNotFound) && !errors.Is(err, dataprocessing.ErrSheetNotFound) {
		infrastructure.RecordError(ctx, err)
	}
	return err
}

// kindLabel keeps metric cardinality bounded to the analysis family.
func kindLabel(kind string) string {
	if i := strings.IndexByte(kind, ':'); i >= 0 {
		return kind[:i]
	}
	return kind
}
