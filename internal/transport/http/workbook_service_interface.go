package http

import (
	"context"
	"io"

	"hrpulse/internal/services"
	"hrpulse/pkg/contracts/domain"
)

// WorkbookService defines the operations behind the workbook routes
type WorkbookService interface {
	Upload(ctx context.Context, filename string, r io.Reader) (services.WorkbookInfo, error)
	Workbook(ctx context.Context, id string) (services.WorkbookInfo, error)
	Delete(ctx context.Context, id string) error
	MaxUploadBytes() int64

	Dashboard(ctx context.Context, id, sheet string) (*domain.Dashboard, error)
	View(ctx context.Context, id, sheet, name string) (*domain.ViewResult, error)
	Missing(ctx context.Context, id, sheet string, columns ...string) ([]domain.MissingAudit, error)
	Rows(ctx context.Context, id, sheet string, offset, limit int) (*services.RowsPage, error)
	Gaps(ctx context.Context, id, sheet, cohort string) (*domain.GapReport, error)
	ExportGaps(ctx context.Context, id, sheet, cohort, filename string) (*services.GapExport, error)
}
