package http

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hrpulse/internal/config"
	apierrors "hrpulse/internal/errors"
	"hrpulse/internal/exporter"
	"hrpulse/internal/middleware"
	"hrpulse/internal/services"
)

// WorkbookHandler handles workbook uploads and the analyses run on them
type WorkbookHandler struct {
	service      WorkbookService
	validation   *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// exportQuery holds the query parameters of a gap export
type exportQuery struct {
	Filename string `query:"filename" validate:"omitempty,max=255,csvfilename"`
}

// NewWorkbookHandler creates a new workbook handler
func NewWorkbookHandler(service WorkbookService, validation *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WorkbookHandler {
	return &WorkbookHandler{
		service:      service,
		validation:   validation,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "workbook_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the workbook routes
func (h *WorkbookHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(
		h.validation.LimitBody,
		middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"),
	).Post("/", h.Upload)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetWorkbook)
		r.Delete("/", h.DeleteWorkbook)

		r.Route("/sheets/{sheet}", func(r chi.Router) {
			r.Get("/dashboard", h.Dashboard)
			r.Get("/views/{view}", h.View)
			r.Get("/missing", h.Missing)
			r.Get("/rows", h.Rows)
			r.Get("/gaps/{cohort}", h.Gaps)
			r.Get("/gaps/{cohort}/export", h.ExportGaps)
		})
	})

	return r
}

// Upload handles POST /api/workbooks. The file part is streamed straight
// into the parser; other form fields are ignored.
func (h *WorkbookHandler) Upload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(config.UploadFormField, "a workbook file is required"))
			return
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if !errors.As(err, &maxErr) {
				err = apierrors.InvalidRequestWithError(err)
			}
			h.errorHandler.HandleError(w, r, err)
			return
		}
		if part.FormName() != config.UploadFormField {
			part.Close()
			continue
		}

		info, err := h.service.Upload(r.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			h.handleError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, info)
		return
	}
}

// GetWorkbook handles GET /api/workbooks/{id}
func (h *WorkbookHandler) GetWorkbook(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Workbook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// DeleteWorkbook handles DELETE /api/workbooks/{id}
func (h *WorkbookHandler) DeleteWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// Dashboard handles GET /api/workbooks/{id}/sheets/{sheet}/dashboard
func (h *WorkbookHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.sheetParam(w, r)
	if !ok {
		return
	}

	dash, err := h.service.Dashboard(r.Context(), chi.URLParam(r, "id"), sheet)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, dash)
}

// View handles GET /api/workbooks/{id}/sheets/{sheet}/views/{view}
func (h *WorkbookHandler) View(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.sheetParam(w, r)
	if !ok {
		return
	}

	res, err := h.service.View(r.Context(), chi.URLParam(r, "id"), sheet, chi.URLParam(r, "view"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

// Missing handles GET /api/workbooks/{id}/sheets/{sheet}/missing?column=
// The column parameter may repeat; without it every column is audited.
func (h *WorkbookHandler) Missing(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.sheetParam(w, r)
	if !ok {
		return
	}

	audits, err := h.service.Missing(r.Context(), chi.URLParam(r, "id"), sheet, r.URL.Query()["column"]...)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"sheet":  sheet,
		"audits": audits,
	})
}

// Rows handles GET /api/workbooks/{id}/sheets/{sheet}/rows?offset=&limit=
func (h *WorkbookHandler) Rows(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.sheetParam(w, r)
	if !ok {
		return
	}
	offset, ok := h.query.ValidateInt(w, r, "offset", 0, math.MaxInt32, 0)
	if !ok {
		return
	}
	limit, ok := h.query.ValidateInt(w, r, "limit", 1, services.MaxRowsLimit, services.DefaultRowsLimit)
	if !ok {
		return
	}

	page, err := h.service.Rows(r.Context(), chi.URLParam(r, "id"), sheet, offset, limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// Gaps handles GET /api/workbooks/{id}/sheets/{sheet}/gaps/{cohort}
func (h *WorkbookHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.sheetParam(w, r)
	if !ok {
		return
	}

	rep, err := h.service.Gaps(r.Context(), chi.URLParam(r, "id"), sheet, chi.URLParam(r, "cohort"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, rep)
}

// ExportGaps handles GET /api/workbooks/{id}/sheets/{sheet}/gaps/{cohort}/export
func (h *WorkbookHandler) ExportGaps(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.sheetParam(w, r)
	if !ok {
		return
	}

	q := exportQuery{Filename: r.URL.Query().Get("filename")}
	if err := h.validation.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cohort := chi.URLParam(r, "cohort")
	exp, err := h.service.ExportGaps(r.Context(), chi.URLParam(r, "id"), sheet, cohort, q.Filename)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(exp.Filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if err := exporter.WriteTable(w, exp.Report.Rows); err != nil {
		// headers are gone; the client sees a truncated file
		h.logger.ErrorContext(r.Context(), "gap export interrupted",
			slog.String("cohort", cohort),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "gap export served",
		slog.String("cohort", cohort),
		slog.String("filename", exp.Filename),
		slog.Int("rows", exp.Report.Rows.Len()))
}

// sheetParam decodes the sheet path segment, which chi may hand over still
// escaped when the request carried a raw path.
func (h *WorkbookHandler) sheetParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	sheet, err := url.PathUnescape(chi.URLParam(r, "sheet"))
	if err != nil || sheet == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sheet", "sheet must be a valid sheet name"))
		return "", false
	}
	return sheet, true
}

// handleError maps service errors to API errors; engine errors are mapped
// by the error handler itself.
func (h *WorkbookHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrWorkbookNotFound):
		err = apierrors.WorkbookNotFound(chi.URLParam(r, "id"))
	case errors.Is(err, services.ErrUnsupportedFileType):
		err = apierrors.UnsupportedMediaType(err.Error())
	case errors.Is(err, services.ErrUploadTooLarge):
		err = apierrors.PayloadTooLarge(h.service.MaxUploadBytes())
	case errors.Is(err, services.ErrEmptyUpload):
		err = apierrors.ErrValidation(config.UploadFormField, "the uploaded file is empty")
	case errors.Is(err, services.ErrUnknownView):
		err = apierrors.NotFoundError("view " + chi.URLParam(r, "view"))
	case errors.Is(err, services.ErrUnknownCohort):
		err = apierrors.NotFoundError("cohort " + chi.URLParam(r, "cohort"))
	}
	h.errorHandler.HandleError(w, r, err)
}

// contentDisposition builds an attachment header; non-ASCII names are
// carried in the RFC 5987 filename* form.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": "export.csv"})
}
