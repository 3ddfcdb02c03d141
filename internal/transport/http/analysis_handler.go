package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ysianalyzer/internal/errors"
	"ysianalyzer/internal/exporter"
	"ysianalyzer/internal/middleware"
)

// AnalysisHandler serves the JSON and download API under /api/v1.
type AnalysisHandler struct {
	service        AnalysisServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewAnalysisHandler creates the API handler. maxUploadBytes bounds each
// request body; zero means unbounded.
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "analysis_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/layout", h.GetLayout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeValidator("multipart/form-data"))
		r.Post("/analysis", h.Analyze)
		r.Post("/analysis/summary.csv", h.SummaryCSV)
		r.Post("/export", h.Export)
	})

	return r
}

// GetLayout handles GET /api/v1/layout
func (h *AnalysisHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Layout())
}

// Analyze handles POST /api/v1/analysis
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer form.RemoveAll()

	result, err := h.service.Analyze(r.Context(), form)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// SummaryCSV handles POST /api/v1/analysis/summary.csv
func (h *AnalysisHandler) SummaryCSV(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer form.RemoveAll()

	data, err := h.service.SummaryCSV(r.Context(), form)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	attachment(w, exporter.SummaryCSVFilename, "text/csv; charset=utf-8", len(data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write summary CSV", slog.String("error", err.Error()))
	}
}

// Export handles POST /api/v1/export
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer form.RemoveAll()

	wb, err := h.service.Export(r.Context(), form)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	attachment(w, wb.Filename, wb.ContentType, len(wb.Data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(wb.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write workbook", slog.String("error", err.Error()))
	}
}
