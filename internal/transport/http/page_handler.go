package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"ysianalyzer/internal/chart"
	apierrors "ysianalyzer/internal/errors"
	"ysianalyzer/internal/exporter"
	"ysianalyzer/internal/plates"
	"ysianalyzer/internal/services"
	"ysianalyzer/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"plateNumber": func(i int) int { return i + 1 },
	"sampleField": plates.SampleNameField,
	"wellField":   plates.WellField,
	"bioField":    plates.BioFileField,
	"iseField":    plates.ISEFileField,
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).
		ParseFS(templateFS, "templates/base.html", "templates/"+name))
}

// PageHandler serves the server-rendered form and result pages.
type PageHandler struct {
	service        AnalysisServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	version        string
	chartOptions   chart.RenderOptions
	formPage       *template.Template
	resultPage     *template.Template
}

// NewPageHandler creates the page handler.
func NewPageHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, version string) *PageHandler {
	return &PageHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "page_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		version:        version,
		chartOptions:   chart.DefaultRenderOptions,
		formPage:       parsePage("form.html"),
		resultPage:     parsePage("result.html"),
	}
}

// RegisterRoutes adds the page routes to r.
func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Form)
	r.Post("/analyze", h.Analyze)
	r.Post("/export", h.Export)
}

type pageBase struct {
	Title   string
	Version string
	Columns int
}

type wellColumn struct {
	Name  string
	Wells []plates.WellSlot
}

type formView struct {
	pageBase
	PlateCount  int
	MaxPlates   int
	Plates      []int
	WellColumns []wellColumn
	Rows        [][]plates.WellSlot
	Policy      string
}

type facetView struct {
	Chemistry string
	SVG       template.HTML
}

type resultView struct {
	pageBase
	Problem *apierrors.ProblemDetails
	Issues  []domain.DataIssue
	Notices []string
	Facets  []facetView
	Headers []string
	Records [][]string
}

// Form handles GET /. The optional plates query parameter sets how many
// plate sections are shown.
func (h *PageHandler) Form(w http.ResponseWriter, r *http.Request) {
	layout := h.service.Layout()

	count := plates.DefaultPlateCount
	if v := r.URL.Query().Get("plates"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > layout.MaxPlates {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("plates",
				"plates must be a number between 0 and "+strconv.Itoa(layout.MaxPlates)))
			return
		}
		count = n
	}

	columns := make([]wellColumn, 0, len(layout.Columns))
	for _, name := range layout.Columns {
		columns = append(columns, wellColumn{
			Name:  name,
			Wells: lo.Filter(layout.Wells, func(s plates.WellSlot, _ int) bool { return s.Column == name }),
		})
	}

	view := formView{
		pageBase:    h.base(len(columns)),
		PlateCount:  count,
		MaxPlates:   layout.MaxPlates,
		Plates:      lo.Range(count),
		WellColumns: columns,
		Rows:        gridRows(columns, layout.WellsPerColumn),
		Policy:      h.service.Policy().String(),
	}
	h.render(w, r, h.formPage, http.StatusOK, view)
}

// Analyze handles POST /analyze
func (h *PageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	defer form.RemoveAll()

	result, err := h.service.Analyze(r.Context(), form)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	view := resultView{
		pageBase: h.base(result.Chart.Columns),
		Notices:  result.Notices,
		Headers:  exporter.SummaryHeaders,
		Records:  exporter.SummaryRecords(result.Combined),
	}

	svgs, err := chart.RenderSVGs(*result.Chart, h.chartOptions)
	if err != nil {
		h.renderError(w, r, apierrors.NewAppError(apierrors.ErrTypeExport, "failed to render chart", err))
		return
	}
	for _, svg := range svgs {
		// go-chart output, no user markup
		view.Facets = append(view.Facets, facetView{Chemistry: svg.Chemistry, SVG: template.HTML(svg.SVG)})
	}

	h.render(w, r, h.resultPage, http.StatusOK, view)
}

// Export handles POST /export, the form's export button.
func (h *PageHandler) Export(w http.ResponseWriter, r *http.Request) {
	form, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	defer form.RemoveAll()

	wb, err := h.service.Export(r.Context(), form)
	if err != nil {
		if apierrors.IsEmptyResult(err) {
			view := resultView{pageBase: h.base(chart.DefaultColumns), Notices: []string{services.NoDataNotice}}
			h.render(w, r, h.resultPage, http.StatusUnprocessableEntity, view)
			return
		}
		h.renderError(w, r, err)
		return
	}

	attachment(w, wb.Filename, wb.ContentType, len(wb.Data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(wb.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write workbook", slog.String("error", err.Error()))
	}
}

// renderError shows err as a problem on the result page.
func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.errorHandler.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "page request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()))

	view := resultView{pageBase: h.base(chart.DefaultColumns), Problem: problem}

	var formatErr *apierrors.DataFormatError
	if errors.As(err, &formatErr) {
		view.Issues = formatErr.Issues
	}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if details, ok := apiErr.Details.(apierrors.ValidationErrors); ok {
			view.Notices = lo.Map(details.Errors, func(e apierrors.ValidationError, _ int) string { return e.Message })
		}
	}

	h.render(w, r, h.resultPage, problem.Status, view)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.ErrorContext(r.Context(), "template execution failed", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write page", slog.String("error", err.Error()))
	}
}

func (h *PageHandler) base(columns int) pageBase {
	if columns <= 0 {
		columns = chart.DefaultColumns
	}
	return pageBase{Title: chart.DefaultTitle, Version: h.version, Columns: columns}
}

// gridRows lays the columns out row by row for a CSS grid: row i holds the
// i-th well of every column.
func gridRows(columns []wellColumn, perColumn int) [][]plates.WellSlot {
	rows := make([][]plates.WellSlot, perColumn)
	for i := range rows {
		for _, c := range columns {
			if i < len(c.Wells) {
				rows[i] = append(rows[i], c.Wells[i])
			}
		}
	}
	return rows
}
