package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"vitiscli/internal/analytics"
	apierrors "vitiscli/internal/errors"
	"vitiscli/internal/middleware"
	"vitiscli/internal/services"
)

// AnalyticsHandler serves the trade analytics tables with RFC 7807 errors
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// Response is the envelope of every successful analytics response
type Response struct {
	Status string          `json:"status"`
	Flow   string          `json:"flow,omitempty"`
	Window services.Window `json:"window"`
	Data   interface{}     `json:"data"`
	Count  *int            `json:"count,omitempty"`
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service:      service,
		validator:    middleware.NewQueryValidator(),
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Single dataset
	r.Get("/summary", h.GetSummary)
	r.Get("/concentration", h.GetConcentration)
	r.Get("/growth", h.GetGrowingMarkets)
	r.Get("/segments", h.GetSegments)
	r.Get("/trends", h.GetTrends)
	r.Get("/top", h.GetTopCategories)

	// Both datasets
	r.Get("/comparison", h.GetComparison)
	r.Get("/scenarios", h.GetScenarios)
	r.Get("/report", h.GetReport)

	return r
}

// GetSummary handles GET /api/analytics/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := qr.flow()
	if !h.decode(w, r, qr, &q) {
		return
	}

	summary, err := h.service.Summary(r.Context(), q.flow(), q.window())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, q.Flow, q.window(), summary, nil)
}

// GetConcentration handles GET /api/analytics/concentration
func (h *AnalyticsHandler) GetConcentration(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := ConcentrationQuery{FlowQuery: qr.flow(), K: qr.ints("k")}
	if !h.decode(w, r, qr, &q) {
		return
	}

	conc, err := h.service.Concentration(r.Context(), q.flow(), q.window(), q.K)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, q.Flow, q.window(), conc, nil)
}

// GetGrowingMarkets handles GET /api/analytics/growth
func (h *AnalyticsHandler) GetGrowingMarkets(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := GrowthQuery{
		FlowQuery: qr.flow(),
		MinYears:  qr.intPtr("min_years"),
		MinCAGR:   qr.floatPtr("min_cagr"),
	}
	if !h.decode(w, r, qr, &q) {
		return
	}

	criteria := h.service.Params().Growth
	if q.MinYears != nil {
		criteria.MinYears = *q.MinYears
	}
	if q.MinCAGR != nil {
		criteria.MinCAGR = *q.MinCAGR
	}

	markets, err := h.service.GrowingMarkets(r.Context(), q.flow(), q.window(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, q.Flow, q.window(), markets, count(len(markets)))
}

// GetSegments handles GET /api/analytics/segments
func (h *AnalyticsHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := SegmentsQuery{
		FlowQuery: qr.flow(),
		Low:       qr.floatPtr("low"),
		High:      qr.floatPtr("high"),
	}
	if !h.decode(w, r, qr, &q) {
		return
	}

	thresholds := h.service.Params().Bands
	if q.Low != nil {
		thresholds.Low = *q.Low
	}
	if q.High != nil {
		thresholds.High = *q.High
	}

	seg, err := h.service.Segments(r.Context(), q.flow(), q.window(), thresholds)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, q.Flow, q.window(), seg, nil)
}

// GetTrends handles GET /api/analytics/trends
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := qr.flow()
	if !h.decode(w, r, qr, &q) {
		return
	}

	trends, err := h.service.Trends(r.Context(), q.flow(), q.window())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, q.Flow, q.window(), trends, count(len(trends)))
}

// GetTopCategories handles GET /api/analytics/top
func (h *AnalyticsHandler) GetTopCategories(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := TopQuery{
		FlowQuery: qr.flow(),
		N:         qr.integer("n"),
		Metric:    qr.text("metric"),
	}
	if !h.decode(w, r, qr, &q) {
		return
	}

	n := q.N
	if n == 0 {
		n = h.service.Params().TopN
	}
	metric := analytics.MetricValue
	if q.Metric != "" {
		metric = analytics.Metric(q.Metric)
	}

	top, err := h.service.TopCategories(r.Context(), q.flow(), q.window(), n, metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, q.Flow, q.window(), top, count(len(top)))
}

// GetComparison handles GET /api/analytics/comparison
func (h *AnalyticsHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := qr.window()
	if !h.decode(w, r, qr, &q) {
		return
	}

	rows, err := h.service.Comparison(r.Context(), q.window())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, "", q.window(), rows, count(len(rows)))
}

// GetScenarios handles GET /api/analytics/scenarios
func (h *AnalyticsHandler) GetScenarios(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := ScenariosQuery{WindowQuery: qr.window(), BaseYear: qr.integer("base_year")}
	if !h.decode(w, r, qr, &q) {
		return
	}

	projections, err := h.service.Scenarios(r.Context(), q.window(), q.BaseYear)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, "", q.window(), projections, count(len(projections)))
}

// GetReport handles GET /api/analytics/report
func (h *AnalyticsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	qr := newQueryReader(r.URL.Query())
	q := qr.window()
	if !h.decode(w, r, qr, &q) {
		return
	}

	report, err := h.service.Report(r.Context(), q.window())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, "", q.window(), report, nil)
}

// decode reports parse failures first, then struct validation failures.
// It writes the error response and returns false when the query is unusable.
func (h *AnalyticsHandler) decode(w http.ResponseWriter, r *http.Request, qr *queryReader, q interface{}) bool {
	err := qr.err()
	if err == nil {
		err = h.validator.ValidateStruct(q)
	}
	if err != nil {
		h.logger.DebugContext(r.Context(), "rejected analytics query",
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
		)
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

func (h *AnalyticsHandler) respond(w http.ResponseWriter, r *http.Request, flow string, win services.Window, data interface{}, n *int) {
	render.JSON(w, r, Response{
		Status: "success",
		Flow:   flow,
		Window: win.Or(h.service.DefaultWindow()),
		Data:   data,
		Count:  n,
	})
}

func count(n int) *int {
	return &n
}
