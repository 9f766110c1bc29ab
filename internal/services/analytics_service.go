package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vitiscli/internal/analytics"
	"vitiscli/internal/infrastructure"
	"vitiscli/internal/memo"
	"vitiscli/internal/store"
	"vitiscli/pkg/contracts/domain"
)

// AnalyticsService loads trade series from a store and runs the analytics
// functions over them. Results are memoized by operation, parameters and
// dataset fingerprint.
type AnalyticsService struct {
	store    store.Store
	cache    *memo.Cache
	analyzer *analytics.Analyzer
	params   analytics.Params
	window   Window
	tracer   trace.Tracer
	metrics  *infrastructure.AnalyticsMetrics
	logger   *slog.Logger
}

// Option configures an AnalyticsService
type Option func(*AnalyticsService)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *AnalyticsService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used for analysis spans
func WithTracer(tracer trace.Tracer) Option {
	return func(s *AnalyticsService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments recording analyses and cache lookups
func WithMetrics(metrics *infrastructure.AnalyticsMetrics) Option {
	return func(s *AnalyticsService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewAnalyticsService creates the service. window is the default year range
// applied when a request leaves a bound open.
func NewAnalyticsService(st store.Store, cache *memo.Cache, params analytics.Params, window Window, opts ...Option) (*AnalyticsService, error) {
	if st == nil {
		return nil, fmt.Errorf("analytics service requires a store")
	}
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("default window: %w", err)
	}

	s := &AnalyticsService{
		store:   st,
		cache:   cache,
		params:  params,
		window:  window,
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
		metrics: infrastructure.NoopAnalyticsMetrics(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "analytics_service"))
	if s.cache == nil {
		s.cache = memo.New(0, 0)
	}

	analyzer, err := analytics.NewAnalyzer(params, s.logger)
	if err != nil {
		return nil, err
	}
	s.analyzer = analyzer
	return s, nil
}

// Params returns the default analysis parameters
func (s *AnalyticsService) Params() analytics.Params {
	return s.params
}

// DefaultWindow returns the year range used for open bounds
func (s *AnalyticsService) DefaultWindow() Window {
	return s.window
}

// CacheStats reports memo cache activity
func (s *AnalyticsService) CacheStats() memo.Stats {
	return s.cache.Stats()
}

// Ping checks the backing store
func (s *AnalyticsService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Summary returns headline totals for flow
func (s *AnalyticsService) Summary(ctx context.Context, flow domain.Flow, w Window) (analytics.Summary, error) {
	ds, w, err := s.load(ctx, flow, w)
	if err != nil {
		return analytics.Summary{}, err
	}
	return compute(ctx, s, "summary", key(ds, w), func(context.Context) (analytics.Summary, error) {
		return analytics.Summarize(ds.Records), nil
	})
}

// Concentration returns HHI and top-K shares for flow. Empty ks uses the
// configured list.
func (s *AnalyticsService) Concentration(ctx context.Context, flow domain.Flow, w Window, ks []int) (analytics.Concentration, error) {
	if len(ks) == 0 {
		ks = s.params.TopK
	}
	for _, k := range ks {
		if k < 1 {
			return analytics.Concentration{}, invalidArgument("top-k values must be positive, got %d", k)
		}
	}

	ds, w, err := s.load(ctx, flow, w)
	if err != nil {
		return analytics.Concentration{}, err
	}
	return compute(ctx, s, "concentration", key(ds, w, joinInts(ks)), func(context.Context) (analytics.Concentration, error) {
		return analytics.AnalyzeConcentration(ds.Records, ks...), nil
	})
}

// GrowingMarkets returns the categories of flow passing criteria
func (s *AnalyticsService) GrowingMarkets(ctx context.Context, flow domain.Flow, w Window, criteria analytics.GrowthCriteria) ([]analytics.GrowthRecord, error) {
	if err := criteria.Validate(); err != nil {
		return nil, invalidArgument("%v", err)
	}

	ds, w, err := s.load(ctx, flow, w)
	if err != nil {
		return nil, err
	}
	k := key(ds, w, strconv.Itoa(criteria.MinYears), formatFloat(criteria.MinCAGR))
	return compute(ctx, s, "growing_markets", k, func(context.Context) ([]analytics.GrowthRecord, error) {
		return analytics.GrowingMarkets(ds.Records, criteria), nil
	})
}

// Segments classifies the categories of flow into price bands
func (s *AnalyticsService) Segments(ctx context.Context, flow domain.Flow, w Window, thresholds analytics.BandThresholds) (analytics.Segmentation, error) {
	if err := thresholds.Validate(); err != nil {
		return analytics.Segmentation{}, invalidArgument("%v", err)
	}

	ds, w, err := s.load(ctx, flow, w)
	if err != nil {
		return analytics.Segmentation{}, err
	}
	k := key(ds, w, formatFloat(thresholds.Low), formatFloat(thresholds.High))
	return compute(ctx, s, "segments", k, func(context.Context) (analytics.Segmentation, error) {
		return analytics.SegmentByPrice(ds.Records, thresholds), nil
	})
}

// Trends returns per-year totals and growth for flow
func (s *AnalyticsService) Trends(ctx context.Context, flow domain.Flow, w Window) ([]analytics.YearlyTrend, error) {
	ds, w, err := s.load(ctx, flow, w)
	if err != nil {
		return nil, err
	}
	return compute(ctx, s, "trends", key(ds, w), func(context.Context) ([]analytics.YearlyTrend, error) {
		return analytics.YearlyTrends(ds.Records), nil
	})
}

// TopCategories ranks the n largest categories of flow by metric
func (s *AnalyticsService) TopCategories(ctx context.Context, flow domain.Flow, w Window, n int, metric analytics.Metric) ([]analytics.RankedCategory, error) {
	if n < 1 {
		return nil, invalidArgument("n must be positive, got %d", n)
	}
	if !metric.IsValid() {
		return nil, invalidArgument("unsupported metric %q", metric)
	}

	ds, w, err := s.load(ctx, flow, w)
	if err != nil {
		return nil, err
	}
	return compute(ctx, s, "top_categories", key(ds, w, strconv.Itoa(n), string(metric)), func(context.Context) ([]analytics.RankedCategory, error) {
		return analytics.TopCategories(ds.Records, n, metric), nil
	})
}

// Comparison joins export and import totals by year
func (s *AnalyticsService) Comparison(ctx context.Context, w Window) ([]analytics.ComparisonRow, error) {
	exports, imports, w, err := s.loadBoth(ctx, w)
	if err != nil {
		return nil, err
	}
	return compute(ctx, s, "comparison", key(exports, w, imports.Fingerprint), func(context.Context) ([]analytics.ComparisonRow, error) {
		return analytics.CompareFlows(exports.Records, imports.Records), nil
	})
}

// Scenarios projects the export value of baseYear with the configured
// scenarios. A zero baseYear uses the latest year in the comparison; with no
// comparison years the result is empty.
func (s *AnalyticsService) Scenarios(ctx context.Context, w Window, baseYear int) ([]analytics.Projection, error) {
	rows, err := s.Comparison(ctx, w)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		s.logger.WarnContext(ctx, "no comparison years available for scenarios", slog.String("window", w.String()))
		return []analytics.Projection{}, nil
	}
	if baseYear == 0 {
		baseYear = rows[len(rows)-1].Year
	}

	projections, err := analytics.ProjectFromComparison(rows, baseYear, s.params.Scenarios)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	return projections, nil
}

// Report computes every table for both flows
func (s *AnalyticsService) Report(ctx context.Context, w Window) (*analytics.Report, error) {
	exports, imports, w, err := s.loadBoth(ctx, w)
	if err != nil {
		return nil, err
	}
	return compute(ctx, s, "report", key(exports, w, imports.Fingerprint), func(ctx context.Context) (*analytics.Report, error) {
		return s.analyzer.Analyze(ctx, exports.Records, imports.Records)
	})
}

// load reads flow and applies the year window. The returned dataset keeps
// the store fingerprint; the window is part of every cache key.
func (s *AnalyticsService) load(ctx context.Context, flow domain.Flow, w Window) (store.Dataset, Window, error) {
	if !flow.IsValid() {
		return store.Dataset{}, w, invalidArgument("invalid flow %q", flow)
	}
	w = w.Or(s.window)
	if err := w.Validate(); err != nil {
		return store.Dataset{}, w, err
	}

	ds, err := s.store.Load(ctx, flow)
	if err != nil {
		return store.Dataset{}, w, fmt.Errorf("load %s dataset: %w", flow, err)
	}
	s.metrics.RecordRecordsLoaded(ctx, string(flow), len(ds.Records))

	ds.Records = analytics.FilterYears(ds.Records, w.Start, w.End)
	return ds, w, nil
}

// loadBoth loads the export and import series concurrently
func (s *AnalyticsService) loadBoth(ctx context.Context, w Window) (exports, imports store.Dataset, _ Window, err error) {
	g, gctx := errgroup.WithContext(ctx)
	var resolved Window
	g.Go(func() error {
		var err error
		exports, resolved, err = s.load(gctx, domain.FlowExport, w)
		return err
	})
	g.Go(func() error {
		var err error
		imports, _, err = s.load(gctx, domain.FlowImport, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return store.Dataset{}, store.Dataset{}, w, err
	}
	return exports, imports, resolved, nil
}

// compute runs fn inside a span unless the memo cache already holds the result
func compute[V any](ctx context.Context, s *AnalyticsService, op, cacheKey string, fn func(context.Context) (V, error)) (V, error) {
	ctx, span := s.tracer.Start(ctx, "analytics."+op, trace.WithAttributes(
		attribute.String("analysis", op),
	))
	defer span.End()

	var computed atomic.Bool
	start := time.Now()
	v, hit, err := memo.Load(ctx, s.cache, memo.Key(op, cacheKey), func(ctx context.Context) (V, error) {
		computed.Store(true)
		return fn(ctx)
	})
	s.metrics.RecordCacheLookup(ctx, op, hit)
	span.SetAttributes(attribute.Bool("cache.hit", hit))

	if computed.Load() {
		s.metrics.RecordAnalysis(ctx, op, time.Since(start), err)
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "analysis failed", slog.String("analysis", op), slog.String("error", err.Error()))
		return v, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.DebugContext(ctx, "analysis served",
		slog.String("analysis", op),
		slog.Bool("cache_hit", hit),
		slog.Duration("duration", time.Since(start)),
	)
	return v, nil
}

// key combines a dataset fingerprint, the resolved window and extra parameters
func key(ds store.Dataset, w Window, extra ...string) string {
	parts := append([]string{string(ds.Flow), ds.Fingerprint, w.String()}, extra...)
	return strings.Join(parts, "|")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
