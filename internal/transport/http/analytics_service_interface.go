package http

import (
	"context"

	"vitiscli/internal/analytics"
	"vitiscli/internal/services"
	"vitiscli/pkg/contracts/domain"
)

// AnalyticsServiceInterface defines the analytics operations served over HTTP
type AnalyticsServiceInterface interface {
	Params() analytics.Params
	DefaultWindow() services.Window

	Summary(ctx context.Context, flow domain.Flow, w services.Window) (analytics.Summary, error)
	Concentration(ctx context.Context, flow domain.Flow, w services.Window, ks []int) (analytics.Concentration, error)
	GrowingMarkets(ctx context.Context, flow domain.Flow, w services.Window, criteria analytics.GrowthCriteria) ([]analytics.GrowthRecord, error)
	Segments(ctx context.Context, flow domain.Flow, w services.Window, thresholds analytics.BandThresholds) (analytics.Segmentation, error)
	Trends(ctx context.Context, flow domain.Flow, w services.Window) ([]analytics.YearlyTrend, error)
	TopCategories(ctx context.Context, flow domain.Flow, w services.Window, n int, metric analytics.Metric) ([]analytics.RankedCategory, error)
	Comparison(ctx context.Context, w services.Window) ([]analytics.ComparisonRow, error)
	Scenarios(ctx context.Context, w services.Window, baseYear int) ([]analytics.Projection, error)
	Report(ctx context.Context, w services.Window) (*analytics.Report, error)
}
