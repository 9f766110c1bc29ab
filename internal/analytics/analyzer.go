package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vitiscli/pkg/contracts/domain"
)

// FlowReport gathers every per-dataset table for one flow
type FlowReport struct {
	Flow           domain.Flow      `json:"flow"`
	Summary        Summary          `json:"summary"`
	Concentration  Concentration    `json:"concentration"`
	Segmentation   Segmentation     `json:"segmentation"`
	Trends         []YearlyTrend    `json:"trends"`
	TopCategories  []RankedCategory `json:"top_categories"`
	GrowingMarkets []GrowthRecord   `json:"growing_markets"`
}

// Report is the full set of tables computed from an export and an import series
type Report struct {
	Params     Params          `json:"params"`
	Export     FlowReport      `json:"export"`
	Import     FlowReport      `json:"import"`
	Comparison []ComparisonRow `json:"comparison"`
	Scenarios  []Projection    `json:"scenarios"`
}

// Analyzer runs every analysis with one set of parameters
type Analyzer struct {
	params Params
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(params Params, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis parameters: %w", err)
	}
	return &Analyzer{params: params, logger: logger}, nil
}

// Params returns the analyzer's parameters
func (a *Analyzer) Params() Params {
	return a.params
}

// AnalyzeFlow computes every single-dataset table for records
func (a *Analyzer) AnalyzeFlow(flow domain.Flow, records []domain.TradeRecord) FlowReport {
	return FlowReport{
		Flow:           flow,
		Summary:        Summarize(records),
		Concentration:  AnalyzeConcentration(records, a.params.TopK...),
		Segmentation:   SegmentByPrice(records, a.params.Bands),
		Trends:         YearlyTrends(records),
		TopCategories:  TopCategories(records, a.params.TopN, MetricValue),
		GrowingMarkets: GrowingMarkets(records, a.params.Growth),
	}
}

// Analyze builds the full report. Scenarios are projected from the export
// value of the latest comparison year; with no comparison rows they are omitted.
func (a *Analyzer) Analyze(ctx context.Context, exports, imports []domain.TradeRecord) (*Report, error) {
	start := time.Now()
	a.logger.InfoContext(ctx, "starting trade analysis",
		"export_records", len(exports),
		"import_records", len(imports),
	)

	report := &Report{
		Params:     a.params,
		Export:     a.AnalyzeFlow(domain.FlowExport, exports),
		Import:     a.AnalyzeFlow(domain.FlowImport, imports),
		Comparison: CompareFlows(exports, imports),
	}

	if n := len(report.Comparison); n > 0 {
		last := report.Comparison[n-1]
		projections, err := Project(last.Year, last.ExportValue, a.params.Scenarios)
		if err != nil {
			return nil, fmt.Errorf("project scenarios: %w", err)
		}
		report.Scenarios = projections
	} else {
		a.logger.WarnContext(ctx, "no comparison years available, skipping scenarios")
	}

	a.logger.InfoContext(ctx, "trade analysis completed",
		"duration", time.Since(start),
		"comparison_years", len(report.Comparison),
		"growing_markets", len(report.Export.GrowingMarkets),
		"export_hhi", report.Export.Concentration.HHI.String(),
	)
	return report, nil
}
