package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"vitiscli/internal/analytics"
)

// Report table file names
const (
	ComparisonFile     = "comparison_exp_imp.csv"
	GrowingMarketsFile = "growing_markets.csv"
	PriceSegmentsFile  = "price_segments.csv"
	YearlyTrendsFile   = "yearly_trends.csv"
	ConcentrationFile  = "concentration.csv"
	ScenariosFile      = "scenarios.csv"
)

// ReportExporter writes every table of an analytics.Report
type ReportExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates an exporter writing through w
func NewReportExporter(w *CSVWriter, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{writer: w, logger: logger}
}

// ExportReport writes all report tables and returns their paths in a fixed order
func (e *ReportExporter) ExportReport(report *analytics.Report) ([]string, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}

	steps := []func(*analytics.Report) (string, error){
		func(r *analytics.Report) (string, error) { return e.ExportComparison(r.Comparison) },
		func(r *analytics.Report) (string, error) { return e.ExportGrowingMarkets(r.Export, r.Import) },
		func(r *analytics.Report) (string, error) { return e.ExportPriceSegments(r.Export, r.Import) },
		func(r *analytics.Report) (string, error) { return e.ExportYearlyTrends(r.Export, r.Import) },
		func(r *analytics.Report) (string, error) {
			return e.ExportConcentration(r.Params.TopK, r.Export, r.Import)
		},
		func(r *analytics.Report) (string, error) { return e.ExportScenarios(r.Scenarios) },
	}

	paths := make([]string, 0, len(steps))
	for _, step := range steps {
		path, err := step(report)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	e.logger.Info("report tables exported",
		slog.String("dir", e.writer.Dir()),
		slog.Int("tables", len(paths)))
	return paths, nil
}

// ExportComparison writes the yearly export/import comparison
func (e *ReportExporter) ExportComparison(rows []analytics.ComparisonRow) (string, error) {
	headers := []string{
		"year", "export_volume", "export_value", "import_volume", "import_value",
		"balance_volume", "balance_value", "export_price", "import_price", "price_gap_pct",
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatInt(r.Year),
			formatFloat(r.ExportVolume),
			formatFloat(r.ExportValue),
			formatFloat(r.ImportVolume),
			formatFloat(r.ImportValue),
			formatFloat(r.BalanceVolume),
			formatFloat(r.BalanceValue),
			formatRatio(r.ExportPrice),
			formatRatio(r.ImportPrice),
			formatRatio(r.PriceGapPct),
		})
	}
	return e.writer.WriteSimpleCSV(ComparisonFile, headers, records)
}

// ExportGrowingMarkets writes the growing markets of each flow
func (e *ReportExporter) ExportGrowingMarkets(flows ...analytics.FlowReport) (string, error) {
	headers := []string{"flow", "category", "cagr_value_pct", "cagr_volume_pct", "total_value", "total_volume", "years_observed"}
	var records [][]string
	for _, f := range flows {
		for _, g := range f.GrowingMarkets {
			records = append(records, []string{
				string(f.Flow),
				g.Category,
				formatFloat(g.CAGRValue),
				formatFloat(g.CAGRVolume),
				formatFloat(g.TotalValue),
				formatFloat(g.TotalVolume),
				formatInt(g.YearsObserved),
			})
		}
	}
	return e.writer.WriteSimpleCSV(GrowingMarketsFile, headers, records)
}

// ExportPriceSegments writes each category's price and band
func (e *ReportExporter) ExportPriceSegments(flows ...analytics.FlowReport) (string, error) {
	headers := []string{"flow", "category", "total_value", "total_volume", "price", "band"}
	var records [][]string
	for _, f := range flows {
		for _, c := range f.Segmentation.Categories {
			records = append(records, []string{
				string(f.Flow),
				c.Category,
				formatFloat(c.TotalValue),
				formatFloat(c.TotalVolume),
				formatRatio(c.Price),
				string(c.Band),
			})
		}
	}
	return e.writer.WriteSimpleCSV(PriceSegmentsFile, headers, records)
}

// ExportYearlyTrends writes per-year totals and growth of each flow
func (e *ReportExporter) ExportYearlyTrends(flows ...analytics.FlowReport) (string, error) {
	headers := []string{"flow", "year", "volume", "value", "categories", "price", "volume_growth_pct", "value_growth_pct"}
	var records [][]string
	for _, f := range flows {
		for _, t := range f.Trends {
			records = append(records, []string{
				string(f.Flow),
				formatInt(t.Year),
				formatFloat(t.Volume),
				formatFloat(t.Value),
				formatInt(t.Categories),
				formatRatio(t.Price),
				formatRatio(t.VolumeGrowthPct),
				formatRatio(t.ValueGrowthPct),
			})
		}
	}
	return e.writer.WriteSimpleCSV(YearlyTrendsFile, headers, records)
}

// ExportConcentration writes one row per flow with a top-K column per k
func (e *ReportExporter) ExportConcentration(ks []int, flows ...analytics.FlowReport) (string, error) {
	headers := []string{"flow", "hhi", "level", "categories"}
	for _, k := range ks {
		headers = append(headers, "top"+strconv.Itoa(k)+"_pct")
	}

	records := make([][]string, 0, len(flows))
	for _, f := range flows {
		c := f.Concentration
		row := []string{string(f.Flow), formatRatio(c.HHI), string(c.Level), formatInt(c.Categories)}
		for _, k := range ks {
			row = append(row, formatRatio(c.TopPct(k)))
		}
		records = append(records, row)
	}
	return e.writer.WriteSimpleCSV(ConcentrationFile, headers, records)
}

// ExportScenarios writes one row per scenario and projected year
func (e *ReportExporter) ExportScenarios(projections []analytics.Projection) (string, error) {
	headers := []string{"scenario", "base_year", "base_value", "year", "projected_value"}
	var records [][]string
	for _, p := range projections {
		for _, pt := range p.Points {
			records = append(records, []string{
				p.Scenario,
				formatInt(p.BaseYear),
				formatFloat(p.BaseValue),
				formatInt(pt.Year),
				formatFloat(pt.Value),
			})
		}
	}
	return e.writer.WriteSimpleCSV(ScenariosFile, headers, records)
}
