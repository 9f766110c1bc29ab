package analytics

import (
	"cmp"
	"fmt"
)

// Metric selects which quantity of a record an analysis reads
type Metric string

const (
	// MetricValue selects the traded value in USD
	MetricValue Metric = "value"
	// MetricVolume selects the traded volume in liters
	MetricVolume Metric = "volume"
)

// IsValid reports whether the metric is supported
func (m Metric) IsValid() bool {
	return m == MetricValue || m == MetricVolume
}

// Totals holds summed quantities for one aggregation key
type Totals struct {
	Volume  float64
	Value   float64
	Records int
}

// pick returns the quantity selected by m
func (t Totals) pick(m Metric) float64 {
	if m == MetricVolume {
		return t.Volume
	}
	return t.Value
}

// Group is an aggregated key with its derived average price
type Group[K cmp.Ordered] struct {
	Key         K       `json:"key"`
	TotalVolume float64 `json:"total_volume"`
	TotalValue  float64 `json:"total_value"`
	Price       Ratio   `json:"price"` // USD per liter
	Records     int     `json:"records"`
}

// Share is one entry of a market-share distribution
type Share struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Share    Ratio   `json:"share"` // Fraction of total value in [0,1]
}

// ComparisonRow is one year of the export/import comparison table
type ComparisonRow struct {
	Year          int     `json:"year"`
	ExportVolume  float64 `json:"export_volume"`
	ExportValue   float64 `json:"export_value"`
	ImportVolume  float64 `json:"import_volume"`
	ImportValue   float64 `json:"import_value"`
	BalanceVolume float64 `json:"balance_volume"` // Negative means import-heavy
	BalanceValue  float64 `json:"balance_value"`
	ExportPrice   Ratio   `json:"export_price"`
	ImportPrice   Ratio   `json:"import_price"`
	PriceGapPct   Ratio   `json:"price_gap_pct"`
}

// GrowthRecord describes a category that qualified as a growing market
type GrowthRecord struct {
	Category      string  `json:"category"`
	CAGRValue     float64 `json:"cagr_value"`  // Percent
	CAGRVolume    float64 `json:"cagr_volume"` // Percent
	TotalValue    float64 `json:"total_value"`
	TotalVolume   float64 `json:"total_volume"`
	YearsObserved int     `json:"years_observed"`
}

// GrowthCriteria configures the growing-market filter
type GrowthCriteria struct {
	MinYears int     `json:"min_years"` // Distinct years of history required
	MinCAGR  float64 `json:"min_cagr"`  // Minimum value CAGR in percent
}

// DefaultGrowthCriteria returns the standard five years / five percent filter
func DefaultGrowthCriteria() GrowthCriteria {
	return GrowthCriteria{MinYears: 5, MinCAGR: 5}
}

// Validate checks the criteria are usable
func (g GrowthCriteria) Validate() error {
	if g.MinYears < 1 {
		return fmt.Errorf("min years must be at least 1, got %d", g.MinYears)
	}
	if !isFinite(g.MinCAGR) {
		return fmt.Errorf("min CAGR must be a finite percentage, got %v", g.MinCAGR)
	}
	return nil
}

// Params bundles every tunable used by the Analyzer
type Params struct {
	Bands     BandThresholds `json:"bands"`
	Growth    GrowthCriteria `json:"growth"`
	TopK      []int          `json:"top_k"`
	TopN      int            `json:"top_n"`
	Scenarios []Scenario     `json:"scenarios"`
}

// DefaultParams returns the parameters used by the original dashboards
func DefaultParams() Params {
	return Params{
		Bands:     DefaultBandThresholds(),
		Growth:    DefaultGrowthCriteria(),
		TopK:      []int{5, 10},
		TopN:      15,
		Scenarios: DefaultScenarios(),
	}
}

// Validate checks that every parameter group is usable
func (p Params) Validate() error {
	if err := p.Bands.Validate(); err != nil {
		return fmt.Errorf("bands: %w", err)
	}
	if err := p.Growth.Validate(); err != nil {
		return fmt.Errorf("growth: %w", err)
	}
	for _, k := range p.TopK {
		if k < 1 {
			return fmt.Errorf("top-k values must be positive, got %d", k)
		}
	}
	if p.TopN < 1 {
		return fmt.Errorf("top-n must be positive, got %d", p.TopN)
	}
	return nil
}
