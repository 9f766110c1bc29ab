package analytics

import (
	"vitiscli/pkg/contracts/domain"
)

// Summary holds headline figures for one dataset
type Summary struct {
	TotalVolume float64 `json:"total_volume"`
	TotalValue  float64 `json:"total_value"`
	AvgPrice    Ratio   `json:"avg_price"`
	Years       int     `json:"years"`
	Categories  int     `json:"categories"`
	FirstYear   int     `json:"first_year"`
	LastYear    int     `json:"last_year"`
	Records     int     `json:"records"`
}

// Summarize computes headline totals. An empty input yields zero totals and
// an undefined average price.
func Summarize(records []domain.TradeRecord) Summary {
	s := Summary{AvgPrice: Undefined, Records: len(records)}
	years := make(map[int]struct{})
	categories := make(map[string]struct{})

	for i, r := range records {
		s.TotalVolume += r.Volume
		s.TotalValue += r.Value
		years[r.Year] = struct{}{}
		categories[r.Category] = struct{}{}
		if i == 0 || r.Year < s.FirstYear {
			s.FirstYear = r.Year
		}
		if i == 0 || r.Year > s.LastYear {
			s.LastYear = r.Year
		}
	}

	s.AvgPrice = Price(s.TotalValue, s.TotalVolume)
	s.Years = len(years)
	s.Categories = len(categories)
	return s
}

// YearlyTrend is one year of aggregate activity with change vs the prior year
type YearlyTrend struct {
	Year            int     `json:"year"`
	Volume          float64 `json:"volume"`
	Value           float64 `json:"value"`
	Categories      int     `json:"categories"`
	Price           Ratio   `json:"price"`
	VolumeGrowthPct Ratio   `json:"volume_growth_pct"`
	ValueGrowthPct  Ratio   `json:"value_growth_pct"`
}

// YearlyTrends aggregates records per year and computes year-over-year
// growth against the previous row present. The first year, and any year whose
// predecessor is zero, has Undefined growth.
func YearlyTrends(records []domain.TradeRecord) []YearlyTrend {
	type yearKey struct {
		year     int
		category string
	}
	pairs := Aggregate(records, func(r domain.TradeRecord) yearKey {
		return yearKey{year: r.Year, category: r.Category}
	})
	categories := make(map[int]int)
	for k := range pairs {
		categories[k.year]++
	}

	groups := GroupByYear(records)
	out := make([]YearlyTrend, len(groups))
	for i, g := range groups {
		t := YearlyTrend{
			Year:            g.Key,
			Volume:          g.TotalVolume,
			Value:           g.TotalValue,
			Categories:      categories[g.Key],
			Price:           g.Price,
			VolumeGrowthPct: Undefined,
			ValueGrowthPct:  Undefined,
		}
		if i > 0 {
			prev := groups[i-1]
			t.VolumeGrowthPct = change(prev.TotalVolume, g.TotalVolume)
			t.ValueGrowthPct = change(prev.TotalValue, g.TotalValue)
		}
		out[i] = t
	}
	return out
}

// change returns (current/previous - 1) * 100
func change(previous, current float64) Ratio {
	r := Div(current, previous)
	if !r.Defined() {
		return Undefined
	}
	return Ratio((float64(r) - 1) * 100)
}
