package analytics

import (
	"math"
	"sort"

	"vitiscli/pkg/contracts/domain"
)

// Point is one year of a category sub-series
type Point struct {
	Year   int     `json:"year"`
	Volume float64 `json:"volume"`
	Value  float64 `json:"value"`
}

// Series is a sub-series ordered by year ascending with one point per year
type Series []Point

// TotalValue sums value across the series
func (s Series) TotalValue() float64 {
	total := 0.0
	for _, p := range s {
		total += p.Value
	}
	return total
}

// TotalVolume sums volume across the series
func (s Series) TotalVolume() float64 {
	total := 0.0
	for _, p := range s {
		total += p.Volume
	}
	return total
}

// SeriesByCategory builds every per-category sub-series in one pass over
// records. Rows sharing a category and year are summed into a single point.
func SeriesByCategory(records []domain.TradeRecord) map[string]Series {
	type key struct {
		category string
		year     int
	}
	totals := Aggregate(records, func(r domain.TradeRecord) key {
		return key{category: r.Category, year: r.Year}
	})

	out := make(map[string]Series)
	for k, t := range totals {
		out[k.category] = append(out[k.category], Point{Year: k.year, Volume: t.Volume, Value: t.Value})
	}
	for c := range out {
		s := out[c]
		sort.Slice(s, func(i, j int) bool { return s[i].Year < s[j].Year })
	}
	return out
}

// CAGR returns the compound annual growth rate of metric over series, in
// percent. The span is last year minus first year, so gaps do not stretch
// the exponent. A zero initial value or a zero span yields 0.
func CAGR(series Series, metric Metric) float64 {
	if len(series) == 0 {
		return 0
	}
	first, last := series[0], series[len(series)-1]
	initial, final := first.Value, last.Value
	if metric == MetricVolume {
		initial, final = first.Volume, last.Volume
	}
	return CompoundGrowth(initial, final, last.Year-first.Year)
}

// CompoundGrowth returns ((final/initial)^(1/years) - 1) * 100, or 0 when
// initial is zero or years is zero. The zero fallback understates growth
// from a zero base; reported figures depend on it.
func CompoundGrowth(initial, final float64, years int) float64 {
	if initial == 0 || years == 0 {
		return 0
	}
	return (math.Pow(final/initial, 1/float64(years)) - 1) * 100
}

// GrowingMarkets returns categories with at least criteria.MinYears distinct
// years of history whose value CAGR reaches criteria.MinCAGR, ordered by value
// CAGR descending with ties broken by category. Categories with too little
// history are omitted whatever their growth.
func GrowingMarkets(records []domain.TradeRecord, criteria GrowthCriteria) []GrowthRecord {
	all := SeriesByCategory(records)

	out := make([]GrowthRecord, 0)
	for category, s := range all {
		if len(s) < criteria.MinYears {
			continue
		}
		cagrValue := CAGR(s, MetricValue)
		if cagrValue < criteria.MinCAGR {
			continue
		}
		out = append(out, GrowthRecord{
			Category:      category,
			CAGRValue:     cagrValue,
			CAGRVolume:    CAGR(s, MetricVolume),
			TotalValue:    s.TotalValue(),
			TotalVolume:   s.TotalVolume(),
			YearsObserved: len(s),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CAGRValue != out[j].CAGRValue {
			return out[i].CAGRValue > out[j].CAGRValue
		}
		return out[i].Category < out[j].Category
	})
	return out
}
