package analytics

import (
	"sort"

	"vitiscli/pkg/contracts/domain"
)

// Price returns value per liter. Zero volume yields Undefined, never zero.
func Price(value, volume float64) Ratio {
	return Div(value, volume)
}

// MarketShares computes each category's fraction of total value over the full
// population. The result is ordered by share descending; the sort is stable
// over the key-ascending order of groups, so exact ties rank alphabetically.
// When the total is not positive every share is Undefined.
func MarketShares(groups []Group[string]) []Share {
	total := 0.0
	for _, g := range groups {
		total += g.TotalValue
	}

	shares := make([]Share, len(groups))
	for i, g := range groups {
		s := Undefined
		if total > 0 {
			s = Ratio(g.TotalValue / total)
		}
		shares[i] = Share{Category: g.Key, Value: g.TotalValue, Share: s}
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Share.Or(0) > shares[j].Share.Or(0)
	})
	return shares
}

// CategoryShares aggregates records per category and returns the distribution
func CategoryShares(records []domain.TradeRecord) []Share {
	return MarketShares(GroupByCategory(records))
}

// RankedCategory is a category group with its share of total value in percent
type RankedCategory struct {
	Group[string]
	SharePct Ratio `json:"share_pct"`
}

// TopCategories returns the n categories with the largest metric, each with
// its percentage of total value across all categories. Ties keep alphabetical order.
func TopCategories(records []domain.TradeRecord, n int, metric Metric) []RankedCategory {
	groups := GroupByCategory(records)

	total := 0.0
	for _, g := range groups {
		total += g.TotalValue
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if metric == MetricVolume {
			return groups[i].TotalVolume > groups[j].TotalVolume
		}
		return groups[i].TotalValue > groups[j].TotalValue
	})

	if n < len(groups) {
		groups = groups[:n]
	}

	out := make([]RankedCategory, len(groups))
	for i, g := range groups {
		out[i] = RankedCategory{Group: g, SharePct: percentOf(g.TotalValue, total)}
	}
	return out
}

// percentOf returns part/total*100, Undefined when total is not positive
func percentOf(part, total float64) Ratio {
	if total <= 0 {
		return Undefined
	}
	return Ratio(part / total * 100)
}
