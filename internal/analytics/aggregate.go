package analytics

import (
	"cmp"
	"sort"

	"vitiscli/pkg/contracts/domain"
)

// Aggregate groups records by the key returned from key and sums volume and
// value. Records are expected to be validated already; nothing is filtered.
// Keys absent from the input have no entry.
func Aggregate[K comparable](records []domain.TradeRecord, key func(domain.TradeRecord) K) map[K]Totals {
	out := make(map[K]Totals)
	for _, r := range records {
		k := key(r)
		t := out[k]
		t.Volume += r.Volume
		t.Value += r.Value
		t.Records++
		out[k] = t
	}
	return out
}

// ByCategory keys a record by partner country
func ByCategory(r domain.TradeRecord) string { return r.Category }

// ByYear keys a record by year
func ByYear(r domain.TradeRecord) int { return r.Year }

// Groups derives prices for aggregated totals and returns them ordered by key
// ascending. That key order is the base order every ranking builds on.
func Groups[K cmp.Ordered](totals map[K]Totals) []Group[K] {
	groups := make([]Group[K], 0, len(totals))
	for k, t := range totals {
		groups = append(groups, Group[K]{
			Key:         k,
			TotalVolume: t.Volume,
			TotalValue:  t.Value,
			Price:       Price(t.Value, t.Volume),
			Records:     t.Records,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// GroupByCategory aggregates records per country
func GroupByCategory(records []domain.TradeRecord) []Group[string] {
	return Groups(Aggregate(records, ByCategory))
}

// GroupByYear aggregates records per year
func GroupByYear(records []domain.TradeRecord) []Group[int] {
	return Groups(Aggregate(records, ByYear))
}

// FilterYears keeps records whose year lies in [start, end]. A zero bound is open.
func FilterYears(records []domain.TradeRecord, start, end int) []domain.TradeRecord {
	out := make([]domain.TradeRecord, 0, len(records))
	for _, r := range records {
		if start != 0 && r.Year < start {
			continue
		}
		if end != 0 && r.Year > end {
			continue
		}
		out = append(out, r)
	}
	return out
}
