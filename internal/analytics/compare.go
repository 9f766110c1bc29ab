package analytics

import (
	"sort"

	"vitiscli/pkg/contracts/domain"
)

// BuildComparison outer-joins yearly export and import groups. A year missing
// on one side is kept with zero volume and value for that side, and its price
// on that side is Undefined. Rows are ordered by year.
func BuildComparison(exports, imports []Group[int]) []ComparisonRow {
	rows := make(map[int]*ComparisonRow, len(exports)+len(imports))
	row := func(year int) *ComparisonRow {
		r, ok := rows[year]
		if !ok {
			r = &ComparisonRow{Year: year}
			rows[year] = r
		}
		return r
	}

	for _, g := range exports {
		r := row(g.Key)
		r.ExportVolume += g.TotalVolume
		r.ExportValue += g.TotalValue
	}
	for _, g := range imports {
		r := row(g.Key)
		r.ImportVolume += g.TotalVolume
		r.ImportValue += g.TotalValue
	}

	out := make([]ComparisonRow, 0, len(rows))
	for _, r := range rows {
		r.BalanceVolume = r.ExportVolume - r.ImportVolume
		r.BalanceValue = r.ExportValue - r.ImportValue
		r.ExportPrice = Price(r.ExportValue, r.ExportVolume)
		r.ImportPrice = Price(r.ImportValue, r.ImportVolume)
		r.PriceGapPct = PriceGap(r.ExportPrice, r.ImportPrice)
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// PriceGap returns how much dearer imports are than exports, in percent.
// It is defined only for a positive export price and a defined import price.
func PriceGap(exportPrice, importPrice Ratio) Ratio {
	if !exportPrice.Defined() || float64(exportPrice) <= 0 || !importPrice.Defined() {
		return Undefined
	}
	return Ratio((float64(importPrice)/float64(exportPrice) - 1) * 100)
}

// CompareFlows aggregates both flows by year and joins them
func CompareFlows(exports, imports []domain.TradeRecord) []ComparisonRow {
	return BuildComparison(GroupByYear(exports), GroupByYear(imports))
}
