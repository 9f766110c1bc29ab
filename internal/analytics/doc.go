// Package analytics computes market-structure statistics over yearly wine
// trade records.
//
// Every function is a pure computation over an immutable slice of
// domain.TradeRecord. Degenerate arithmetic never returns an error: a zero
// denominator produces the Undefined Ratio, which renders as null in JSON
// and as an empty cell in CSV.
//
// # Components
//
//   - aggregate.go: grouping by category or year with summed volume and value
//   - derived.go: average price, market shares and top categories
//   - bands.go: low / mid / high price segmentation
//   - concentration.go: Herfindahl-Hirschman index and top-K shares
//   - growth.go: per-category CAGR and the growing-market filter
//   - compare.go: export/import outer join with balance and price gap
//   - trends.go: headline summary and year-over-year trends
//   - scenario.go: multiplier-based value projections
//   - analyzer.go: runs everything with one set of Params
//
// # Ordering
//
// Groups are ordered by key ascending. Rankings sort stably on top of that
// order, so categories with equal shares or values appear alphabetically.
package analytics
