// Package exporter writes analysis tables as CSV files.
//
// CSVWriter handles the file mechanics: directory creation, an optional UTF-8
// BOM and atomic replacement. ReportExporter turns an analytics.Report into
// the report tables:
//
//	comparison_exp_imp.csv   export/import comparison by year
//	growing_markets.csv      categories passing the growth filter
//	price_segments.csv       per-category price and band
//	yearly_trends.csv        per-year totals and growth
//	concentration.csv        HHI and top-K shares per flow
//	scenarios.csv            projected export values
//
// Undefined ratios are written as empty cells.
package exporter
