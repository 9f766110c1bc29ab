// Package http implements the JSON handlers of the trade analytics API.
// Handlers stay thin: they parse and validate query parameters, call the
// analytics service and render the result.
//
// # Endpoints
//
// All analytics endpoints are GET and accept optional start and end years.
// Single-dataset endpoints also require flow=export|import.
//
//	/api/analytics/summary        headline totals
//	/api/analytics/concentration  HHI and top-K shares (k=5,10)
//	/api/analytics/growth         growing markets (min_years, min_cagr)
//	/api/analytics/segments       price bands (low, high)
//	/api/analytics/trends         yearly totals and growth
//	/api/analytics/top            top categories (n, metric=value|volume)
//	/api/analytics/comparison     export/import by year
//	/api/analytics/scenarios      value projections (base_year)
//	/api/analytics/report         every table at once
//
// Parameters that are omitted fall back to the configured analysis defaults.
//
// /api/files lists the raw, processed and report files on disk, and
// /api/files/reports/{name} downloads one exported CSV table.
//
// # Errors
//
// Every failure is rendered as RFC 7807 problem details by
// errors.ErrorHandler. Unparseable or out-of-range parameters answer 400,
// an inverted year range 422 and a missing dataset 503.
package http
