// Package services implements the application layer between the HTTP
// handlers and the analytics core.
//
// AnalyticsService loads trade series from a store.Store, applies the year
// window, and runs the analytics functions inside an OpenTelemetry span.
// Results are memoized by operation, parameters and dataset fingerprint, so
// a reprocessed dataset is never answered from a stale entry. Export and
// import series are loaded concurrently when an analysis needs both.
//
// HealthService reports liveness and readiness for the health endpoints.
//
// Argument errors are returned as *errors.AppError with the validation type;
// missing datasets surface as *errors.MissingInputError from the store.
package services
