// Package middleware provides the HTTP middleware chain: request IDs,
// structured request logging, rate limiting, timeouts, CORS, security headers
// and OpenTelemetry instrumentation.
package middleware
