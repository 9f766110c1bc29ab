// Package store persists processed trade series. The csv driver keeps one
// file per flow in the processed directory; the postgres driver keeps every
// flow in a single trade_records table.
package store
