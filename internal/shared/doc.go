// Package shared holds helpers used by more than one layer of vitiscli.
//
// testutil provides a capturing slog handler and small trade datasets used
// by package tests. Nothing here carries domain logic.
package shared
