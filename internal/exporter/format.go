package exporter

import (
	"strconv"

	"vitiscli/internal/analytics"
)

// formatFloat renders f with the shortest exact representation
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatRatio renders r, leaving undefined ratios as an empty cell
func formatRatio(r analytics.Ratio) string {
	return r.Format(-1)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
