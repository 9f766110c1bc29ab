package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vitiscli/internal/analytics"
	"vitiscli/pkg/contracts/domain"
)

// ProcessedHeader is the column layout of a processed dataset
var ProcessedHeader = []string{"category", "year", "volume_liters", "value_usd", "avg_price_usd_liter"}

// WriteProcessed writes records in the processed long format
func WriteProcessed(w io.Writer, records []domain.TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ProcessedHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Category,
			strconv.Itoa(r.Year),
			formatFloat(r.Volume),
			formatFloat(r.Value),
			analytics.Price(r.Value, r.Volume).Format(-1),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record for %s %d: %w", r.Category, r.Year, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadProcessed reads a processed dataset. Columns are located by name; the
// average price column is ignored since it is derived.
func ReadProcessed(r io.Reader) ([]domain.TradeRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF")] = i
	}
	for _, col := range ProcessedHeader[:4] {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("processed dataset is missing column %q", col)
		}
	}

	var records []domain.TradeRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[idx["year"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid year: %w", line, err)
		}
		volume, err := parseNumber(strings.TrimSpace(row[idx["volume_liters"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid volume: %w", line, err)
		}
		value, err := parseNumber(strings.TrimSpace(row[idx["value_usd"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value: %w", line, err)
		}

		records = append(records, domain.TradeRecord{
			Category: row[idx["category"]],
			Year:     year,
			Volume:   volume,
			Value:    value,
		})
	}
	return records, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
