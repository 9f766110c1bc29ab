package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"vitiscli/pkg/contracts/domain"
)

// Raw file layout
const (
	countryColumn   = "País"
	firstYearColumn = 2
	rawComma        = ';'
)

// ErrNoHeader is returned when a raw table has no usable header row
var ErrNoHeader = errors.New("raw table has no header row with year columns")

// WideOptions controls wide-to-long conversion
type WideOptions struct {
	StartYear int  // Inclusive; 0 keeps every year
	EndYear   int  // Inclusive; 0 keeps every year
	Comma     rune // Field separator for delimited files
}

// DefaultWideOptions returns the 2009 to 2023 window with ';' separated fields
func DefaultWideOptions() WideOptions {
	return WideOptions{StartYear: 2009, EndYear: 2023, Comma: rawComma}
}

func (o WideOptions) inWindow(year int) bool {
	if o.StartYear != 0 && year < o.StartYear {
		return false
	}
	if o.EndYear != 0 && year > o.EndYear {
		return false
	}
	return true
}

// yearColumn is a quantity/value column pair for one year
type yearColumn struct {
	year     int
	quantity int
	value    int
}

// ParseWide reads a delimited wide table
func ParseWide(r io.Reader, opts WideOptions) ([]domain.TradeRecord, error) {
	if opts.Comma == 0 {
		opts.Comma = rawComma
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read wide table: %w", err)
	}
	return ParseRows(rows, opts)
}

// ParseRows converts already split wide rows. The first row is the header.
func ParseRows(rows [][]string, opts WideOptions) ([]domain.TradeRecord, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	header := append([]string(nil), rows[0]...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	country, columns, err := layout(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.TradeRecord, 0, len(rows))
	for i, row := range rows[1:] {
		line := i + 2
		if country >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[country])
		if name == "" {
			continue
		}

		for _, col := range columns {
			if !opts.inWindow(col.year) {
				continue
			}
			quantity, ok, err := cell(row, col.quantity)
			if err != nil {
				return nil, fmt.Errorf("line %d, %s quantity for %d: %w", line, name, col.year, err)
			}
			if !ok {
				continue
			}
			value, ok, err := cell(row, col.value)
			if err != nil {
				return nil, fmt.Errorf("line %d, %s value for %d: %w", line, name, col.year, err)
			}
			if !ok || quantity <= 0 || value <= 0 {
				continue
			}
			records = append(records, domain.TradeRecord{
				Category: name,
				Year:     col.year,
				Volume:   quantity,
				Value:    value,
			})
		}
	}
	return records, nil
}

// layout locates the country column and every year pair in the header.
// Duplicate year headers and pandas style "1970.1" suffixes are both accepted.
func layout(header []string) (int, []yearColumn, error) {
	country := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), countryColumn) {
			country = i
			break
		}
	}
	if country < 0 {
		if len(header) < firstYearColumn {
			return 0, nil, ErrNoHeader
		}
		country = firstYearColumn - 1
	}

	var columns []yearColumn
	for i := country + 1; i+1 < len(header); i += 2 {
		label := strings.TrimSpace(header[i])
		label, _, _ = strings.Cut(label, ".")
		year, err := strconv.Atoi(label)
		if err != nil {
			continue
		}
		columns = append(columns, yearColumn{year: year, quantity: i, value: i + 1})
	}
	if len(columns) == 0 {
		return 0, nil, ErrNoHeader
	}
	return country, columns, nil
}

// cell parses a numeric cell. Empty cells and dashes report ok=false.
func cell(row []string, idx int) (float64, bool, error) {
	if idx >= len(row) {
		return 0, false, nil
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" || raw == "-" || strings.EqualFold(raw, "nd") {
		return 0, false, nil
	}
	v, err := parseNumber(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// parseNumber accepts finite decimals only
func parseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}
