package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"vitiscli/pkg/contracts/domain"
)

// ParseWorkbook reads a wide table from an XLSX workbook. An empty sheet name
// selects the first sheet.
func ParseWorkbook(path, sheet string, opts WideOptions) ([]domain.TradeRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return ParseRows(rows, opts)
}
