package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "vitiscli/internal/errors"
	"vitiscli/internal/shared/testutil"
	"vitiscli/pkg/contracts/domain"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestLoaderLoadFlowCSV(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, RawFileNames[domain.FlowExport], testutil.RawExportCSV)
	logger, capture := testutil.NewTestLogger(t)

	loader := NewLoader(dir, DefaultWideOptions(), logger)
	records, err := loader.LoadFlow(context.Background(), domain.FlowExport)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	testutil.AssertLogContains(t, capture, slog.LevelInfo, "raw dataset ingested")
}

func TestLoaderLoadFlowMissing(t *testing.T) {
	loader := NewLoader(t.TempDir(), DefaultWideOptions(), nil)

	_, err := loader.LoadFlow(context.Background(), domain.FlowImport)
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingInput(err))
	assert.Contains(t, err.Error(), "Importacao.csv")
}

func TestLoaderLoadFlowUnknown(t *testing.T) {
	loader := NewLoader(t.TempDir(), DefaultWideOptions(), nil)
	_, err := loader.LoadFlow(context.Background(), domain.Flow("transit"))
	assert.Error(t, err)
}

func TestLoaderFallsBackToWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "Importacao.xlsx"), [][]any{
		{"Id", "País", "2020", "2020", "2021", "2021"},
		{1, "Chile", 3000, 6000, 3200, 6600},
		{2, "Argentina", "-", "-", 1500, 4500},
	})

	records, err := NewLoader(dir, DefaultWideOptions(), nil).LoadFlow(context.Background(), domain.FlowImport)
	require.NoError(t, err)
	assert.Equal(t, []domain.TradeRecord{
		{Category: "Chile", Year: 2020, Volume: 3000, Value: 6000},
		{Category: "Chile", Year: 2021, Volume: 3200, Value: 6600},
		{Category: "Argentina", Year: 2021, Volume: 1500, Value: 4500},
	}, records)
}

func TestParseWorkbookErrors(t *testing.T) {
	_, err := ParseWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"), "", DefaultWideOptions())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeWorkbook(t, path, [][]any{{"Id", "País", "2020", "2020"}})
	_, err = ParseWorkbook(path, "Missing", DefaultWideOptions())
	assert.Error(t, err)
}

func TestReadFileDispatch(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "raw.txt", testutil.RawExportCSV)

	records, err := ReadFile(path, DefaultWideOptions())
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, err = ReadFile(filepath.Join(dir, "nope.csv"), DefaultWideOptions())
	assert.Error(t, err)
}
