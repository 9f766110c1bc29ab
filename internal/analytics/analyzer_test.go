package analytics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitiscli/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAnalyzer(t *testing.T) {
	a, err := NewAnalyzer(DefaultParams(), nil)
	require.NoError(t, err)
	assert.Equal(t, 15, a.Params().TopN)

	bad := DefaultParams()
	bad.Bands = BandThresholds{Low: 5, High: 1}
	_, err = NewAnalyzer(bad, nil)
	assert.Error(t, err)

	bad = DefaultParams()
	bad.TopK = []int{0}
	_, err = NewAnalyzer(bad, nil)
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	var exports []domain.TradeRecord
	exports = append(exports, growthSeries("Paraguay", 2016, 8, 10)...)
	exports = append(exports, growthSeries("Russia", 2016, 8, 1)...)
	imports := []domain.TradeRecord{
		rec("Chile", 2022, 100, 400),
		rec("Argentina", 2023, 100, 300),
		rec("Argentina", 2024, 100, 300),
	}

	a, err := NewAnalyzer(DefaultParams(), quietLogger())
	require.NoError(t, err)

	report, err := a.Analyze(context.Background(), exports, imports)
	require.NoError(t, err)

	assert.Equal(t, domain.FlowExport, report.Export.Flow)
	assert.Equal(t, domain.FlowImport, report.Import.Flow)
	assert.Equal(t, 2, report.Export.Summary.Categories)
	assert.Equal(t, 2, report.Import.Concentration.Categories)

	require.Len(t, report.Export.GrowingMarkets, 1)
	assert.Equal(t, "Paraguay", report.Export.GrowingMarkets[0].Category)

	require.Len(t, report.Comparison, 9)
	assert.Equal(t, 2024, report.Comparison[8].Year)
	assert.False(t, report.Comparison[8].ExportPrice.Defined())

	require.Len(t, report.Scenarios, 3)
	assert.Equal(t, 2024, report.Scenarios[0].BaseYear)
	assert.Equal(t, 0.0, report.Scenarios[0].BaseValue)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price_gap_pct":null`)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	var exports []domain.TradeRecord
	exports = append(exports, growthSeries("A", 2010, 10, 7)...)
	exports = append(exports, growthSeries("B", 2012, 6, 9)...)
	exports = append(exports, growthSeries("C", 2010, 3, 2)...)

	a, err := NewAnalyzer(DefaultParams(), quietLogger())
	require.NoError(t, err)

	first, err := a.Analyze(context.Background(), exports, exports)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), exports, exports)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestAnalyzeEmpty(t *testing.T) {
	a, err := NewAnalyzer(DefaultParams(), quietLogger())
	require.NoError(t, err)

	report, err := a.Analyze(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Comparison)
	assert.Empty(t, report.Scenarios)
	assert.Equal(t, LevelUndetermined, report.Export.Concentration.Level)
}
