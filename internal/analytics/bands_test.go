package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitiscli/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	th := DefaultBandThresholds()

	tests := []struct {
		name  string
		price Ratio
		want  PriceBand
	}{
		{"zero", 0, BandLow},
		{"below low", 1.49, BandLow},
		{"exactly low", 1.5, BandMid},
		{"between", 2.2, BandMid},
		{"just below high", 2.9999, BandMid},
		{"exactly high", 3.0, BandHigh},
		{"above high", 12, BandHigh},
		{"undefined", Undefined, BandUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Classify(tt.price))
		})
	}
}

func TestBandThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultBandThresholds().Validate())
	assert.Error(t, BandThresholds{Low: -1, High: 2}.Validate())
	assert.Error(t, BandThresholds{Low: 3, High: 3}.Validate())
	assert.Error(t, BandThresholds{Low: 4, High: 3}.Validate())
	assert.Error(t, BandThresholds{Low: math.NaN(), High: 3}.Validate())
	assert.Error(t, BandThresholds{Low: 1.5, High: math.NaN()}.Validate())
	assert.Error(t, BandThresholds{Low: 1.5, High: math.Inf(1)}.Validate())
}

func TestSegmentByPrice(t *testing.T) {
	records := []domain.TradeRecord{
		rec("Cheap", 2020, 100, 100),   // 1.00
		rec("Middle", 2020, 100, 150),  // 1.50
		rec("Middle", 2021, 100, 250),  // aggregate 2.00
		rec("Premium", 2020, 10, 30),   // 3.00
		rec("Alsocheap", 2020, 10, 12), // 1.20
	}

	seg := SegmentByPrice(records, DefaultBandThresholds())

	assert.Equal(t, []string{"Alsocheap", "Cheap"}, seg.Segments[BandLow])
	assert.Equal(t, []string{"Middle"}, seg.Segments[BandMid])
	assert.Equal(t, []string{"Premium"}, seg.Segments[BandHigh])
	require.Len(t, seg.Categories, 4)

	require.Len(t, seg.Bands, 3)
	assert.Equal(t, BandLow, seg.Bands[0].Band)
	assert.Equal(t, 2, seg.Bands[0].Categories)
	assert.Equal(t, 112.0, seg.Bands[0].TotalValue)

	total := 0.0
	for _, b := range seg.Bands {
		total += b.ValuePct.Float64()
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestSegmentByPriceCustomThresholds(t *testing.T) {
	records := []domain.TradeRecord{rec("A", 2020, 1, 2)}
	seg := SegmentByPrice(records, BandThresholds{Low: 2.5, High: 5})
	assert.Equal(t, []string{"A"}, seg.Segments[BandLow])
	assert.Empty(t, seg.Segments[BandHigh])
}
