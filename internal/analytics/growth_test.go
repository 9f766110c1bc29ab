package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitiscli/pkg/contracts/domain"
)

func TestCompoundGrowth(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		final   float64
		years   int
		want    float64
	}{
		{"doubling over five years", 100, 200, 5, (math.Pow(2, 0.2) - 1) * 100},
		{"flat", 100, 100, 3, 0},
		{"decline", 200, 100, 1, -50},
		{"zero initial", 0, 500, 4, 0},
		{"zero span", 100, 300, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompoundGrowth(tt.initial, tt.final, tt.years), 1e-9)
		})
	}

	assert.InDelta(t, 14.87, CompoundGrowth(100, 200, 5), 0.01)
}

func TestCAGRUsesYearSpan(t *testing.T) {
	s := Series{
		{Year: 2018, Volume: 10, Value: 100},
		{Year: 2019, Volume: 10, Value: 900},
		{Year: 2023, Volume: 40, Value: 200},
	}

	assert.InDelta(t, (math.Pow(2, 0.2)-1)*100, CAGR(s, MetricValue), 1e-9)
	assert.InDelta(t, (math.Pow(4, 0.2)-1)*100, CAGR(s, MetricVolume), 1e-9)
}

func TestCAGRSingleYear(t *testing.T) {
	assert.Equal(t, 0.0, CAGR(Series{{Year: 2020, Volume: 1, Value: 5}}, MetricValue))
	assert.Equal(t, 0.0, CAGR(nil, MetricValue))
}

func TestSeriesByCategory(t *testing.T) {
	records := []domain.TradeRecord{
		rec("A", 2021, 1, 10),
		rec("A", 2019, 1, 5),
		rec("A", 2021, 2, 20),
		rec("B", 2020, 3, 30),
	}

	all := SeriesByCategory(records)
	require.Len(t, all, 2)
	require.Len(t, all["A"], 2)
	assert.Equal(t, Point{Year: 2019, Volume: 1, Value: 5}, all["A"][0])
	assert.Equal(t, Point{Year: 2021, Volume: 3, Value: 30}, all["A"][1])
	assert.Equal(t, 35.0, all["A"].TotalValue())
	assert.Equal(t, 4.0, all["A"].TotalVolume())
}

func TestGrowingMarkets(t *testing.T) {
	var records []domain.TradeRecord
	records = append(records, growthSeries("ShortHistory", 2018, 4, 20)...)
	records = append(records, growthSeries("SlowGrowth", 2017, 6, 3)...)
	records = append(records, growthSeries("Steady", 2017, 6, 6)...)
	records = append(records, growthSeries("Fast", 2015, 9, 12)...)

	got := GrowingMarkets(records, DefaultGrowthCriteria())
	require.Len(t, got, 2)

	assert.Equal(t, "Fast", got[0].Category)
	assert.InDelta(t, 12.0, got[0].CAGRValue, 1e-9)
	assert.Equal(t, 9, got[0].YearsObserved)

	assert.Equal(t, "Steady", got[1].Category)
	assert.InDelta(t, 6.0, got[1].CAGRValue, 1e-9)
	assert.InDelta(t, 0.0, got[1].CAGRVolume, 1e-9)
	assert.Equal(t, 300.0, got[1].TotalVolume)
}

func TestGrowingMarketsCountsDistinctYears(t *testing.T) {
	// Ten rows over four years must not satisfy a five year minimum.
	var records []domain.TradeRecord
	for i := 0; i < 10; i++ {
		records = append(records, rec("Dup", 2020+i%4, 1, float64(100*(i+1))))
	}
	assert.Empty(t, GrowingMarkets(records, DefaultGrowthCriteria()))
}

func TestGrowingMarketsTieBreak(t *testing.T) {
	var records []domain.TradeRecord
	records = append(records, growthSeries("Zeta", 2015, 6, 10)...)
	records = append(records, growthSeries("Alpha", 2015, 6, 10)...)

	got := GrowingMarkets(records, GrowthCriteria{MinYears: 2, MinCAGR: 0})
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Category)
	assert.Equal(t, "Zeta", got[1].Category)
}

func TestGrowthCriteriaValidate(t *testing.T) {
	tests := []struct {
		name     string
		criteria GrowthCriteria
		wantErr  bool
	}{
		{name: "defaults", criteria: DefaultGrowthCriteria()},
		{name: "negative min cagr", criteria: GrowthCriteria{MinYears: 5, MinCAGR: -10}},
		{name: "no history", criteria: GrowthCriteria{MinYears: 0}, wantErr: true},
		{name: "nan min cagr", criteria: GrowthCriteria{MinYears: 5, MinCAGR: math.NaN()}, wantErr: true},
		{name: "infinite min cagr", criteria: GrowthCriteria{MinYears: 5, MinCAGR: math.Inf(1)}, wantErr: true},
		{name: "negative infinite min cagr", criteria: GrowthCriteria{MinYears: 5, MinCAGR: math.Inf(-1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
