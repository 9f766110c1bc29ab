package analytics

import (
	"math"

	"vitiscli/pkg/contracts/domain"
)

func rec(category string, year int, volume, value float64) domain.TradeRecord {
	return domain.TradeRecord{Category: category, Year: year, Volume: volume, Value: value}
}

// growthSeries returns years consecutive records for category whose value
// compounds at ratePct per year from 100.
func growthSeries(category string, firstYear, years int, ratePct float64) []domain.TradeRecord {
	out := make([]domain.TradeRecord, 0, years)
	for i := 0; i < years; i++ {
		value := 100 * math.Pow(1+ratePct/100, float64(i))
		out = append(out, rec(category, firstYear+i, 50, value))
	}
	return out
}
