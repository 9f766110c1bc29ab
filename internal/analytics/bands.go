package analytics

import (
	"fmt"

	"vitiscli/pkg/contracts/domain"
)

// PriceBand is a discrete price tier
type PriceBand string

const (
	BandLow  PriceBand = "low"
	BandMid  PriceBand = "mid"
	BandHigh PriceBand = "high"
	// BandUndefined is reported for a price that could not be computed
	BandUndefined PriceBand = "undefined"
)

// Bands lists the three tiers from cheapest to most expensive
var Bands = []PriceBand{BandLow, BandMid, BandHigh}

// BandThresholds splits prices into tiers, in USD per liter
type BandThresholds struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// DefaultBandThresholds returns the 1.50 / 3.00 USD per liter split
func DefaultBandThresholds() BandThresholds {
	return BandThresholds{Low: 1.5, High: 3.0}
}

// Validate checks 0 <= Low < High
func (t BandThresholds) Validate() error {
	if !isFinite(t.Low) || !isFinite(t.High) {
		return fmt.Errorf("thresholds must be finite, got %v / %v", t.Low, t.High)
	}
	if t.Low < 0 {
		return fmt.Errorf("low threshold must not be negative, got %.4f", t.Low)
	}
	if t.Low >= t.High {
		return fmt.Errorf("low threshold %.4f must be below high threshold %.4f", t.Low, t.High)
	}
	return nil
}

// Classify maps a price to its band. The low boundary belongs to mid and the
// high boundary belongs to high.
func (t BandThresholds) Classify(price Ratio) PriceBand {
	if !price.Defined() {
		return BandUndefined
	}
	p := float64(price)
	switch {
	case p < t.Low:
		return BandLow
	case p < t.High:
		return BandMid
	default:
		return BandHigh
	}
}

// CategoryPrice is a category's aggregate price and band
type CategoryPrice struct {
	Category    string    `json:"category"`
	TotalValue  float64   `json:"total_value"`
	TotalVolume float64   `json:"total_volume"`
	Price       Ratio     `json:"price"`
	Band        PriceBand `json:"band"`
}

// BandSummary aggregates every category that fell into one band
type BandSummary struct {
	Band        PriceBand `json:"band"`
	TotalValue  float64   `json:"total_value"`
	TotalVolume float64   `json:"total_volume"`
	Categories  int       `json:"categories"`
	ValuePct    Ratio     `json:"value_pct"`
	VolumePct   Ratio     `json:"volume_pct"`
}

// Segmentation is the result of classifying every category by price
type Segmentation struct {
	Thresholds BandThresholds         `json:"thresholds"`
	Categories []CategoryPrice        `json:"categories"`
	Segments   map[PriceBand][]string `json:"segments"`
	Bands      []BandSummary          `json:"bands"`
}

// SegmentByPrice classifies each category's aggregate price and summarises
// value and volume per band. Categories keep alphabetical order inside each band.
func SegmentByPrice(records []domain.TradeRecord, thresholds BandThresholds) Segmentation {
	groups := GroupByCategory(records)

	seg := Segmentation{
		Thresholds: thresholds,
		Categories: make([]CategoryPrice, 0, len(groups)),
		Segments:   make(map[PriceBand][]string, len(Bands)),
	}
	for _, b := range Bands {
		seg.Segments[b] = []string{}
	}

	summaries := make(map[PriceBand]*BandSummary)
	totalValue, totalVolume := 0.0, 0.0

	for _, g := range groups {
		band := thresholds.Classify(g.Price)
		seg.Categories = append(seg.Categories, CategoryPrice{
			Category:    g.Key,
			TotalValue:  g.TotalValue,
			TotalVolume: g.TotalVolume,
			Price:       g.Price,
			Band:        band,
		})
		seg.Segments[band] = append(seg.Segments[band], g.Key)

		s, ok := summaries[band]
		if !ok {
			s = &BandSummary{Band: band}
			summaries[band] = s
		}
		s.TotalValue += g.TotalValue
		s.TotalVolume += g.TotalVolume
		s.Categories++
		totalValue += g.TotalValue
		totalVolume += g.TotalVolume
	}

	order := append(append([]PriceBand{}, Bands...), BandUndefined)
	for _, b := range order {
		s, ok := summaries[b]
		if !ok {
			continue
		}
		s.ValuePct = percentOf(s.TotalValue, totalValue)
		s.VolumePct = percentOf(s.TotalVolume, totalVolume)
		seg.Bands = append(seg.Bands, *s)
	}

	return seg
}
