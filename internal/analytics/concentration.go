package analytics

import (
	"sort"

	"vitiscli/pkg/contracts/domain"
)

// ConcentrationLevel interprets an HHI value
type ConcentrationLevel string

const (
	NotConcentrated        ConcentrationLevel = "not concentrated"
	ModeratelyConcentrated ConcentrationLevel = "moderately concentrated"
	HighlyConcentrated     ConcentrationLevel = "highly concentrated"
	// LevelUndetermined is reported when HHI itself is undefined
	LevelUndetermined ConcentrationLevel = "undetermined"
)

// HHI thresholds; these are fixed and not part of Params.
const (
	hhiModerate = 1500.0
	hhiHigh     = 2500.0
	hhiScale    = 10000.0
)

// TopShare is the combined share of the K largest categories
type TopShare struct {
	K   int   `json:"k"`
	Pct Ratio `json:"pct"`
}

// Concentration summarises how concentrated a market is
type Concentration struct {
	HHI        Ratio              `json:"hhi"`
	Level      ConcentrationLevel `json:"level"`
	TopShares  []TopShare         `json:"top_shares"`
	Categories int                `json:"categories"`
}

// HHI returns 10000 times the sum of squared shares over every category.
// Squares are summed smallest first so the result does not depend on input
// order. An empty distribution or any undefined share yields Undefined.
func HHI(shares []Share) Ratio {
	if len(shares) == 0 {
		return Undefined
	}

	squares := make([]float64, len(shares))
	for i, s := range shares {
		if !s.Share.Defined() {
			return Undefined
		}
		v := float64(s.Share)
		squares[i] = v * v
	}
	sort.Float64s(squares)

	sum := 0.0
	for _, sq := range squares {
		sum += sq
	}
	return Ratio(sum * hhiScale)
}

// InterpretHHI maps an HHI value to its concentration level
func InterpretHHI(hhi Ratio) ConcentrationLevel {
	if !hhi.Defined() {
		return LevelUndetermined
	}
	switch v := float64(hhi); {
	case v < hhiModerate:
		return NotConcentrated
	case v < hhiHigh:
		return ModeratelyConcentrated
	default:
		return HighlyConcentrated
	}
}

// TopKShare returns the percentage of total held by the k largest shares.
// shares must be ordered as MarketShares returns them. With fewer than k
// categories the sum of all shares is returned.
func TopKShare(shares []Share, k int) Ratio {
	if len(shares) == 0 || k < 1 {
		return Undefined
	}
	if k > len(shares) {
		k = len(shares)
	}

	sum := 0.0
	for _, s := range shares[:k] {
		if !s.Share.Defined() {
			return Undefined
		}
		sum += float64(s.Share)
	}
	return Ratio(sum * 100)
}

// AnalyzeConcentration computes HHI and top-K shares over the category
// distribution of records. ks defaults to 5 and 10.
func AnalyzeConcentration(records []domain.TradeRecord, ks ...int) Concentration {
	if len(ks) == 0 {
		ks = []int{5, 10}
	}

	shares := CategoryShares(records)
	hhi := HHI(shares)

	c := Concentration{
		HHI:        hhi,
		Level:      InterpretHHI(hhi),
		TopShares:  make([]TopShare, 0, len(ks)),
		Categories: len(shares),
	}
	for _, k := range ks {
		c.TopShares = append(c.TopShares, TopShare{K: k, Pct: TopKShare(shares, k)})
	}
	return c
}

// TopPct returns the top-K percentage for k, or Undefined if k was not computed
func (c Concentration) TopPct(k int) Ratio {
	for _, ts := range c.TopShares {
		if ts.K == k {
			return ts.Pct
		}
	}
	return Undefined
}
