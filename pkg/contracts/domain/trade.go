package domain

import "fmt"

// Flow identifies the direction of a trade dataset
type Flow string

const (
	FlowExport Flow = "export"
	FlowImport Flow = "import"
)

// Flows lists every supported flow in a stable order
var Flows = []Flow{FlowExport, FlowImport}

// IsValid reports whether the flow is a known direction
func (f Flow) IsValid() bool {
	return f == FlowExport || f == FlowImport
}

// ParseFlow converts a string into a Flow
func ParseFlow(s string) (Flow, error) {
	f := Flow(s)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown flow %q: expected export or import", s)
	}
	return f, nil
}

// TradeRecord is one long-format observation: the volume and value traded
// with a single partner country in a single year.
type TradeRecord struct {
	// Category is the partner country
	Category string  `json:"category" validate:"required"`
	Year     int     `json:"year" validate:"min=1900,max=2100"`
	// Volume in liters; 1 kg is taken as 1 L
	Volume   float64 `json:"volume" validate:"gt=0"`
	// Value in USD
	Value    float64 `json:"value" validate:"gt=0"`
}
