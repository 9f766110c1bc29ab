package analytics

import (
	"fmt"
)

// Scenario is a deterministic path of multipliers applied to a base value.
// Multipliers[i] applies to base year + i + 1.
type Scenario struct {
	Name        string    `json:"name" yaml:"name"`
	Multipliers []float64 `json:"multipliers" yaml:"multipliers"`
}

// DefaultScenarios returns the conservative, moderate and optimistic paths
// projected seven years past the base year.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "conservative", Multipliers: []float64{1.0, 0.98, 0.97, 0.96, 0.95, 0.94, 0.93}},
		{Name: "moderate", Multipliers: []float64{1.0, 1.05, 1.12, 1.20, 1.30, 1.42, 1.55}},
		{Name: "optimistic", Multipliers: []float64{1.0, 1.10, 1.25, 1.45, 1.70, 2.00, 2.35}},
	}
}

// ProjectionPoint is one projected year
type ProjectionPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Projection is a scenario applied to a base value
type Projection struct {
	Scenario  string            `json:"scenario"`
	BaseYear  int               `json:"base_year"`
	BaseValue float64           `json:"base_value"`
	Points    []ProjectionPoint `json:"points"`
	ChangePct Ratio             `json:"change_pct"` // Final projected value vs base
}

// Project applies each scenario to baseValue. Scenarios without multipliers
// are rejected.
func Project(baseYear int, baseValue float64, scenarios []Scenario) ([]Projection, error) {
	out := make([]Projection, 0, len(scenarios))
	for _, sc := range scenarios {
		if len(sc.Multipliers) == 0 {
			return nil, fmt.Errorf("scenario %q has no multipliers", sc.Name)
		}
		p := Projection{
			Scenario:  sc.Name,
			BaseYear:  baseYear,
			BaseValue: baseValue,
			Points:    make([]ProjectionPoint, len(sc.Multipliers)),
		}
		for i, m := range sc.Multipliers {
			p.Points[i] = ProjectionPoint{Year: baseYear + i + 1, Value: baseValue * m}
		}
		p.ChangePct = change(baseValue, p.Points[len(p.Points)-1].Value)
		out = append(out, p)
	}
	return out, nil
}

// ProjectFromComparison uses the export value of baseYear in rows as the base.
// It fails when the year is absent.
func ProjectFromComparison(rows []ComparisonRow, baseYear int, scenarios []Scenario) ([]Projection, error) {
	for _, r := range rows {
		if r.Year == baseYear {
			return Project(baseYear, r.ExportValue, scenarios)
		}
	}
	return nil, fmt.Errorf("base year %d not present in comparison", baseYear)
}
