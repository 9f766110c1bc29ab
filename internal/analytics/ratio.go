package analytics

import (
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a quotient that may be undefined. A zero denominator never
// aborts a batch computation; it produces Undefined instead.
type Ratio float64

// Undefined marks a ratio whose denominator was zero
var Undefined = Ratio(math.NaN())

// Div returns num/den, or Undefined when den is zero
func Div(num, den float64) Ratio {
	if den == 0 {
		return Undefined
	}
	return Ratio(num / den)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Defined reports whether r holds a finite value
func (r Ratio) Defined() bool {
	return isFinite(float64(r))
}

// Float64 returns the raw value (NaN when undefined)
func (r Ratio) Float64() float64 {
	return float64(r)
}

// Or returns the value when defined and fallback otherwise
func (r Ratio) Or(fallback float64) float64 {
	if !r.Defined() {
		return fallback
	}
	return float64(r)
}

// Format renders r with prec decimals (-1 for shortest), or "" when undefined
func (r Ratio) Format(prec int) string {
	if !r.Defined() {
		return ""
	}
	return strconv.FormatFloat(float64(r), 'f', prec, 64)
}

// String implements fmt.Stringer
func (r Ratio) String() string {
	if !r.Defined() {
		return "undefined"
	}
	return strconv.FormatFloat(float64(r), 'g', -1, 64)
}

// MarshalJSON encodes undefined ratios as null
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON decodes null as Undefined
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}
