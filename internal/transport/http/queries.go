package http

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	apierrors "vitiscli/internal/errors"
	"vitiscli/internal/services"
	"vitiscli/pkg/contracts/domain"
)

// WindowQuery is the optional inclusive year range accepted by every endpoint
type WindowQuery struct {
	Start int `query:"start" validate:"omitempty,gte=1900,lte=2100"`
	End   int `query:"end" validate:"omitempty,gte=1900,lte=2100"`
}

func (q WindowQuery) window() services.Window {
	return services.Window{Start: q.Start, End: q.End}
}

// FlowQuery selects one dataset
type FlowQuery struct {
	Flow string `query:"flow" validate:"required,flow"`
	WindowQuery
}

func (q FlowQuery) flow() domain.Flow {
	return domain.Flow(q.Flow)
}

// ConcentrationQuery adds the top-K list
type ConcentrationQuery struct {
	FlowQuery
	K []int `query:"k" validate:"omitempty,max=10,dive,min=1,max=1000"`
}

// GrowthQuery overrides the growing-market criteria
type GrowthQuery struct {
	FlowQuery
	MinYears *int     `query:"min_years" validate:"omitempty,min=1,max=100"`
	MinCAGR  *float64 `query:"min_cagr"`
}

// SegmentsQuery overrides the price band thresholds
type SegmentsQuery struct {
	FlowQuery
	Low  *float64 `query:"low" validate:"omitempty,gte=0"`
	High *float64 `query:"high" validate:"omitempty,gt=0"`
}

// TopQuery selects how many categories to rank and by which metric
type TopQuery struct {
	FlowQuery
	N      int    `query:"n" validate:"omitempty,min=1,max=500"`
	Metric string `query:"metric" validate:"omitempty,metric"`
}

// ScenariosQuery picks the projection base year; zero means the latest year
type ScenariosQuery struct {
	WindowQuery
	BaseYear int `query:"base_year" validate:"omitempty,gte=1900,lte=2100"`
}

// queryReader parses typed query parameters and collects every conversion
// failure so they can be reported together
type queryReader struct {
	values url.Values
	errs   []apierrors.ValidationError
}

func newQueryReader(values url.Values) *queryReader {
	return &queryReader{values: values}
}

func (q *queryReader) text(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

func (q *queryReader) integer(name string) int {
	if p := q.intPtr(name); p != nil {
		return *p
	}
	return 0
}

func (q *queryReader) intPtr(name string) *int {
	raw := q.text(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name, name+" must be an integer")
		return nil
	}
	return &v
}

func (q *queryReader) floatPtr(name string) *float64 {
	raw := q.text(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		q.fail(name, name+" must be a number")
		return nil
	}
	return &v
}

// ints accepts both repeated parameters and comma separated lists
func (q *queryReader) ints(name string) []int {
	var out []int
	for _, raw := range q.values[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				q.fail(name, name+" must be a list of integers")
				return nil
			}
			out = append(out, v)
		}
	}
	return out
}

func (q *queryReader) window() WindowQuery {
	return WindowQuery{Start: q.integer("start"), End: q.integer("end")}
}

func (q *queryReader) flow() FlowQuery {
	return FlowQuery{Flow: q.text("flow"), WindowQuery: q.window()}
}

func (q *queryReader) fail(field, message string) {
	q.errs = append(q.errs, apierrors.ValidationError{Field: field, Message: message})
}

// err returns a 400 listing the parameters that could not be parsed
func (q *queryReader) err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return apierrors.NewValidationErrors(q.errs)
}
