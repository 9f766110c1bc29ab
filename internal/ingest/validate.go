package ingest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vitiscli/pkg/contracts/domain"
)

// maxReportedViolations caps the detail carried by a ValidationError
const maxReportedViolations = 10

// Violation is one failed field check
type Violation struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value"`
}

// ValidationError lists the records rejected by validation
type ValidationError struct {
	Total      int
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("record %d: %s failed %s (%s)", v.Index, v.Field, v.Rule, v.Value))
	}
	return fmt.Sprintf("%d invalid trade records: %s", e.Total, strings.Join(parts, "; "))
}

// Validator checks trade records against their struct tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator reporting JSON field names
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateRecord checks a single record
func (v *Validator) ValidateRecord(r domain.TradeRecord) error {
	return v.validate.Struct(r)
}

// ValidateRecords checks every record and returns a *ValidationError
// describing the failures, or nil.
func (v *Validator) ValidateRecords(records []domain.TradeRecord) error {
	var verr *ValidationError
	for i, r := range records {
		err := v.validate.Struct(r)
		if err == nil {
			continue
		}
		if verr == nil {
			verr = &ValidationError{}
		}
		verr.Total++

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate record %d: %w", i, err)
		}
		for _, fe := range fieldErrs {
			if len(verr.Violations) >= maxReportedViolations {
				break
			}
			verr.Violations = append(verr.Violations, Violation{
				Index: i,
				Field: fe.Field(),
				Rule:  fe.Tag(),
				Value: fmt.Sprint(fe.Value()),
			})
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}
