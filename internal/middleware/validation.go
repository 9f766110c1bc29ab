package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vitiscli/internal/analytics"
	apierrors "vitiscli/internal/errors"
	"vitiscli/pkg/contracts/domain"
)

// QueryValidator validates decoded query parameter structs. Field names in
// error messages come from the `query` struct tag.
type QueryValidator struct {
	validator *validator.Validate
}

// NewQueryValidator creates a validator with the trade-specific rules
// registered: flow (export or import) and metric (value or volume).
func NewQueryValidator() *QueryValidator {
	v := validator.New()
	v.RegisterValidation("flow", isFlow)
	v.RegisterValidation("metric", isMetric)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{validator: v}
}

// ValidateStruct returns a 400 *errors.APIError listing every failed field
func (m *QueryValidator) ValidateStruct(v any) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidParameter("query", err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, strings.ToLower(param))
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, strings.ToLower(param))
	case "flow":
		return fmt.Sprintf("%s must be export or import", field)
	case "metric":
		return fmt.Sprintf("%s must be value or volume", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isFlow(fl validator.FieldLevel) bool {
	return domain.Flow(fl.Field().String()).IsValid()
}

func isMetric(fl validator.FieldLevel) bool {
	return analytics.Metric(fl.Field().String()).IsValid()
}
