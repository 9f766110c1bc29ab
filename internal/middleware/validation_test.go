package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "vitiscli/internal/errors"
)

type sampleQuery struct {
	Flow   string `query:"flow" validate:"required,flow"`
	Metric string `query:"metric" validate:"omitempty,metric"`
	Start  int    `query:"start" validate:"omitempty,min=1900,max=2100"`
	End    int    `query:"end" validate:"omitempty,gtefield=Start"`
	N      int    `query:"n" validate:"gte=1,lte=100"`
}

func TestQueryValidator(t *testing.T) {
	v := NewQueryValidator()

	tests := []struct {
		name       string
		query      sampleQuery
		wantFields []string
	}{
		{name: "valid", query: sampleQuery{Flow: "export", Metric: "volume", Start: 2010, End: 2020, N: 10}},
		{name: "missing flow", query: sampleQuery{N: 1}, wantFields: []string{"flow"}},
		{name: "bad flow and metric", query: sampleQuery{Flow: "transit", Metric: "price", N: 1}, wantFields: []string{"flow", "metric"}},
		{name: "end before start", query: sampleQuery{Flow: "import", Start: 2020, End: 2010, N: 1}, wantFields: []string{"end"}},
		{name: "n out of range", query: sampleQuery{Flow: "import", N: 500}, wantFields: []string{"n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.query)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, 400, apiErr.StatusCode)
			assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			fields := make([]string, 0, len(details.Errors))
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestFormatValidationMessages(t *testing.T) {
	err := NewQueryValidator().ValidateStruct(sampleQuery{Flow: "transit", Metric: "price", N: 0})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.(apierrors.ValidationErrors)

	messages := map[string]string{}
	for _, e := range details.Errors {
		messages[e.Field] = e.Message
	}
	assert.Equal(t, "flow must be export or import", messages["flow"])
	assert.Equal(t, "metric must be value or volume", messages["metric"])
	assert.Equal(t, "n must be greater than or equal to 1", messages["n"])
}
