package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid parameter", InvalidParameter("flow", fmt.Errorf("bad")), http.StatusBadRequest, "INVALID_PARAMETER"},
		{"validation", ErrValidation("min_years", "must be positive"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", NotFoundError("dataset"), http.StatusNotFound, "NOT_FOUND"},
		{"data unavailable", ErrDataUnavailable, http.StatusServiceUnavailable, "DATA_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrValidation("n", "must be at least 1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.ErrorCode)
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("save dataset", cause).WithContext("flow", "export")

	assert.Equal(t, "[STORAGE] save dataset: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "export", err.Context["flow"])

	assert.Equal(t, "[CONFIG] bad port", NewConfigError("bad port", nil).Error())
}

func TestMissingInputError(t *testing.T) {
	err := NewMissingInputError("export", "data/processed/export_processed.csv", "run the processor first")

	assert.Contains(t, err.Error(), "export data unavailable")
	assert.Contains(t, err.Error(), "export_processed.csv")
	assert.Contains(t, err.Error(), "run the processor first")

	wrapped := fmt.Errorf("load export: %w", err)
	assert.True(t, IsMissingInput(wrapped))
	assert.True(t, errors.Is(wrapped, ErrMissingInput))
	assert.False(t, IsMissingInput(fmt.Errorf("other")))

	var target *MissingInputError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "export", target.Dataset)
}

func TestProblemDetailsJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusServiceUnavailable, TypeDataUnavailable, "Data Unavailable", "gone", "/api/x").
		WithExtension("dataset", "import")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeDataUnavailable, got["type"])
	assert.Equal(t, float64(503), got["status"])
	assert.Equal(t, "import", got["dataset"])
	assert.Equal(t, "/api/x", got["instance"])

	bare, err := json.Marshal(NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", ""))
	require.NoError(t, err)
	assert.NotContains(t, string(bare), "detail")
}
