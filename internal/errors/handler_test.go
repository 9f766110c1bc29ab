package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitiscli/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "missing input",
			err:        fmt.Errorf("load: %w", NewMissingInputError("import", "x.csv", "run processor")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataUnavailable,
		},
		{
			name:       "api validation error",
			err:        ErrValidation("flow", "unknown"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("analysis: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "parsing app error",
			err:        NewParsingError("bad processed file", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "storage app error",
			err:        NewStorageError("database down", fmt.Errorf("dial tcp")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeStorage,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			r := httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
			w := httptest.NewRecorder()
			h.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/analytics/summary", body["instance"])
			assert.Contains(t, body, "trace_id")
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	h := NewErrorHandler(nil, false)
	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, w.Body.Len())
}

func TestErrorHandler_MissingInputHint(t *testing.T) {
	h := NewErrorHandler(nil, false)
	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil),
		NewMissingInputError("export", "a.csv", "run vitis-processor"))

	body := decodeProblem(t, w)
	assert.Equal(t, "export", body["dataset"])
	assert.Equal(t, "run vitis-processor", body["hint"])
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	h := NewErrorHandler(nil, true)
	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))
	assert.Contains(t, decodeProblem(t, w), "stack")
}

func TestErrorHandler_LogLevel(t *testing.T) {
	logger, capture := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))
	testutil.AssertLogContains(t, capture, slog.LevelError, "request failed")

	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), ErrValidation("n", "bad"))
	testutil.AssertLogContains(t, capture, slog.LevelWarn, "request failed")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := NewErrorHandler(nil, false)
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	RecoveryMiddleware(h)(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, TypeInternal, decodeProblem(t, w)["type"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decodeProblem(t, w)["detail"], "POST")
}
