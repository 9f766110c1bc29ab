package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitiscli/internal/infrastructure"
	"vitiscli/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated", incoming: ""},
		{name: "propagated", incoming: "client-id-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenReqID, seenTraceID string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenReqID = chimw.GetReqID(r.Context())
				seenTraceID = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			require.NotEmpty(t, header)
			assert.Equal(t, header, seenReqID)
			assert.Equal(t, header, seenTraceID)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, header)
			}
		})
	}
}

func TestGetRequestIDFallsBackToTraceID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	ctx := infrastructure.WithTraceID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetRequestID(ctx))
}

func TestStructuredLogger(t *testing.T) {
	logger, capture := testutil.NewTestLogger(t)

	h := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x?flow=export", nil))

	records := capture.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "request completed", records[0].Message)
	assert.Equal(t, slog.LevelError, records[0].Level)
	assert.EqualValues(t, 500, records[0].Attrs["status"])
	assert.Equal(t, "flow=export", records[0].Attrs["query"])
}

func TestRateLimiter(t *testing.T) {
	logger, capture := testutil.NewTestLogger(t)
	h := NewRateLimiter(0.001, 2, logger).Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		h.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, "/errors/rate-limit", body["type"])
	assert.EqualValues(t, 429, body["status"])
	testutil.AssertLogContains(t, capture, slog.LevelWarn, "rate limit exceeded")
}

func TestTimeout(t *testing.T) {
	t.Run("slow handler that writes nothing gets 504", func(t *testing.T) {
		h := Timeout(10*time.Millisecond, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Contains(t, rec.Body.String(), "/errors/timeout")
	})

	t.Run("fast handler unaffected", func(t *testing.T) {
		h := Timeout(time.Second, nil)(http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fast", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("deadline is visible to the handler", func(t *testing.T) {
		var hasDeadline bool
		h := Timeout(time.Second, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, hasDeadline)
	})
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://vitis.example"}})(http.HandlerFunc(okHandler))

	tests := []struct {
		name       string
		method     string
		origin     string
		wantCode   int
		wantOrigin string
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "https://vitis.example", wantCode: 200, wantOrigin: "https://vitis.example"},
		{name: "other origin", method: http.MethodGet, origin: "https://evil.example", wantCode: 200},
		{name: "preflight", method: http.MethodOptions, origin: "https://vitis.example", wantCode: 204, wantOrigin: "https://vitis.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestOTelMiddleware(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:   "middleware-test",
		EnableMetrics: true,
	}, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.NewAnalyticsMetrics(providers.Meter)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(NewOTelMiddleware(providers.Tracer, metrics, nil).Handler)
	r.Get("/api/analytics/{name}", okHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	scrape := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/api/analytics/{name}"`)
	assert.Contains(t, body, `status_code="200"`)
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.Write([]byte("abc"))
	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.EqualValues(t, 3, rw.bytesWritten)
}

func TestGetRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", GetRealIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.1")
	assert.Equal(t, "192.0.2.1", GetRealIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", GetRealIP(req))
}
