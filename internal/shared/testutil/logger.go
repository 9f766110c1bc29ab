package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log entry
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// logSink is shared by a handler and every handler derived from it
type logSink struct {
	mu      sync.Mutex
	records []LogRecord
}

// CaptureHandler is a slog.Handler that keeps records in memory
type CaptureHandler struct {
	sink  *logSink
	attrs []slog.Attr
	t     *testing.T
}

// NewCaptureHandler creates a handler that also echoes to t.Logf when t is set
func NewCaptureHandler(t *testing.T) *CaptureHandler {
	return &CaptureHandler{sink: &logSink{}, t: t}
}

// Enabled implements slog.Handler
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.sink.mu.Lock()
	h.sink.records = append(h.sink.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.sink.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &CaptureHandler{sink: h.sink, attrs: merged, t: h.t}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *CaptureHandler) WithGroup(string) slog.Handler { return h }

// Records returns a copy of every captured record
func (h *CaptureHandler) Records() []LogRecord {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	out := make([]LogRecord, len(h.sink.records))
	copy(out, h.sink.records)
	return out
}

// Contains reports whether a record at level has a message containing msg
func (h *CaptureHandler) Contains(level slog.Level, msg string) bool {
	for _, r := range h.Records() {
		if r.Level == level && strings.Contains(r.Message, msg) {
			return true
		}
	}
	return false
}

// NewTestLogger returns a logger backed by a CaptureHandler
func NewTestLogger(t *testing.T) (*slog.Logger, *CaptureHandler) {
	h := NewCaptureHandler(t)
	return slog.New(h), h
}

// AssertLogContains fails the test when no record at level contains msg
func AssertLogContains(t *testing.T, h *CaptureHandler, level slog.Level, msg string) {
	t.Helper()
	if h.Contains(level, msg) {
		return
	}
	t.Errorf("expected %s log containing %q", level, msg)
	for _, r := range h.Records() {
		t.Logf("  [%s] %s", r.Level, r.Message)
	}
}
