package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log call with its attributes flattened.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type recorderState struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogRecorder is a slog.Handler that keeps every record in memory.
// Handlers derived through WithAttrs share the same record list.
type LogRecorder struct {
	state *recorderState
	attrs []slog.Attr
	group string
}

// NewTestLogger returns a logger writing into a fresh recorder.
func NewTestLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{state: &recorderState{}}
	return slog.New(rec), rec
}

// Enabled implements slog.Handler; every level is captured.
func (h *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Any()
		return true
	})

	h.state.mu.Lock()
	h.state.records = append(h.state.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.state.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler.
func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &LogRecorder{state: h.state, group: h.group}
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	for i := len(h.attrs); i < len(next.attrs); i++ {
		next.attrs[i].Key = h.key(next.attrs[i].Key)
	}
	return next
}

// WithGroup implements slog.Handler.
func (h *LogRecorder) WithGroup(name string) slog.Handler {
	return &LogRecorder{state: h.state, attrs: h.attrs, group: h.key(name)}
}

func (h *LogRecorder) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// Records returns a copy of everything captured so far.
func (h *LogRecorder) Records() []LogRecord {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return append([]LogRecord(nil), h.state.records...)
}

// Find returns the first record whose message contains msg.
func (h *LogRecorder) Find(msg string) (LogRecord, bool) {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, msg) {
			return r, true
		}
	}
	return LogRecord{}, false
}

// AssertLogged fails the test unless a record at level contains msg.
func AssertLogged(t *testing.T, h *LogRecorder, level slog.Level, msg string) LogRecord {
	t.Helper()
	for _, r := range h.Records() {
		if r.Level == level && strings.Contains(r.Message, msg) {
			return r
		}
	}
	t.Errorf("no %s record containing %q", level, msg)
	for _, r := range h.Records() {
		t.Logf("  [%s] %s %v", r.Level, r.Message, r.Attrs)
	}
	return LogRecord{}
}
