package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpulse/internal/config"
)

func lastEntry(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "hrpulse.log")

	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, slog.Default())

	logger.Info("workbook loaded", "sheets", 3)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := lastEntry(t, string(content))
	assert.Equal(t, "workbook loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["sheets"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestCreateLogger_BothWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "both.log")

	logger, err := createLogger(config.LoggingConfig{Level: "debug", Output: "both", FilePath: logFile}, &console)
	require.NoError(t, err)
	defer CloseLogFile()

	logger.Debug("dashboard built")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "dashboard built", lastEntry(t, string(content))["msg"])
	assert.Equal(t, "dashboard built", lastEntry(t, console.String())["msg"])
}

func TestCreateLogger_BadFilePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := createLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "x.log")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "with trace")
	assert.Equal(t, "trace-123", lastEntry(t, buf.String())["trace_id"])

	buf.Reset()
	logger.InfoContext(context.Background(), "without trace")
	_, ok := lastEntry(t, buf.String())["trace_id"]
	assert.False(t, ok)
}

func TestTraceHandlerKeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info").With("component", "gaps").WithGroup("cohort")

	logger.InfoContext(WithTraceID(context.Background(), "t-1"), "detected", "rows", 2)

	entry := lastEntry(t, buf.String())
	assert.Equal(t, "gaps", entry["component"])
	assert.Equal(t, map[string]interface{}{"rows": float64(2), "trace_id": "t-1"}, entry["cohort"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warning", "ERROR"},
		{"error", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Debug("debug")
			logger.Info("info")
			logger.Error("error")

			first := strings.SplitN(strings.TrimSpace(buf.String()), "\n", 2)[0]
			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(first), &entry))
			assert.Equal(t, tt.want, entry["level"])
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))

	assert.Empty(t, GetTraceID(nil))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}
