package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"warn", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"", LogLevelInfo, false},
		{"verbose", LogLevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRunLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf})

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept", "k", "v")
	l.Error("kept too")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "v", lines[0]["k"])
	assert.Equal(t, "ERROR", lines[1]["level"])
}

func TestRunLogger_ScopeAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf, Component: "demo"})

	l := base.WithComponent("runner").WithRun("upload", "run-1")
	l.Info("hello")
	base.Info("plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "demo/runner", lines[0]["component"])
	assert.Equal(t, "upload", lines[0]["use_case"])
	assert.Equal(t, "run-1", lines[0]["run_id"])

	// the base logger is not mutated by With*
	assert.Equal(t, "demo", lines[1]["component"])
	assert.NotContains(t, lines[1], "run_id")
}

func TestRunLogger_WithRunReplacesPreviousRun(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.WithRun("upload", "run-1").WithRun("upload", "run-2").Info("hello")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "run-2", lines[0]["run_id"])
	assert.NotContains(t, lines[0], "component")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	rl := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	Component(rl, "executor").Info("scoped")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "executor", lines[0]["component"])

	assert.Equal(t, NoOpLogger{}, Component(nil, "executor"))

	other := NewDefaultSlogLogger()
	assert.Same(t, other, Component(other, "executor"))
}

func TestRunLogger_LogRunOutcome(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.LogRunOutcome("upload", "completed", time.Second, nil)
	l.WithRun("upload", "run-2").LogRunOutcome("upload", "failed", time.Second, errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "upload", lines[0]["use_case"])
	assert.Equal(t, "completed", lines[0]["outcome"])

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "run-2", lines[1]["run_id"])
	assert.Equal(t, "boom", lines[1]["error"])
	assert.Equal(t, "*errors.errorString", lines[1]["error_type"])
}

func TestNewSlogLogger_TextFormat(t *testing.T) {
	l := NewSlogLogger(LogLevelWarn, "text", false)
	require.NotNil(t, l)
	_, ok := l.base.Handler().(*slog.TextHandler)
	assert.True(t, ok)
	assert.False(t, l.base.Enabled(context.Background(), slog.LevelInfo))
}

func TestLogrAdapter(t *testing.T) {
	var lines []string
	sink := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	l := NewLogrAdapter(sink)
	l.Debug("debug msg")
	l.Info("info msg", "k", 1)
	l.Warn("warn msg")
	l.Error("error msg", "error", errors.New("boom"), "k", 2)

	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"level"=1`)
	assert.Contains(t, lines[1], `"k"=1`)
	assert.Contains(t, lines[2], `"level"="warn"`)
	assert.Contains(t, lines[3], `"error"="boom"`)
	assert.Contains(t, lines[3], `"k"=2`)
}

func TestOrNoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, OrNoOp(nil))

	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
