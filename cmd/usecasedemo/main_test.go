package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/usecasemesh/state"
)

// syncBuffer guards a bytes.Buffer; runner goroutines may still log after run returns.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		scenario string
		want     string
	}{
		{"complete", "upload completed"},
		{"cancel", "upload cancelled"},
		{"error", "upload failed"},
		{"restart", "upload completed"},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			out := &syncBuffer{}
			err := run(ctx, []string{
				"--scenario=" + tt.scenario,
				"--upload-step-delay=20ms",
				"--task-iterations=1000",
			}, out)

			require.NoError(t, err)
			logs := out.String()
			assert.Contains(t, logs, tt.want)
			assert.Contains(t, logs, "scenario finished")
			assert.Contains(t, logs, "background task finished")
		})
	}
}

func TestRun_RestartDoesNotSurfaceCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := &syncBuffer{}
	require.NoError(t, run(ctx, []string{"--scenario=restart", "--upload-step-delay=10ms", "--task-iterations=1000"}, out))

	assert.NotContains(t, out.String(), "upload cancelled")
	assert.NotContains(t, out.String(), "upload failed")
}

func TestRun_LogrFormat(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := &syncBuffer{}
	require.NoError(t, run(ctx, []string{"--log-format=logr", "--upload-step-delay=5ms", "--task-iterations=1000"}, out))

	logs := out.String()
	assert.Contains(t, logs, "usecasedemo: ")
	assert.Contains(t, logs, `"msg"="upload completed"`)
}

func TestRun_UnknownScenario(t *testing.T) {
	err := run(context.Background(), []string{"--scenario=explode"}, &syncBuffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	err := run(context.Background(), []string{"--log-format=xml"}, &syncBuffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, []string{"--scenario=cancel", "--upload-step-delay=1h"}, &syncBuffer{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScenarioExpectations(t *testing.T) {
	for name, want := range map[string]state.Kind{
		"complete": state.KindSuccess,
		"cancel":   state.KindCancelled,
		"error":    state.KindError,
		"restart":  state.KindSuccess,
	} {
		sc, err := parseScenario(name)
		require.NoError(t, err)
		assert.Equal(t, want, sc.expected())
	}
}
