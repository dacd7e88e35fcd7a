package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies the values used when nothing is configured.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 0, cfg.Runner.BufferSize)
	assert.Equal(t, 2, cfg.Runner.Workers)
	assert.Equal(t, "demo-session", cfg.Upload.SessionID)
	assert.Equal(t, 10, cfg.Upload.Steps)
	assert.Equal(t, 300*time.Millisecond, cfg.Upload.StepDelay)
	assert.Equal(t, 1_000_000, cfg.Task.Iterations)
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("USECASE_LOG_LEVEL", "debug")
	t.Setenv("USECASE_UPLOAD_STEP_DELAY", "50ms")
	t.Setenv("USECASE_RUNNER_WORKERS", "8")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Upload.StepDelay)
	assert.Equal(t, 8, cfg.Runner.Workers)
}

// TestLoadFromFile verifies that a config file is read and env still wins.
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usecase.yaml")
	content := []byte("log:\n  format: json\nupload:\n  session_id: from-file\n  steps: 5\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("USECASE_UPLOAD_STEPS", "4")

	cfg, err := Load(func(o *LoadOptions) { o.ConfigFile = path })

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "from-file", cfg.Upload.SessionID)
	assert.Equal(t, 4, cfg.Upload.Steps)
}

// TestLoadFromFlags verifies that explicitly set flags have the highest precedence.
func TestLoadFromFlags(t *testing.T) {
	t.Setenv("USECASE_LOG_FORMAT", "text")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-format=json", "--upload-step-delay=1s"}))

	cfg, err := Load(func(o *LoadOptions) { o.Flags = fs })

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, time.Second, cfg.Upload.StepDelay)
	// not set on the command line, so the default applies
	assert.Equal(t, "demo-session", cfg.Upload.SessionID)
}

// TestLoadValidation verifies that invalid values are rejected.
func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid log level", map[string]string{"USECASE_LOG_LEVEL": "verbose"}},
		{"invalid log format", map[string]string{"USECASE_LOG_FORMAT": "xml"}},
		{"zero workers", map[string]string{"USECASE_RUNNER_WORKERS": "0"}},
		{"too many steps", map[string]string{"USECASE_UPLOAD_STEPS": "101"}},
		{"negative buffer", map[string]string{"USECASE_RUNNER_BUFFER_SIZE": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

// TestLoadMissingFile verifies the error for an unreadable config file.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(func(o *LoadOptions) { o.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
