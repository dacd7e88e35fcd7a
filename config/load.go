package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "USECASE"

// LoadOptions configures Load.
type LoadOptions struct {
	// ConfigFile is an optional path to a YAML, JSON or TOML file.
	ConfigFile string
	// Flags, when set, are bound by key; a flag named "log-level" overrides
	// "log.level". Only flags explicitly set on the command line override.
	Flags *pflag.FlagSet
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":         "log.level",
	"log-format":        "log.format",
	"buffer-size":       "runner.buffer_size",
	"workers":           "runner.workers",
	"session-id":        "upload.session_id",
	"upload-steps":      "upload.steps",
	"upload-step-delay": "upload.step_delay",
	"task-iterations":   "task.iterations",
}

// Defaults returns the configuration used when nothing else is provided.
func Defaults() map[string]any {
	return map[string]any{
		"log.level":          "info",
		"log.format":         "text",
		"runner.buffer_size": 0,
		"runner.workers":     2,
		"upload.session_id":  "demo-session",
		"upload.steps":       10,
		"upload.step_delay":  "300ms",
		"task.iterations":    1_000_000,
	}
}

// Load configuration from defaults, an optional config file, environment
// variables and flags, in increasing order of precedence. Returns a populated
// Config or an error if loading or validation fails.
func Load(optFns ...func(o *LoadOptions)) (*Config, error) {
	opts := LoadOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	v := viper.New()

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// RegisterFlags adds the flags understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "text", "log format (json, text, logr)")
	fs.Int("buffer-size", 0, "emission channel buffer size")
	fs.Int("workers", 2, "background task worker count")
	fs.String("session-id", "demo-session", "upload session identifier")
	fs.Int("upload-steps", 10, "number of upload progress steps")
	fs.Duration("upload-step-delay", 300*time.Millisecond, "pause between upload progress snapshots")
	fs.Int("task-iterations", 1_000_000, "iterations of the background task loop")
}
