// Package config handles configuration loading, parsing, and validation from
// defaults, an optional config file, environment variables and command line
// flags. Environment variables use the USECASE_ prefix with "." replaced by
// "_" (e.g. USECASE_UPLOAD_STEP_DELAY).
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	Runner RunnerConfig `mapstructure:"runner" validate:"required"`
	Upload UploadConfig `mapstructure:"upload" validate:"required"`
	Task   TaskConfig   `mapstructure:"task" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text logr"`
}

// RunnerConfig contains runner and executor settings.
type RunnerConfig struct {
	// BufferSize of every emission channel.
	BufferSize int `mapstructure:"buffer_size" validate:"gte=0"`
	// Workers in the pool backing the background task runner.
	Workers int `mapstructure:"workers" validate:"gte=1"`
}

// UploadConfig contains settings of the upload workload.
type UploadConfig struct {
	SessionID string        `mapstructure:"session_id" validate:"required"`
	Steps     int           `mapstructure:"steps" validate:"gte=1,lte=100"`
	StepDelay time.Duration `mapstructure:"step_delay" validate:"gte=0"`
}

// TaskConfig contains settings of the background task workload.
type TaskConfig struct {
	Iterations int `mapstructure:"iterations" validate:"gte=0"`
}
