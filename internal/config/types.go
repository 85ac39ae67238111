package config

import (
	"errors"
	"fmt"

	"github.com/vinkit/validator/datasets"
	"github.com/vinkit/validator/pkg/logger"
)

// OutputFormat selects how the CLI prints results.
type OutputFormat string

// Output formats.
const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

var (
	// ErrInvalidOutputFormat is returned for an output format other than text or json.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidLogLevel is returned for an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidWorkers is returned for a negative worker count.
	ErrInvalidWorkers = errors.New("invalid worker count")
)

// Validate returns ErrInvalidOutputFormat unless f is a known format.
func (f OutputFormat) Validate() error {
	switch f {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q (want text or json)", ErrInvalidOutputFormat, string(f))
	}
}

// Config is the CLI configuration.
type Config struct {
	Output    OutputFormat `json:"output" mapstructure:"output"`
	Workers   int          `json:"workers" mapstructure:"workers"`
	Dataset   string       `json:"dataset" mapstructure:"dataset"`
	Normalize bool         `json:"normalize" mapstructure:"normalize"`
	LogLevel  string       `json:"log_level" mapstructure:"log_level"`
	Strict    bool         `json:"strict" mapstructure:"strict"`
	Unknown   string       `json:"unknown" mapstructure:"unknown"`
}

// DefaultConfig returns the configuration used when no file or
// environment override is present.
func DefaultConfig() *Config {
	return &Config{
		Output:   OutputText,
		Workers:  0,
		Dataset:  datasets.Default.String(),
		LogLevel: logger.LevelWarn.String(),
		Unknown:  "unknown",
	}
}

// Validate checks values that environment variables can set without
// passing through the CUE schema.
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}
