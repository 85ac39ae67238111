package vinvalidator

import (
	"runtime"

	"github.com/vinkit/validator/datasets"
	"github.com/vinkit/validator/pkg/decoder"
	"github.com/vinkit/validator/pkg/logger"
)

// Option configures the Validator.
type Option func(*Options)

// Options holds all configuration for the Validator.
type Options struct {
	// Tables overrides the reference tables. When nil, the tables are
	// loaded from Dataset.
	Tables decoder.Tables

	// Dataset is an embedded dataset version or the path of a TOML
	// dataset file. Empty means the default embedded dataset.
	Dataset string

	// Unknown is the placeholder for names missing from the tables.
	Unknown string

	// StrictChecksum reports a checksum mismatch found while inspecting
	// as an error instead of a warning.
	StrictChecksum bool

	// ReportUnknown adds an informational issue for every lookup that
	// found no name.
	ReportUnknown bool

	// WorkerCount is the parallelism used for batch inspection.
	WorkerCount int

	// LookupCacheSize enables a per-WMI LRU of table lookups when > 0.
	LookupCacheSize int

	Logger  *logger.Logger
	Metrics *Metrics
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Dataset:     datasets.Default.String(),
		Unknown:     decoder.Unknown,
		WorkerCount: runtime.NumCPU(),
	}
}

// WithTables uses t instead of a dataset.
func WithTables(t decoder.Tables) Option {
	return func(o *Options) {
		o.Tables = t
	}
}

// WithDataset selects an embedded dataset version or a dataset file.
func WithDataset(nameOrPath string) Option {
	return func(o *Options) {
		if nameOrPath != "" {
			o.Dataset = nameOrPath
		}
	}
}

// WithUnknown sets the placeholder for names missing from the tables.
func WithUnknown(placeholder string) Option {
	return func(o *Options) {
		if placeholder != "" {
			o.Unknown = placeholder
		}
	}
}

// WithStrictChecksum treats checksum mismatches found by Inspect as errors.
func WithStrictChecksum(enable bool) Option {
	return func(o *Options) {
		o.StrictChecksum = enable
	}
}

// WithReportUnknown reports lookups that found no name as informational issues.
func WithReportUnknown(enable bool) Option {
	return func(o *Options) {
		o.ReportUnknown = enable
	}
}

// WithWorkerCount sets the number of workers for batch inspection.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithLookupCache caches table lookups for up to size WMIs. Tables given
// with WithTables must answer from the WMI alone for the cache to be exact.
func WithLookupCache(size int) Option {
	return func(o *Options) {
		o.LookupCacheSize = size
	}
}

// WithLogger sets the logger. Defaults to logger.Default().
func WithLogger(l *logger.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetrics enables metrics collection into m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// --- Presets ---

// BatchOptions returns options suited to inspecting large inputs, where
// the same WMIs recur.
func BatchOptions() []Option {
	return []Option{
		WithLookupCache(1024),
	}
}

// StrictOptions returns options for strict inspection: checksum
// mismatches are errors and unknown names are reported.
func StrictOptions() []Option {
	return []Option{
		WithStrictChecksum(true),
		WithReportUnknown(true),
	}
}
