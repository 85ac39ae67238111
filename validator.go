package vinvalidator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vinkit/validator/cache"
	"github.com/vinkit/validator/datasets"
	"github.com/vinkit/validator/pkg/decoder"
	"github.com/vinkit/validator/pkg/logger"
	"github.com/vinkit/validator/pkg/tables"
	"github.com/vinkit/validator/pkg/vin"
)

// DecodedVin is the decoding of a single VIN. See decoder.DecodedVin.
type DecodedVin = decoder.DecodedVin

// ChecksumDetail describes a check digit mismatch.
type ChecksumDetail = decoder.ChecksumDetail

// ErrorKind classifies a VIN failure.
type ErrorKind = vin.ErrorKind

// Error kinds, numbered as in the C interface.
const (
	IncorrectLength   = vin.KindIncorrectLength
	InvalidCharacters = vin.KindInvalidCharacters
	ChecksumError     = vin.KindChecksumError
)

// Sentinel errors for errors.Is matching.
var (
	ErrIncorrectLength   = vin.ErrIncorrectLength
	ErrInvalidCharacters = vin.ErrInvalidCharacters
	ErrChecksum          = vin.ErrChecksum
)

// KindOf returns the ErrorKind carried by err.
func KindOf(err error) (ErrorKind, bool) {
	return vin.KindOf(err)
}

// Validator validates, verifies and decodes VINs against one set of
// reference tables. It is safe for concurrent use.
type Validator struct {
	opts    *Options
	decoder *decoder.Decoder
	log     *logger.Logger
	metrics *Metrics
	dataset string
}

// New creates a Validator.
func New(opts ...Option) (*Validator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	log := o.Logger
	if log == nil {
		log = logger.Default()
	}

	t := o.Tables
	if t == nil {
		tb, err := LoadTables(o.Dataset)
		if err != nil {
			return nil, err
		}
		t = tb
	}
	dataset := "custom"
	if vt, ok := t.(interface{ Version() string }); ok && vt.Version() != "" {
		dataset = vt.Version()
	}

	log.Debug("validator ready", "dataset", dataset, "workers", o.WorkerCount)

	return &Validator{
		opts:    o,
		decoder: decoder.New(t, decoder.WithUnknown(o.Unknown), decoder.WithLookupCache(o.LookupCacheSize)),
		log:     log,
		metrics: o.Metrics,
		dataset: dataset,
	}, nil
}

// LoadTables loads reference tables by embedded dataset name or, when
// nameOrPath looks like a file path, from a TOML dataset file.
// An empty name selects DefaultDataset.
func LoadTables(nameOrPath string) (*tables.Tables, error) {
	var (
		t   *tables.Tables
		err error
	)
	switch {
	case nameOrPath == "" || nameOrPath == datasets.Default.String():
		t, err = tables.Default()
	case isDatasetFile(nameOrPath):
		t, err = tables.LoadFile(nameOrPath)
	default:
		t, err = tables.Load(datasets.Version(nameOrPath))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %q: %w", nameOrPath, err)
	}
	return t, nil
}

// Dataset returns the version of the dataset the tables were built from,
// or "custom" for tables passed with WithTables that carry no version.
func (v *Validator) Dataset() string {
	return v.dataset
}

// Metrics returns the metrics sink, or nil when metrics are disabled.
func (v *Validator) Metrics() *Metrics {
	return v.metrics
}

// WorkerCount returns the configured batch parallelism.
func (v *Validator) WorkerCount() int {
	return v.opts.WorkerCount
}

// CacheStats returns lookup cache statistics, or false when the
// validator was created without WithLookupCache.
func (v *Validator) CacheStats() (cache.Stats, bool) {
	return v.decoder.CacheStats()
}

// Unknown returns the placeholder used for names missing from the tables.
func (v *Validator) Unknown() string {
	return v.decoder.Unknown()
}

// CheckValidity reports whether s has the length and character set of a VIN.
// It returns nil for a valid VIN, or an error of kind IncorrectLength or
// InvalidCharacters.
func (v *Validator) CheckValidity(s string) error {
	start := time.Now()
	err := vin.Validate(s)
	v.metrics.RecordOperation(OpCheck, time.Since(start), err == nil)
	return err
}

// IsValid reports whether CheckValidity accepts s.
func (v *Validator) IsValid(s string) bool {
	return v.CheckValidity(s) == nil
}

// VerifyChecksum validates s and verifies its check digit.
// A mismatch is returned as a *vin.ChecksumError.
func (v *Validator) VerifyChecksum(s string) error {
	start := time.Now()
	err := vin.VerifyChecksum(s)
	v.metrics.RecordOperation(OpChecksum, time.Since(start), err == nil)
	if errors.Is(err, vin.ErrChecksum) {
		v.metrics.RecordChecksumMismatch()
	}
	return err
}

// GetInfo validates and decodes s.
// A checksum mismatch does not fail decoding; it is reported in the
// returned record.
func (v *Validator) GetInfo(s string) (*DecodedVin, error) {
	start := time.Now()
	info, err := v.decode(s)
	v.metrics.RecordOperation(OpDecode, time.Since(start), err == nil)
	return info, err
}

func (v *Validator) decode(s string) (*DecodedVin, error) {
	info, err := v.decoder.Decode(s)
	if err != nil {
		return nil, err
	}
	if !info.ValidChecksum {
		v.metrics.RecordChecksumMismatch()
	}
	for _, f := range v.unknownFields(info) {
		v.metrics.RecordUnknown(f)
	}
	return info, nil
}

func (v *Validator) unknownFields(info *DecodedVin) []string {
	placeholder := v.decoder.Unknown()
	var fields []string
	if info.Country == placeholder {
		fields = append(fields, FieldCountry)
	}
	if info.Manufacturer == placeholder {
		fields = append(fields, FieldManufacturer)
	}
	if info.Region == placeholder {
		fields = append(fields, FieldRegion)
	}
	return fields
}

// Inspect runs every check on s and collects the findings in a Result.
// Structural failures are errors. A checksum mismatch is a warning unless
// the validator was created with WithStrictChecksum.
func (v *Validator) Inspect(s string) *Result {
	start := time.Now()
	r := NewResult()
	r.VIN = s

	info, err := v.decode(s)
	if err != nil {
		r.AddIssue(IssueFromError(err))
	} else {
		r.Info = info
		if cs := info.Checksum; cs != nil {
			issue := IssueFromError(&vin.ChecksumError{Expected: cs.Expected, Received: cs.Received})
			if !v.opts.StrictChecksum {
				issue.Severity = SeverityWarning
			}
			r.AddIssue(issue)
		}
		if v.opts.ReportUnknown {
			for _, f := range v.unknownFields(info) {
				r.AddIssue(Info(IssueTypeNotFound).
					Field(f).
					Diagnostics(fmt.Sprintf("no %s registered for %s", f, vin.WMI(s))).
					Build())
			}
		}
	}

	for _, issue := range r.Issues {
		v.metrics.RecordIssue(issue.Severity)
	}
	v.metrics.RecordOperation(OpInspect, time.Since(start), r.Valid)

	if !r.Valid {
		v.log.Debug("VIN rejected", "vin", s, "errors", r.ErrorCount())
	}
	return r
}

// InspectContext is Inspect with cancellation: it returns ctx.Err()
// without inspecting when ctx is already done.
func (v *Validator) InspectContext(ctx context.Context, s string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.Inspect(s), nil
}

var (
	defaultValidator *Validator
	defaultErr       error
	defaultOnce      sync.Once
)

// Default returns a Validator over the default embedded dataset.
// It is created on first use, exactly once per process.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = New()
	})
	return defaultValidator, defaultErr
}

// CheckValidity reports whether s has the length and character set of a VIN.
func CheckValidity(s string) error {
	return vin.Validate(s)
}

// IsValid reports whether CheckValidity accepts s.
func IsValid(s string) bool {
	return vin.IsValid(s)
}

// VerifyChecksum validates s and verifies its check digit.
func VerifyChecksum(s string) error {
	return vin.VerifyChecksum(s)
}

// CheckDigit computes the check character of s. The character currently
// at position 9 is ignored.
func CheckDigit(s string) (byte, error) {
	return vin.CheckDigit(s)
}

// GetInfo validates and decodes s with the default Validator.
func GetInfo(s string) (*DecodedVin, error) {
	v, err := Default()
	if err != nil {
		return nil, err
	}
	return v.GetInfo(s)
}

// Inspect runs every check on s with the default Validator.
func Inspect(s string) (*Result, error) {
	v, err := Default()
	if err != nil {
		return nil, err
	}
	return v.Inspect(s), nil
}
