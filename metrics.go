package vinvalidator

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Operation names used for per-operation metrics.
const (
	OpCheck    = "check"
	OpChecksum = "checksum"
	OpDecode   = "decode"
	OpInspect  = "inspect"
)

// Decoded fields counted by RecordUnknown.
const (
	FieldCountry      = "country"
	FieldManufacturer = "manufacturer"
	FieldRegion       = "region"
)

// Metrics tracks validator activity using lock-free atomic operations.
// All methods are safe for concurrent use, and all recording methods are
// no-ops on a nil *Metrics.
type Metrics struct {
	// Operation counts
	opsTotal  atomic.Uint64
	opsFailed atomic.Uint64

	// Timing (stored as nanoseconds)
	timeTotal atomic.Uint64
	timeMin   atomic.Uint64
	timeMax   atomic.Uint64

	checksumMismatches atomic.Uint64

	// Lookups that fell back to the placeholder
	unknownCountry      atomic.Uint64
	unknownManufacturer atomic.Uint64
	unknownRegion       atomic.Uint64

	// Issue counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	operations sync.Map // map[string]*operationMetrics
}

type operationMetrics struct {
	calls     atomic.Uint64
	failures  atomic.Uint64
	totalTime atomic.Uint64 // nanoseconds
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.timeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordOperation records one completed operation.
// ok is false when the operation rejected its input.
func (m *Metrics) RecordOperation(op string, duration time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.opsTotal.Add(1)
	if !ok {
		m.opsFailed.Add(1)
	}

	ns := uint64(max(duration.Nanoseconds(), 0))
	m.timeTotal.Add(ns)

	for {
		old := m.timeMin.Load()
		if ns >= old || m.timeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.timeMax.Load()
		if ns <= old || m.timeMax.CompareAndSwap(old, ns) {
			break
		}
	}

	om := m.operation(op)
	om.calls.Add(1)
	om.totalTime.Add(ns)
	if !ok {
		om.failures.Add(1)
	}
}

// RecordChecksumMismatch records a check digit mismatch.
func (m *Metrics) RecordChecksumMismatch() {
	if m == nil {
		return
	}
	m.checksumMismatches.Add(1)
}

// RecordUnknown records a lookup of field that found no name.
func (m *Metrics) RecordUnknown(field string) {
	if m == nil {
		return
	}
	switch field {
	case FieldCountry:
		m.unknownCountry.Add(1)
	case FieldManufacturer:
		m.unknownManufacturer.Add(1)
	case FieldRegion:
		m.unknownRegion.Add(1)
	}
}

// RecordIssue records an issue based on severity.
func (m *Metrics) RecordIssue(severity IssueSeverity) {
	if m == nil {
		return
	}
	switch severity {
	case SeverityError:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInformation:
		m.infosTotal.Add(1)
	}
}

func (m *Metrics) operation(name string) *operationMetrics {
	if v, ok := m.operations.Load(name); ok {
		return v.(*operationMetrics)
	}
	actual, _ := m.operations.LoadOrStore(name, &operationMetrics{})
	return actual.(*operationMetrics)
}

// --- Query Methods ---

// OperationsTotal returns the number of operations performed.
func (m *Metrics) OperationsTotal() uint64 {
	return m.opsTotal.Load()
}

// OperationsFailed returns the number of operations that rejected their input.
func (m *Metrics) OperationsFailed() uint64 {
	return m.opsFailed.Load()
}

// SuccessRate returns the share of operations that accepted their input (0.0 to 1.0).
func (m *Metrics) SuccessRate() float64 {
	total := m.opsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(total-m.opsFailed.Load()) / float64(total)
}

// AverageTime returns the average operation duration.
func (m *Metrics) AverageTime() time.Duration {
	total := m.opsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.timeTotal.Load() / total) //nolint:gosec // nanoseconds within int64 range
}

// MinTime returns the shortest operation duration.
func (m *Metrics) MinTime() time.Duration {
	v := m.timeMin.Load()
	if v == ^uint64(0) {
		return 0
	}
	return time.Duration(v) //nolint:gosec // nanoseconds within int64 range
}

// MaxTime returns the longest operation duration.
func (m *Metrics) MaxTime() time.Duration {
	return time.Duration(m.timeMax.Load()) //nolint:gosec // nanoseconds within int64 range
}

// ChecksumMismatches returns the number of check digit mismatches.
func (m *Metrics) ChecksumMismatches() uint64 {
	return m.checksumMismatches.Load()
}

// UnknownLookups returns the number of lookups of field that found no name.
func (m *Metrics) UnknownLookups(field string) uint64 {
	switch field {
	case FieldCountry:
		return m.unknownCountry.Load()
	case FieldManufacturer:
		return m.unknownManufacturer.Load()
	case FieldRegion:
		return m.unknownRegion.Load()
	default:
		return 0
	}
}

// ErrorsTotal returns the total error issues.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning issues.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// OperationStats contains statistics for a single operation.
type OperationStats struct {
	Name     string        `json:"name"`
	Calls    uint64        `json:"calls"`
	Failures uint64        `json:"failures"`
	Total    time.Duration `json:"total_ns"`
	Average  time.Duration `json:"avg_ns"`
}

// Operation returns statistics for one operation.
func (m *Metrics) Operation(name string) (OperationStats, bool) {
	v, ok := m.operations.Load(name)
	if !ok {
		return OperationStats{Name: name}, false
	}
	return v.(*operationMetrics).stats(name), true
}

// Operations returns statistics for every recorded operation, sorted by name.
func (m *Metrics) Operations() []OperationStats {
	var stats []OperationStats
	m.operations.Range(func(key, value any) bool {
		stats = append(stats, value.(*operationMetrics).stats(key.(string)))
		return true
	})
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

func (om *operationMetrics) stats(name string) OperationStats {
	calls := om.calls.Load()
	total := om.totalTime.Load()

	var avg time.Duration
	if calls > 0 {
		avg = time.Duration(total / calls) //nolint:gosec // nanoseconds within int64 range
	}
	return OperationStats{
		Name:     name,
		Calls:    calls,
		Failures: om.failures.Load(),
		Total:    time.Duration(total), //nolint:gosec // nanoseconds within int64 range
		Average:  avg,
	}
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	OperationsTotal  uint64  `json:"operations_total"`
	OperationsFailed uint64  `json:"operations_failed"`
	SuccessRate      float64 `json:"success_rate"`

	// Timing metrics (in nanoseconds for precision)
	AvgTimeNs uint64 `json:"avg_time_ns"`
	MinTimeNs uint64 `json:"min_time_ns"`
	MaxTimeNs uint64 `json:"max_time_ns"`

	ChecksumMismatches uint64 `json:"checksum_mismatches"`

	UnknownCountry      uint64 `json:"unknown_country"`
	UnknownManufacturer uint64 `json:"unknown_manufacturer"`
	UnknownRegion       uint64 `json:"unknown_region"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	Operations []OperationStats `json:"operations,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.opsTotal.Load()

	var avg uint64
	if total > 0 {
		avg = m.timeTotal.Load() / total
	}
	minTime := m.timeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:           time.Now(),
		OperationsTotal:     total,
		OperationsFailed:    m.opsFailed.Load(),
		SuccessRate:         m.SuccessRate(),
		AvgTimeNs:           avg,
		MinTimeNs:           minTime,
		MaxTimeNs:           m.timeMax.Load(),
		ChecksumMismatches:  m.checksumMismatches.Load(),
		UnknownCountry:      m.unknownCountry.Load(),
		UnknownManufacturer: m.unknownManufacturer.Load(),
		UnknownRegion:       m.unknownRegion.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		WarningsTotal:       m.warningsTotal.Load(),
		InfosTotal:          m.infosTotal.Load(),
		Operations:          m.Operations(),
	}
}

// Export returns metrics as a flat map for external systems.
func (m *Metrics) Export() map[string]any {
	s := m.Snapshot()
	return map[string]any{
		"operations_total":     s.OperationsTotal,
		"operations_failed":    s.OperationsFailed,
		"success_rate":         s.SuccessRate,
		"avg_time_ns":          s.AvgTimeNs,
		"min_time_ns":          s.MinTimeNs,
		"max_time_ns":          s.MaxTimeNs,
		"checksum_mismatches":  s.ChecksumMismatches,
		"unknown_country":      s.UnknownCountry,
		"unknown_manufacturer": s.UnknownManufacturer,
		"unknown_region":       s.UnknownRegion,
		"errors_total":         s.ErrorsTotal,
		"warnings_total":       s.WarningsTotal,
		"infos_total":          s.InfosTotal,
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.opsTotal.Store(0)
	m.opsFailed.Store(0)
	m.timeTotal.Store(0)
	m.timeMin.Store(^uint64(0))
	m.timeMax.Store(0)
	m.checksumMismatches.Store(0)
	m.unknownCountry.Store(0)
	m.unknownManufacturer.Store(0)
	m.unknownRegion.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	m.operations.Range(func(key, _ any) bool {
		m.operations.Delete(key)
		return true
	})
}
