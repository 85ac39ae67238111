package vinvalidator

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Basic(t *testing.T) {
	m := NewMetrics()

	if m.OperationsTotal() != 0 {
		t.Errorf("OperationsTotal() = %d; want 0", m.OperationsTotal())
	}

	m.RecordOperation(OpCheck, time.Millisecond, true)
	m.RecordOperation(OpCheck, time.Millisecond, false)

	if m.OperationsTotal() != 2 {
		t.Errorf("OperationsTotal() = %d; want 2", m.OperationsTotal())
	}
	if m.OperationsFailed() != 1 {
		t.Errorf("OperationsFailed() = %d; want 1", m.OperationsFailed())
	}
	if rate := m.SuccessRate(); rate != 0.5 {
		t.Errorf("SuccessRate() = %f; want 0.5", rate)
	}
}

func TestMetrics_Time(t *testing.T) {
	m := NewMetrics()

	if avg := m.AverageTime(); avg != 0 {
		t.Errorf("AverageTime() = %v; want 0", avg)
	}
	if minTime := m.MinTime(); minTime != 0 {
		t.Errorf("MinTime() = %v; want 0", minTime)
	}

	m.RecordOperation(OpDecode, 100*time.Microsecond, true)
	m.RecordOperation(OpDecode, 200*time.Microsecond, true)
	m.RecordOperation(OpDecode, 300*time.Microsecond, true)

	if avg := m.AverageTime(); avg != 200*time.Microsecond {
		t.Errorf("AverageTime() = %v; want 200µs", avg)
	}
	if minTime := m.MinTime(); minTime != 100*time.Microsecond {
		t.Errorf("MinTime() = %v; want 100µs", minTime)
	}
	if maxTime := m.MaxTime(); maxTime != 300*time.Microsecond {
		t.Errorf("MaxTime() = %v; want 300µs", maxTime)
	}
}

func TestMetrics_Operations(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation(OpDecode, 10*time.Microsecond, true)
	m.RecordOperation(OpDecode, 30*time.Microsecond, false)
	m.RecordOperation(OpCheck, time.Microsecond, true)

	stats, ok := m.Operation(OpDecode)
	if !ok {
		t.Fatal("Operation(decode) not found")
	}
	if stats.Calls != 2 || stats.Failures != 1 {
		t.Errorf("decode stats = %+v; want 2 calls, 1 failure", stats)
	}
	if stats.Average != 20*time.Microsecond {
		t.Errorf("decode Average = %v; want 20µs", stats.Average)
	}

	if _, ok := m.Operation(OpChecksum); ok {
		t.Error("Operation(checksum) found before any checksum was recorded")
	}

	all := m.Operations()
	if len(all) != 2 || all[0].Name != OpCheck || all[1].Name != OpDecode {
		t.Errorf("Operations() = %+v; want check, decode", all)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordChecksumMismatch()
	m.RecordUnknown(FieldCountry)
	m.RecordUnknown(FieldManufacturer)
	m.RecordUnknown(FieldManufacturer)
	m.RecordUnknown("colour")
	m.RecordIssue(SeverityError)
	m.RecordIssue(SeverityWarning)
	m.RecordIssue(SeverityInformation)

	if got := m.ChecksumMismatches(); got != 1 {
		t.Errorf("ChecksumMismatches() = %d; want 1", got)
	}
	if got := m.UnknownLookups(FieldManufacturer); got != 2 {
		t.Errorf("UnknownLookups(manufacturer) = %d; want 2", got)
	}
	if got := m.UnknownLookups(FieldRegion); got != 0 {
		t.Errorf("UnknownLookups(region) = %d; want 0", got)
	}
	if m.ErrorsTotal() != 1 || m.WarningsTotal() != 1 {
		t.Errorf("issues = %d errors, %d warnings; want 1, 1", m.ErrorsTotal(), m.WarningsTotal())
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordOperation(OpCheck, time.Millisecond, true)
	m.RecordChecksumMismatch()
	m.RecordUnknown(FieldRegion)
	m.RecordIssue(SeverityError)
}

func TestMetrics_SnapshotExportReset(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation(OpInspect, time.Millisecond, false)
	m.RecordChecksumMismatch()
	m.RecordUnknown(FieldRegion)

	s := m.Snapshot()
	if s.OperationsTotal != 1 || s.OperationsFailed != 1 {
		t.Errorf("snapshot operations = %d/%d; want 1/1", s.OperationsTotal, s.OperationsFailed)
	}
	if s.MinTimeNs != uint64(time.Millisecond) {
		t.Errorf("MinTimeNs = %d; want %d", s.MinTimeNs, time.Millisecond)
	}
	if s.UnknownRegion != 1 || s.ChecksumMismatches != 1 {
		t.Errorf("snapshot = %+v", s)
	}
	if len(s.Operations) != 1 {
		t.Errorf("len(Operations) = %d; want 1", len(s.Operations))
	}

	exp := m.Export()
	if exp["checksum_mismatches"] != uint64(1) {
		t.Errorf("Export()[checksum_mismatches] = %v; want 1", exp["checksum_mismatches"])
	}

	m.Reset()
	s = m.Snapshot()
	if s.OperationsTotal != 0 || s.MinTimeNs != 0 || len(s.Operations) != 0 || s.UnknownRegion != 0 {
		t.Errorf("snapshot after Reset = %+v", s)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordOperation(OpChecksum, time.Microsecond, j%2 == 0)
				m.RecordChecksumMismatch()
			}
		}()
	}
	wg.Wait()

	if got := m.OperationsTotal(); got != 1000 {
		t.Errorf("OperationsTotal() = %d; want 1000", got)
	}
	if got := m.OperationsFailed(); got != 500 {
		t.Errorf("OperationsFailed() = %d; want 500", got)
	}
	if got := m.ChecksumMismatches(); got != 1000 {
		t.Errorf("ChecksumMismatches() = %d; want 1000", got)
	}
}

func TestCollector(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation(OpCheck, time.Millisecond, true)
	m.RecordOperation(OpDecode, time.Millisecond, false)
	m.RecordChecksumMismatch()
	m.RecordChecksumMismatch()

	c := NewCollector(m, "")

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if got := testutil.CollectAndCount(c, "vin_operations_total"); got != 2 {
		t.Errorf("vin_operations_total series = %d; want 2", got)
	}
	if got := testutil.CollectAndCount(c, "vin_unknown_lookups_total"); got != 3 {
		t.Errorf("vin_unknown_lookups_total series = %d; want 3", got)
	}

	expected := `
# HELP vin_checksum_mismatches_total Check digit mismatches found.
# TYPE vin_checksum_mismatches_total counter
vin_checksum_mismatches_total 2
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "vin_checksum_mismatches_total"); err != nil {
		t.Errorf("CollectAndCompare: %v", err)
	}
}

func TestCollector_Namespace(t *testing.T) {
	c := NewCollector(NewMetrics(), "fleet")
	if got := testutil.CollectAndCount(c, "fleet_vin_checksum_mismatches_total"); got != 1 {
		t.Errorf("fleet_vin_checksum_mismatches_total series = %d; want 1", got)
	}
}

func TestCollector_NilMetrics(t *testing.T) {
	c := NewCollector(nil, "")
	if got := testutil.CollectAndCount(c); got != 0 {
		t.Errorf("series = %d; want 0", got)
	}
}
