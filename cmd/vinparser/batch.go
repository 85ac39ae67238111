package main

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	vinvalidator "github.com/vinkit/validator"
	"github.com/vinkit/validator/cache"
	"github.com/vinkit/validator/worker"
)

// maxLineLength bounds one input line.
const maxLineLength = 64 * 1024

type batchFlags struct {
	invalidOnly bool
	stats       bool
	metricsFile string
}

// batchLine is one input line in JSON output.
type batchLine struct {
	ID     string               `json:"id"`
	Line   int                  `json:"line"`
	VIN    string               `json:"vin"`
	Valid  bool                 `json:"valid"`
	Error  string               `json:"error,omitempty"`
	Result *vinvalidator.Result `json:"result,omitempty"`
}

// batchReport is the JSON output of batch.
type batchReport struct {
	Total    int                    `json:"total"`
	Valid    int                    `json:"valid"`
	Invalid  int                    `json:"invalid"`
	Failed   int                    `json:"failed"`
	Duration string                 `json:"duration"`
	Results  []batchLine            `json:"results"`
	Stats    *vinvalidator.Snapshot `json:"stats,omitempty"`
	Cache    *cache.Stats           `json:"cache,omitempty"`
}

func newBatchCommand(a *app) *cobra.Command {
	var bf batchFlags

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Inspect VINs read one per line",
		Long: `Inspect one VIN per line from a file, or from standard input when the
file is omitted or "-". Blank lines and lines starting with # are skipped.
VINs are inspected in parallel and reported in input order.

Standard input is inspected while it is read and each VIN gets a UUID
job id; file input is read first and its job ids are line numbers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.newValidator()
			if err != nil {
				return err
			}

			var batch *worker.BatchResult
			if len(args) == 1 && args[0] != "-" {
				batch, err = a.inspectFile(cmd, v, args[0])
			} else {
				batch, err = worker.Stream(cmd.Context(), v, v.WorkerCount(), a.scanJobs(cmd.InOrStdin()))
				if err != nil {
					batch.Release()
					err = usageError(fmt.Errorf("failed to read stdin: %w", err))
				}
			}
			if err != nil {
				return err
			}
			defer batch.Release()
			return a.reportBatch(cmd, v, batch, bf)
		},
	}

	cmd.Flags().BoolVar(&bf.invalidOnly, "invalid-only", false, "print only rejected VINs")
	cmd.Flags().BoolVar(&bf.stats, "stats", false, "print inspection statistics")
	cmd.Flags().StringVar(&bf.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")

	return cmd
}

// scanJobs yields one job per VIN line. Line is the source line number;
// ID is left empty.
func (a *app) scanJobs(r io.Reader) iter.Seq2[worker.Job, error] {
	return func(yield func(worker.Job, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 4096), maxLineLength)

		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			if !yield(worker.Job{VIN: a.prepare(text), Line: line}, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(worker.Job{}, err)
		}
	}
}

func (a *app) inspectFile(cmd *cobra.Command, v *vinvalidator.Validator, path string) (*worker.BatchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, usageError(err)
	}
	defer f.Close()

	var jobs []worker.Job
	for job, err := range a.scanJobs(f) {
		if err != nil {
			return nil, usageError(fmt.Errorf("failed to read %s: %w", path, err))
		}
		job.ID = strconv.Itoa(job.Line)
		jobs = append(jobs, job)
	}

	bv := worker.NewBatchValidator(v.InspectContext, v.WorkerCount())
	return bv.ValidateJobs(cmd.Context(), jobs), nil
}

func (a *app) reportBatch(cmd *cobra.Command, v *vinvalidator.Validator, batch *worker.BatchResult, bf batchFlags) error {
	a.log.Debug("batch done",
		"jobs", batch.TotalJobs,
		"failed", batch.FailedJobs,
		"duration", batch.TotalDuration,
		"checksum_mismatches", a.metrics.ChecksumMismatches(),
	)

	if bf.metricsFile != "" {
		if err := writeMetricsFile(bf.metricsFile, a.metrics); err != nil {
			return usageError(err)
		}
	}

	var err error
	w := cmd.OutOrStdout()
	if a.jsonOutput() {
		rep := newBatchReport(batch, a.metrics, bf)
		if cs, ok := v.CacheStats(); ok && bf.stats {
			rep.Cache = &cs
		}
		err = writeJSON(w, rep)
	} else {
		renderBatch(w, batch, a.metrics, bf)
		if cs, ok := v.CacheStats(); ok && bf.stats {
			field(w, "Lookup cache", fmt.Sprintf("%d hits, %d misses", cs.Hits, cs.Misses))
		}
	}
	if err != nil {
		return err
	}

	for _, r := range batch.Results {
		if r.Error != nil {
			return usageError(fmt.Errorf("line %d: %w", r.Line, r.Error))
		}
	}
	if n := batch.InvalidCount(); n > 0 {
		return invalidError(n, batch.TotalJobs)
	}
	return nil
}

func newBatchReport(batch *worker.BatchResult, m *vinvalidator.Metrics, bf batchFlags) batchReport {
	rep := batchReport{
		Total:    batch.TotalJobs,
		Valid:    batch.ValidCount(),
		Invalid:  batch.InvalidCount(),
		Failed:   batch.FailedJobs,
		Duration: batch.TotalDuration.Round(time.Microsecond).String(),
		Results:  make([]batchLine, 0, len(batch.Results)),
	}
	for _, r := range batch.Results {
		if bf.invalidOnly && r.Valid() {
			continue
		}
		bl := batchLine{ID: r.ID, Line: r.Line, VIN: r.VIN, Valid: r.Valid(), Result: r.Result}
		if r.Error != nil {
			bl.Error = r.Error.Error()
		}
		rep.Results = append(rep.Results, bl)
	}
	if bf.stats {
		s := m.Snapshot()
		rep.Stats = &s
	}
	return rep
}

func renderBatch(w io.Writer, batch *worker.BatchResult, m *vinvalidator.Metrics, bf batchFlags) {
	for _, r := range batch.Results {
		if bf.invalidOnly && r.Valid() {
			continue
		}
		lineNo := VerboseStyle.Render(fmt.Sprintf("%5d", r.Line))

		switch {
		case r.Error != nil:
			fmt.Fprintf(w, "%s %s %s  %s\n", lineNo, ErrorStyle.Render(markInvalid), r.VIN, ErrorStyle.Render(r.Error.Error()))
		case r.Valid():
			summary := ""
			if info := r.Result.Info; info != nil {
				summary = SubtitleStyle.Render(info.Manufacturer + ", " + info.Country)
			}
			fmt.Fprintf(w, "%s %s %s  %s\n", lineNo, SuccessStyle.Render(markValid), r.VIN, summary)
			renderIssues(w, r.Result.Warnings())
		default:
			fmt.Fprintf(w, "%s %s %s\n", lineNo, ErrorStyle.Render(markInvalid), r.VIN)
			renderIssues(w, r.Result.Issues)
		}
	}

	fmt.Fprintln(w)
	summary := fmt.Sprintf("%d VINs: %d valid, %d invalid", batch.TotalJobs, batch.ValidCount(), batch.InvalidCount())
	if batch.FailedJobs > 0 {
		summary += fmt.Sprintf(", %d not inspected", batch.FailedJobs)
	}
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(summary), SubtitleStyle.Render("("+batch.TotalDuration.Round(time.Microsecond).String()+")"))

	if bf.stats {
		renderStats(w, m.Snapshot())
	}
}

func renderStats(w io.Writer, s vinvalidator.Snapshot) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Statistics"))
	field(w, "Inspected", strconv.FormatUint(s.OperationsTotal, 10))
	field(w, "Rejected", strconv.FormatUint(s.OperationsFailed, 10))
	field(w, "Check digits", strconv.FormatUint(s.ChecksumMismatches, 10)+" mismatched")
	field(w, "Unknown", fmt.Sprintf("country %d, manufacturer %d, region %d",
		s.UnknownCountry, s.UnknownManufacturer, s.UnknownRegion))
	field(w, "Avg time", time.Duration(s.AvgTimeNs).String()) //nolint:gosec // nanoseconds within int64 range
}

// writeMetricsFile writes m in the Prometheus text format, for the node
// exporter textfile collector.
func writeMetricsFile(path string, m *vinvalidator.Metrics) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(vinvalidator.NewCollector(m, "vinparser")); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
