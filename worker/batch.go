package worker

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	fv "github.com/vinkit/validator"
)

// InspectFunc inspects a single VIN.
type InspectFunc func(ctx context.Context, vin string) (*fv.Result, error)

// BatchValidator inspects a batch of VINs in parallel and returns the
// results in input order.
type BatchValidator struct {
	inspect InspectFunc
	workers int
}

// NewBatchValidator creates a new batch validator.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewBatchValidator(fn InspectFunc, workers int) *BatchValidator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchValidator{
		inspect: fn,
		workers: workers,
	}
}

// ValidateBatch inspects vins. Job IDs and lines are the 1-based
// positions in vins.
func (bv *BatchValidator) ValidateBatch(ctx context.Context, vins []string) *BatchResult {
	jobs := make([]Job, len(vins))
	for i, s := range vins {
		jobs[i] = Job{ID: strconv.Itoa(i + 1), VIN: s, Line: i + 1}
	}
	return bv.ValidateJobs(ctx, jobs)
}

// ValidateJobs inspects jobs. Results[i] always belongs to jobs[i]; jobs
// not run because ctx was cancelled carry ctx.Err().
func (bv *BatchValidator) ValidateJobs(ctx context.Context, jobs []Job) *BatchResult {
	start := time.Now()
	results := make([]*JobResult, len(jobs))

	// For small batches, don't use parallelism
	if len(jobs) <= 2 || bv.workers == 1 {
		for i, job := range jobs {
			results[i] = bv.run(ctx, job)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(bv.workers)
		for i, job := range jobs {
			g.Go(func() error {
				results[i] = bv.run(ctx, job)
				return nil
			})
		}
		_ = g.Wait()
	}

	br := &BatchResult{
		Results:       results,
		TotalJobs:     len(jobs),
		TotalDuration: time.Since(start),
	}
	for _, r := range results {
		if r.Error != nil {
			br.FailedJobs++
		} else {
			br.CompletedJobs++
		}
	}
	return br
}

func (bv *BatchValidator) run(ctx context.Context, job Job) *JobResult {
	jr := &JobResult{ID: job.ID, VIN: job.VIN, Line: job.Line}
	if err := ctx.Err(); err != nil {
		jr.Error = err
		return jr
	}
	if bv.inspect == nil {
		jr.Error = ErrNoValidator
		return jr
	}

	start := time.Now()
	jr.Result, jr.Error = bv.inspect(ctx, job.VIN)
	jr.Duration = time.Since(start)
	if jr.Result != nil {
		jr.Result.JobID = job.ID
	}
	return jr
}

// ValidateBatchSimple is a convenience function for batch inspection.
func ValidateBatchSimple(ctx context.Context, fn InspectFunc, vins []string) *BatchResult {
	bv := NewBatchValidator(fn, runtime.NumCPU())
	return bv.ValidateBatch(ctx, vins)
}
