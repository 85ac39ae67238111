package worker

import (
	"time"

	fv "github.com/vinkit/validator"
)

// Job is one VIN to inspect.
type Job struct {
	// ID identifies the job in its result. Pool.Submit assigns a UUID
	// when it is empty.
	ID string

	// VIN is the input to inspect, as read.
	VIN string

	// Line is the 1-based source line of the VIN, or 0 if unknown.
	Line int
}

// JobResult is the outcome of one job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	VIN  string
	Line int

	// Result is the inspection report; nil when Error is set.
	Result *fv.Result

	// Error is set when the job could not run (cancellation, no validator).
	// An invalid VIN is not an error; see Result.Valid.
	Error error

	// Duration is the time taken to inspect the VIN.
	Duration time.Duration
}

// Valid reports whether the job ran and the VIN has no error issues.
func (jr *JobResult) Valid() bool {
	return jr.Error == nil && jr.Result != nil && jr.Result.Valid
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs that ran.
	CompletedJobs int

	// FailedJobs is the number of jobs that did not run.
	FailedJobs int

	// TotalDuration is the wall time of the batch.
	TotalDuration time.Duration
}

// HasErrors returns true if any job failed or found an invalid VIN.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
		if r.Result != nil && r.Result.HasErrors() {
			return true
		}
	}
	return false
}

// ErrorCount returns the total number of error issues across all results.
func (br *BatchResult) ErrorCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += r.Result.ErrorCount()
		}
	}
	return count
}

// ValidCount returns the number of valid VINs.
func (br *BatchResult) ValidCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Valid() {
			count++
		}
	}
	return count
}

// InvalidCount returns the number of jobs that ran and found an invalid VIN.
func (br *BatchResult) InvalidCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Error == nil && r.Result != nil && !r.Result.Valid {
			count++
		}
	}
	return count
}

// Release releases every result in the batch.
func (br *BatchResult) Release() {
	for _, r := range br.Results {
		r.Result.Release()
		r.Result = nil
	}
}
