package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	fv "github.com/vinkit/validator"
)

// Validator is the interface that the pool uses to inspect VINs.
// *vinvalidator.Validator implements it.
type Validator interface {
	InspectContext(ctx context.Context, vin string) (*fv.Result, error)
}

// Pool manages a pool of worker goroutines for parallel inspection.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *JobResult
	validator  Validator
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// mu orders sends on jobsChan against its close
	mu     sync.RWMutex
	closed atomic.Bool

	// Metrics
	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool creates a new worker pool with the specified number of workers.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewPool(validator Validator, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *JobResult, workers*2),
		validator:  validator,
		ctx:        ctx,
		cancel:     cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit submits a job to the pool for processing and returns its ID.
// It blocks while the job queue is full and returns false once the pool
// is closed.
func (p *Pool) Submit(job Job) (string, bool) {
	return p.submit(job, true)
}

// SubmitAsync submits a job without blocking.
// Returns false if the job queue is full or the pool is closed.
func (p *Pool) SubmitAsync(job Job) (string, bool) {
	return p.submit(job, false)
}

func (p *Pool) submit(job Job, wait bool) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return "", false
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	if !wait {
		select {
		case p.jobsChan <- job:
			p.jobsSubmitted.Add(1)
			return job.ID, true
		default:
			return "", false
		}
	}

	select {
	case <-p.ctx.Done():
		return "", false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return job.ID, true
	}
}

// Results returns the channel for receiving job results.
func (p *Pool) Results() <-chan *JobResult {
	return p.resultChan
}

// Close stops the pool, dropping queued jobs, and waits for all workers
// to finish. Undelivered results are discarded.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}

	p.cancel()
	p.closeJobs()

	// Drain results in background to prevent worker deadlock
	done := make(chan struct{})
	go func() {
		for range p.resultChan {
			// Discard results
		}
		close(done)
	}()

	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// CloseAndWait stops accepting jobs, runs every queued job and returns
// the results not yet received through Results.
func (p *Pool) CloseAndWait() *BatchResult {
	if p.closed.Swap(true) {
		return &BatchResult{}
	}

	results := make([]*JobResult, 0)
	done := make(chan struct{})
	go func() {
		for result := range p.resultChan {
			results = append(results, result)
		}
		close(done)
	}()

	p.closeJobs()
	p.wg.Wait()
	close(p.resultChan)
	<-done
	p.cancel()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     int(p.jobsSubmitted.Load()),
		CompletedJobs: int(p.jobsCompleted.Load()),
		FailedJobs:    failed,
		TotalDuration: time.Duration(p.totalDuration.Load()), //nolint:gosec // nanoseconds within int64 range
	}
}

func (p *Pool) closeJobs() {
	p.mu.Lock()
	defer p.mu.Unlock()
	close(p.jobsChan)
}

// Stats returns current pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		AvgDuration:   p.averageDuration(),
	}
}

// PoolStats contains pool statistics.
type PoolStats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	AvgDuration   time.Duration
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.processJob(job)
		p.jobsCompleted.Add(1)
		p.totalDuration.Add(uint64(result.Duration)) //nolint:gosec // durations are positive

		select {
		case <-p.ctx.Done():
			result.Result.Release()
			return
		case p.resultChan <- result:
		}
	}
}

func (p *Pool) processJob(job Job) *JobResult {
	start := time.Now()

	result := &JobResult{
		ID:   job.ID,
		VIN:  job.VIN,
		Line: job.Line,
	}

	if p.validator == nil {
		result.Error = ErrNoValidator
	} else {
		result.Result, result.Error = p.validator.InspectContext(p.ctx, job.VIN)
		if result.Result != nil {
			result.Result.JobID = job.ID
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (p *Pool) averageDuration() time.Duration {
	completed := p.jobsCompleted.Load()
	if completed == 0 {
		return 0
	}
	return time.Duration(p.totalDuration.Load() / completed) //nolint:gosec // nanoseconds within int64 range
}

// ErrNoValidator is returned when the pool has no validator configured.
var ErrNoValidator = poolError("no validator configured")

type poolError string

func (e poolError) Error() string {
	return string(e)
}
