package worker

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"time"
)

// Stream inspects jobs through a Pool as they are yielded, so input is
// not buffered before inspection starts. Jobs without an ID get a UUID.
//
// Results are ordered by Line. Iteration stops at the first error yielded
// by jobs or when ctx is done; jobs already submitted still run and are
// part of the returned batch.
func Stream(ctx context.Context, v Validator, workers int, jobs iter.Seq2[Job, error]) (*BatchResult, error) {
	start := time.Now()
	pool := NewPool(v, workers)

	var received []*JobResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range pool.Results() {
			received = append(received, r)
		}
	}()

	var err error
	for job, jerr := range jobs {
		if jerr != nil {
			err = jerr
			break
		}
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			break
		}
		if _, ok := pool.Submit(job); !ok {
			break
		}
	}

	// CloseAndWait closes the results channel, which ends the collector.
	rest := pool.CloseAndWait()
	<-done

	results := append(received, rest.Results...)
	slices.SortStableFunc(results, func(a, b *JobResult) int {
		return cmp.Compare(a.Line, b.Line)
	})

	br := &BatchResult{
		Results:       results,
		TotalJobs:     rest.TotalJobs,
		TotalDuration: time.Since(start),
	}
	for _, r := range results {
		if r.Error != nil {
			br.FailedJobs++
		} else {
			br.CompletedJobs++
		}
	}
	return br, err
}
