package vinvalidator

import (
	"sync"
)

// Result is the full inspection report for one VIN: every issue found and,
// when the VIN is structurally valid, its decoding.
// Call Release when done with it.
type Result struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool `json:"valid"`

	// VIN is the inspected input
	VIN string `json:"vin"`

	// Issues contains all issues found
	Issues []Issue `json:"issues,omitempty"`

	// Info is the decoding; nil when the VIN is structurally invalid
	Info *DecodedVin `json:"info,omitempty"`

	// JobID is set when using batch validation to correlate results
	JobID string `json:"jobId,omitempty"`

	// mu protects concurrent access to Issues
	mu sync.Mutex
}

// NewResult creates an empty, valid result.
func NewResult() *Result {
	return &Result{
		Valid:  true,
		Issues: make([]Issue, 0, 4),
	}
}

// Release clears the result and releases its decoding.
// After calling Release, the Result should not be used.
// Releasing a nil result is a no-op.
func (r *Result) Release() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Info.Release()
	r.Info = nil
	r.Valid = false
	r.VIN = ""
	r.JobID = ""
	r.Issues = nil
}

// AddIssue adds an issue to the result.
// This method is thread-safe.
func (r *Result) AddIssue(issue Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Issues = append(r.Issues, issue)
	if issue.IsError() {
		r.Valid = false
	}
}

// AddIssues adds multiple issues to the result.
// This method is thread-safe.
func (r *Result) AddIssues(issues []Issue) {
	if len(issues) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Issues = append(r.Issues, issues...)
	for _, issue := range issues {
		if issue.IsError() {
			r.Valid = false
			break
		}
	}
}

// HasErrors returns true if there are any error issues.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// HasWarnings returns true if there are any warning issues.
func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

// ErrorCount returns the number of error issues.
func (r *Result) ErrorCount() int {
	return len(r.filter(Issue.IsError))
}

// WarningCount returns the number of warning issues.
func (r *Result) WarningCount() int {
	return len(r.filter(Issue.IsWarning))
}

// Errors returns all error issues.
func (r *Result) Errors() []Issue {
	return r.filter(Issue.IsError)
}

// Warnings returns all warning issues.
func (r *Result) Warnings() []Issue {
	return r.filter(Issue.IsWarning)
}

func (r *Result) filter(keep func(Issue) bool) []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Issue
	for _, issue := range r.Issues {
		if keep(issue) {
			out = append(out, issue)
		}
	}
	return out
}

// Clone creates an independent copy of the result.
func (r *Result) Clone() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := &Result{
		Valid:  r.Valid,
		VIN:    r.VIN,
		Issues: make([]Issue, len(r.Issues)),
		Info:   r.Info.Clone(),
		JobID:  r.JobID,
	}
	copy(clone.Issues, r.Issues)
	return clone
}
