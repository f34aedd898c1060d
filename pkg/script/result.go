package script

import (
	"time"

	"github.com/google/uuid"
)

// Status describes the outcome of one case.
type Status string

// Case status values.
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// CaseResult is the outcome of one executed case. Failed means
// an expectation did not hold; Error means the command could
// not be run at all.
type CaseResult struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Command    string `json:"command"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// SuiteResult aggregates the outcomes of one suite run.
type SuiteResult struct {
	Suite      string       `json:"suite"`
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMs int64        `json:"duration_ms"`
	Cases      []CaseResult `json:"cases"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	Skipped    int          `json:"skipped"`
	Errored    int          `json:"errored"`
}

// NewSuiteResult creates an empty result with a fresh run ID.
func NewSuiteResult(suite string) *SuiteResult {
	return &SuiteResult{
		Suite:     suite,
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// Record appends a case result and updates the counters.
func (r *SuiteResult) Record(cr CaseResult) {
	r.Cases = append(r.Cases, cr)
	switch cr.Status {
	case StatusPassed:
		r.Passed++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	case StatusError:
		r.Errored++
	}
}

// Total returns the number of recorded cases.
func (r *SuiteResult) Total() int {
	return len(r.Cases)
}

// AllPassed reports whether no case failed or errored. Skipped
// cases do not count against the run.
func (r *SuiteResult) AllPassed() bool {
	return r.Failed == 0 && r.Errored == 0
}
