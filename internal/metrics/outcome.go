package metrics

import (
	"net/http"
	"time"
)

// Outcome is the terminal, immutable result of one work unit.
type Outcome struct {
	Index   int
	Status  int
	Err     error
	Latency time.Duration
}

// OK reports whether the attempt counts as a success. Only HTTP 200 qualifies;
// every other status and every transport error is a failure.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Status == http.StatusOK
}

// ResultSet accumulates every outcome of a run. It is written by a single
// collector goroutine and must not be read until the run has finished.
type ResultSet struct {
	outcomes []Outcome
}

// NewResultSet creates a ResultSet sized for the expected number of outcomes.
func NewResultSet(capacity int) *ResultSet {
	if capacity < 0 {
		capacity = 0
	}
	return &ResultSet{outcomes: make([]Outcome, 0, capacity)}
}

// Add appends one outcome. Not safe for concurrent use.
func (r *ResultSet) Add(o Outcome) {
	r.outcomes = append(r.outcomes, o)
}

// Len returns the number of collected outcomes.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.outcomes)
}

// Outcomes returns the collected outcomes in completion order.
func (r *ResultSet) Outcomes() []Outcome {
	if r == nil {
		return nil
	}
	return r.outcomes
}
