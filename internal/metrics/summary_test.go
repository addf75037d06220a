package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestNearestRank(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"empty p99", []float64{}, 99, 0},
		{"single", []float64{42}, 50, 42},
		{"single p99", []float64{42}, 99, 42},
		{"two p50", []float64{10, 20}, 50, 10},
		{"two p99", []float64{10, 20}, 99, 10},
		{"two p100", []float64{10, 20}, 100, 20},
		{"ten p50", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 50, 5},
		{"ten p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 90, 9},
		{"ten p99", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 99, 9},
		{"ten p100 is max", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 100, 10},
		{"hundred p99", hundred(), 99, 99},
		{"hundred p50", hundred(), 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NearestRank(tt.sorted, tt.p)
			if got != tt.want {
				t.Errorf("NearestRank(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

// hundred returns {1, 2, ..., 100}.
func hundred() []float64 {
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	return vals
}

func TestSummarizeCountsEveryOutcome(t *testing.T) {
	rs := NewResultSet(6)
	rs.Add(Outcome{Index: 0, Status: http.StatusOK, Latency: 10 * time.Millisecond})
	rs.Add(Outcome{Index: 1, Status: http.StatusOK, Latency: 20 * time.Millisecond})
	rs.Add(Outcome{Index: 2, Status: http.StatusOK, Latency: 30 * time.Millisecond})
	rs.Add(Outcome{Index: 3, Status: http.StatusInternalServerError, Err: errors.New("HTTP 500")})
	rs.Add(Outcome{Index: 4, Status: http.StatusNotFound, Err: errors.New("HTTP 404")})
	rs.Add(Outcome{Index: 5, Err: errors.New("dial refused")})

	summary := Summarize(rs, 2*time.Second)

	if summary.Total != 6 {
		t.Errorf("total = %d", summary.Total)
	}
	if summary.Successes != 3 || summary.Failures != 3 {
		t.Errorf("successes/failures = %d/%d", summary.Successes, summary.Failures)
	}
	if summary.Successes+summary.Failures != summary.Total {
		t.Error("success + failure must equal total")
	}
	if summary.RequestsPerSec != 3.0 {
		t.Errorf("rps = %v, want 3.0", summary.RequestsPerSec)
	}
	if summary.ElapsedSeconds != 2.0 {
		t.Errorf("elapsed seconds = %v", summary.ElapsedSeconds)
	}
}

// Failed request latencies never contaminate the percentiles.
func TestSummarizePercentilesUseOnlySuccesses(t *testing.T) {
	rs := NewResultSet(4)
	rs.Add(Outcome{Status: http.StatusOK, Latency: 10 * time.Millisecond})
	rs.Add(Outcome{Status: http.StatusOK, Latency: 20 * time.Millisecond})
	// Slow failure: must not appear in any percentile.
	rs.Add(Outcome{Status: http.StatusBadGateway, Err: errors.New("bad gateway"), Latency: 5 * time.Second})
	rs.Add(Outcome{Err: errors.New("timeout"), Latency: 10 * time.Second})

	summary := Summarize(rs, time.Second)

	if summary.MaxLatencyMs != 20 {
		t.Errorf("max = %v, want 20", summary.MaxLatencyMs)
	}
	if summary.P99LatencyMs != 10 {
		t.Errorf("p99 = %v, want 10 (index floor(0.99*1) of [10 20])", summary.P99LatencyMs)
	}
}

func TestSummarizeAllFailures(t *testing.T) {
	rs := NewResultSet(3)
	for i := 0; i < 3; i++ {
		rs.Add(Outcome{Index: i, Status: http.StatusServiceUnavailable, Err: errors.New("unavailable")})
	}

	summary := Summarize(rs, time.Second)

	if summary.Successes != 0 || summary.Failures != 3 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.P50LatencyMs != 0 || summary.P90LatencyMs != 0 || summary.P99LatencyMs != 0 || summary.MaxLatencyMs != 0 {
		t.Errorf("percentiles must be 0 with no successes: %+v", summary)
	}
}

func TestSummarizeZeroElapsed(t *testing.T) {
	rs := NewResultSet(1)
	rs.Add(Outcome{Status: http.StatusOK, Latency: time.Millisecond})

	summary := Summarize(rs, 0)
	if summary.RequestsPerSec != 0 {
		t.Errorf("rps = %v, want 0 for zero elapsed", summary.RequestsPerSec)
	}
}

// statusErr mirrors the dispatcher's non-200 error shape.
type statusErr struct{ code int }

func (e *statusErr) Error() string   { return "unexpected status" }
func (e *statusErr) HTTPStatus() int { return e.code }

func TestSummarizeErrorBreakdown(t *testing.T) {
	rs := NewResultSet(3)
	rs.Add(Outcome{Status: http.StatusNotFound})
	rs.Add(Outcome{Status: http.StatusNotFound})
	rs.Add(Outcome{Status: http.StatusOK, Latency: time.Millisecond})

	summary := Summarize(rs, time.Second)
	if summary.Errors["HTTP 404"] != 2 {
		t.Errorf("errors = %v", summary.Errors)
	}
}

// Status-carrying errors bucket per code, never into one generic kind.
func TestSummarizeErrorBreakdownPerStatusCode(t *testing.T) {
	rs := NewResultSet(4)
	rs.Add(Outcome{Index: 0, Status: http.StatusInternalServerError, Err: &statusErr{code: 500}})
	rs.Add(Outcome{Index: 1, Status: http.StatusInternalServerError, Err: &statusErr{code: 500}})
	rs.Add(Outcome{Index: 2, Status: http.StatusBadGateway, Err: fmt.Errorf("request 2: %w", &statusErr{code: 502})})
	rs.Add(Outcome{Index: 3, Err: errors.New("dial refused")})

	summary := Summarize(rs, time.Second)
	if summary.Errors["HTTP 500"] != 2 || summary.Errors["HTTP 502"] != 1 {
		t.Errorf("errors = %v", summary.Errors)
	}
	if summary.Errors["Request error"] != 1 {
		t.Errorf("plain errors keep their friendly kind: %v", summary.Errors)
	}
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if len(a) != 26 {
		t.Errorf("ULID length = %d", len(a))
	}
	if a == b {
		t.Error("run IDs must be unique")
	}
}

func TestOutcomeOK(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    bool
	}{
		{"200 no error", Outcome{Status: http.StatusOK}, true},
		{"200 with error", Outcome{Status: http.StatusOK, Err: errors.New("read failed")}, false},
		{"201", Outcome{Status: http.StatusCreated}, false},
		{"500", Outcome{Status: http.StatusInternalServerError}, false},
		{"zero status", Outcome{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}
