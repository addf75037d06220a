package metrics

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// Summary is the finalized statistical report of one run. It is computed
// exactly once from a closed ResultSet and never recomputed.
type Summary struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Successes int    `json:"successes"`
	Failures  int    `json:"failures"`

	Elapsed time.Duration `json:"-"`

	ElapsedSeconds float64 `json:"elapsed_seconds"`
	RequestsPerSec float64 `json:"requests_per_sec"`

	P50LatencyMs float64 `json:"p50_latency_ms"`
	P90LatencyMs float64 `json:"p90_latency_ms"`
	P99LatencyMs float64 `json:"p99_latency_ms"`
	MaxLatencyMs float64 `json:"max_latency_ms"`

	Errors map[string]int `json:"errors,omitempty"`
}

// NewRunID returns a fresh ULID identifying a single run.
func NewRunID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Summarize reduces a closed ResultSet into a Summary. elapsed is the wall
// clock span from the first admitted request to the last collected outcome.
func Summarize(rs *ResultSet, elapsed time.Duration) Summary {
	summary := Summary{
		Total:          rs.Len(),
		Elapsed:        elapsed,
		ElapsedSeconds: elapsed.Seconds(),
	}

	okLatencies := make([]float64, 0, rs.Len())
	for _, o := range rs.Outcomes() {
		if o.OK() {
			summary.Successes++
			okLatencies = append(okLatencies, float64(o.Latency)/float64(time.Millisecond))
			continue
		}
		summary.Failures++
		kind := failureKind(o)
		if summary.Errors == nil {
			summary.Errors = make(map[string]int)
		}
		summary.Errors[kind]++
	}

	sort.Float64s(okLatencies)

	summary.P50LatencyMs = NearestRank(okLatencies, 50)
	summary.P90LatencyMs = NearestRank(okLatencies, 90)
	summary.P99LatencyMs = NearestRank(okLatencies, 99)
	if n := len(okLatencies); n > 0 {
		summary.MaxLatencyMs = okLatencies[n-1]
	}

	// Guard against a zero elapsed span rather than divide.
	if elapsed > 0 {
		summary.RequestsPerSec = float64(summary.Total) / elapsed.Seconds()
	}

	return summary
}

// NearestRank returns the nearest-rank percentile of an ascending-sorted
// slice: the value at index floor(p/100 * (n-1)), without interpolation.
// An empty slice yields 0 for any p.
func NearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	k := int(p / 100 * float64(len(sorted)-1))
	if k < 0 {
		k = 0
	}
	if k > len(sorted)-1 {
		k = len(sorted) - 1
	}
	return sorted[k]
}

func failureKind(o Outcome) string {
	var sc interface{ HTTPStatus() int }
	if errors.As(o.Err, &sc) {
		return fmt.Sprintf("HTTP %d", sc.HTTPStatus())
	}
	if o.Err != nil {
		return FriendlyErrorName(fmt.Sprintf("%T", o.Err))
	}
	return fmt.Sprintf("HTTP %d", o.Status)
}
