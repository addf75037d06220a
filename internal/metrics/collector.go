package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records outcomes as they resolve so that progress reporters and
// the dashboard can display approximate statistics mid-run. Final run numbers
// always come from Summarize over the closed ResultSet, never from here.
type Collector struct {
	mu           sync.Mutex
	hist         *hdrhistogram.Histogram
	successes    int64
	failures     int64
	maxLatency   time.Duration
	errorsByType map[string]int64
	start        time.Time
}

// LiveStats is a point-in-time numeric snapshot of a running test. The
// per-kind failure map is exposed separately through ErrorBreakdown.
type LiveStats struct {
	Total          int64
	Successes      int64
	Failures       int64
	RequestsPerSec float64
	P50LatencyMs   float64
	P90LatencyMs   float64
	P99LatencyMs   float64
	MaxLatencyMs   float64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:         h,
		errorsByType: make(map[string]int64),
		start:        time.Now(),
	}
}

// Start marks the beginning of the run for RPS calculations. Call it
// immediately before dispatching the first request.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
}

// Observe records one resolved outcome. Safe for concurrent use.
func (c *Collector) Observe(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.OK() {
		c.successes++
		us := o.Latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
		if o.Latency > c.maxLatency {
			c.maxLatency = o.Latency
		}
		return
	}

	c.failures++
	c.errorsByType[failureKind(o)]++
}

// Live returns the current approximate statistics.
func (c *Collector) Live() LiveStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := LiveStats{
		Total:        c.successes + c.failures,
		Successes:    c.successes,
		Failures:     c.failures,
		MaxLatencyMs: float64(c.maxLatency) / float64(time.Millisecond),
	}

	if c.hist.TotalCount() > 0 {
		stats.P50LatencyMs = float64(c.hist.ValueAtQuantile(50)) / 1000
		stats.P90LatencyMs = float64(c.hist.ValueAtQuantile(90)) / 1000
		stats.P99LatencyMs = float64(c.hist.ValueAtQuantile(99)) / 1000
	}

	if elapsed := time.Since(c.start); elapsed > 0 && stats.Total > 0 {
		stats.RequestsPerSec = float64(stats.Total) / elapsed.Seconds()
	}

	return stats
}

// ErrorBreakdown returns a copy of the per-kind failure counts.
func (c *Collector) ErrorBreakdown() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		result[k] = int(v)
	}
	return result
}
