// Package metrics defines the outcome model and statistics engine for load
// test runs.
//
// Workers resolve every work unit into an [Outcome]; a single collector
// funnels outcomes into a [ResultSet]. Once the set is closed, [Summarize]
// reduces it into a [Summary]: success and failure counts, wall-clock
// throughput, and nearest-rank latency percentiles over the successful
// attempts.
//
// The percentile estimator is deliberately exact-by-formula: the value at
// index floor(p/100 * (n-1)) of the ascending-sorted latencies, with no
// interpolation between ranks. Downstream consumers compare runs across tool
// versions, so the rounding behavior is part of the contract.
//
// A separate [Collector] aggregates outcomes concurrently into an
// HdrHistogram for live progress display. Its percentiles are approximate
// and never feed the final Summary.
package metrics
