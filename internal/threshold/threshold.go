// Package threshold evaluates pass/fail assertions against a run summary.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/probekit/loadblast/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // "req_duration", "req_failed", "requests"
	Aggregate string  // "p50", "p90", "p99", "max", "rate", "count"
	Operator  string  // "<", "<=", ">", ">=", "=="
	Value     float64 // the value to compare against
	Raw       string  // original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

var pattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string.
// Supported formats:
//   - "req_duration:p99 < 500"   (latency percentile in ms)
//   - "req_duration:max < 1000"  (max latency in ms)
//   - "req_failed:rate < 0.01"   (failure rate as decimal)
//   - "req_failed:count < 10"    (failure count)
//   - "requests:rate > 100"      (requests per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'req_duration:p99 < 500')", s)
	}

	value, err := strconv.ParseFloat(matches[4], 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", matches[4], err)
	}

	t := Threshold{
		Metric:    matches[1],
		Aggregate: matches[2],
		Operator:  matches[3],
		Value:     value,
		Raw:       s,
	}

	if !isValidOperator(t.Operator) {
		return Threshold{}, fmt.Errorf("unsupported operator %q (supported: <, <=, >, >=, ==)", t.Operator)
	}
	if _, err := extract(t, metrics.Summary{}); err != nil {
		return Threshold{}, err
	}
	return t, nil
}

func isValidOperator(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

// ParseMultiple parses multiple threshold strings, collecting all errors.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errs []string
	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errs, "; "))
	}
	return result, nil
}

// Evaluate checks all thresholds against the final summary.
func Evaluate(thresholds []Threshold, summary metrics.Summary) []Result {
	if len(thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(thresholds))
	for _, t := range thresholds {
		actual, err := extract(t, summary)
		if err != nil {
			results = append(results, Result{Threshold: t, Message: fmt.Sprintf("error: %v", err)})
			continue
		}
		pass := compare(actual, t.Operator, t.Value)
		status := "PASS"
		if !pass {
			status = "FAIL"
		}
		results = append(results, Result{
			Threshold: t,
			Actual:    actual,
			Pass:      pass,
			Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
		})
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func extract(t Threshold, summary metrics.Summary) (float64, error) {
	switch t.Metric {
	case "req_duration":
		switch t.Aggregate {
		case "p50":
			return summary.P50LatencyMs, nil
		case "p90":
			return summary.P90LatencyMs, nil
		case "p99":
			return summary.P99LatencyMs, nil
		case "max":
			return summary.MaxLatencyMs, nil
		default:
			return 0, fmt.Errorf("unsupported aggregate %q for req_duration (use p50, p90, p99 or max)", t.Aggregate)
		}
	case "req_failed":
		switch t.Aggregate {
		case "count":
			return float64(summary.Failures), nil
		case "rate":
			if summary.Total == 0 {
				return 0, nil
			}
			return float64(summary.Failures) / float64(summary.Total), nil
		default:
			return 0, fmt.Errorf("unsupported aggregate %q for req_failed (use count or rate)", t.Aggregate)
		}
	case "requests":
		switch t.Aggregate {
		case "count":
			return float64(summary.Total), nil
		case "rate":
			return summary.RequestsPerSec, nil
		default:
			return 0, fmt.Errorf("unsupported aggregate %q for requests (use count or rate)", t.Aggregate)
		}
	default:
		return 0, fmt.Errorf("unsupported metric %q (supported: req_duration, req_failed, requests)", t.Metric)
	}
}

func compare(actual float64, operator string, expected float64) bool {
	const epsilon = 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
