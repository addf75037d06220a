package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gofrs/flock"

	"github.com/probekit/loadblast/internal/metrics"
)

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, summary metrics.Summary) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", summary.RunID)
	fmt.Fprintf(w, "Total Requests:    %d\n", summary.Total)
	fmt.Fprintf(w, "Successful:        %d\n", summary.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", summary.Failures)
	fmt.Fprintf(w, "Completed in:      %.2fs\n", summary.ElapsedSeconds)
	fmt.Fprintf(w, "Throughput:        %.2f req/sec\n", summary.RequestsPerSec)
	fmt.Fprintln(w, "\nLatency (successful requests):")
	fmt.Fprintf(w, "  P50:             %.2fms\n", summary.P50LatencyMs)
	fmt.Fprintf(w, "  P90:             %.2fms\n", summary.P90LatencyMs)
	fmt.Fprintf(w, "  P99:             %.2fms\n", summary.P99LatencyMs)
	fmt.Fprintf(w, "  Max:             %.2fms\n", summary.MaxLatencyMs)

	if len(summary.Errors) > 0 {
		fmt.Fprintln(w, "\nFailures:")
		kinds := make([]string, 0, len(summary.Errors))
		for kind := range summary.Errors {
			kinds = append(kinds, kind)
		}
		sort.Slice(kinds, func(i, j int) bool {
			if summary.Errors[kinds[i]] == summary.Errors[kinds[j]] {
				return kinds[i] < kinds[j]
			}
			return summary.Errors[kinds[i]] > summary.Errors[kinds[j]]
		})
		for _, kind := range kinds {
			fmt.Fprintf(w, "  %s: %d\n", kind, summary.Errors[kind])
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, summary metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// WriteJSONFile writes the summary to path, taking a sibling file lock so
// concurrent runs sharing an output path cannot interleave writes.
func WriteJSONFile(path string, summary metrics.Summary) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock output file: %w", err)
	}
	defer lock.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := PrintJSONReport(f, summary); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
