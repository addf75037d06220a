package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/probekit/loadblast/internal/metrics"
)

// Transport executes a single HTTP attempt and reports the response status.
// Implementations must fully consume the response body before returning, so
// that measured latency reflects the complete transfer.
type Transport interface {
	Do(ctx context.Context) (status int, err error)
}

// Observer receives outcomes as they resolve, e.g. for live progress display.
type Observer interface {
	Observe(o metrics.Outcome)
}

// Options configure the Runner.
type Options struct {
	Concurrency   int           // max attempts in flight at any instant
	TotalRequests int           // total attempts to execute
	Deadline      time.Duration // global wall-clock budget (0 = run to completion)
	GracePeriod   time.Duration // extra time for in-flight attempts once the deadline hits
	Transport     Transport     // request executor (required)
	Observer      Observer      // optional outcome sink for live reporting
}

const defaultGracePeriod = 5 * time.Second

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.TotalRequests < 0 {
		o.TotalRequests = 0
	}
	if o.GracePeriod <= 0 {
		o.GracePeriod = defaultGracePeriod
	}
}

// StatusError marks a response whose status code disqualifies it as a
// success. Anything other than 200 counts, including other 2xx codes.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// HTTPStatus reports the offending status code so failure breakdowns can
// bucket per code without importing this package.
func (e *StatusError) HTTPStatus() int {
	return e.Code
}
