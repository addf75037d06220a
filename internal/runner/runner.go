package runner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/probekit/loadblast/internal/metrics"
)

// Result captures the closed outcome set and the wall-clock span of a run.
type Result struct {
	Set     *metrics.ResultSet
	Elapsed time.Duration
}

// Runner executes a fixed number of attempts with bounded concurrency.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run dispatches exactly TotalRequests work units with at most Concurrency
// in flight, funnels every outcome through a single collector, and returns
// the closed result set. When a Deadline is set, admission stops once it
// elapses and in-flight attempts get GracePeriod before their contexts are
// cancelled; the result then holds whatever outcomes exist.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()

	admitCtx := ctx
	workCtx := ctx
	if r.opt.Deadline > 0 {
		var cancelAdmit, cancelWork context.CancelFunc
		admitCtx, cancelAdmit = context.WithTimeout(ctx, r.opt.Deadline)
		defer cancelAdmit()
		workCtx, cancelWork = context.WithTimeout(ctx, r.opt.Deadline+r.opt.GracePeriod)
		defer cancelWork()
	}

	// Admission gate: the scheduler feeds one unit per allocated slot and
	// stops dead once the deadline or the caller's context fires.
	units := make(chan int)
	go func() {
		defer close(units)
		for i := 0; i < r.opt.TotalRequests; i++ {
			select {
			case units <- i:
			case <-admitCtx.Done():
				return
			}
		}
	}()

	outcomes := make(chan metrics.Outcome)

	var wg sync.WaitGroup
	wg.Add(r.opt.Concurrency)
	for i := 0; i < r.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for index := range units {
				outcomes <- r.attempt(workCtx, index)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	set := metrics.NewResultSet(r.opt.TotalRequests)
	for o := range outcomes {
		set.Add(o)
		if r.opt.Observer != nil {
			r.opt.Observer.Observe(o)
		}
	}

	return Result{Set: set, Elapsed: time.Since(start)}
}

// attempt executes one work unit and normalizes every possible failure into
// an outcome. Timing spans from just before the request until the transport
// returns, which includes draining the response body.
func (r *Runner) attempt(ctx context.Context, index int) metrics.Outcome {
	start := time.Now()
	status, err := r.dispatch(ctx)
	latency := time.Since(start)

	if err == nil && status != http.StatusOK {
		err = &StatusError{Code: status}
	}

	return metrics.Outcome{
		Index:   index,
		Status:  status,
		Err:     err,
		Latency: latency,
	}
}

// dispatch shields the run from a misbehaving transport: a panic surfaces as
// a failed outcome instead of tearing down the worker pool.
func (r *Runner) dispatch(ctx context.Context) (status int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("transport panic: %v", rec)
		}
	}()
	if r.opt.Transport == nil {
		return 0, errors.New("transport is not configured")
	}
	return r.opt.Transport.Do(ctx)
}
