// Package runner provides the core load test execution engine for loadblast.
//
// The runner dispatches a fixed number of work units against a [Transport]
// while never exceeding the configured concurrency. A scheduler goroutine
// admits units one at a time, a fixed pool of workers executes them, and a
// single collector goroutine drains every resolved outcome into a
// [metrics.ResultSet]. No worker ever touches shared mutable state directly.
//
// # Basic Usage
//
//	r := runner.New(runner.Options{
//		Concurrency:   50,
//		TotalRequests: 500,
//		Transport:     myTransport,
//	})
//	result := r.Run(ctx)
//	summary := metrics.Summarize(result.Set, result.Elapsed)
//
// # Transport Interface
//
// The [Transport] interface defines what the runner executes:
//
//	type Transport interface {
//		Do(ctx context.Context) (status int, err error)
//	}
//
// The worker surrounding the transport call is the single normalization
// point: it times the attempt end to end and converts transport errors and
// non-200 statuses into failed outcomes. A failed attempt is terminal for
// its work unit; there are no retries and no pacing.
//
// # Deadlines
//
// Options.Deadline bounds the whole run. Once it elapses no further units
// are admitted; in-flight attempts get Options.GracePeriod to finish before
// their contexts are cancelled. The partial result set is still summarized.
package runner
