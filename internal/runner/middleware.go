package runner

import "context"

// FailureLogger logs individual request failures.
type FailureLogger interface {
	LogFailure(err error)
}

type loggingTransport struct {
	next   Transport
	logger FailureLogger
}

// WithLogging wraps a transport so that every failure is reported to the
// logger before the outcome is recorded. The error is passed through
// unchanged; no retry is ever attempted.
func WithLogging(next Transport, logger FailureLogger) Transport {
	if logger == nil {
		return next
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) Do(ctx context.Context) (int, error) {
	status, err := t.next.Do(ctx)
	if err != nil {
		t.logger.LogFailure(err)
	}
	return status, err
}
