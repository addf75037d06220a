package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/probekit/loadblast/internal/config"
	"github.com/probekit/loadblast/internal/tracing"
)

// Requester issues one GET against a fixed target URL and fully drains the
// response body before reporting the status, so that the caller's timing
// captures the complete transfer.
type Requester struct {
	client    *http.Client
	target    string
	header    http.Header
	tracer    trace.Tracer
	propagate bool
}

// NewRequester builds a Requester from configuration. The client is shared
// across all workers; the resolved URL and headers are immutable thereafter.
func NewRequester(cfg *config.Config, client *http.Client) (*Requester, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}

	target, err := ResolveTarget(cfg)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	for key, value := range cfg.Headers {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" || strings.ContainsAny(trimmed, "\r\n") || strings.ContainsAny(value, "\r\n") {
			return nil, errors.New("invalid header " + key)
		}
		header.Set(http.CanonicalHeaderKey(trimmed), value)
	}

	return &Requester{
		client: client,
		target: target,
		header: header,
	}, nil
}

// WithTracing enables per-request spans and optional W3C header injection.
func (r *Requester) WithTracing(tracer trace.Tracer, propagate bool) *Requester {
	r.tracer = tracer
	r.propagate = propagate
	return r
}

// Target returns the fully resolved request URL.
func (r *Requester) Target() string {
	return r.target
}

// Do executes a single GET. The response body is always drained to
// completion, success or not; the status code is returned even when the
// drain fails partway.
func (r *Requester) Do(ctx context.Context) (int, error) {
	var span trace.Span
	if r.tracer != nil {
		ctx, span = tracing.StartRequestSpan(ctx, r.tracer, r.target)
	}

	status, err := r.do(ctx)

	if span != nil {
		tracing.EndSpan(span, err, attribute.Int("http.response.status_code", status))
	}
	return status, err
}

func (r *Requester) do(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.target, nil)
	if err != nil {
		return 0, err
	}
	for key, values := range r.header {
		for _, val := range values {
			req.Header.Add(key, val)
		}
	}
	if r.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}
