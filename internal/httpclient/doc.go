// Package httpclient provides the HTTP transport boundary for loadblast.
//
// The engine treats HTTP as a black-box request/response primitive: the
// [Requester] issues one GET per work unit against the resolved target URL
// and drains the body before returning, and [NewClient] supplies a client
// with connection pooling tuned for sustained concurrent load. Everything
// above this package only sees a status code or an error.
//
// [ResolveTarget] expands the configured path template (by default
// http://{host}:{port}/chat/?query={query}) or passes a full target URL
// through unchanged.
package httpclient
