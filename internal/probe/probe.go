// Package probe checks that a target MCP server is reachable and speaking
// JSON-RPC before a load run is pointed at it.
package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/probekit/loadblast/internal/rpc"
)

// DefaultPath is the streamable-http endpoint path most MCP servers expose.
const DefaultPath = "/mcp"

const dialTimeout = 5 * time.Second

// Report holds what the probe learned about the server.
type Report struct {
	Address         string `json:"address"`
	TCPReachable    bool   `json:"tcp_reachable"`
	Initialized     bool   `json:"initialized"`
	ServerName      string `json:"server_name,omitempty"`
	ServerVersion   string `json:"server_version,omitempty"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	Error           string `json:"error,omitempty"`
}

// OK reports whether both the TCP and initialize checks succeeded.
func (r Report) OK() bool {
	return r.TCPReachable && r.Initialized
}

// Prober runs connectivity checks against one host:port.
type Prober struct {
	host       string
	port       int
	path       string
	httpClient *http.Client
}

// New returns a prober for the given host and port.
func New(host string, port int, httpClient *http.Client) *Prober {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: dialTimeout}
	}
	return &Prober{host: host, port: port, path: DefaultPath, httpClient: httpClient}
}

// WithPath overrides the endpoint path used for the initialize check.
func (p *Prober) WithPath(path string) *Prober {
	if path != "" {
		p.path = path
	}
	return p
}

// Run performs the TCP check followed by the JSON-RPC initialize handshake.
// A failed TCP check short-circuits: there is no point posting to a port
// nothing is listening on.
func (p *Prober) Run(ctx context.Context) Report {
	addr := net.JoinHostPort(p.host, fmt.Sprintf("%d", p.port))
	report := Report{Address: addr}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		report.Error = fmt.Sprintf("tcp connect: %v", err)
		return report
	}
	conn.Close()
	report.TCPReachable = true

	endpoint := fmt.Sprintf("http://%s%s", addr, p.path)
	client := rpc.NewClient(p.httpClient, endpoint)
	payload, err := client.Call(ctx, rpc.NewInitialize(1, "loadblast", "1.0"))
	if err != nil {
		report.Error = fmt.Sprintf("initialize: %v", err)
		return report
	}

	result := gjson.GetBytes(payload, "result")
	if !result.Exists() {
		report.Error = "initialize: response has no result"
		return report
	}

	report.Initialized = true
	report.ServerName = result.Get("serverInfo.name").String()
	report.ServerVersion = result.Get("serverInfo.version").String()
	report.ProtocolVersion = result.Get("protocolVersion").String()
	return report
}

// Print writes a human-readable report in check-list form.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Checking %s...\n\n", r.Address)
	if !r.TCPReachable {
		fmt.Fprintf(w, "  ✗ TCP connection failed\n")
		if r.Error != "" {
			fmt.Fprintf(w, "    %s\n", r.Error)
		}
		return
	}
	fmt.Fprintf(w, "  ✓ TCP connection OK\n")

	if !r.Initialized {
		fmt.Fprintf(w, "  ✗ Initialize handshake failed\n")
		if r.Error != "" {
			fmt.Fprintf(w, "    %s\n", r.Error)
		}
		return
	}
	fmt.Fprintf(w, "  ✓ Transport: streamable-http\n")
	if r.ServerName != "" {
		fmt.Fprintf(w, "  ✓ Server: %s v%s\n", r.ServerName, r.ServerVersion)
	}
	if r.ProtocolVersion != "" {
		fmt.Fprintf(w, "  ✓ Protocol: %s\n", r.ProtocolVersion)
	}
}
