// Package rpc builds and sends JSON-RPC 2.0 requests over HTTP.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// ProtocolVersion is the MCP protocol revision advertised during initialize.
const ProtocolVersion = "2024-11-05"

// Request is a JSON-RPC 2.0 request payload.
type Request struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

// NewRequest builds a request with the jsonrpc version set.
func NewRequest(id int64, method string, params map[string]any) Request {
	if params == nil {
		params = map[string]any{}
	}
	return Request{JSONRPC: "2.0", ID: id, Method: method, Params: params}
}

// NewInitialize builds the handshake request an MCP server expects first.
func NewInitialize(id int64, clientName, clientVersion string) Request {
	return NewRequest(id, "initialize", map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    clientName,
			"version": clientVersion,
		},
	})
}

// NewPing builds a ping request.
func NewPing(id int64) Request {
	return NewRequest(id, "ping", nil)
}

// NewListTools builds a tools/list request.
func NewListTools(id int64) Request {
	return NewRequest(id, "tools/list", nil)
}

// NewCallTool builds a tools/call request for the named tool.
func NewCallTool(id int64, tool string, arguments map[string]any) Request {
	if arguments == nil {
		arguments = map[string]any{}
	}
	return NewRequest(id, "tools/call", map[string]any{
		"name":      tool,
		"arguments": arguments,
	})
}

// Client posts JSON-RPC requests to a single endpoint URL.
type Client struct {
	httpClient *http.Client
	endpoint   string
	nextID     int64
}

// NewClient returns a client bound to the given endpoint.
func NewClient(httpClient *http.Client, endpoint string) *Client {
	return &Client{httpClient: httpClient, endpoint: endpoint, nextID: 1}
}

// Call sends the request and returns the raw response body.
// A JSON-RPC error object in the response is surfaced as an error.
func (c *Client) Call(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if rpcErr := gjson.GetBytes(payload, "error"); rpcErr.Exists() {
		return nil, fmt.Errorf("rpc error %d: %s",
			rpcErr.Get("code").Int(), rpcErr.Get("message").String())
	}
	return payload, nil
}

// Invoke builds a request for method, assigns the next id and sends it.
func (c *Client) Invoke(ctx context.Context, method string, params map[string]any) ([]byte, error) {
	id := c.nextID
	c.nextID++
	return c.Call(ctx, NewRequest(id, method, params))
}
