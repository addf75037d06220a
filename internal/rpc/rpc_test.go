package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"
)

func TestNewInitialize(t *testing.T) {
	req := NewInitialize(1, "checker", "1.0")
	if req.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q", req.JSONRPC)
	}
	if req.Method != "initialize" {
		t.Errorf("method = %q", req.Method)
	}
	if req.Params["protocolVersion"] != ProtocolVersion {
		t.Errorf("protocolVersion = %v", req.Params["protocolVersion"])
	}
	info, ok := req.Params["clientInfo"].(map[string]any)
	if !ok || info["name"] != "checker" || info["version"] != "1.0" {
		t.Errorf("clientInfo = %v", req.Params["clientInfo"])
	}
}

func TestNewCallTool(t *testing.T) {
	req := NewCallTool(7, "search_dashboards", map[string]any{"query": "cpu"})
	if req.Method != "tools/call" {
		t.Errorf("method = %q", req.Method)
	}
	if req.Params["name"] != "search_dashboards" {
		t.Errorf("name = %v", req.Params["name"])
	}
	args, ok := req.Params["arguments"].(map[string]any)
	if !ok || args["query"] != "cpu" {
		t.Errorf("arguments = %v", req.Params["arguments"])
	}

	req = NewCallTool(8, "list_tools", nil)
	if req.Params["arguments"] == nil {
		t.Error("nil arguments should be replaced with an empty map")
	}
}

func TestClientCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if gjson.GetBytes(body, "jsonrpc").String() != "2.0" {
			t.Errorf("request body missing jsonrpc field: %s", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      gjson.GetBytes(body, "id").Int(),
			"result": map[string]any{
				"protocolVersion": "2024-11-05",
				"serverInfo":      map[string]any{"name": "test-server", "version": "0.3.1"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	payload, err := client.Call(context.Background(), NewInitialize(1, "checker", "1.0"))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got := gjson.GetBytes(payload, "result.serverInfo.name").String(); got != "test-server" {
		t.Errorf("serverInfo.name = %q", got)
	}
	if got := gjson.GetBytes(payload, "result.protocolVersion").String(); got != "2024-11-05" {
		t.Errorf("protocolVersion = %q", got)
	}
}

func TestClientCallRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	_, err := client.Call(context.Background(), NewPing(1))
	if err == nil {
		t.Fatal("expected error from rpc error object")
	}
}

func TestClientCallHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	_, err := client.Call(context.Background(), NewPing(1))
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestClientInvokeIncrementsID(t *testing.T) {
	var ids []int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ids = append(ids, gjson.GetBytes(body, "id").Int())
		w.Write([]byte(`{"jsonrpc":"2.0","result":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.Invoke(context.Background(), "ping", nil); err != nil {
			t.Fatal(err)
		}
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("ids = %v", ids)
	}
}
