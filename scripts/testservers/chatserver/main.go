// Command chatserver runs a local target for exercising loadblast. It serves
// the /chat/ endpoint the default path template points at, plus a minimal
// streamable-http JSON-RPC endpoint at /mcp so the probe subcommand has
// something to handshake with.
//
// Usage:
//
//	go run ./scripts/testservers/chatserver -port 8000 -delay 20ms -error-rate 0.05
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"
)

type server struct {
	delay     time.Duration
	errorRate float64
}

func main() {
	port := flag.Int("port", 8000, "Listening port")
	delay := flag.Duration("delay", 0, "Artificial per-request latency")
	errorRate := flag.Float64("error-rate", 0, "Fraction of /chat/ requests answered with HTTP 500")
	flag.Parse()

	if *errorRate < 0 || *errorRate > 1 {
		log.Fatalf("error-rate must be between 0 and 1")
	}

	s := &server{delay: *delay, errorRate: *errorRate}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/", s.handleChat)
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("chat server listening on %s (delay=%s error-rate=%.2f)", addr, *delay, *errorRate)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.errorRate > 0 && rand.Float64() < s.errorRate {
		http.Error(w, "simulated backend failure", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("query")
	respondJSON(w, http.StatusOK, map[string]any{
		"query":  query,
		"answer": "echo: " + query,
	})
}

// handleMCP answers the initialize handshake and ping; everything else gets a
// method-not-found error per JSON-RPC 2.0.
func (s *server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	var req struct {
		JSONRPC string `json:"jsonrpc"`
		ID      any    `json:"id"`
		Method  string `json:"method"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"jsonrpc": "2.0",
			"id":      nil,
			"error":   map[string]any{"code": -32700, "message": "parse error"},
		})
		return
	}

	switch req.Method {
	case "initialize":
		respondJSON(w, http.StatusOK, map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]any{
				"protocolVersion": "2024-11-05",
				"capabilities":    map[string]any{},
				"serverInfo": map[string]any{
					"name":    "chatserver",
					"version": "1.0",
				},
			},
		})
	case "ping":
		respondJSON(w, http.StatusOK, map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]any{},
		})
	default:
		respondJSON(w, http.StatusOK, map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]any{"code": -32601, "message": "method not found"},
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
