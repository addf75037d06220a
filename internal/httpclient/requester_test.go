package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/probekit/loadblast/internal/config"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{
			name: "explicit target wins",
			cfg: config.Config{
				TargetURL: "http://example.com/health",
				Host:      "ignored",
				Port:      1234,
			},
			want: "http://example.com/health",
		},
		{
			name: "template expansion",
			cfg: config.Config{
				Host:         "127.0.0.1",
				Port:         8000,
				Query:        "hello-world",
				PathTemplate: config.DefaultPathTemplate,
			},
			want: "http://127.0.0.1:8000/chat/?query=hello-world",
		},
		{
			name: "query is escaped",
			cfg: config.Config{
				Host:         "127.0.0.1",
				Port:         8000,
				Query:        "two words & more",
				PathTemplate: config.DefaultPathTemplate,
			},
			want: "http://127.0.0.1:8000/chat/?query=two+words+%26+more",
		},
		{
			name: "empty template falls back to default",
			cfg: config.Config{
				Host:  "h",
				Port:  80,
				Query: "q",
			},
			want: "http://h:80/chat/?query=q",
		},
		{
			name:    "no target or host",
			cfg:     config.Config{},
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			cfg:     config.Config{TargetURL: "ftp://example.com/x"},
			wantErr: true,
		},
		{
			name:    "no host in target",
			cfg:     config.Config{TargetURL: "http:///path-only"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTarget(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ResolveTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTargetNilConfig(t *testing.T) {
	if _, err := ResolveTarget(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewRequesterValidation(t *testing.T) {
	cfg := &config.Config{TargetURL: "http://example.com"}
	if _, err := NewRequester(cfg, nil); err == nil {
		t.Fatal("expected error for nil client")
	}

	bad := &config.Config{
		TargetURL: "http://example.com",
		Headers:   map[string]string{"X-Bad": "evil\r\nInjected: yes"},
	}
	if _, err := NewRequester(bad, NewClient(time.Second)); err == nil {
		t.Fatal("expected error for header with CRLF")
	}
}

func TestRequesterDo(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Api-Key")
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer server.Close()

	cfg := &config.Config{
		TargetURL: server.URL,
		Headers:   map[string]string{"X-Api-Key": "secret"},
	}
	requester, err := NewRequester(cfg, server.Client())
	if err != nil {
		t.Fatal(err)
	}

	status, err := requester.Do(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if gotHeader != "secret" {
		t.Errorf("header = %q", gotHeader)
	}
}

func TestRequesterDoNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer server.Close()

	requester, err := NewRequester(&config.Config{TargetURL: server.URL}, server.Client())
	if err != nil {
		t.Fatal(err)
	}

	// A non-200 status is not a transport error; classification is the
	// caller's concern.
	status, err := requester.Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("status = %d", status)
	}
}

func TestRequesterDoConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	requester, err := NewRequester(&config.Config{TargetURL: target}, NewClient(time.Second))
	if err != nil {
		t.Fatal(err)
	}

	status, err := requester.Do(context.Background())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
}

func TestRequesterDoContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	requester, err := NewRequester(&config.Config{TargetURL: server.URL}, server.Client())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := requester.Do(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}

// Latency observed by the caller must include draining the body.
func TestRequesterDoDrainsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte("head"))
		flusher.Flush()
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte("tail"))
	}))
	defer server.Close()

	requester, err := NewRequester(&config.Config{TargetURL: server.URL}, server.Client())
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	status, err := requester.Do(context.Background())
	elapsed := time.Since(start)

	if err != nil || status != http.StatusOK {
		t.Fatalf("status = %d, err = %v", status, err)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Do returned in %s, body was not drained", elapsed)
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(7 * time.Second)
	if client.Timeout != 7*time.Second {
		t.Errorf("timeout = %v", client.Timeout)
	}
	if client.Transport == nil {
		t.Error("transport should be tuned, not nil")
	}
}
