package metrics

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestCollectorObserve(t *testing.T) {
	c := NewCollector()
	c.Start()

	c.Observe(Outcome{Status: http.StatusOK, Latency: 10 * time.Millisecond})
	c.Observe(Outcome{Status: http.StatusOK, Latency: 30 * time.Millisecond})
	c.Observe(Outcome{Status: http.StatusInternalServerError})
	c.Observe(Outcome{Err: errors.New("refused")})

	stats := c.Live()
	if stats.Total != 4 {
		t.Errorf("total = %d", stats.Total)
	}
	if stats.Successes != 2 || stats.Failures != 2 {
		t.Errorf("successes/failures = %d/%d", stats.Successes, stats.Failures)
	}
	if stats.MaxLatencyMs < 29 || stats.MaxLatencyMs > 31 {
		t.Errorf("max latency = %v", stats.MaxLatencyMs)
	}
	if stats.P50LatencyMs <= 0 {
		t.Errorf("p50 = %v", stats.P50LatencyMs)
	}
	if breakdown := c.ErrorBreakdown(); len(breakdown) != 2 {
		t.Errorf("errors = %v", breakdown)
	}
}

func TestCollectorConcurrentObserve(t *testing.T) {
	c := NewCollector()
	c.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Observe(Outcome{Status: http.StatusOK, Latency: time.Millisecond})
			}
		}()
	}
	wg.Wait()

	stats := c.Live()
	if stats.Total != 800 {
		t.Errorf("total = %d, want 800", stats.Total)
	}
	if stats.Successes != 800 {
		t.Errorf("successes = %d, want 800", stats.Successes)
	}
}

func TestCollectorEmpty(t *testing.T) {
	c := NewCollector()
	stats := c.Live()
	if stats.Total != 0 || stats.RequestsPerSec != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.P50LatencyMs != 0 {
		t.Errorf("p50 = %v, want 0", stats.P50LatencyMs)
	}
}

func TestCollectorErrorBreakdown(t *testing.T) {
	c := NewCollector()
	c.Observe(Outcome{Status: http.StatusNotFound})
	c.Observe(Outcome{Status: http.StatusNotFound})
	c.Observe(Outcome{Status: http.StatusBadGateway})

	breakdown := c.ErrorBreakdown()
	if breakdown["HTTP 404"] != 2 || breakdown["HTTP 502"] != 1 {
		t.Errorf("breakdown = %v", breakdown)
	}

	// The returned map is a copy.
	breakdown["HTTP 404"] = 99
	if c.ErrorBreakdown()["HTTP 404"] != 2 {
		t.Error("ErrorBreakdown must return a copy")
	}
}

func TestCollectorRPS(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.Observe(Outcome{Status: http.StatusOK, Latency: time.Millisecond})
	time.Sleep(20 * time.Millisecond)

	stats := c.Live()
	if stats.RequestsPerSec <= 0 {
		t.Errorf("rps = %v, want > 0", stats.RequestsPerSec)
	}
}
