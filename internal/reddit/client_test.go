package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pentyflix/pentyflix-api/pkg/config"
)

func testClientConfig() *config.RedditConfig {
	return &config.RedditConfig{
		BaseURL:          "https://www.reddit.com",
		RequestTimeout:   5 * time.Second,
		ThrottleMin:      time.Millisecond,
		ThrottleMax:      2 * time.Millisecond,
		MaxRetries:       3,
		RetryBackoff:     time.Millisecond,
		RateLimitDelay:   time.Millisecond,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

func TestFetchSuccess(t *testing.T) {
	var gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(testClientConfig())
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if body != `{"ok":true}` {
		t.Errorf("Fetch() = %q", body)
	}
	if gotUserAgent == "" {
		t.Error("request should carry a User-Agent from the pool")
	}
	if gotAccept == "" {
		t.Error("request should carry an Accept header")
	}
}

func TestFetchUsesConfiguredUserAgents(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := testClientConfig()
	cfg.UserAgents = []string{"custom-agent/1.0"}
	client := NewClient(cfg)

	if _, err := client.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if gotUserAgent != "custom-agent/1.0" {
		t.Errorf("User-Agent = %q, want the configured override", gotUserAgent)
	}
}

func TestFetchRetriesTransient(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		n := requests
		mu.Unlock()
		if n <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(testClientConfig())
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() should recover from transient failures: %v", err)
	}
	if body != "ok" {
		t.Errorf("Fetch() = %q, want ok", body)
	}
	if requests != 3 {
		t.Errorf("expected 3 requests, got %d", requests)
	}
}

func TestFetchRetriesExhausted(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testClientConfig()
	cfg.MaxRetries = 2
	client := NewClient(cfg)

	_, err := client.Fetch(context.Background(), server.URL)
	var transient *TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("expected TransientError, got %v", err)
	}
	if transient.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", transient.StatusCode)
	}
	if requests != 3 {
		t.Errorf("expected 1 initial + 2 retries = 3 requests, got %d", requests)
	}
}

func TestFetchRateLimitSpecialCase(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(testClientConfig())
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() should retry after a 429: %v", err)
	}
	if body != "ok" || requests != 2 {
		t.Errorf("body = %q, requests = %d", body, requests)
	}
}

func TestFetchPermanentNotRetried(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testClientConfig())
	_, err := client.Fetch(context.Background(), server.URL)

	var perm *PermanentError
	if !errors.As(err, &perm) {
		t.Fatalf("expected PermanentError, got %v", err)
	}
	if perm.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", perm.StatusCode)
	}
	if requests != 1 {
		t.Errorf("404 must not be retried, got %d requests", requests)
	}
}

func TestCircuitBreakerFailsFast(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testClientConfig()
	cfg.MaxRetries = 0
	client := NewClient(cfg)

	for i := 0; i < cfg.BreakerThreshold; i++ {
		if _, err := client.Fetch(context.Background(), server.URL); err == nil {
			t.Fatal("expected failure")
		}
	}
	dispatched := requests

	// The next call must fail fast without network I/O
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if requests != dispatched {
		t.Errorf("open circuit dispatched a request (%d -> %d)", dispatched, requests)
	}
}

func TestCircuitBreakerHalfOpenTrial(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := testClientConfig()
	cfg.MaxRetries = 0
	cfg.BreakerThreshold = 2
	cfg.BreakerCooldown = 50 * time.Millisecond
	client := NewClient(cfg)

	for i := 0; i < 2; i++ {
		client.Fetch(context.Background(), server.URL)
	}
	if _, err := client.Fetch(context.Background(), server.URL); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("circuit should be open, got %v", err)
	}

	// After the cooldown, one trial request goes through and closes the
	// circuit on success
	time.Sleep(cfg.BreakerCooldown + 20*time.Millisecond)
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("trial request should succeed: %v", err)
	}
	if body != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestThrottleMinimumGap(t *testing.T) {
	var mu sync.Mutex
	var arrivals []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := testClientConfig()
	cfg.ThrottleMin = 40 * time.Millisecond
	cfg.ThrottleMax = 60 * time.Millisecond
	client := NewClient(cfg)

	for i := 0; i < 3; i++ {
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
	}

	// Arrival times lag dispatch times by per-request latency, so allow a
	// small tolerance below the floor
	tolerance := 5 * time.Millisecond
	for i := 1; i < len(arrivals); i++ {
		if gap := arrivals[i].Sub(arrivals[i-1]); gap < cfg.ThrottleMin-tolerance {
			t.Errorf("dispatch gap %v below throttle floor %v", gap, cfg.ThrottleMin)
		}
	}
}

func TestFetchCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(testClientConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
