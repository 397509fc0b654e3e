package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecutorTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec := NewExecutor(WithTimeout(20 * time.Millisecond))

	resp, err := exec.Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if resp.Duration <= 0 {
		t.Fatalf("expected duration to be set")
	}
	if resp.Attempts != 1 {
		t.Fatalf("expected a single attempt for POST, got %d", resp.Attempts)
	}
}

func TestExecutorRetriesIdempotentOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	exec := NewExecutor(WithRetries(3), WithBackoffFactor(time.Millisecond))

	resp, err := exec.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected 2xx, got %d", resp.Status)
	}
	if resp.Attempts != 3 || calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d (server saw %d)", resp.Attempts, calls.Load())
	}
}

func TestExecutorDoesNotRetryPost(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	exec := NewExecutor(WithRetries(3), WithBackoffFactor(time.Millisecond))

	resp, err := exec.Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL, JSON: map[string]any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Status)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestExecutorReturnsLastResponseWhenRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	exec := NewExecutor(WithRetries(2), WithBackoffFactor(time.Millisecond))

	resp, err := exec.Do(context.Background(), Request{Method: http.MethodPut, URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusInternalServerError || string(resp.BodyBytes) != "boom" {
		t.Fatalf("expected last 500 response, got %d %q", resp.Status, resp.BodyBytes)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected the first call plus 2 retries, got %d", calls.Load())
	}
}

func TestExecutorRetriesCountAfterFirstAttempt(t *testing.T) {
	cases := []struct {
		retries int
		want    int32
	}{
		{-1, 1},
		{0, 1},
		{3, 4},
	}
	for _, tc := range cases {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		exec := NewExecutor(WithRetries(tc.retries), WithBackoffFactor(time.Millisecond))
		resp, err := exec.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
		server.Close()

		if err != nil {
			t.Fatalf("retries=%d: unexpected error: %v", tc.retries, err)
		}
		if calls.Load() != tc.want || resp.Attempts != int(tc.want) {
			t.Fatalf("retries=%d: expected %d calls, got %d (attempts=%d)", tc.retries, tc.want, calls.Load(), resp.Attempts)
		}
	}
}

func TestExecutorHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec := NewExecutor(WithRetries(3), WithBackoffFactor(time.Hour))

	resp, err := exec.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK() || calls.Load() != 2 {
		t.Fatalf("expected success on second call, got status=%d calls=%d", resp.Status, calls.Load())
	}
}

func TestIsIdempotent(t *testing.T) {
	cases := map[string]bool{
		"GET":    true,
		"put":    true,
		"":       true,
		"POST":   false,
		"PATCH":  false,
		"DELETE": true,
	}
	for m, want := range cases {
		if got := isIdempotent(m); got != want {
			t.Errorf("isIdempotent(%q) = %v, want %v", m, got, want)
		}
	}
}
