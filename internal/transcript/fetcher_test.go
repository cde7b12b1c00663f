package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	body := strings.Repeat("transcript content ", 20)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 100, 3, time.Millisecond)

	got, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if got != body {
		t.Errorf("Unexpected body: %q", got)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 100, 2, time.Millisecond)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("Expected maxRetries+1 attempts, got %d", calls.Load())
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("Error should report the attempt count: %v", err)
	}
}

func TestFetchContentTooShort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tiny"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 500, 0, 0)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrContentTooShort) {
		t.Errorf("Expected ErrContentTooShort, got %v", err)
	}
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(strings.Repeat("x", 600)))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 500, 0, 0)
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("Expected browser user agent, got %q", gotUA)
	}
}

func TestFetchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(5*time.Second, 100, 3, time.Second)
	_, err := fetcher.Fetch(ctx, server.URL)
	if err == nil {
		t.Fatal("Expected error with cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
