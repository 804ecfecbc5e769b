package casesclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aria/video-analyzer/internal/cases"
)

func TestClient_ListCases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cases" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1-0102-004","subject":"Subject 1-0102-004","dob":"August 1, 1992","sex":"M","familyType":"SPX","sample":{"predictedAncestry":"EUR"}}]`))
	}))
	defer server.Close()

	client := New(server.URL+"/", nil)

	list, err := client.ListCases(context.Background())
	if err != nil {
		t.Fatalf("ListCases() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if list[0].Sample.PredictedAncestry != "EUR" {
		t.Errorf("PredictedAncestry = %q, want EUR", list[0].Sample.PredictedAncestry)
	}
}

func TestClient_GetCase(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		ados := 4.0
		json.NewEncoder(w).Encode(cases.Case{
			ID:     "1 2",
			Video:  "US90ZQyKHR8",
			Scores: cases.Scores{ADOS: &ados},
		})
	}))
	defer server.Close()

	c, err := New(server.URL, nil).GetCase(context.Background(), "1 2")
	if err != nil {
		t.Fatalf("GetCase() error = %v", err)
	}
	if gotPath != "/api/cases/1%202" {
		t.Errorf("path = %q, want escaped id", gotPath)
	}
	if c.ID != "1 2" || c.Scores.ADOS == nil || *c.Scores.ADOS != 4 {
		t.Errorf("GetCase() = %+v", c)
	}
	if c.Scores.ADI != nil {
		t.Error("absent score should decode as nil")
	}
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := New(server.URL, nil).GetCase(context.Background(), "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.IsRetryable() {
		t.Error("404 should not be retryable")
	}
}

func TestClient_ServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom","code":"INTERNAL_ERROR"}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	client.retryDelay = time.Millisecond
	_, err := client.ListCases(context.Background())

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", statusErr.StatusCode)
	}
	if !statusErr.IsRetryable() {
		t.Error("500 should be retryable")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("500 must not match ErrNotFound")
	}
	if got := calls.Load(); got != maxAttempts {
		t.Errorf("attempts = %d, want %d", got, maxAttempts)
	}
}

func TestClient_RetriesTransientServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"1-0102-004","video":"x3aqed6EZE0","scores":{}}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	client.retryDelay = time.Millisecond
	c, err := client.GetCase(context.Background(), "1-0102-004")
	if err != nil {
		t.Fatalf("GetCase() error = %v", err)
	}
	if c.Video != "x3aqed6EZE0" {
		t.Errorf("Video = %q, want x3aqed6EZE0", c.Video)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, nil)
	client.retryDelay = time.Millisecond
	if _, err := client.GetCase(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	if _, err := New(server.URL, nil).GetCase(context.Background(), "x"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(server.URL, nil).ListCases(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}
