// Package casesclient fetches case records from the analyzer's HTTP API.
package casesclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aria/video-analyzer/internal/cases"
)

var ErrNotFound = errors.New("case not found")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cases request failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsRetryable returns true for server errors (5xx).
func (e *StatusError) IsRetryable() bool {
	return e.StatusCode >= 500
}

const (
	maxAttempts       = 3
	defaultRetryDelay = 250 * time.Millisecond
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	// retryDelay is the wait before the second attempt; it doubles after.
	retryDelay time.Duration
}

func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:     logger,
		retryDelay: defaultRetryDelay,
	}
}

func (c *Client) ListCases(ctx context.Context) ([]cases.Summary, error) {
	var out []cases.Summary
	if err := c.get(ctx, "/api/cases", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCase(ctx context.Context, id string) (*cases.Case, error) {
	var out cases.Case
	if err := c.get(ctx, "/api/cases/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get fetches path into v. Server errors (5xx) are retried with backoff;
// everything else fails on the first attempt.
func (c *Client) get(ctx context.Context, path string, v any) error {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := c.getOnce(ctx, path, v)
		var statusErr *StatusError
		if err == nil || attempt == maxAttempts || !errors.As(err, &statusErr) || !statusErr.IsRetryable() {
			return err
		}

		c.logger.Warn("retrying cases request", "path", path, "attempt", attempt, "status", statusErr.StatusCode)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (c *Client) getOnce(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", generateRequestID())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("cases request",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func generateRequestID() string {
	return "console-" + uuid.NewString()[:8]
}
