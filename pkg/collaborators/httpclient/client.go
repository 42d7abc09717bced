// Package httpclient provides the JSON-over-HTTP client shared by remote collaborators.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config controls timeouts and retries.
type Config struct {
	Timeout  time.Duration
	Attempts int
	Delay    time.Duration
	Headers  map[string]string
}

// DefaultConfig is a 30 second timeout with a single attempt.
func DefaultConfig() Config {
	return Config{
		Timeout:  30 * time.Second,
		Attempts: 1,
	}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Client posts JSON documents and returns raw response bodies.
type Client struct {
	http   *http.Client
	config Config
}

func New(config Config) *Client {
	if config.Attempts < 1 {
		config.Attempts = 1
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		http:   &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

// PostJSON sends body as JSON to url. Network errors and 5xx responses are retried up to
// the configured attempts; 4xx responses are returned immediately.
func (c *Client) PostJSON(ctx context.Context, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error

	for attempt := 1; attempt <= c.config.Attempts; attempt++ {
		if attempt > 1 && c.config.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.Delay):
			}
		}

		respBody, err := c.do(ctx, url, payload)
		if err == nil {
			return respBody, nil
		}

		lastErr = err

		httpErr := &HTTPError{}
		if errors.As(err, &httpErr) && httpErr.StatusCode < http.StatusInternalServerError {
			break
		}

		if ctx.Err() != nil {
			break
		}
	}

	if c.config.Attempts > 1 {
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.Attempts, lastErr)
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(respBody)),
		}
	}

	return respBody, nil
}
