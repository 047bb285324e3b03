// Package httpclient is a small JSON-over-HTTP client shared by the provider
// and wallet adapters. Every call is rate limited and reported to metrics.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const maxResponseBytes = 4 << 20

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond caps outbound calls; zero means unlimited.
	RequestsPerSecond int
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

type ObservedClient struct {
	baseURL string
	client  *http.Client
	limiter ratelimit.Limiter
	metrics Metrics
	logger  *zap.Logger
}

func NewObservedClient(cfg Config, metrics Metrics, logger *zap.Logger) *ObservedClient {
	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RequestsPerSecond)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ObservedClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}
}

// BaseURL returns the configured base URL without trailing slashes.
func (c *ObservedClient) BaseURL() string {
	return c.baseURL
}

// GetJSON issues GET {base}{path} and decodes the response into out.
func (c *ObservedClient) GetJSON(ctx context.Context, operation, path string, out any) error {
	return c.do(ctx, operation, http.MethodGet, path, nil, out)
}

// PostJSON issues POST {base}{path} with body encoded as JSON and decodes the
// response into out.
func (c *ObservedClient) PostJSON(ctx context.Context, operation, path string, body, out any) error {
	return c.do(ctx, operation, http.MethodPost, path, body, out)
}

func (c *ObservedClient) do(ctx context.Context, operation, method, path string, body, out any) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.limiter.Take()
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Debug("unexpected response status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
		)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(truncate(data, 256)))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
