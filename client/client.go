// Package client issues authenticated calls to the platform REST API on
// behalf of a tenant.
//
// Every call resolves the tenant's bearer token immediately before the
// request: credentials are never cached here, so rotation in the Resolver
// takes effect on the next call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/derek82511/line-bot-sdk/credentials"
	"github.com/derek82511/line-bot-sdk/id"
	"github.com/derek82511/line-bot-sdk/observability"
)

// DefaultBaseURL is the platform API host.
const DefaultBaseURL = "https://api.line.me"

// Client executes authenticated platform API calls.
type Client struct {
	http     *http.Client
	baseURL  string
	resolver credentials.Resolver
	logger   *slog.Logger
	metrics  *observability.Metrics
	tracer   *observability.Tracer
}

// Config holds client configuration.
type Config struct {
	// BaseURL overrides the platform API host. Empty means DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the underlying HTTP client. Nil means a client
	// with Timeout.
	HTTPClient *http.Client

	// Timeout is the per-request timeout when HTTPClient is nil.
	Timeout time.Duration

	Metrics *observability.Metrics
	Tracer  *observability.Tracer
}

// New creates a client that resolves per-tenant tokens through resolver.
func New(resolver credentials.Resolver, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		resolver: resolver,
		logger:   logger,
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
	}
}

// APIError is a non-success response from the platform. Body carries the
// platform's error response verbatim.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: api error (status %d): %s", e.StatusCode, e.Body)
}

// ValidationError indicates invalid input to an outbound operation, detected
// before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("client: invalid %s: %s", e.Field, e.Message)
}

// execute resolves the tenant token and performs one API call. A credential
// resolution failure returns before any network activity. Non-2xx responses
// return an *APIError with the platform body verbatim; 2xx responses return
// the raw response body.
func (c *Client) execute(ctx context.Context, tenant, operation, method, path string, payload any) ([]byte, error) {
	reqID := id.NewRequestID()

	token, err := c.resolver.ResolveToken(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("client: resolve token for tenant %q: %w", tenant, err)
	}

	var body io.Reader
	if payload != nil {
		raw, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			return nil, fmt.Errorf("client: marshal payload: %w", marshalErr)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.StartRequestSpan(ctx, reqID.String(), tenant, operation)
		req = req.WithContext(ctx)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)

	if err != nil {
		if span != nil {
			c.tracer.EndRequestSpan(span, 0, err.Error())
		}
		if c.metrics != nil {
			c.metrics.RecordRequest(operation, "error", latency.Seconds())
		}
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if span != nil {
			c.tracer.EndRequestSpan(span, resp.StatusCode, err.Error())
		}
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	if span != nil {
		c.tracer.EndRequestSpan(span, resp.StatusCode, "")
	}
	if c.metrics != nil {
		c.metrics.RecordRequest(operation, strconv.Itoa(resp.StatusCode), latency.Seconds())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "api call failed",
			"request_id", reqID,
			"tenant", tenant,
			"operation", operation,
			"status", resp.StatusCode,
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	c.logger.DebugContext(ctx, "api call",
		"request_id", reqID,
		"tenant", tenant,
		"operation", operation,
		"status", resp.StatusCode,
		"latency_ms", latency.Milliseconds(),
	)

	return respBody, nil
}

// executeJSON performs an API call and decodes the 2xx response body into out.
func (c *Client) executeJSON(ctx context.Context, tenant, operation, method, path string, payload, out any) error {
	respBody, err := c.execute(ctx, tenant, operation, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}
