// Package api implements the HTTP transport for the d2 client. It exposes
// the small capability the rest of the module consumes: Get and Delete
// (plus Post/Put for namespace key writes) against paths relative to the
// server's /api root, returning raw JSON and typed request errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HISPSA/d2/errors"
	"github.com/HISPSA/d2/internal/httpclient"
)

// DefaultTimeout bounds a single request when the config does not say otherwise
const DefaultTimeout = 60 * time.Second

// Config holds API client configuration
type Config struct {
	BaseURL           string             // server root or /api URL; "/api" is appended when absent
	Username          string             // basic auth user
	Password          string             // basic auth password
	APIToken          string             // personal access token; wins over basic auth
	Timeout           time.Duration      // per-request timeout (default: DefaultTimeout)
	RequestsPerSecond float64            // client-side throttle, 0 = unlimited
	Debug             bool               // log request/response detail
	Logger            *zap.SugaredLogger // structured logger (nil = nop logger)
}

// Client talks to a DHIS2-style web API
type Client struct {
	baseURL    string
	config     Config
	httpClient *httpclient.GuardedClient
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// NewClient creates an API client from config, normalizing the base URL
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:    normalizeBaseURL(config.BaseURL),
		config:     config,
		httpClient: httpclient.New(config.Timeout),
		limiter:    limiter,
		logger:     logger,
	}
}

// BaseURL returns the normalized API root the client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

// normalizeBaseURL trims trailing slashes and ensures the /api suffix,
// so both "https://server" and "https://server/api/" work as config values.
func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if trimmed == "" {
		return "/api"
	}
	if strings.HasSuffix(trimmed, "/api") {
		return trimmed
	}
	return trimmed + "/api"
}

// Get issues a GET for the given API-relative path and returns the raw body
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Delete issues a DELETE for the given API-relative path
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// Post marshals value as JSON and POSTs it to the given API-relative path
func (c *Client) Post(ctx context.Context, path string, value interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, value)
}

// Put marshals value as JSON and PUTs it to the given API-relative path
func (c *Client) Put(ctx context.Context, path string, value interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, value)
}

func (c *Client) do(ctx context.Context, method, path string, value interface{}) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter wait interrupted")
		}
	}

	var body io.Reader
	if value != nil {
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body")
		}
		body = bytes.NewReader(payload)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Correlation ID, echoed in logs and handed to the server
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	switch {
	case c.config.APIToken != "":
		req.Header.Set("Authorization", "ApiToken "+c.config.APIToken)
	case c.config.Username != "":
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	if c.config.Debug {
		c.logger.Debugw("API request",
			"request_id", requestID,
			"method", method,
			"url", url,
		)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if c.config.Debug {
		c.logger.Debugw("API response",
			"request_id", requestID,
			"status", resp.StatusCode,
			"bytes", len(respBody),
			"duration", time.Since(start),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    extractMessage(respBody),
			Method:     method,
			Path:       path,
		}
	}

	if len(respBody) == 0 {
		return nil, nil
	}

	return json.RawMessage(respBody), nil
}

// extractMessage pulls the server's message field out of an error body,
// falling back to the raw body when it is not the usual JSON shape
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
