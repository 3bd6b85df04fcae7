package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/hourglass-gateway/internal/metrics"
	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/apperror"
)

// Config holds the settings for the outbound client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Result is a successful (2xx) upstream response: the status code and the
// raw body, forwarded to the caller verbatim.
type Result struct {
	Status int
	Body   []byte
}

// Client is the shared outbound HTTP client for the upstream API.
// It is created once at startup and reused by every handler; the
// underlying transport pools connections across requests.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewClient creates the shared client. Close it on shutdown.
func NewClient(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// BaseURL returns the configured upstream origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasAPIKey reports whether an API key was configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Close releases pooled connections. Call once at process shutdown.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Get performs an upstream GET with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Result, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post performs an upstream POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Result, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put performs an upstream PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Result, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// do builds, sends and classifies one upstream call:
//   - 2xx: status and raw body returned as a Result
//   - non-2xx: Upstream error carrying the status and the JSON-decoded
//     body (raw text if the body is not JSON)
//   - transport failure (dial, timeout, canceled): Unavailable error
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*Result, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	c.logger.Debug("upstream request",
		zap.String("method", method),
		zap.String("url", fullURL),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, path, "error")
		c.logger.Warn("upstream unreachable",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Error(err),
		)
		return nil, apperror.Unavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, path, "error")
		return nil, apperror.Internal(err)
	}

	c.observe(method, path, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("upstream error response",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, apperror.Upstream(resp.StatusCode, decodeDetail(raw))
	}

	c.logger.Debug("upstream response",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode),
	)

	return &Result{Status: resp.StatusCode, Body: raw}, nil
}

func (c *Client) observe(method, path, status string) {
	if c.metrics != nil {
		c.metrics.ObserveUpstream(method, path, status)
	}
}

// decodeDetail returns the upstream error body parsed as JSON when
// possible, otherwise the raw text.
func decodeDetail(raw []byte) any {
	var detail any
	if err := json.Unmarshal(raw, &detail); err != nil {
		return string(raw)
	}
	return detail
}
