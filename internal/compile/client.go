// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/texsnap/internal/util"
)

// Configuration constants for the compile service.
const (
	// DefaultURL is the compile service used when none is configured.
	DefaultURL = "http://localhost:8080"

	// CompilePath is appended to the base URL.
	CompilePath = "/compile"

	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 64 * 1024 * 1024

	userAgent = "texsnap"
)

// Error variables for compile failures.
var (
	// ErrUnreachable indicates the service could not be contacted.
	ErrUnreachable = errors.New("could not reach the compile service")

	// ErrInvalidArtifact indicates a success response that is not a readable PDF.
	ErrInvalidArtifact = errors.New("compile service returned an invalid PDF")

	// ErrResponseTooLarge indicates the response exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("compile response too large")
)

// ServiceError is a failure reported by the compile service itself.
type ServiceError struct {
	Status  int
	Message string
	Log     string
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("compilation failed (HTTP %d): %s", e.Status, e.Message)
}

// request is the body sent to the service.
type request struct {
	Content string `json:"content"`
}

// errorResponse is the JSON error payload returned by the service.
type errorResponse struct {
	Error string `json:"error"`
	Log   string `json:"log"`
}

// =============================================================================
// ARTIFACT
// =============================================================================

// Artifact is a compiled document.
type Artifact struct {
	Data        []byte
	ContentType string
	Pages       int // 0 unless PDF validation is enabled
}

// Size returns the artifact size in bytes.
func (a *Artifact) Size() int {
	return len(a.Data)
}

// WriteFile saves the artifact to path.
func (a *Artifact) WriteFile(path string) error {
	return util.AtomicWriteFile(path, a.Data, 0644)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client sends documents to the compile service. It is safe for concurrent use.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	limiter         *rate.Limiter
	validatePDF     bool
	maxResponseSize int64
	logger          *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each compile request. Zero leaves the request bounded
// only by its context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit caps requests per minute. Zero or less disables the limit.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithPDFValidation parses every successful response as a PDF.
func WithPDFValidation(enabled bool) Option {
	return func(c *Client) {
		c.validatePDF = enabled
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultURL
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		maxResponseSize: MaxResponseSize,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Compile sends source to the service and returns the rendered artifact.
func (c *Client) Compile(ctx context.Context, source string) (*Artifact, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("compile rate limit: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(request{Content: source})
	if err != nil {
		return nil, fmt.Errorf("encode compile request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CompilePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create compile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf, application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("compile request", "url", req.URL.String(), "bytes", len(source))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.Warn("compile service unreachable", "url", c.baseURL, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}
	if int64(len(data)) > c.maxResponseSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, c.maxResponseSize)
	}

	c.logger.Info("compile response",
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseServiceError(resp.StatusCode, data)
	}

	art := &Artifact{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if c.validatePDF {
		pages, err := pageCount(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		art.Pages = pages
	}
	return art, nil
}

// parseServiceError builds a ServiceError from a non-2xx response, falling
// back to the status text when the body is not the JSON error payload.
func parseServiceError(status int, body []byte) *ServiceError {
	se := &ServiceError{Status: status}

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		se.Message = payload.Error
		se.Log = payload.Log
		return se
	}

	se.Message = http.StatusText(status)
	if se.Message == "" {
		se.Message = fmt.Sprintf("unexpected status %d", status)
	}
	return se
}
