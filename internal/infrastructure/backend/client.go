package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
)

// Backend endpoint paths
const (
	PathResolve = "/encargos/resolve"
	PathCapture = "/encargos/capture"
	PathQuote   = "/encargos/quote"
	PathMine    = "/encargos/mine"
	PathOrders  = "/encargos/orders"
)

// Client talks to the encargos backend API. It holds no per-customer state:
// the bearer token is passed on every call.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a backend client. No client timeout is set; callers
// bound each call through the context.
func NewClient(config Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		config: config,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Resolve asks the backend to follow redirects and short links for rawURL.
// The decoded body is returned as-is so field aliases can be applied by the caller.
func (c *Client) Resolve(ctx context.Context, rawURL string) (map[string]json.RawMessage, error) {
	headers := http.Header{}
	headers.Set("Cache-Control", "no-store")
	headers.Set("Pragma", "no-cache")

	body, err := c.doRequest(ctx, http.MethodPost, PathResolve, "", map[string]string{"url": rawURL}, headers, MsgResolveFailed)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(body, &out); err != nil || out == nil {
		return nil, malformedError(body, MsgResolveFailed, err)
	}
	if ok, present := out["ok"]; present && string(bytes.TrimSpace(ok)) == "false" {
		return nil, upstreamError(0, body, MsgResolveFailed)
	}
	return out, nil
}

// Capture stores a captured item for the token's customer
func (c *Client) Capture(ctx context.Context, token string, req encargo.CaptureRequest) (encargo.CaptureResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, PathCapture, token, req, nil, MsgCaptureFailed)
	if err != nil {
		return encargo.CaptureResult{}, err
	}
	var out encargo.CaptureResult
	if err := json.Unmarshal(body, &out); err != nil {
		return encargo.CaptureResult{}, malformedError(body, MsgCaptureFailed, err)
	}
	return out, nil
}

// Quote prices shipping for a validated quote request
func (c *Client) Quote(ctx context.Context, token string, req encargo.QuoteRequest) (encargo.Quote, error) {
	body, err := c.doRequest(ctx, http.MethodPost, PathQuote, token, req, nil, MsgQuoteFailed)
	if err != nil {
		return encargo.Quote{}, err
	}
	var out encargo.Quote
	if err := json.Unmarshal(body, &out); err != nil {
		return encargo.Quote{}, malformedError(body, MsgQuoteFailed, err)
	}
	return out, nil
}

// ListMine returns the token customer's captured items. The backend may
// answer with a bare array or with {"items": [...]}.
func (c *Client) ListMine(ctx context.Context, token string) ([]encargo.Encargo, error) {
	body, err := c.doRequest(ctx, http.MethodGet, PathMine, token, nil, nil, MsgMineFailed)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	var items []encargo.Encargo
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, malformedError(body, MsgMineFailed, err)
		}
		return items, nil
	}
	var wrapped struct {
		Items []encargo.Encargo `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, malformedError(body, MsgMineFailed, err)
	}
	if wrapped.Items == nil {
		return []encargo.Encargo{}, nil
	}
	return wrapped.Items, nil
}

// CreateOrder persists a paid cart
func (c *Client) CreateOrder(ctx context.Context, token string, req encargo.OrderRequest) (encargo.OrderResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, PathOrders, token, req, nil, MsgOrderFailed)
	if err != nil {
		return encargo.OrderResult{}, err
	}
	var out encargo.OrderResult
	if err := json.Unmarshal(body, &out); err != nil {
		return encargo.OrderResult{}, malformedError(body, MsgOrderFailed, err)
	}
	return out, nil
}

// doRequest performs one round trip. Non-2xx responses become UpstreamError
// with the backend status; transport failures become UpstreamError 500.
func (c *Client) doRequest(ctx context.Context, method, path, token string, payload any, headers http.Header, fallback string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("backend: failed to create request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, transportError(fallback, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		return nil, transportError(fallback, fmt.Errorf("backend: failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Info("Backend returned error status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, upstreamError(resp.StatusCode, body, fallback)
	}
	return body, nil
}
