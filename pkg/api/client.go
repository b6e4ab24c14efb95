package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/principal"
	"github.com/theAriful7/storefront/pkg/telemetry"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// Client talks to the storefront backend. It is safe for concurrent use.
// Each backend resource is reached through its own typed client field.
type Client struct {
	baseURL    string
	httpClient *http.Client
	principal  principal.Provider
	logger     logger.Logger
	telemetry  telemetry.Telemetry
	userAgent  string

	Categories    *CategoryClient
	SubCategories *SubCategoryClient
	Products      *ProductClient
	Images        *ImageClient
	Carts         *CartClient
	CartItems     *CartItemClient
	Orders        *OrderClient
	OrderItems    *OrderItemClient
	Payments      *PaymentClient
	Reviews       *ReviewClient
	Users         *UserClient
	Auth          *AuthClient
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used
// as-is, without tracing instrumentation. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. The HTTP client is copied first,
// so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = logger.OrNoOp(l)
	}
}

// WithTelemetry sets the tracing/metrics backend.
func WithTelemetry(t telemetry.Telemetry) Option {
	return func(c *Client) {
		if t != nil {
			c.telemetry = t
		}
	}
}

// WithPrincipal sets the provider whose token is sent as a bearer token.
func WithPrincipal(p principal.Provider) Option {
	return func(c *Client) {
		c.principal = p
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, core.ErrInvalidConfiguration)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:    logger.NoOpLogger{},
		telemetry: telemetry.NewNoop(),
		userAgent: "storefront-go",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Categories = &CategoryClient{c: c}
	c.SubCategories = &SubCategoryClient{c: c}
	c.Products = &ProductClient{c: c}
	c.Images = &ImageClient{c: c}
	c.Carts = &CartClient{c: c}
	c.CartItems = &CartItemClient{c: c}
	c.Orders = &OrderClient{c: c}
	c.OrderItems = &OrderItemClient{c: c}
	c.Payments = &PaymentClient{c: c}
	c.Reviews = &ReviewClient{c: c}
	c.Users = &UserClient{c: c}
	c.Auth = &AuthClient{c: c}

	return c, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call.
type request struct {
	resource    string
	method      string
	path        string
	query       url.Values
	body        interface{} // JSON-encoded when non-nil
	rawBody     []byte      // sent verbatim with contentType when non-nil
	contentType string
}

// do performs r and decodes a JSON response into out (which may be nil).
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	ctx, span := c.telemetry.StartRequestSpan(ctx, r.resource, r.method, r.path)
	defer span.End()

	start := time.Now()
	status, err := c.roundTrip(ctx, r, out)
	elapsed := time.Since(start)

	c.telemetry.RecordRequest(ctx, telemetry.RequestMetric{
		Resource: r.resource,
		Method:   r.method,
		Status:   status,
		Duration: elapsed,
		Err:      err,
	})

	log := c.logger.WithFields(telemetry.EnrichLogFields(ctx, map[string]interface{}{
		"resource": r.resource,
		"method":   r.method,
		"path":     r.path,
		"status":   status,
		"duration": elapsed.String(),
	}))
	if err != nil {
		log.Error("backend request failed", err)
		return err
	}
	log.Debug("backend request completed")
	return nil
}

func (c *Client) roundTrip(ctx context.Context, r request, out interface{}) (int, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	contentType := r.contentType
	switch {
	case r.rawBody != nil:
		body = bytes.NewReader(r.rawBody)
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if err := c.authorize(ctx, req); err != nil {
		return 0, err
	}
	telemetry.InjectCorrelationHeaders(ctx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w: %w", r.method, r.path, core.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, newAPIError(r.method, r.path, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s %s: read response: %w: %w", r.method, r.path, core.ErrConnectionFailed, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s %s: decode response: %v: %w", r.method, r.path, err, core.ErrRequestFailed)
	}
	return resp.StatusCode, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	p := principal.FromContext(ctx, c.principal)
	if p == nil {
		return nil
	}
	token, err := p.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func pathID(id int64) string {
	return fmt.Sprintf("%d", id)
}
