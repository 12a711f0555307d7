// Package upstream holds the shared HTTP transport for the commerce backend.
// Every storefront client (cart, coupon, shipping, checkout, orders) issues
// its calls through this client so that authentication forwarding and error
// classification stay uniform.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/petfeliz/storefront-backend/pkg/auth"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
)

const (
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 4096
	headerIdempotencyKey       = "Idempotency-Key"
)

var errBaseURLRequired = errors.New("upstream base url is required")

// Client is a thin JSON transport bound to one commerce backend base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the upstream transport for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type callOptions struct {
	statusCodes    map[int]pkgerrors.Code
	idempotencyKey string
}

// CallOption adjusts a single request.
type CallOption func(*callOptions)

// MapStatus overrides the error code assigned to one HTTP status.
func MapStatus(status int, code pkgerrors.Code) CallOption {
	return func(o *callOptions) {
		if o.statusCodes == nil {
			o.statusCodes = make(map[int]pkgerrors.Code)
		}
		o.statusCodes[status] = code
	}
}

// WithIdempotencyKey attaches the idempotency token header to the request.
func WithIdempotencyKey(key string) CallOption {
	return func(o *callOptions) {
		o.idempotencyKey = key
	}
}

// DoJSON executes one JSON request against the backend. A non-nil body is
// marshalled as the request payload, a non-nil out receives the decoded
// "data" envelope. Errors come back classified by code.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}

	var options callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal upstream request")
		}
		reader = bytes.NewReader(payload)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := auth.BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if options.idempotencyKey != "" {
		req.Header.Set(headerIdempotencyKey, options.idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "upstream request timed out")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute upstream request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return classifyStatus(resp, options.statusCodes)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upstream response")
	}
	if len(envelope.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream response missing data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upstream payload")
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func classifyStatus(resp *http.Response, overrides map[int]pkgerrors.Code) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	message := strings.TrimSpace(string(raw))
	var details any
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
		details = envelope.Error.Details
	}

	code := codeForStatus(resp.StatusCode)
	if override, ok := overrides[resp.StatusCode]; ok {
		code = override
	}

	upstreamErr := pkgerrors.New(code, fmt.Sprintf("upstream status %d: %s", resp.StatusCode, message))
	if details != nil {
		upstreamErr = upstreamErr.WithDetails(details)
	}
	return upstreamErr
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return pkgerrors.CodeTimeout
	case http.StatusTooManyRequests:
		return pkgerrors.CodeDependency
	}
	if status >= http.StatusInternalServerError {
		return pkgerrors.CodeDependency
	}
	return pkgerrors.CodeValidation
}
