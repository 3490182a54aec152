package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/common"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

const maxBodyBytes = 1 << 20

// TokenSource returns the current credential, or "" when anonymous.
type TokenSource func() string

// Options configure an HTTPClient.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables throttling
	Transport         http.RoundTripper
	Logger            logging.Logger
}

// HTTPClient implements Client over the game's JSON API. It is safe for
// concurrent use.
type HTTPClient struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	token   atomic.Pointer[TokenSource]
	logger  logging.Logger
	newID   func() string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the server at baseURL. Requests are
// anonymous until UseTokenSource is called.
func NewHTTPClient(baseURL string, opts Options) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &HTTPClient{
		base:    base,
		http:    &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With("module", "client"),
		newID:   uuid.NewString,
	}, nil
}

// UseTokenSource sets where the bearer credential is read from.
func (c *HTTPClient) UseTokenSource(ts TokenSource) {
	c.token.Store(&ts)
}

type credentialKey struct{}

// WithCredential makes requests issued under ctx carry raw instead of the
// token source's credential. Used for calls that outlive the session, such
// as the background logout.
func WithCredential(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, credentialKey{}, raw)
}

func (c *HTTPClient) bearer(ctx context.Context) string {
	if raw, ok := ctx.Value(credentialKey{}).(string); ok {
		return raw
	}
	if ts := c.token.Load(); ts != nil && *ts != nil {
		return (*ts)()
	}
	return ""
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := c.newID()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.bearer(ctx); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if err := mapStatus(method, path, resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

func mapStatus(method, path string, code int, body []byte) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return fmt.Errorf("%s %s: status %d: %w", method, path, code, ErrUnavailable)
	default:
		return &StatusError{Method: method, Path: path, Code: code, Body: strings.TrimSpace(string(body))}
	}
}

func decode[T any](data []byte, path string) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w: %w", path, ErrMalformedResponse, err)
	}
	return v, nil
}

// idField pulls a non-zero "id" out of a response whose other fields the
// caller does not need.
func idField(data []byte, path string) (models.ID, error) {
	r := gjson.GetBytes(data, "id")
	if !r.Exists() || (r.Type != gjson.Number && r.Type != gjson.String) {
		return "", fmt.Errorf("%s: no id: %w", path, ErrMalformedResponse)
	}
	id := models.ID(r.String())
	if id.IsZero() {
		return "", fmt.Errorf("%s: zero id: %w", path, ErrMalformedResponse)
	}
	return id, nil
}

func tokenField(data []byte, path string) (string, error) {
	tok := gjson.GetBytes(data, "token").String()
	if tok == "" {
		return "", fmt.Errorf("%s: no token: %w", path, ErrMalformedResponse)
	}
	return tok, nil
}
