// Package apiclient talks to the account shop API.
//
// Every request goes through the same chain: the locally stored access token first,
// then the cookie session alone, then a single token refresh followed by one more try.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nkiryanov/accountshop/internal/logger"
)

const (
	defaultTimeout = 30 * time.Second

	refreshPath = "/auth/refresh"
	logoutPath  = "/auth/logout"

	// Requests to these paths never trigger a refresh
	authPathPrefix = "/auth/"
)

type Config struct {
	// API base URL, e.g. http://localhost:8000/api
	BaseURL string

	// Limit for a single round trip
	// If not set than default is used
	Timeout time.Duration
}

type Option func(*Client)

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying client. A cookie jar is attached if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.http = &clone
	}
}

func WithUnauthorizedHandler(fn func(error)) Option {
	return func(c *Client) { c.OnUnauthorized(fn) }
}

type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	logger  logger.Logger

	refreshGroup singleflight.Group

	mu           sync.Mutex
	handlerSeq   int
	unauthorized map[int]func(error)
}

func New(cfg Config, store TokenStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if store == nil {
		store = NewMemoryStore(Tokens{})
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		http:         &http.Client{Timeout: cfg.Timeout},
		store:        store,
		logger:       logger.NewNoOpLogger(),
		unauthorized: make(map[int]func(error)),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// OnUnauthorized registers fn to be called once per failed refresh.
// The returned function removes the handler.
func (c *Client) OnUnauthorized(fn func(error)) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlerSeq++
	id := c.handlerSeq
	c.unauthorized[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.unauthorized, id)
	}
}

func (c *Client) emitUnauthorized(err error) {
	c.mu.Lock()
	handlers := make([]func(error), 0, len(c.unauthorized))
	for _, fn := range c.unauthorized {
		handlers = append(handlers, fn)
	}
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(err)
	}
}

// Tokens returns the locally stored pair
func (c *Client) Tokens() (Tokens, error) {
	return c.store.Load()
}

// Params are query parameters. Nil values are skipped, slices repeat the key.
type Params map[string]any

func (p Params) Values() url.Values {
	values := url.Values{}
	for key, v := range p {
		addParam(values, key, v)
	}
	return values
}

func addParam(values url.Values, key string, v any) {
	if v == nil {
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		addParam(values, key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if b, ok := v.([]byte); ok {
			values.Add(key, string(b))
			return
		}
		for i := 0; i < rv.Len(); i++ {
			addParam(values, key, rv.Index(i).Interface())
		}
	default:
		values.Add(key, fmt.Sprint(v))
	}
}

type RequestOptions struct {
	Query  Params
	Body   any
	Header http.Header
}

// Do runs a request through the auth chain and returns the last response whatever its status.
// Errors are returned for transport failures and failed refreshes only.
func (c *Client) Do(ctx context.Context, method string, path string, opts RequestOptions) (*Response, error) {
	body, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	target := c.url(path, opts.Query)

	tokens, err := c.store.Load()
	if err != nil {
		c.logger.Warn("Failed to load local tokens, continue with cookies only", "error", err)
	}

	resp, err := c.send(ctx, method, target, body, opts.Header, tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Same request without bearer, cookies only
	if tokens.AccessToken != "" {
		c.logger.Warn("Access token rejected, retrying with cookie session", "method", method, "path", path)

		resp, err = c.send(ctx, method, target, body, opts.Header, "")
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized {
			return resp, nil
		}
	}

	if strings.HasPrefix(path, authPathPrefix) {
		return resp, nil
	}

	c.logger.Warn("Session rejected, refreshing tokens", "method", method, "path", path)
	access, err := c.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, method, target, body, opts.Header, access)
}

func (c *Client) url(path string, query Params) string {
	u := c.baseURL + path
	if len(query) == 0 {
		return u
	}

	if encoded := query.Values().Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return b, nil
}

// send performs one round trip and reads the whole body
func (c *Client) send(ctx context.Context, method string, target string, body []byte, header http.Header, bearer string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("API response", "method", method, "url", target, "status", resp.StatusCode, "size", len(data))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Refresh exchanges the refresh token for a new access token.
// Concurrent callers share one request. On failure the local tokens are cleared
// and unauthorized handlers are notified once.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		access, err := c.refresh(ctx)
		if err != nil {
			if clearErr := c.store.Clear(); clearErr != nil {
				c.logger.Error("Failed to clear local tokens", "error", clearErr)
			}
			c.emitUnauthorized(err)
			return "", err
		}
		return access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	tokens, err := c.store.Load()
	if err != nil {
		c.logger.Warn("Failed to load local tokens, refresh with cookie only", "error", err)
	}

	resp, err := c.send(ctx, http.MethodPost, c.url(refreshPath, nil), nil, nil, tokens.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var payload envelope[struct {
		Tokens Tokens `json:"tokens"`
	}]
	if err := resp.Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	fresh := payload.Data.Tokens
	if fresh.AccessToken == "" {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, ErrNoAccessToken)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = tokens.RefreshToken
	}

	if err := c.store.Save(fresh); err != nil {
		c.logger.Error("Failed to persist refreshed tokens", "error", err)
	}
	c.logger.Debug("Tokens refreshed")

	return fresh.AccessToken, nil
}

// Logout tells the server to end the session and always clears local tokens.
// Server failures are logged and ignored. Unauthorized handlers are not called.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.Do(ctx, http.MethodPost, logoutPath, RequestOptions{})
	switch {
	case err != nil:
		c.logger.Warn("Logout request failed", "error", err)
	case !resp.OK():
		c.logger.Warn("Logout rejected by server", "status", resp.StatusCode)
	}

	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("clear local tokens: %w", err)
	}
	return nil
}
