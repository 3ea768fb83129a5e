package apiclient

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

	"go.uber.org/zap"
)

const (
	maxResponseBytes = 8 << 20
	authScheme       = "Token "
)

// Request describes one backend call. Path is relative to the client's base
// URL and may already carry a query string.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	Scope       Scope
	RequireAuth bool
}

type CacheOptions struct {
	// Key overrides the default key of URL plus serialized body.
	Key      string
	Duration time.Duration
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cache   *Cache
	Log     *zap.Logger
}

func NewClient(baseURL string, cache *Cache, timeout time.Duration) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if cache == nil {
		cache = NewCache(NewMemoryStore())
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Cache:   cache,
		Log:     zap.NewNop(),
	}
}

func (c *Client) URL(req Request) string {
	u := c.BaseURL + req.Path
	if len(req.Query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + req.Query.Encode()
}

// Do issues req and decodes a JSON response into out, which may be nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := encodeBody(req.Body)
	if err != nil {
		return err
	}
	raw, err := c.roundTrip(ctx, req, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// Cached is Do behind the response cache. Only successful responses are
// stored. The cache is shared by every session, so requests that would
// carry a token are refused with ErrScopedCache.
func (c *Client) Cached(ctx context.Context, req Request, out any, opts CacheOptions) error {
	if req.RequireAuth || c.scopeOf(req) != ScopeNone {
		return ErrScopedCache
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	key := opts.Key
	if key == "" {
		key = c.URL(req) + string(body)
	}

	raw, err := c.Cache.Get(ctx, key, opts.Duration, func(ctx context.Context) ([]byte, error) {
		return c.roundTrip(ctx, req, body)
	})
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// Ping reports whether the backend answers at all; any non-5xx status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status=%d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req Request, body []byte) ([]byte, error) {
	target := c.URL(req)

	token, hasToken := tokenFor(ctx, c.scopeOf(req))
	if req.RequireAuth && !hasToken {
		return nil, ErrAuthRequired
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	hreq, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Accept", "application/json")
	if body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if hasToken {
		hreq.Header.Set("Authorization", authScheme+token)
	}

	resp, err := c.HTTP.Do(hreq)
	if err != nil {
		c.Log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: parseErrorDetail(raw)}
		c.Log.Info("backend returned error",
			zap.String("method", method),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail),
		)
		return nil, apiErr
	}

	return raw, nil
}

func (c *Client) scopeOf(req Request) Scope {
	if req.Scope != ScopeAuto {
		return req.Scope
	}
	return ScopeFromPath(c.URL(req))
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return b, nil
}

func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
