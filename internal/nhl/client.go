// Package nhl reads the public NHL web feed through a time-bounded cache.
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smileynet/faceoff/internal/cache"
)

// Defaults for a Client built without options.
const (
	DefaultBaseURL   = "https://api-web.nhle.com/v1"
	DefaultUserAgent = "Faceoff/1.0"
	DefaultTimeout   = 30 * time.Second
)

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 16 << 20

// Client fetches feed resources and caches decoded responses by path.
// A Client is safe for concurrent use; one is shared by every screen.
type Client struct {
	baseURL    string
	userAgent  string
	defaultTTL time.Duration
	http       *http.Client
	timeout    time.Duration
	store      *cache.Store[Payload]
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the feed root, e.g. for an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client passed in
// is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout, whichever HTTP client is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithDefaultTTL sets the lifetime used for requests with a zero TTL.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *Client) {
		c.defaultTTL = d
	}
}

// WithClock overrides the time source used for cache staleness.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithLogger attaches a logger for cache and fetch diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l.With().Str("component", "nhl").Logger()
	}
}

// NewClient creates a Client with an empty cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		defaultTTL: DefaultTTL,
		http:       &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	c.store = cache.New[Payload](cache.WithClock(func() time.Time { return c.now() }))
	return c
}

// Fetch returns the payload for req. A cached payload is returned when it
// is younger than the request's TTL; otherwise the feed is queried and the
// result cached under req.Path. Failures leave the cache untouched.
func (c *Client) Fetch(ctx context.Context, req Request) (Payload, error) {
	ttl := req.TTL
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if p, ok := c.store.Get(req.Path, ttl); ok {
		c.log.Debug().Str("path", req.Path).Msg("cache hit")
		return p, nil
	}
	c.log.Debug().Str("path", req.Path).Dur("ttl", ttl).Msg("cache miss")

	p, err := c.get(ctx, req.Path)
	if err != nil {
		ev := c.log.Warn().Err(err).Str("path", req.Path)
		if prev, ok := c.store.Lookup(req.Path); ok {
			ev = ev.Dur("kept_age", prev.Age(c.now()))
		}
		ev.Msg("fetch failed")
		return nil, err
	}
	c.store.Set(req.Path, p)
	return p, nil
}

func (c *Client) get(ctx context.Context, path string) (Payload, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &FetchError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status),
		}
	}

	var p Payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		return nil, &FetchError{Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding body: %w", err)}
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// InvalidateAll discards every cached payload.
func (c *Client) InvalidateAll() {
	n := c.Cached()
	c.store.Invalidate()
	c.log.Debug().Int("entries", n).Msg("cache invalidated")
}

// Cached reports how many payloads are held, stale or not.
func (c *Client) Cached() int {
	return c.store.Len()
}

// Close releases idle connections held by the HTTP client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
