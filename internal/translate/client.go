package translate

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 10 * time.Second

type Option func(*Client)

// WithTimeout sets the per-call bound. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCache stores successful translations in cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// Client tries each primary provider once, in order, then the secondary
// provider once. Calls are sequential.
type Client struct {
	primary   []Provider
	secondary Provider
	timeout   time.Duration
	cache     Cache
}

// NewClient builds a client. secondary may be nil.
func NewClient(primary []Provider, secondary Provider, opts ...Option) *Client {
	c := &Client{
		primary:   append([]Provider(nil), primary...),
		secondary: secondary,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate never returns a Go error: a failed translation is a Result whose
// Err lists every attempt.
func (c *Client) Translate(ctx context.Context, req Request) Result {
	req = req.normalized()
	if err := req.Validate(); err != nil {
		return Result{Attempts: []Attempt{{Provider: "request", Err: err}}}
	}
	if req.Source == req.Target {
		return Result{Text: req.Text, Provider: "identity"}
	}

	key := req.cacheKey()
	if text, ok := c.lookup(ctx, key); ok {
		return Result{Text: text, Provider: "cache"}
	}

	var attempts []Attempt
	for _, p := range c.primary {
		text, err := c.try(ctx, p, req)
		if err == nil {
			c.remember(ctx, key, text)
			return Result{Text: text, Provider: p.Name(), Attempts: attempts}
		}

		log.Warn("Translation endpoint failed", "endpoint", p.Name(), "err", err)
		attempts = append(attempts, Attempt{Provider: p.Name(), Err: err})

		if ctx.Err() != nil {
			return Result{Attempts: attempts}
		}
	}

	if c.secondary != nil {
		text, err := c.try(ctx, c.secondary, req)
		if err == nil {
			c.remember(ctx, key, text)
			return Result{Text: text, Provider: c.secondary.Name(), Attempts: attempts}
		}

		log.Warn("Secondary translation provider failed", "provider", c.secondary.Name(), "err", err)
		attempts = append(attempts, Attempt{Provider: c.secondary.Name(), Err: err})
	}

	return Result{Attempts: attempts}
}

func (c *Client) try(ctx context.Context, p Provider, req Request) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := p.Translate(cctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) lookup(ctx context.Context, key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	text, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn("Translation cache read failed", "err", err)
		}
		return "", false
	}
	return text, true
}

func (c *Client) remember(ctx context.Context, key, text string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, text); err != nil {
		log.Warn("Translation cache write failed", "err", err)
	}
}
