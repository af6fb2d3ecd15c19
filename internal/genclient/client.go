// Package genclient sends prompts to the Gemini text-generation endpoint and
// hides transient failures behind a bounded retry loop with doubling backoff.
package genclient

import (
	"context"
	"log/slog"
	"time"
)

// Transport performs a single attempt: deliver prompt, return the generated
// text. Any error it returns is treated as retryable by Client.
type Transport interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, prompt string) (string, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Options configures a Client.
type Options struct {
	MaxAttempts    int           // Attempt ceiling (default 5).
	InitialDelay   time.Duration // Wait after the first failure (default 1s).
	AttemptTimeout time.Duration // Per-attempt deadline; 0 leaves attempts unbounded.
	Logger         *slog.Logger
}

// Client wraps a Transport with the retry loop. It holds no per-request state
// and is safe for concurrent use.
type Client struct {
	transport      Transport
	maxAttempts    int
	initialDelay   time.Duration
	attemptTimeout time.Duration
	log            *slog.Logger

	// sleepFunc is used for testing; defaults to a context-aware sleep.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// New returns a Client sending attempts through t.
func New(t Transport, opts Options) *Client {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		transport:      t,
		maxAttempts:    opts.MaxAttempts,
		initialDelay:   opts.InitialDelay,
		attemptTimeout: opts.AttemptTimeout,
		log:            opts.Logger,
		sleepFunc:      contextSleep,
	}
}

// SetSleepFunc overrides the sleep function (for testing).
func (c *Client) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	c.sleepFunc = fn
}

// contextSleep sleeps for d or until ctx is cancelled.
func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Generate sends prompt and returns the generated text from the first attempt
// that succeeds. After MaxAttempts failures it returns an *ExhaustedError
// (errors.Is(err, ErrExhausted)). If ctx ends first, ctx.Err() is returned.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	b := NewBackoff(c.maxAttempts, c.initialDelay)

	var last error
	for b.Next() {
		text, err := c.attempt(ctx, prompt)
		if err == nil {
			c.log.Debug("generation succeeded", "attempt", b.Attempts())
			return text, nil
		}
		last = err
		c.log.Warn("generation attempt failed", "attempt", b.Attempts(), "error", err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		delay, ok := b.Failed()
		if !ok {
			break
		}
		c.log.Info("retrying generation", "delay", delay)
		if err := c.sleepFunc(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", &ExhaustedError{Attempts: b.Attempts(), Last: last}
}

func (c *Client) attempt(ctx context.Context, prompt string) (string, error) {
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}
	return c.transport.Send(ctx, prompt)
}
