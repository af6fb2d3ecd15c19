package genclient

import "time"

const (
	// DefaultMaxAttempts is the fixed attempt ceiling per logical request.
	DefaultMaxAttempts = 5
	// DefaultInitialDelay is the wait after the first failed attempt.
	DefaultInitialDelay = time.Second
)

// Backoff is the attempt state of one logical request: how many attempts have
// started and how long to wait before the next one. The delay doubles after
// every failure and there is no jitter.
//
//	b := NewBackoff(5, time.Second)
//	for b.Next() {
//		// attempt
//		delay, ok := b.Failed()
//	}
type Backoff struct {
	maxAttempts int
	attempts    int
	delay       time.Duration
}

// NewBackoff returns a Backoff allowing maxAttempts attempts, waiting
// initialDelay after the first failure. Non-positive values fall back to the
// defaults.
func NewBackoff(maxAttempts int, initialDelay time.Duration) *Backoff {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Backoff{
		maxAttempts: maxAttempts,
		delay:       initialDelay,
	}
}

// Next starts a new attempt. It reports false once the ceiling is reached.
func (b *Backoff) Next() bool {
	if b.attempts >= b.maxAttempts {
		return false
	}
	b.attempts++
	return true
}

// Failed records that the current attempt failed. It returns the delay to wait
// before the next attempt and doubles the stored delay. ok is false when the
// failed attempt was the last one; no wait follows it.
func (b *Backoff) Failed() (delay time.Duration, ok bool) {
	if b.attempts >= b.maxAttempts {
		return 0, false
	}
	delay = b.delay
	b.delay *= 2
	return delay, true
}

// Attempts returns the number of attempts started so far.
func (b *Backoff) Attempts() int { return b.attempts }
