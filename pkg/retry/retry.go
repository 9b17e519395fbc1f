package retry

import (
	"context"
	"math"
	"time"
)

// Policy defines exponential backoff parameters for bounded retries.
type Policy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultPolicy retries network-class failures up to 3 times.
var DefaultPolicy = Policy{
	MaxAttempts:   3,
	InitialDelay:  200 * time.Millisecond,
	MaxDelay:      2 * time.Second,
	BackoffFactor: 2,
}

// NextDelay returns the delay before a given attempt (1-based) with clamping.
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	initial := p.InitialDelay
	if initial <= 0 {
		initial = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(initial) * math.Pow(factor, float64(attempt-1)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}

// Do runs fn up to MaxAttempts times, sleeping between attempts. A retry
// happens only when retryable reports the error as transient; other errors
// propagate immediately.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || retryable == nil || !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.NextDelay(attempt)):
		}
	}
	return err
}
