package sqlstore

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
)

// RetryPolicy bounds how often the store retries reaching the database.
type RetryPolicy struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	JitterFactor float64 // 0.0 to 1.0
	Multiplier   float64
}

// DefaultRetryPolicy makes four attempts, two seconds apart at first.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  4,
		BaseDelay:    2 * time.Second,
		MaxDelay:     10 * time.Second,
		JitterFactor: 0.2,
		Multiplier:   2.0,
	}
}

// RetryNotifyFunc is called before each retry.
type RetryNotifyFunc func(attempt int, err error, delay time.Duration)

// Execute runs fn until it succeeds, fails with a non-retryable error or the
// attempts are used up. notify may be nil.
func (p *RetryPolicy) Execute(ctx context.Context, fn func(context.Context) error, notify RetryNotifyFunc) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !core.IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := p.CalculateDelay(attempt)
		if notify != nil {
			notify(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &RetryExhaustedError{
		Attempts: attempts,
		LastErr:  lastErr,
	}
}

// CalculateDelay computes the delay after the given attempt.
func (p *RetryPolicy) CalculateDelay(attempt int) time.Duration {
	delay := p.delayNoJitter(attempt)
	if p.JitterFactor > 0 {
		jitter := delay * p.JitterFactor
		delay += (rand.Float64()*2 - 1) * jitter
	}
	return time.Duration(delay)
}

func (p *RetryPolicy) delayNoJitter(attempt int) float64 {
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	return delay
}

// RetryExhaustedError indicates all attempts failed.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}
