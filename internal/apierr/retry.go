package apierr

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy holds retry parameters for exponential backoff.
//
// Invalid values are normalized:
//   - MaxRetries < 0 becomes 0 (single attempt)
//   - BaseDelay <= 0 becomes 1ms
//   - MaxDelay <= 0 becomes BaseDelay
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// OnRetry, if set, is called before each wait with the attempt number
	// that just failed (starting at 1), its error and the upcoming delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// NoRetry is a policy that makes exactly one attempt.
var NoRetry = RetryPolicy{}

func (p *RetryPolicy) normalize() {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = p.BaseDelay
	}
}

// RetryWithBackoff executes fn, retrying with exponential backoff while
// shouldRetry accepts the error. The error classifier itself never
// retries; only the transport clients use this, and only for idempotent
// requests.
func RetryWithBackoff[T any](
	ctx context.Context,
	p RetryPolicy,
	fn func() (T, error),
	shouldRetry func(error) bool,
) (T, error) {
	p.normalize()

	var zero T
	var lastErr error
	delay := p.BaseDelay

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if p.OnRetry != nil {
				p.OnRetry(attempt, lastErr, delay)
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
			delay = min(delay*2, p.MaxDelay)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !shouldRetry(lastErr) {
			return zero, lastErr
		}
	}

	if p.MaxRetries == 0 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("giving up after %d retries: %w", p.MaxRetries, lastErr)
}
