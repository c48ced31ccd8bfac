package generate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backoff returns the delay before retry number attempt (1-based: the delay
// after the first failure is Backoff(1)).
type Backoff func(attempt int) time.Duration

// Exponential doubles base after every failure: base, 2*base, 4*base, ...
func Exponential(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base << (attempt - 1)
	}
}

// NoDelay never waits. Tests use it to keep retries instant.
func NoDelay(int) time.Duration { return 0 }

// Retrier runs an operation up to Attempts times.
type Retrier struct {
	// Attempts is the total number of tries, at least 1.
	Attempts int
	// Backoff computes the wait between tries.
	Backoff Backoff
	// Sleep waits for d or until ctx is done. Defaults to a timer sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetrier is three tries with 1s, 2s backoff.
func DefaultRetrier() *Retrier {
	return &Retrier{Attempts: 3, Backoff: Exponential(time.Second)}
}

// Do calls op until it succeeds, fails permanently, or attempts run out.
// Access denial and context errors are permanent and returned unwrapped so
// callers can fall back to another model.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := max(r.Attempts, 1)
	backoff := r.Backoff
	if backoff == nil {
		backoff = NoDelay
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if isPermanent(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		delay := backoff(attempt)
		if r.OnRetry != nil {
			r.OnRetry(attempt, lastErr, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrGenerationFailed, attempts, lastErr)
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
