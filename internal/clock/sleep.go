// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	_, err := WaitWithContext(ctx, d, nil)
	return err
}

// WaitWithContext waits until d elapses or signal fires, whichever comes first.
// A non-positive d disables the timer so only signal (or ctx) can end the wait.
// The returned bool reports whether the wait ended because of signal.
func WaitWithContext(ctx context.Context, d time.Duration, signal <-chan struct{}) (bool, error) {
	var timeout <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-signal:
		return true, nil
	case <-timeout:
		return false, nil
	}
}
