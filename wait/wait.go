// Package wait holds the one polling primitive every blocking step of the automaton uses.
package wait

import (
	"context"
	"time"
)

// Condition is polled until it reports true or fails
type Condition func() (bool, error)

// Bool adapts a side-effect free predicate that cannot fail
func Bool(f func() bool) Condition {
	return func() (bool, error) {
		return f(), nil
	}
}

// Until polls cond every interval until it reports true, returns an error, or ctx is done.
// ctx is checked before every poll, so cancellation is observed within one interval.
func Until(ctx context.Context, interval time.Duration, cond Condition) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if err := Sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// Sleep pauses for d, returning ctx.Err() early if ctx is done first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
