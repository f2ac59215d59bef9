package wait

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUntil_ReturnsWhenConditionHolds(t *testing.T) {
	polls := 0
	err := Until(context.Background(), time.Millisecond, Bool(func() bool {
		polls++
		return polls == 3
	}))
	if err != nil {
		t.Fatalf("Until failed: %v", err)
	}
	if polls != 3 {
		t.Fatalf("expected 3 polls, got %d", polls)
	}
}

func TestUntil_PropagatesConditionError(t *testing.T) {
	boom := errors.New("boom")
	err := Until(context.Background(), time.Millisecond, func() (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestUntil_CancelledBeforeFirstPoll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	polled := false
	err := Until(ctx, time.Millisecond, Bool(func() bool {
		polled = true
		return true
	}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if polled {
		t.Fatalf("condition polled after cancellation")
	}
}

func TestUntil_CancelAbortsWithinOneInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	interval := 20 * time.Millisecond

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Until(ctx, interval, Bool(func() bool { return false }))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Millisecond+interval+50*time.Millisecond {
		t.Fatalf("cancellation took %v", elapsed)
	}
}

func TestSleep_ZeroDuration(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
