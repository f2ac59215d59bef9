package automaton

import (
	"context"
	"errors"
	"testing"
	"time"

	"steamwork/input"
	"steamwork/process"
	"steamwork/sequence"
	"steamwork/steamworks"
)

func TestDrive_EntersKeysInOrderOnAcceptance(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()

	// the game publishes the counter one frame late: two polls after the press
	pending := 0
	g.Proc.OnRead(func(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) {
		if addr != g.Addrs.ButtonCheck || pending == 0 {
			return
		}
		pending--
		if pending == 0 {
			g.Accept()
		}
	})
	rec.OnPress(func(i int, key input.Key) error {
		counter, err := steamworks.ReadCounter(g.Proc, g.Addrs)
		if err != nil {
			return err
		}
		if int(counter) != i {
			t.Errorf("key %d pressed before key %d was accepted (counter %d)", i, i-1, counter)
		}
		pending = 3
		return nil
	})

	seq := sequence.Sequence{input.KeyW, input.KeyA, input.KeyD, input.KeyW}
	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 0, nil)
	if err := s.Drive(context.Background(), seq, g.Addrs); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}

	got := rec.Pressed()
	if !sequence.Sequence(got).Equal(seq) {
		t.Fatalf("expected exactly %s, got %v", seq, got)
	}
	if c, _ := steamworks.ReadCounter(g.Proc, g.Addrs); c != 4 {
		t.Fatalf("expected counter 4, got %d", c)
	}
}

func TestDrive_NoPressWithoutFocus(t *testing.T) {
	g := newGame(t, "")
	g.Proc.SetFocus(false)
	rec := input.NewRecorder()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 0, nil)
	err := s.Drive(ctx, sequence.Sequence{input.KeyA, input.KeyW}, g.Addrs)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if rec.Count() != 0 {
		t.Fatalf("pressed %v while the target was unfocused", rec.Pressed())
	}
}

func TestDrive_NoAdvanceUntilCounterMoves(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()

	// focus flickers the whole time, the counter never moves
	polls := 0
	g.Proc.SetFocusFunc(func() bool {
		polls++
		return polls%3 != 0
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 0, nil)
	err := s.Drive(ctx, sequence.Sequence{input.KeyA, input.KeyW, input.KeyD}, g.Addrs)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if got := rec.Pressed(); len(got) != 1 || got[0] != input.KeyA {
		t.Fatalf("expected only the first key, got %v", got)
	}
}

func TestDrive_CancelStopsInput(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cancelledAt time.Time
	rec.OnPress(func(i int, key input.Key) error {
		g.Accept()
		if i == 1 {
			cancelledAt = time.Now()
			cancel()
		}
		return nil
	})

	interval := 20 * time.Millisecond
	s := NewSynchronizer(g.Proc, rec, interval, 0, nil)
	err := s.Drive(ctx, sequence.Sequence{input.KeyA, input.KeyW, input.KeyD, input.KeyA}, g.Addrs)
	elapsed := time.Since(cancelledAt)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if rec.Count() != 2 {
		t.Fatalf("expected no press after cancellation, got %v", rec.Pressed())
	}
	if elapsed > interval+50*time.Millisecond {
		t.Fatalf("cancellation observed after %s", elapsed)
	}
}

func TestDrive_CancelWhileWaitingForFocus(t *testing.T) {
	g := newGame(t, "")
	g.Proc.SetFocus(false)
	rec := input.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	interval := 10 * time.Millisecond
	s := NewSynchronizer(g.Proc, rec, interval, 0, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Drive(ctx, sequence.Sequence{input.KeyA}, g.Addrs)
	}()

	time.Sleep(3 * interval)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Drive did not return after cancellation")
	}
	if rec.Count() != 0 {
		t.Fatalf("unexpected presses %v", rec.Pressed())
	}
}

func TestSynchronizer_FocusLossLoggedOnce(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()
	rec.OnPress(func(int, input.Key) error { return g.Accept() })
	log := &recordingLogger{}

	script := []bool{false, false, false, false, true}
	polls := 0
	g.Proc.SetFocusFunc(func() bool {
		if polls < len(script) {
			polls++
			return script[polls-1]
		}
		return true
	})

	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 0, log)
	if err := s.Drive(context.Background(), sequence.Sequence{input.KeyD}, g.Addrs); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if n := log.count("warn", "lost focus"); n != 1 {
		t.Fatalf("expected one focus loss line, got %d", n)
	}
	if n := log.count("info", "focus regained"); n != 1 {
		t.Fatalf("expected one regain line, got %d", n)
	}
}

func TestDrive_AcceptTimeout(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()

	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 20*time.Millisecond, nil)
	err := s.Drive(context.Background(), sequence.Sequence{input.KeyA, input.KeyW}, g.Addrs)
	if !errors.Is(err, ErrAcceptTimeout) {
		t.Fatalf("expected ErrAcceptTimeout, got %v", err)
	}
	if rec.Count() != 1 {
		t.Fatalf("a timed out key must not be pressed again, got %v", rec.Pressed())
	}
}

func TestDrive_AcceptTimeoutOnlyCountsFocusedTime(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()
	rec.OnPress(func(int, input.Key) error {
		g.Proc.SetFocus(false)
		time.AfterFunc(40*time.Millisecond, func() {
			g.Accept()
			g.Proc.SetFocus(true)
		})
		return nil
	})

	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 10*time.Millisecond, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Drive(ctx, sequence.Sequence{input.KeyA}, g.Addrs); err != nil {
		t.Fatalf("an unfocused wait must not time out, got %v", err)
	}
	if rec.Count() != 1 {
		t.Fatalf("unexpected presses %v", rec.Pressed())
	}
}

func TestDrive_ReadErrorPropagates(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()

	bad := g.Layout.AddressesFrom(0x7000)
	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 0, nil)
	err := s.Drive(context.Background(), sequence.Sequence{input.KeyA}, bad)
	if !errors.Is(err, process.ErrMemoryRead) {
		t.Fatalf("expected ErrMemoryRead, got %v", err)
	}
	var mre *process.MemoryReadError
	if !errors.As(err, &mre) {
		t.Fatalf("expected *MemoryReadError, got %T", err)
	}
	if rec.Count() != 0 {
		t.Fatalf("nothing may be pressed when the counter cannot be read")
	}
}

func TestTap_DoesNotWaitForAcceptance(t *testing.T) {
	g := newGame(t, "")
	rec := input.NewRecorder()

	s := NewSynchronizer(g.Proc, rec, time.Millisecond, 0, nil)
	if err := s.Tap(context.Background(), input.KeySpace); err != nil {
		t.Fatalf("Tap failed: %v", err)
	}
	if got := rec.Pressed(); len(got) != 1 || got[0] != input.KeySpace {
		t.Fatalf("unexpected presses %v", got)
	}
}
