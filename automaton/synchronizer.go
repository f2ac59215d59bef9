package automaton

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steamwork/input"
	"steamwork/process"
	"steamwork/sequence"
	"steamwork/steamworks"
	"steamwork/wait"
)

// ErrAcceptTimeout is returned when the game did not register a key within the accept timeout
var ErrAcceptTimeout = errors.New("key not accepted in time")

// Synchronizer presses keys one at a time, each only once the game is focused,
// and waits for the acceptance counter to move before the next one.
type Synchronizer struct {
	proc          process.Process
	injector      input.Injector
	interval      time.Duration
	acceptTimeout time.Duration
	log           Logger

	// false between a focus loss and the next poll that sees focus again
	focused bool
}

func NewSynchronizer(proc process.Process, injector input.Injector, interval, acceptTimeout time.Duration, log Logger) *Synchronizer {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	if log == nil {
		log = NopLogger{}
	}
	return &Synchronizer{
		proc:          proc,
		injector:      injector,
		interval:      interval,
		acceptTimeout: acceptTimeout,
		log:           log,
		focused:       true,
	}
}

// Drive enters seq in order. It returns ctx's error as soon as ctx is done and never
// presses another key after that.
func (s *Synchronizer) Drive(ctx context.Context, seq sequence.Sequence, addrs steamworks.Addresses) error {
	for i, key := range seq {
		if err := s.Press(ctx, key, addrs); err != nil {
			return fmt.Errorf("key %d of %d (%s): %w", i+1, len(seq), key, err)
		}
	}
	return nil
}

// Press waits for focus, presses key once and waits until the game accepts it
func (s *Synchronizer) Press(ctx context.Context, key input.Key, addrs steamworks.Addresses) error {
	if err := wait.Until(ctx, s.interval, wait.Bool(s.checkFocus)); err != nil {
		return err
	}

	before, err := steamworks.ReadCounter(s.proc, addrs)
	if err != nil {
		return err
	}

	// last chance to observe cancellation before input reaches the game
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.injector.Press(key); err != nil {
		return fmt.Errorf("inject: %w", err)
	}
	s.log.Debugln("Pressed", key, "counter", before)

	// the timeout only runs while focused, any unfocused poll restarts it
	start := time.Now()
	return wait.Until(ctx, s.interval, func() (bool, error) {
		// focus loss here is only reported, the key has already been sent
		if !s.checkFocus() {
			start = time.Now()
		}

		now, err := steamworks.ReadCounter(s.proc, addrs)
		if err != nil {
			return false, err
		}
		if now != before {
			return true, nil
		}
		if s.acceptTimeout > 0 && time.Since(start) >= s.acceptTimeout {
			return false, ErrAcceptTimeout
		}
		return false, nil
	})
}

// checkFocus polls focus and logs transitions once each
func (s *Synchronizer) checkFocus() bool {
	has := s.proc.HasFocus()
	switch {
	case !has && s.focused:
		s.focused = false
		s.log.Warn("Target lost focus, waiting")
	case has && !s.focused:
		s.focused = true
		s.log.Infoln("Focus regained")
	}
	return has
}

// Tap waits for focus and presses key once without waiting for acceptance.
// Used for keys that do not move the acceptance counter.
func (s *Synchronizer) Tap(ctx context.Context, key input.Key) error {
	if err := wait.Until(ctx, s.interval, wait.Bool(s.checkFocus)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.injector.Press(key); err != nil {
		return fmt.Errorf("inject: %w", err)
	}
	s.log.Debugln("Tapped", key)
	return nil
}
