// Package simulate scripts the game side of the minigame on top of a simulated target,
// reacting to injected keys the way the game does.
package simulate

import (
	"fmt"
	"sync"

	"steamwork/input"
	"steamwork/sequence"
	"steamwork/steamworks"
)

// Script plays a fixed list of rounds. Hand its Press method to an input.Recorder.
type Script struct {
	game      *steamworks.Game
	rounds    [][]byte
	skipKey   input.Key
	azerty    bool
	rareEvery int

	mu       sync.Mutex
	round    int
	slot     int
	mistakes int
	done     chan struct{}
}

type Options struct {
	SkipKey input.Key
	Azerty  bool
	// Every RareEvery-th round gets the rare reward, 0 disables
	RareEvery int
}

// NewScript puts the game in the PressToStart phase with rounds queued
func NewScript(game *steamworks.Game, rounds [][]byte, opts Options) (*Script, error) {
	if len(rounds) == 0 {
		return nil, fmt.Errorf("at least one round is required")
	}
	for i, r := range rounds {
		if _, err := sequence.DecodeAll(r); err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
	}
	if opts.SkipKey == 0 {
		opts.SkipKey = input.KeySpace
	}

	s := &Script{
		game:      game,
		rounds:    rounds,
		skipKey:   opts.SkipKey,
		azerty:    opts.Azerty,
		rareEvery: opts.RareEvery,
		done:      make(chan struct{}),
	}
	if err := game.SetPhase(steamworks.PressToStart); err != nil {
		return nil, err
	}
	return s, nil
}

// Done is closed once every round has been entered
func (s *Script) Done() <-chan struct{} {
	return s.done
}

// Mistakes counts keys that did not match the expected sequence
func (s *Script) Mistakes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mistakes
}

// Played is the number of completed rounds
func (s *Script) Played() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Press reacts to one injected key
func (s *Script) Press(_ int, key input.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase, err := steamworks.ReadPhase(s.game.Proc, s.game.Addrs)
	if err != nil {
		return err
	}

	switch phase {
	case steamworks.PressToStart:
		if key == input.KeySpace {
			return s.beginRound()
		}
	case steamworks.BonusBeginAnimation, steamworks.OverloadCutscene:
		if key == s.skipKey {
			return s.beginRound()
		}
	case steamworks.WaitingForInput:
		return s.enter(key)
	}
	return nil
}

// Internal helper that assumes the mutex is already locked
func (s *Script) beginRound() error {
	if s.round >= len(s.rounds) {
		return nil
	}
	if err := s.game.SetSequence(s.rounds[s.round]); err != nil {
		return err
	}
	var rarity uint8
	if s.rareEvery > 0 && (s.round+1)%s.rareEvery == 0 {
		rarity = s.game.Layout.RareValue
	}
	if err := s.game.SetRarity(rarity); err != nil {
		return err
	}
	return s.game.SetPhase(steamworks.WaitingForInput)
}

// Internal helper that assumes the mutex is already locked
func (s *Script) enter(key input.Key) error {
	want, _ := sequence.Decode(s.rounds[s.round][s.slot])
	if s.azerty {
		want = sequence.Remap(want)
	}
	if key != want {
		s.mistakes++
	}

	// the game registers every key, right or wrong
	if err := s.game.Accept(); err != nil {
		return err
	}

	s.slot++
	if s.slot < len(s.rounds[s.round]) {
		return nil
	}

	s.slot = 0
	s.round++
	if s.round == len(s.rounds) {
		close(s.done)
		// out of fuel: back to a phase the automaton does not act on
		return s.game.SetPhase(0)
	}
	if s.round%3 == 0 {
		return s.game.SetPhase(steamworks.OverloadCutscene)
	}
	return s.game.SetPhase(steamworks.BonusBeginAnimation)
}
