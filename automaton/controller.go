// Package automaton plays the Steamworks minigame: it watches the phase field, enters each
// round's sequence in sync with the game and skips the animations in between.
package automaton

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"steamwork/config"
	"steamwork/history"
	"steamwork/input"
	"steamwork/process"
	"steamwork/sequence"
	"steamwork/steamworks"
	"steamwork/version"
	"steamwork/wait"
)

// ErrFuelExhausted stops Run when the fuel stop is reached and auto quit is set
var ErrFuelExhausted = errors.New("fuel stop reached")

// StartKey begins a Steamworks session from the PressToStart phase
const StartKey = input.KeySpace

// How long a start or skip key is given to change the phase before it is sent again
const tapSettle = 500 * time.Millisecond

// Journal receives every round once it is over
type Journal interface {
	Record(ctx context.Context, r history.Round) error
}

type Option func(*Controller)

func WithLogger(l Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithJournal(j Journal) Option {
	return func(c *Controller) { c.journal = j }
}

// WithRand fixes the random source used for made up sequences and success-rate draws
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

type Controller struct {
	proc     process.Process
	injector input.Injector
	cfg      config.Config
	log      Logger
	journal  Journal
	rng      *rand.Rand

	status version.Status
	build  int
	layout steamworks.Layout
	addrs  steamworks.Addresses

	extractor *sequence.Extractor
	sync      *Synchronizer

	lastPhase   steamworks.Phase
	rounds      int
	fuelWarned  bool
	fuelStopped bool
}

// New classifies the target build once and resolves the state block.
// An unsupported or unverifiable build is not an error: rounds get random sequences.
func New(proc process.Process, injector input.Injector, cfg config.Config, opts ...Option) (*Controller, error) {
	c := &Controller{
		proc:     proc,
		injector: injector,
		cfg:      cfg,
		log:      NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	title, err := proc.WindowTitle()
	if err != nil {
		c.log.Warn("Could not read window title: ", err)
		title = ""
	}
	c.status = version.Classify(title, cfg.Pattern(), cfg.SupportedVersion)
	c.build, _ = version.Parse(title, cfg.Pattern())

	layout, ok := steamworks.Lookup(c.build)
	if c.status == version.Supported && !ok {
		c.log.Warn("No memory layout for build ", c.build)
		c.status = version.Unsupported
	}
	if !ok {
		layout = steamworks.Latest()
	}
	c.layout = layout

	switch c.status {
	case version.Supported:
		c.log.Infoln("Version found:", c.build)
	case version.Unsupported:
		c.log.Warn(fmt.Sprintf("Version %d unsupported, supported version is %d. Sequences will be random.", c.build, cfg.SupportedVersion))
	default:
		c.log.Error("Could not verify game version from title ", fmt.Sprintf("%q", title), ". Sequences will be random.")
	}

	if err := c.resolve(); err != nil {
		return nil, err
	}

	policy := sequence.Policy{
		RandomRun:         cfg.RandomRun,
		CommonSuccessRate: cfg.CommonSuccessRate,
		RareSuccessRate:   cfg.RareSuccessRate,
	}
	c.extractor = sequence.NewExtractor(proc, c.layout, cfg.SequenceLength, policy, c.rng)
	c.sync = NewSynchronizer(proc, injector, cfg.PollInterval(), cfg.AcceptTimeout(), c.log)
	return c, nil
}

func (c *Controller) Status() version.Status {
	return c.status
}

func (c *Controller) Build() int {
	return c.build
}

func (c *Controller) Layout() steamworks.Layout {
	return c.layout
}

func (c *Controller) Addresses() steamworks.Addresses {
	return c.addrs
}

// Rounds is the number of rounds entered since New
func (c *Controller) Rounds() int {
	return c.rounds
}

func (c *Controller) resolve() error {
	addrs, err := steamworks.Resolve(c.proc, c.layout)
	if err != nil {
		return fmt.Errorf("resolve steamworks state: %w", err)
	}
	if addrs.Base != c.addrs.Base {
		c.log.Debugln("Steamworks state at", addrs.Base.ToString())
	}
	c.addrs = addrs
	return nil
}

// tryResolve keeps the previous addresses when the pointer cannot be followed right now
func (c *Controller) tryResolve() {
	if err := c.resolve(); err != nil {
		c.log.Debugln("Re-resolve failed, keeping", c.addrs.Base.ToString(), err)
	}
}

// Run plays until ctx is done, which returns nil. Any other failure is returned.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Infoln("Automaton running, build", c.build, c.status, "state", c.addrs.Base.ToString())

	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := c.step(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				c.log.Infoln("Automaton stopped after", c.rounds, "rounds")
				return nil
			}
			return err
		}
	}
}

func (c *Controller) step(ctx context.Context) error {
	phase, err := c.readPhase()
	if err != nil {
		return err
	}

	prev := c.lastPhase
	c.lastPhase = phase
	if phase != prev {
		c.log.Debugln("Phase", prev, "->", phase)
	}

	switch phase {
	case steamworks.WaitingForInput:
		return c.playRound(ctx)

	case steamworks.PressToStart:
		if prev != steamworks.PressToStart {
			c.tryResolve()
		}
		stop, err := c.fuelStop()
		if err != nil {
			return err
		}
		if stop {
			if c.cfg.ShouldAutoQuit {
				return ErrFuelExhausted
			}
			return wait.Sleep(ctx, c.cfg.PollInterval())
		}
		return c.tap(ctx, StartKey, phase)

	case steamworks.OverloadCutscene, steamworks.BonusBeginAnimation:
		return c.tap(ctx, c.cfg.CutsceneSkipKey(), phase)

	default:
		c.tryResolve()
		return wait.Sleep(ctx, c.cfg.PollInterval())
	}
}

// readPhase re-resolves once when the phase cannot be read before giving up
func (c *Controller) readPhase() (steamworks.Phase, error) {
	phase, err := steamworks.ReadPhase(c.proc, c.addrs)
	if err == nil {
		return phase, nil
	}

	var mre *process.MemoryReadError
	if !errors.As(err, &mre) {
		return 0, err
	}

	c.log.Warn("Phase read failed, re-resolving: ", err)
	if rerr := c.resolve(); rerr != nil {
		return 0, fmt.Errorf("read phase: %w (%v)", err, rerr)
	}
	phase, err = steamworks.ReadPhase(c.proc, c.addrs)
	if err != nil {
		return 0, fmt.Errorf("read phase: %w", err)
	}
	return phase, nil
}

// tap sends a start or skip key and gives the game time to leave phase
func (c *Controller) tap(ctx context.Context, key input.Key, phase steamworks.Phase) error {
	if err := c.sync.Tap(ctx, key); err != nil {
		return err
	}
	return c.awaitPhaseChange(ctx, phase, tapSettle)
}

// awaitPhaseChange waits until the phase is no longer from, or limit elapsed when limit > 0
func (c *Controller) awaitPhaseChange(ctx context.Context, from steamworks.Phase, limit time.Duration) error {
	start := time.Now()
	return wait.Until(ctx, c.cfg.PollInterval(), func() (bool, error) {
		phase, err := steamworks.ReadPhase(c.proc, c.addrs)
		if err != nil {
			return false, err
		}
		if phase != from {
			return true, nil
		}
		return limit > 0 && time.Since(start) >= limit, nil
	})
}

func (c *Controller) playRound(ctx context.Context) error {
	seq, src, err := c.extractor.Next(c.addrs, c.status == version.Supported)
	if errors.Is(err, sequence.ErrInvalidRawKey) {
		// garbage in the sequence buffer means the block moved
		c.log.Warn("Sequence buffer unreadable, re-resolving: ", err)
		c.tryResolve()
		return wait.Sleep(ctx, c.cfg.PollInterval())
	}
	if err != nil {
		return err
	}

	keys := seq
	if c.cfg.Azerty {
		keys = seq.Azerty()
	}

	var rarity uint8
	if c.status == version.Supported {
		r, err := steamworks.ReadRarity(c.proc, c.addrs)
		if err != nil {
			c.log.Debugln("Rarity unreadable, recording 0:", err)
		} else {
			rarity = r
		}
	}

	c.log.Infoln("Round", c.rounds+1, "entering", keys, "from", src)
	start := time.Now()
	driveErr := c.sync.Drive(ctx, keys, c.addrs)

	outcome := history.OutcomeEntered
	switch {
	case errors.Is(driveErr, ErrAcceptTimeout):
		outcome = history.OutcomeTimeout
		c.log.Warn("Round abandoned: ", driveErr)
	case driveErr != nil:
		outcome = history.OutcomeAborted
	default:
		c.rounds++
	}

	c.record(ctx, history.Round{
		Build:      c.build,
		Version:    c.status.String(),
		Source:     string(src),
		Keys:       keys.String(),
		Rarity:     rarity,
		Outcome:    outcome,
		DurationMS: time.Since(start).Milliseconds(),
	})

	switch outcome {
	case history.OutcomeAborted:
		return driveErr
	case history.OutcomeTimeout:
		// the round is abandoned, it is never replayed while the game still shows it
		return c.awaitPhaseChange(ctx, steamworks.WaitingForInput, 0)
	}

	if err := wait.Sleep(ctx, c.cfg.DelayBetweenCombo()); err != nil {
		return err
	}
	return c.awaitPhaseChange(ctx, steamworks.WaitingForInput, 0)
}

func (c *Controller) record(ctx context.Context, r history.Round) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Record(context.WithoutCancel(ctx), r); err != nil {
		c.log.Warn("Failed to record round: ", err)
	}
}

// fuelStop reports whether the configured fuel floor has been reached
func (c *Controller) fuelStop() (bool, error) {
	if !c.cfg.OnlyUseNaturalFuel && c.cfg.StopAtFuelAmount <= 0 {
		return false, nil
	}

	fuel, ok, err := steamworks.ReadFuel(c.proc, c.addrs)
	if err != nil {
		return false, err
	}
	if !ok {
		if !c.fuelWarned {
			c.fuelWarned = true
			c.log.Warn("Fuel counters unknown for this build, fuel stop disabled")
		}
		return false, nil
	}

	remaining := fuel.Remaining(c.cfg.OnlyUseNaturalFuel)
	stop := remaining <= uint32(c.cfg.StopAtFuelAmount)
	if stop && !c.fuelStopped {
		c.log.Infoln("Fuel stop reached,", remaining, "left")
	}
	c.fuelStopped = stop
	return stop, nil
}
