package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"steamwork/automaton"
	"steamwork/config"
	"steamwork/input"
	"steamwork/process_blob"
	"steamwork/simulate"
	"steamwork/steamworks"
	"steamwork/wait"
)

func runSimulate(ctx context.Context, cfg config.Config, opts SimulateOptions) error {
	return simulateTo(ctx, os.Stdout, cfg, opts)
}

func simulateTo(ctx context.Context, w io.Writer, cfg config.Config, opts SimulateOptions) error {
	log := automaton.NewLogger("simulate", cfg.Debug)

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	layout, ok := steamworks.Lookup(cfg.SupportedVersion)
	if !ok {
		layout = steamworks.Latest()
	}
	rounds := make([][]byte, opts.Rounds)
	for i := range rounds {
		rounds[i] = make([]byte, layout.SequenceSlots)
		for j := range rounds[i] {
			rounds[i][j] = byte(rng.IntN(3))
		}
	}

	title := fmt.Sprintf("MHW:IB v%d", layout.Build)
	sim := process_blob.NewSimulatedProcess(4242, cfg.ProcessName, title)
	game, err := steamworks.NewGame(sim, layout)
	if err != nil {
		return err
	}
	script, err := simulate.NewScript(game, rounds, simulate.Options{
		SkipKey:   cfg.CutsceneSkipKey(),
		Azerty:    cfg.Azerty,
		RareEvery: 4,
	})
	if err != nil {
		return err
	}

	rec := input.NewRecorder()
	rec.OnPress(script.Press)

	copts := []automaton.Option{automaton.WithLogger(log), automaton.WithRand(rng)}
	if j := openJournal(cfg, log); j != nil {
		defer j.Close()
		copts = append(copts, automaton.WithJournal(j))
	}

	c, err := automaton.New(sim, rec, cfg, copts...)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-script.Done():
			// let the controller observe the last acceptance before stopping it
			wait.Sleep(runCtx, cfg.DelayBetweenCombo()+4*cfg.PollInterval())
			cancel()
		case <-runCtx.Done():
		}
	}()

	if err := c.Run(runCtx); err != nil {
		return err
	}

	fmt.Fprintf(w, "seed %d: %d of %d rounds entered, %d keys pressed, %d mistakes\n",
		seed, script.Played(), opts.Rounds, rec.Count(), script.Mistakes())
	return nil
}
