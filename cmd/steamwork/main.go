package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"steamwork/automaton"
	"steamwork/config"
	"steamwork/history"
	"steamwork/process"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := BuildApp(Deps{
		LoadConfig:  config.Load,
		RunAutomate: runAutomaton,
		RunInspect:  runInspect,
		RunSimulate: runSimulate,
		RunHistory:  runHistory,
	})

	if err := app.RunContext(rootCtx, os.Args); err != nil {
		automaton.NewLogger("steamwork", false).Error(err)
		os.Exit(1)
	}
}

// openJournal returns nil when history is disabled
func openJournal(cfg config.Config, log automaton.Logger) *history.Journal {
	if cfg.HistoryDB == "" {
		return nil
	}
	j, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Warn("History disabled: ", err)
		return nil
	}
	return j
}

func runAutomaton(ctx context.Context, cfg config.Config) error {
	log := automaton.NewLogger("automaton", cfg.Debug)

	proc, err := openTarget(ctx, cfg)
	if err != nil {
		return err
	}
	defer proc.Close()
	log.Infoln("Attached to", cfg.ProcessName, "pid", proc.GetPID())

	injector, err := newInjector()
	if err != nil {
		return err
	}

	opts := []automaton.Option{automaton.WithLogger(log)}
	if j := openJournal(cfg, log); j != nil {
		defer j.Close()
		opts = append(opts, automaton.WithJournal(j))
		log.Debugln("Recording rounds to", cfg.HistoryDB, "session", j.SessionID())
	}

	c, err := automaton.New(proc, injector, cfg, opts...)
	if err != nil {
		return err
	}
	return c.Run(ctx)
}

// attach waits for the target when configured to, otherwise looks once
func attach(ctx context.Context, finder process.ProcessFinder, cfg config.Config) (process.Process, error) {
	if cfg.WaitForLaunch {
		return finder.WaitForProcess(ctx, cfg.ProcessName)
	}
	proc, err := finder.FindProcess(cfg.ProcessName)
	if err != nil {
		return nil, fmt.Errorf("is the game running? %w", err)
	}
	return proc, nil
}
