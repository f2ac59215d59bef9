package main

import (
	"context"
	"errors"

	"steamwork/config"

	"github.com/urfave/cli/v2"
)

type InspectOptions struct {
	// Save writes the state block and its pointer to this directory
	Save string
	// Dump reads a directory written by Save instead of the live game
	Dump string
}

type SimulateOptions struct {
	Rounds int
	Seed   uint64
}

type HistoryOptions struct {
	Limit int
	All   bool
}

type Deps struct {
	LoadConfig  func(path string) (config.Config, error)
	RunAutomate func(context.Context, config.Config) error
	RunInspect  func(context.Context, config.Config, InspectOptions) error
	RunSimulate func(context.Context, config.Config, SimulateOptions) error
	RunHistory  func(context.Context, config.Config, HistoryOptions) error
}

func BuildApp(deps Deps) *cli.App {
	return &cli.App{
		Name:  "steamwork",
		Usage: "plays the Steamworks minigame of MHW:IB",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultFileName,
				Usage:   "path of the TOML settings file, created with defaults when missing",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log every key press and phase change",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx, deps)
			if err != nil {
				return err
			}
			return runAutomate(ctx.Context, deps, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "attach to the game and play until interrupted",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "wait", Usage: "wait for the game to start instead of failing"},
				},
				Action: func(ctx *cli.Context) error {
					cfg, err := loadConfig(ctx, deps)
					if err != nil {
						return err
					}
					if ctx.Bool("wait") {
						cfg.WaitForLaunch = true
					}
					return runAutomate(ctx.Context, deps, cfg)
				},
			},
			{
				Name:  "inspect",
				Usage: "print the resolved Steamworks state once",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "save", Usage: "also save the state block to this directory"},
					&cli.StringFlag{Name: "dump", Usage: "inspect a saved directory instead of the game"},
				},
				Action: func(ctx *cli.Context) error {
					cfg, err := loadConfig(ctx, deps)
					if err != nil {
						return err
					}
					if deps.RunInspect == nil {
						return errors.New("inspect runner is not configured")
					}
					return stopped(ctx.Context, deps.RunInspect(ctx.Context, cfg, InspectOptions{
						Save: ctx.String("save"),
						Dump: ctx.String("dump"),
					}))
				},
			},
			{
				Name:  "simulate",
				Usage: "play scripted rounds against an in-memory game",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "rounds", Value: 5, Usage: "number of rounds to script"},
					&cli.Uint64Flag{Name: "seed", Usage: "seed for the scripted sequences, 0 picks one"},
				},
				Action: func(ctx *cli.Context) error {
					cfg, err := loadConfig(ctx, deps)
					if err != nil {
						return err
					}
					if deps.RunSimulate == nil {
						return errors.New("simulate runner is not configured")
					}
					rounds := ctx.Int("rounds")
					if rounds <= 0 {
						return errors.New("--rounds must be positive")
					}
					return stopped(ctx.Context, deps.RunSimulate(ctx.Context, cfg, SimulateOptions{
						Rounds: rounds,
						Seed:   ctx.Uint64("seed"),
					}))
				},
			},
			{
				Name:  "history",
				Usage: "list recorded rounds",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.BoolFlag{Name: "all", Usage: "include every session, not only the latest"},
				},
				Action: func(ctx *cli.Context) error {
					cfg, err := loadConfig(ctx, deps)
					if err != nil {
						return err
					}
					if deps.RunHistory == nil {
						return errors.New("history runner is not configured")
					}
					return stopped(ctx.Context, deps.RunHistory(ctx.Context, cfg, HistoryOptions{
						Limit: ctx.Int("limit"),
						All:   ctx.Bool("all"),
					}))
				},
			},
		},
	}
}

func loadConfig(ctx *cli.Context, deps Deps) (config.Config, error) {
	load := deps.LoadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load(ctx.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if ctx.Bool("debug") {
		cfg.Debug = true
	}
	return cfg, nil
}

func runAutomate(ctx context.Context, deps Deps, cfg config.Config) error {
	if deps.RunAutomate == nil {
		return errors.New("automaton runner is not configured")
	}
	return stopped(ctx, deps.RunAutomate(ctx, cfg))
}

// stopped turns an error caused by ctx ending (Ctrl+C while waiting for the game, say)
// into a clean exit
func stopped(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}
