//go:build windows

package main

import (
	"context"
	"time"

	"steamwork/config"
	"steamwork/input"
	"steamwork/process"
	"steamwork/process_windows"
)

func openTarget(ctx context.Context, cfg config.Config) (process.Process, error) {
	return attach(ctx, process_windows.NewFinder(2*time.Second), cfg)
}

func newInjector() (input.Injector, error) {
	return input.NewKeyboard(), nil
}
