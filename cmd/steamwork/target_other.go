//go:build !windows

package main

import (
	"context"
	"errors"

	"steamwork/config"
	"steamwork/input"
	"steamwork/process"
)

var errLiveUnsupported = errors.New("attaching to the game requires Windows, use simulate or inspect --dump")

func openTarget(context.Context, config.Config) (process.Process, error) {
	return nil, errLiveUnsupported
}

func newInjector() (input.Injector, error) {
	return nil, errLiveUnsupported
}
