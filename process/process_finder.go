package process

import (
	"context"
	"errors"
	"time"

	"steamwork/wait"
)

// ProcessFinder locates the target process among running processes
type ProcessFinder interface {
	// FindProcess opens the first running process whose executable name matches exactly.
	// It returns an error wrapping ErrProcessNotFound when there is none.
	FindProcess(name string) (Process, error)

	// WaitForProcess polls FindProcess until the process appears or ctx is done
	WaitForProcess(ctx context.Context, name string) (Process, error)
}

// PollFind calls find every interval until it returns a process. Only ErrProcessNotFound
// is retried, anything else (an access denied open, say) is returned at once.
// waiting, when set, runs once before the first retry.
func PollFind(ctx context.Context, interval time.Duration, find func() (Process, error), waiting func()) (Process, error) {
	var found Process
	notified := false

	err := wait.Until(ctx, interval, func() (bool, error) {
		proc, err := find()
		if err == nil {
			found = proc
			return true, nil
		}
		if !errors.Is(err, ErrProcessNotFound) {
			return false, err
		}
		if !notified && waiting != nil {
			waiting()
			notified = true
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
