//go:build windows

package process_windows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"steamwork/coloransi"
	"steamwork/process"

	"github.com/Moonlight-Companies/gologger/logger"
	ps "github.com/shirou/gopsutil/v3/process"
)

var _ process.ProcessFinder = (*Finder)(nil)

// Finder discovers the target among running processes
type Finder struct {
	interval time.Duration
	log      *logger.Logger
}

// NewFinder returns a finder that polls every interval while waiting for a launch
func NewFinder(interval time.Duration) *Finder {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Finder{
		interval: interval,
		log:      logger.NewLogger(coloransi.Color(coloransi.ColorTeal, coloransi.Black, "finder")),
	}
}

// List returns every running process whose executable name matches name.
// Windows file names are case insensitive, so is the comparison.
func (f *Finder) List(name string) ([]process.ProcessInfo, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	var out []process.ProcessInfo
	for _, p := range procs {
		procName, err := p.Name()
		if err != nil || !strings.EqualFold(procName, name) {
			continue
		}
		exe, _ := p.Exe()
		out = append(out, process.ProcessInfo{PID: process.ProcessID(p.Pid), Name: procName, Exe: exe})
	}
	return out, nil
}

func (f *Finder) FindProcess(name string) (process.Process, error) {
	matches, err := f.List(name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s: %w", name, process.ErrProcessNotFound)
	}
	if len(matches) > 1 {
		f.log.Warn("Multiple processes named ", name, ", using pid ", matches[0].PID)
	}

	proc, err := NewWithPID(matches[0].PID)
	if err != nil {
		return nil, err
	}
	return proc, nil
}

// WaitForProcess polls until name is running. Errors other than not found end the wait.
func (f *Finder) WaitForProcess(ctx context.Context, name string) (process.Process, error) {
	return process.PollFind(ctx, f.interval, func() (process.Process, error) {
		return f.FindProcess(name)
	}, func() {
		f.log.Infoln("Waiting for", name, "to start")
	})
}
