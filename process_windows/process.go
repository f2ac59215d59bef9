//go:build windows

package process_windows

import (
	"fmt"
	"sync"
	"unsafe"

	"steamwork/coloransi"
	"steamwork/process"
	"steamwork/process/memory_map"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

const (
	// Highest user-mode address on x64 Windows
	maxUserAddress = 0x7FFFFFFFFFFF

	readableProtect = windows.PAGE_READONLY | windows.PAGE_READWRITE | windows.PAGE_WRITECOPY |
		windows.PAGE_EXECUTE_READ | windows.PAGE_EXECUTE_READWRITE | windows.PAGE_EXECUTE_WRITECOPY
)

var _ process.Process = (*WindowsProcess)(nil)
var _ process.MemoryMapUpdater = (*WindowsProcess)(nil)

// WindowsProcess implements the process.Process interface for a live Windows target
type WindowsProcess struct {
	pid    process.ProcessID
	handle windows.Handle
	log    *logger.Logger
	mm     []memory_map.MemoryMapItem
	mu     sync.Mutex
}

// NewWithPID opens the process with read-only access
func NewWithPID(pid process.ProcessID) (*WindowsProcess, error) {
	p := &WindowsProcess{}
	if err := p.Open(pid); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *WindowsProcess) Open(pid process.ProcessID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	handle, err := windows.OpenProcess(windows.PROCESS_VM_READ|windows.PROCESS_QUERY_INFORMATION, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess %d failed: %w", pid, err)
	}

	p.pid = pid
	p.handle = handle
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))

	if err := p.updateMemoryMapInternal(); err != nil {
		p.log.Warn("Failed to initialize memory map: ", err)
	}

	p.log.Infoln("Process opened,", len(p.mm), "readable regions")
	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 {
		if err := windows.CloseHandle(p.handle); err != nil {
			return fmt.Errorf("CloseHandle failed: %w", err)
		}
		p.handle = 0
	}

	p.pid = 0
	p.mm = nil
	if p.log != nil {
		p.log.Infoln("Process closed")
	}

	return nil
}

func (p *WindowsProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// UpdateMemoryMap refreshes the readable region list used by IsValidAddress
func (p *WindowsProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateMemoryMapInternal()
}

// Internal helper that assumes the mutex is already locked
func (p *WindowsProcess) updateMemoryMapInternal() error {
	if p.handle == 0 {
		return process.ErrProcessNotOpen
	}

	var mm []memory_map.MemoryMapItem
	var info windows.MemoryBasicInformation
	var addr uintptr

	for addr < maxUserAddress {
		if err := windows.VirtualQueryEx(p.handle, addr, &info, unsafe.Sizeof(info)); err != nil {
			break
		}

		readable := info.State == windows.MEM_COMMIT &&
			info.Protect&readableProtect != 0 &&
			info.Protect&(windows.PAGE_GUARD|windows.PAGE_NOACCESS) == 0
		if readable {
			perms := "r-"
			if info.Protect&(windows.PAGE_READWRITE|windows.PAGE_EXECUTE_READWRITE) != 0 {
				perms = "rw"
			}
			mm = append(mm, memory_map.MemoryMapItem{
				Address: uint64(info.BaseAddress),
				Size:    uint(info.RegionSize),
				Perms:   perms,
			})
		}

		next := info.BaseAddress + info.RegionSize
		if next <= addr {
			break
		}
		addr = next
	}

	memory_map.Sort(mm)
	p.mm = mm
	return nil
}

// MemoryMap returns the readable regions found by the last UpdateMemoryMap
func (p *WindowsProcess) MemoryMap() []memory_map.MemoryMapItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]memory_map.MemoryMapItem(nil), p.mm...)
}

func (p *WindowsProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if addr <= 0x10000 || addr > maxUserAddress {
		return false
	}
	// an empty map means VirtualQueryEx was refused, let the read decide
	if len(p.mm) == 0 {
		return true
	}
	return memory_map.IsValidAddress(uint64(addr), p.mm)
}

func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	if err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead); err != nil {
		return nil, fmt.Errorf("ReadProcessMemory failed: %w", err)
	}

	if bytesRead != uintptr(size) {
		return nil, fmt.Errorf("read incomplete: expected %d, got %d", size, bytesRead)
	}

	return buf, nil
}

func (p *WindowsProcess) WindowTitle() (string, error) {
	pid := p.GetPID()
	if pid == 0 {
		return "", process.ErrProcessNotOpen
	}
	return mainWindowTitle(uint32(pid)), nil
}

func (p *WindowsProcess) HasFocus() bool {
	pid := p.GetPID()
	if pid == 0 {
		return false
	}
	return foregroundPID() == uint32(pid)
}
