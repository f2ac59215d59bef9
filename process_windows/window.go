//go:build windows

package process_windows

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	moduser32                    = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = moduser32.NewProc("EnumWindows")
	procGetForegroundWindow      = moduser32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = moduser32.NewProc("GetWindowThreadProcessId")
	procGetWindowTextW           = moduser32.NewProc("GetWindowTextW")
	procIsWindowVisible          = moduser32.NewProc("IsWindowVisible")
)

// EnumWindows callbacks are a finite resource, one is created for the whole program
// and fed through these fields under enumMu.
var (
	enumMu    sync.Mutex
	enumPID   uint32
	enumTitle string

	enumWindowsCallback = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if windowPID(hwnd) != enumPID {
			return 1
		}
		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
			return 1
		}
		title := windowText(hwnd)
		if title == "" {
			return 1
		}
		enumTitle = title
		return 0
	})
)

func windowPID(hwnd uintptr) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return pid
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// mainWindowTitle returns the title of the first visible, titled top-level window of pid
func mainWindowTitle(pid uint32) string {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumPID = pid
	enumTitle = ""
	// EnumWindows reports failure when the callback stops early, which is the success case here
	procEnumWindows.Call(enumWindowsCallback, 0)
	return enumTitle
}

// foregroundPID returns the process owning the foreground window, 0 if there is none
func foregroundPID() uint32 {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return 0
	}
	return windowPID(hwnd)
}
