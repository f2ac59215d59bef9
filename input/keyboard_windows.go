//go:build windows

package input

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procKeybd_event    = user32.NewProc("keybd_event")
	procMapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

const (
	KEYEVENTF_KEYDOWN = 0x0000
	KEYEVENTF_KEYUP   = 0x0002

	MAPVK_VK_TO_VSC = 0
)

// DefaultHold is how long a key stays down; the game drops presses shorter than a frame
const DefaultHold = 20 * time.Millisecond

var _ Injector = (*Keyboard)(nil)

// Keyboard injects keystrokes with keybd_event into whatever window has focus
type Keyboard struct {
	hold time.Duration
}

func NewKeyboard() *Keyboard {
	return &Keyboard{hold: DefaultHold}
}

func (k *Keyboard) Press(key Key) error {
	if err := procKeybd_event.Find(); err != nil {
		return fmt.Errorf("keybd_event unavailable: %w", err)
	}

	// games reading raw input ignore events without a scan code
	scan, _, _ := procMapVirtualKeyW.Call(uintptr(key), MAPVK_VK_TO_VSC)

	procKeybd_event.Call(uintptr(key), scan, KEYEVENTF_KEYDOWN, 0)
	time.Sleep(k.hold)
	procKeybd_event.Call(uintptr(key), scan, KEYEVENTF_KEYUP, 0)
	return nil
}
