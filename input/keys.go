// Package input turns keys into synthetic keystrokes for the focused window.
package input

import "fmt"

// Key is a Windows virtual-key code
type Key uint8

const (
	KeySpace  Key = 0x20
	KeyEnter  Key = 0x0D
	KeyEscape Key = 0x1B
	KeyA      Key = 0x41
	KeyD      Key = 0x44
	KeyQ      Key = 0x51
	KeyW      Key = 0x57
	KeyX      Key = 0x58
	KeyZ      Key = 0x5A
)

var keyNames = map[Key]string{
	KeySpace:  "SPACE",
	KeyEnter:  "ENTER",
	KeyEscape: "ESC",
	KeyA:      "A",
	KeyD:      "D",
	KeyQ:      "Q",
	KeyW:      "W",
	KeyX:      "X",
	KeyZ:      "Z",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("VK(0x%02x)", uint8(k))
}
