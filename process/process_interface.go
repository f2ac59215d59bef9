package process

import "steamwork/process/memory_map"

// Process is the interface that defines operations for interacting with the target process.
// The automaton never creates, suspends or terminates the process; Close only releases
// whatever handle the implementation holds.
type Process interface {
	// Close releases resources held for the process
	Close() error

	// GetPID returns the process ID
	GetPID() ProcessID

	// WindowTitle returns the title of the process main window, empty if it has none
	WindowTitle() (string, error)

	// HasFocus reports whether the process owns the foreground window. It is a cheap poll
	// without side effects.
	HasFocus() bool

	// IsValidAddress checks if the given memory address lies in a readable mapped region
	IsValidAddress(addr ProcessMemoryAddress) bool

	// ReadMemory reads size bytes from the process at the specified address
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)
}

// MemoryMapper is implemented by targets that can list their readable regions
type MemoryMapper interface {
	MemoryMap() []memory_map.MemoryMapItem
}

// MemoryMapUpdater is implemented by targets whose region list is a snapshot that can be refreshed
type MemoryMapUpdater interface {
	UpdateMemoryMap() error
}
