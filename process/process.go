// Package process defines the read-only view the automaton has of the target process
package process

import (
	"errors"
	"fmt"
)

var (
	// ErrProcessNotFound is returned when no running process matches the target executable.
	ErrProcessNotFound = errors.New("process not found")

	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrMemoryRead is matched by every MemoryReadError.
	ErrMemoryRead = errors.New("memory read failed")

	ErrInvalidPointer = errors.New("invalid pointer read")
)

// MemoryReadError describes a failed typed read against the target
type MemoryReadError struct {
	Addr ProcessMemoryAddress
	Size ProcessMemorySize
	Err  error
}

func (e *MemoryReadError) Error() string {
	return fmt.Sprintf("read %d bytes at %s: %v", uint(e.Size), e.Addr.ToString(), e.Err)
}

// Unwrap exposes both ErrMemoryRead and the underlying cause to errors.Is
func (e *MemoryReadError) Unwrap() []error {
	return []error{ErrMemoryRead, e.Err}
}
