package process

import (
	"fmt"
	"unsafe"
)

// ReadPath reads a value of type T at the end of a pointer path.
// It starts at base, adds the first offset, reads a pointer, adds the next offset, reads a pointer, etc.
// The last offset is added to the final pointer, and then T is read from that address.
// If offsets is empty, it reads T from base.
func ReadPath[T any](proc Process, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (T, error) {
	currentAddr := base

	for i := 0; i < len(offsets)-1; i++ {
		ptrAddr := currentAddr.Add(offsets[i])

		// Pointers are 8 bytes, the target is a 64-bit process
		ptrVal, err := Read[uint64](proc, ptrAddr)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("pointer at step %d: %w", i, err)
		}

		if ptrVal == 0 {
			var zero T
			return zero, fmt.Errorf("pointer at step %d (addr %s) is null: %w", i, ptrAddr.ToString(), ErrInvalidPointer)
		}

		currentAddr = ProcessMemoryAddress(ptrVal)
	}

	finalOffset := ProcessMemorySize(0)
	if len(offsets) > 0 {
		finalOffset = offsets[len(offsets)-1]
	}

	return Read[T](proc, currentAddr.Add(finalOffset))
}

// Read is the single typed read primitive every caller goes through.
// T must be a fixed size value type; data is copied as laid out in the target (little endian).
func Read[T any](proc Process, addr ProcessMemoryAddress) (T, error) {
	var t T
	size := ProcessMemorySize(unsafe.Sizeof(t))
	if size == 0 {
		return t, nil
	}

	if proc == nil {
		return t, &MemoryReadError{Addr: addr, Size: size, Err: ErrProcessNotOpen}
	}

	data, err := proc.ReadMemory(addr, size)
	if err != nil {
		return t, &MemoryReadError{Addr: addr, Size: size, Err: err}
	}
	if len(data) < int(size) {
		return t, &MemoryReadError{Addr: addr, Size: size, Err: fmt.Errorf("short read: got %d bytes", len(data))}
	}

	copyTo(&t, data)
	return t, nil
}

// ReadBytes reads a raw byte range, reporting failures the same way Read does
func ReadBytes(proc Process, addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error) {
	if proc == nil {
		return nil, &MemoryReadError{Addr: addr, Size: size, Err: ErrProcessNotOpen}
	}
	data, err := proc.ReadMemory(addr, size)
	if err != nil {
		return nil, &MemoryReadError{Addr: addr, Size: size, Err: err}
	}
	if len(data) < int(size) {
		return nil, &MemoryReadError{Addr: addr, Size: size, Err: fmt.Errorf("short read: got %d bytes", len(data))}
	}
	return data[:size], nil
}

// copyTo copies bytes to *T
func copyTo[T any](dst *T, src []byte) {
	size := int(unsafe.Sizeof(*dst))
	dstBytes := unsafe.Slice((*byte)(unsafe.Pointer(dst)), size)
	copy(dstBytes, src)
}
