package process_blob

import (
	"encoding/binary"
	"errors"
	"fmt"

	"steamwork/process"
)

var ErrOutOfBounds = errors.New("address out of bounds")

// ProcessBlob is a contiguous copy of target memory starting at a known address.
// Reads are bounds checked against the copy and never touch the live process.
type ProcessBlob struct {
	baseaddress process.ProcessMemoryAddress
	data        []byte
}

func NewProcessBlob(baseAddress process.ProcessMemoryAddress, data []byte) *ProcessBlob {
	return &ProcessBlob{
		baseaddress: baseAddress,
		data:        data,
	}
}

// ReadBlob copies size bytes at addr out of proc into a new blob
func ReadBlob(proc process.Process, addr process.ProcessMemoryAddress, size process.ProcessMemorySize) (*ProcessBlob, error) {
	data, err := process.ReadBytes(proc, addr, size)
	if err != nil {
		return nil, err
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	return NewProcessBlob(addr, owned), nil
}

func (p *ProcessBlob) Data() []byte {
	return p.data
}

func (p *ProcessBlob) Address() process.ProcessMemoryAddress {
	return p.baseaddress
}

func (p *ProcessBlob) Size() process.ProcessMemorySize {
	return process.ProcessMemorySize(len(p.data))
}

// Contains reports whether [addr, addr+size) lies inside the blob
func (p *ProcessBlob) Contains(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) bool {
	if addr < p.baseaddress {
		return false
	}
	offset := uint64(addr - p.baseaddress)
	return offset+uint64(size) <= uint64(len(p.data))
}

func (p *ProcessBlob) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if !p.Contains(addr, size) {
		return nil, fmt.Errorf("%w: %s+%d outside [%s, +%d)", ErrOutOfBounds, addr.ToString(), uint(size), p.baseaddress.ToString(), len(p.data))
	}
	offset := addr - p.baseaddress
	return p.data[offset : uint64(offset)+uint64(size)], nil
}

// write overwrites bytes in place; callers hold whatever lock guards the blob
func (p *ProcessBlob) write(addr process.ProcessMemoryAddress, data []byte) error {
	if !p.Contains(addr, process.ProcessMemorySize(len(data))) {
		return fmt.Errorf("%w: write of %d bytes at %s", ErrOutOfBounds, len(data), addr.ToString())
	}
	copy(p.data[addr-p.baseaddress:], data)
	return nil
}

// OffsetUINT8 reads an unsigned 8-bit integer at a byte offset from the blob start
func (p *ProcessBlob) OffsetUINT8(offset process.ProcessMemorySize) (uint8, error) {
	data, err := p.ReadMemory(p.baseaddress.Add(offset), 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// OffsetUINT32 reads an unsigned 32-bit integer at a byte offset from the blob start
func (p *ProcessBlob) OffsetUINT32(offset process.ProcessMemorySize) (uint32, error) {
	data, err := p.ReadMemory(p.baseaddress.Add(offset), 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// OffsetUINT64 reads an unsigned 64-bit integer at a byte offset from the blob start
func (p *ProcessBlob) OffsetUINT64(offset process.ProcessMemorySize) (uint64, error) {
	data, err := p.ReadMemory(p.baseaddress.Add(offset), 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// OffsetBytes returns a copy of size bytes at a byte offset from the blob start
func (p *ProcessBlob) OffsetBytes(offset process.ProcessMemorySize, size process.ProcessMemorySize) ([]byte, error) {
	data, err := p.ReadMemory(p.baseaddress.Add(offset), size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
