package process_blob

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"steamwork/process"
	"steamwork/process/memory_map"
)

var _ process.Process = (*SimulatedProcess)(nil)

// SimulatedProcess implements process.Process over in-memory regions. It stands in for the
// game in tests, in the simulate command and when replaying a saved dump.
type SimulatedProcess struct {
	mu        sync.Mutex
	pid       process.ProcessID
	name      string
	title     string
	focused   bool
	focusFunc func() bool
	readHook  func(addr process.ProcessMemoryAddress, size process.ProcessMemorySize)
	regions   []*ProcessBlob
	closed    bool
}

// NewSimulatedProcess creates a focused target with no mapped memory
func NewSimulatedProcess(pid process.ProcessID, name, title string) *SimulatedProcess {
	return &SimulatedProcess{
		pid:     pid,
		name:    name,
		title:   title,
		focused: true,
	}
}

// Map adds a zero filled region of size bytes at addr
func (p *SimulatedProcess) Map(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) *SimulatedProcess {
	return p.MapBytes(addr, make([]byte, size))
}

// MapBytes adds a region backed by data; data is owned by the simulation afterwards
func (p *SimulatedProcess) MapBytes(addr process.ProcessMemoryAddress, data []byte) *SimulatedProcess {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.regions = append(p.regions, NewProcessBlob(addr, data))
	sort.Slice(p.regions, func(i, j int) bool {
		return p.regions[i].Address() < p.regions[j].Address()
	})
	return p
}

// Unmap drops the region starting at addr, as when the game frees it
func (p *SimulatedProcess) Unmap(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, r := range p.regions {
		if r.Address() == addr {
			p.regions = append(p.regions[:i], p.regions[i+1:]...)
			return true
		}
	}
	return false
}

// Name returns the executable name the simulation was created with
func (p *SimulatedProcess) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// SetTitle changes the window title reported to the version gate
func (p *SimulatedProcess) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// SetFocus changes the focus state reported by HasFocus
func (p *SimulatedProcess) SetFocus(focused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focused = focused
}

// SetFocusFunc makes HasFocus consult f on every poll, for scripted focus loss
func (p *SimulatedProcess) SetFocusFunc(f func() bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focusFunc = f
}

// OnRead installs a hook invoked before every ReadMemory, outside the lock
func (p *SimulatedProcess) OnRead(hook func(addr process.ProcessMemoryAddress, size process.ProcessMemorySize)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readHook = hook
}

func (p *SimulatedProcess) Write(addr process.ProcessMemoryAddress, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	region := p.regionFor(addr, process.ProcessMemorySize(len(data)))
	if region == nil {
		return fmt.Errorf("write %s: %w", addr.ToString(), process.ErrAddressNotMapped)
	}
	return region.write(addr, data)
}

func (p *SimulatedProcess) WriteUINT8(addr process.ProcessMemoryAddress, v uint8) error {
	return p.Write(addr, []byte{v})
}

func (p *SimulatedProcess) WriteUINT64(addr process.ProcessMemoryAddress, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return p.Write(addr, buf[:])
}

// Increment adds one to the byte at addr, wrapping like the game counter does
func (p *SimulatedProcess) Increment(addr process.ProcessMemoryAddress) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	region := p.regionFor(addr, 1)
	if region == nil {
		return fmt.Errorf("increment %s: %w", addr.ToString(), process.ErrAddressNotMapped)
	}
	data, _ := region.ReadMemory(addr, 1)
	return region.write(addr, []byte{data[0] + 1})
}

func (p *SimulatedProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *SimulatedProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *SimulatedProcess) WindowTitle() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", process.ErrProcessNotOpen
	}
	return p.title, nil
}

func (p *SimulatedProcess) HasFocus() bool {
	p.mu.Lock()
	f := p.focusFunc
	focused := p.focused && !p.closed
	p.mu.Unlock()

	if f != nil {
		return f()
	}
	return focused
}

func (p *SimulatedProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.regionFor(addr, 1) != nil
}

func (p *SimulatedProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.Lock()
	hook := p.readHook
	p.mu.Unlock()

	if hook != nil {
		hook(addr, size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, process.ErrProcessNotOpen
	}
	region := p.regionFor(addr, size)
	if region == nil {
		return nil, process.ErrAddressNotMapped
	}
	data, err := region.ReadMemory(addr, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// MemoryMap describes the simulated regions the way a live memory map would
func (p *SimulatedProcess) MemoryMap() []memory_map.MemoryMapItem {
	p.mu.Lock()
	defer p.mu.Unlock()

	mm := make([]memory_map.MemoryMapItem, 0, len(p.regions))
	for _, r := range p.regions {
		mm = append(mm, memory_map.MemoryMapItem{Address: uint64(r.Address()), Size: uint(r.Size()), Perms: "rw"})
	}
	return mm
}

// Regions returns copies of every mapped region
func (p *SimulatedProcess) Regions() []*ProcessBlob {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*ProcessBlob, 0, len(p.regions))
	for _, r := range p.regions {
		data := make([]byte, len(r.Data()))
		copy(data, r.Data())
		out = append(out, NewProcessBlob(r.Address(), data))
	}
	return out
}

// Internal helper that assumes the mutex is already locked
func (p *SimulatedProcess) regionFor(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) *ProcessBlob {
	i := sort.Search(len(p.regions), func(i int) bool {
		r := p.regions[i]
		return uint64(r.Address())+uint64(r.Size()) > uint64(addr)
	})
	if i < len(p.regions) && p.regions[i].Contains(addr, size) {
		return p.regions[i]
	}
	return nil
}
