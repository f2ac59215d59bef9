package steamworks

import (
	"encoding/binary"

	"steamwork/process"
	"steamwork/process_blob"
)

// Default placement of the state block inside a simulated target
const SimulatedBlockAddress process.ProcessMemoryAddress = 0x20000000

// Game lays out a state block inside a simulated target the way the real game does,
// so the automaton can be driven without the game running.
type Game struct {
	Proc   *process_blob.SimulatedProcess
	Layout Layout
	Addrs  Addresses
}

// NewGame maps the pointer slot and the state block of layout into sim and links them
func NewGame(sim *process_blob.SimulatedProcess, layout Layout) (*Game, error) {
	return NewGameAt(sim, layout, SimulatedBlockAddress)
}

// NewGameAt places the state block at block and points the base pointer at it.
// The pointer slot is mapped on first use and shared by every block of sim.
func NewGameAt(sim *process_blob.SimulatedProcess, layout Layout, block process.ProcessMemoryAddress) (*Game, error) {
	if !sim.IsValidAddress(layout.PointerAddress()) {
		sim.Map(layout.PointerAddress(), 8)
	}
	sim.Map(block, layout.BlockSize())

	if err := sim.WriteUINT64(layout.PointerAddress(), uint64(block)); err != nil {
		return nil, err
	}

	return &Game{
		Proc:   sim,
		Layout: layout,
		Addrs:  layout.AddressesFrom(block),
	}, nil
}

func (g *Game) SetPhase(p Phase) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(p))
	return g.Proc.Write(g.Addrs.Phase, buf[:])
}

func (g *Game) SetSequence(raw []byte) error {
	return g.Proc.Write(g.Addrs.Sequence, raw)
}

func (g *Game) SetRarity(v uint8) error {
	return g.Proc.WriteUINT8(g.Addrs.Rarity, v)
}

// Accept advances the acceptance counter as the game does when it registers a key
func (g *Game) Accept() error {
	return g.Proc.Increment(g.Addrs.ButtonCheck)
}

// SetFuel writes the fuel counters; it is a no-op for layouts without them
func (g *Game) SetFuel(f Fuel) error {
	if g.Addrs.NaturalFuel == 0 {
		return nil
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], f.Natural)
	if err := g.Proc.Write(g.Addrs.NaturalFuel, buf[:]); err != nil {
		return err
	}
	if g.Addrs.StoredFuel == 0 {
		return nil
	}
	binary.LittleEndian.PutUint32(buf[:], f.Stored)
	return g.Proc.Write(g.Addrs.StoredFuel, buf[:])
}
