package steamworks

import (
	"fmt"

	"steamwork/process"
	"steamwork/process_blob"
)

// Resolve follows the base pointer of layout and derives the field addresses.
// A pointer into unmapped memory is rejected like a null one.
func Resolve(proc process.Process, layout Layout) (Addresses, error) {
	ptr := layout.PointerAddress()

	base, err := process.ReadPath[uint64](proc, layout.ModuleBase, layout.BasePointer)
	if err != nil {
		return Addresses{}, fmt.Errorf("read steamworks pointer: %w", err)
	}
	if base == 0 {
		return Addresses{}, fmt.Errorf("steamworks pointer at %s is null: %w", ptr.ToString(), process.ErrInvalidPointer)
	}

	block := process.ProcessMemoryAddress(base)
	if !proc.IsValidAddress(block) {
		// the region map is a snapshot, the block may have been allocated after it was taken
		if u, ok := proc.(process.MemoryMapUpdater); ok {
			if err := u.UpdateMemoryMap(); err != nil {
				return Addresses{}, fmt.Errorf("refresh memory map: %w", err)
			}
		}
		if !proc.IsValidAddress(block) {
			return Addresses{}, fmt.Errorf("steamworks pointer at %s leads to %s: %w: %w",
				ptr.ToString(), block.ToString(), process.ErrInvalidPointer, process.ErrAddressNotMapped)
		}
	}

	return layout.AddressesFrom(block), nil
}

func ReadPhase(proc process.Process, addrs Addresses) (Phase, error) {
	v, err := process.Read[uint32](proc, addrs.Phase)
	return Phase(v), err
}

func ReadRarity(proc process.Process, addrs Addresses) (uint8, error) {
	return process.Read[uint8](proc, addrs.Rarity)
}

// ReadCounter reads the acceptance counter. Only inequality with an earlier value is meaningful.
func ReadCounter(proc process.Process, addrs Addresses) (uint8, error) {
	return process.Read[uint8](proc, addrs.ButtonCheck)
}

// ReadSequenceBytes reads the raw sequence buffer of n slots
func ReadSequenceBytes(proc process.Process, addrs Addresses, n int) ([]byte, error) {
	return process.ReadBytes(proc, addrs.Sequence, process.ProcessMemorySize(n))
}

// Fuel is the remaining fuel of the current session
type Fuel struct {
	Natural uint32
	Stored  uint32
}

// Remaining is the fuel the automaton may still burn
func (f Fuel) Remaining(onlyNatural bool) uint32 {
	if onlyNatural {
		return f.Natural
	}
	return f.Natural + f.Stored
}

// ReadFuel reads the fuel counters. ok is false when the layout does not know them.
func ReadFuel(proc process.Process, addrs Addresses) (fuel Fuel, ok bool, err error) {
	if addrs.NaturalFuel == 0 {
		return Fuel{}, false, nil
	}

	fuel.Natural, err = process.Read[uint32](proc, addrs.NaturalFuel)
	if err != nil {
		return Fuel{}, true, err
	}
	if addrs.StoredFuel != 0 {
		fuel.Stored, err = process.Read[uint32](proc, addrs.StoredFuel)
		if err != nil {
			return Fuel{}, true, err
		}
	}
	return fuel, true, nil
}

// Snapshot copies the whole state block in one read
func Snapshot(proc process.Process, layout Layout, addrs Addresses) (*process_blob.ProcessBlob, error) {
	return process_blob.ReadBlob(proc, addrs.Base, layout.BlockSize())
}
