// Package steamworks knows where the Steamworks minigame state lives in the game's memory
// and how to read it.
package steamworks

import (
	"sort"

	"steamwork/process"
)

// Layout holds the reverse-engineered constants of one game build
type Layout struct {
	Build int

	ModuleBase  process.ProcessMemoryAddress
	BasePointer process.ProcessMemorySize

	OffsetToSequence    process.ProcessMemorySize
	OffsetToButtonCheck process.ProcessMemorySize
	OffsetToPhase       process.ProcessMemorySize
	OffsetToRarity      process.ProcessMemorySize

	// Zero when the build's fuel counters have not been located
	OffsetToNaturalFuel process.ProcessMemorySize
	OffsetToStoredFuel  process.ProcessMemorySize

	SequenceSlots int
	RareValue     uint8
}

// Layouts is keyed by build number. Adding a build is adding an entry.
var Layouts = map[int]Layout{
	410013: {
		Build:               410013,
		ModuleBase:          0x140000000,
		BasePointer:         0x4EA1F60,
		OffsetToSequence:    0x3C,
		OffsetToButtonCheck: 0x48,
		OffsetToPhase:       0x4C,
		OffsetToRarity:      0x50,
		SequenceSlots:       3,
		RareValue:           6,
	},
}

// Lookup returns the layout for build
func Lookup(build int) (Layout, bool) {
	l, ok := Layouts[build]
	return l, ok
}

// Latest returns the layout of the newest known build
func Latest() Layout {
	builds := make([]int, 0, len(Layouts))
	for b := range Layouts {
		builds = append(builds, b)
	}
	sort.Ints(builds)
	return Layouts[builds[len(builds)-1]]
}

// PointerAddress is where the pointer to the state block is stored
func (l Layout) PointerAddress() process.ProcessMemoryAddress {
	return l.ModuleBase.Add(l.BasePointer)
}

// HasFuel reports whether the fuel counters are known for this build
func (l Layout) HasFuel() bool {
	return l.OffsetToNaturalFuel != 0
}

// BlockSize covers every field of the state block, used for snapshots
func (l Layout) BlockSize() process.ProcessMemorySize {
	end := l.OffsetToSequence + process.ProcessMemorySize(l.SequenceSlots)
	for _, off := range []process.ProcessMemorySize{
		l.OffsetToButtonCheck + 1,
		l.OffsetToPhase + 4,
		l.OffsetToRarity + 1,
		l.OffsetToNaturalFuel + 4,
		l.OffsetToStoredFuel + 4,
	} {
		if off > end {
			end = off
		}
	}
	// round up to a full hexdump line
	return (end + 15) &^ 15
}

// Addresses are the absolute locations of the state fields for one resolution of the base pointer
type Addresses struct {
	Base        process.ProcessMemoryAddress
	Sequence    process.ProcessMemoryAddress
	ButtonCheck process.ProcessMemoryAddress
	Phase       process.ProcessMemoryAddress
	Rarity      process.ProcessMemoryAddress
	NaturalFuel process.ProcessMemoryAddress
	StoredFuel  process.ProcessMemoryAddress
}

// AddressesFrom derives every field address from the resolved base
func (l Layout) AddressesFrom(base process.ProcessMemoryAddress) Addresses {
	a := Addresses{
		Base:        base,
		Sequence:    base.Add(l.OffsetToSequence),
		ButtonCheck: base.Add(l.OffsetToButtonCheck),
		Phase:       base.Add(l.OffsetToPhase),
		Rarity:      base.Add(l.OffsetToRarity),
	}
	if l.HasFuel() {
		a.NaturalFuel = base.Add(l.OffsetToNaturalFuel)
		if l.OffsetToStoredFuel != 0 {
			a.StoredFuel = base.Add(l.OffsetToStoredFuel)
		}
	}
	return a
}
