package process_blob

import (
	"errors"
	"testing"

	"steamwork/process"
)

func TestSimulatedProcess_WriteAndRead(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "title")
	sim.Map(0x2000, 0x10).Map(0x1000, 0x10)

	if err := sim.WriteUINT64(0x2008, 0xdeadbeef); err != nil {
		t.Fatalf("WriteUINT64 failed: %v", err)
	}
	v, err := process.Read[uint64](sim, 0x2008)
	if err != nil || v != 0xdeadbeef {
		t.Fatalf("expected 0xdeadbeef, got 0x%x (%v)", v, err)
	}

	mm := sim.MemoryMap()
	if len(mm) != 2 || mm[0].Address != 0x1000 || mm[1].Address != 0x2000 {
		t.Fatalf("regions not sorted: %v", mm)
	}
}

func TestSimulatedProcess_ReadCrossingRegionEnd(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "")
	sim.Map(0x1000, 0x10)

	if _, err := sim.ReadMemory(0x100c, 8); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("expected ErrAddressNotMapped, got %v", err)
	}
	if !sim.IsValidAddress(0x100f) || sim.IsValidAddress(0x1010) {
		t.Fatalf("IsValidAddress disagrees with the mapped region")
	}
}

func TestSimulatedProcess_IncrementWraps(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "")
	sim.MapBytes(0x1000, []byte{0xff})

	if err := sim.Increment(0x1000); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	v, _ := process.Read[uint8](sim, 0x1000)
	if v != 0 {
		t.Fatalf("expected wrap to 0, got %d", v)
	}
}

func TestSimulatedProcess_ReadReturnsCopy(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "")
	sim.MapBytes(0x1000, []byte{1, 2})

	data, _ := sim.ReadMemory(0x1000, 2)
	data[0] = 9

	again, _ := sim.ReadMemory(0x1000, 1)
	if again[0] != 1 {
		t.Fatalf("caller mutated simulated memory")
	}
}

func TestSimulatedProcess_FocusAndClose(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "MHW:IB v410013")
	if !sim.HasFocus() {
		t.Fatalf("new simulation should start focused")
	}

	calls := 0
	sim.SetFocusFunc(func() bool {
		calls++
		return calls%2 == 0
	})
	if sim.HasFocus() || !sim.HasFocus() {
		t.Fatalf("focus func not consulted")
	}

	sim.Close()
	if _, err := sim.WindowTitle(); !errors.Is(err, process.ErrProcessNotOpen) {
		t.Fatalf("expected ErrProcessNotOpen after Close, got %v", err)
	}
	if _, err := sim.ReadMemory(0x1000, 1); !errors.Is(err, process.ErrProcessNotOpen) {
		t.Fatalf("expected ErrProcessNotOpen after Close, got %v", err)
	}
}

func TestSimulatedProcess_OnRead(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "")
	sim.Map(0x1000, 4)

	var seen []process.ProcessMemoryAddress
	sim.OnRead(func(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) {
		seen = append(seen, addr)
	})
	sim.ReadMemory(0x1002, 1)

	if len(seen) != 1 || seen[0] != 0x1002 {
		t.Fatalf("hook saw %v", seen)
	}
}

func TestSimulatedProcess_Unmap(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "")
	sim.Map(0x1000, 4).Map(0x2000, 4)

	if !sim.Unmap(0x1000) || sim.Unmap(0x1000) {
		t.Fatalf("Unmap should succeed exactly once")
	}
	if _, err := sim.ReadMemory(0x1000, 1); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("expected ErrAddressNotMapped, got %v", err)
	}
	if _, err := sim.ReadMemory(0x2000, 4); err != nil {
		t.Fatalf("other regions must stay mapped: %v", err)
	}
}

func TestSimulatedProcess_SetTitle(t *testing.T) {
	sim := NewSimulatedProcess(7, "game.exe", "MHW:IB v400000")
	sim.SetTitle("MHW:IB v410013")

	title, err := sim.WindowTitle()
	if err != nil {
		t.Fatal(err)
	}
	if title != "MHW:IB v410013" {
		t.Fatalf("unexpected title %q", title)
	}
}
