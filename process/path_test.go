package process_test

import (
	"errors"
	"testing"

	"steamwork/process"
	"steamwork/process_blob"
)

func TestRead_LittleEndian(t *testing.T) {
	sim := process_blob.NewSimulatedProcess(1, "game.exe", "")
	sim.MapBytes(0x1000, []byte{0x78, 0x56, 0x34, 0x12, 0xAA})

	v, err := process.Read[uint32](sim, 0x1000)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if v != 0x12345678 {
		t.Fatalf("expected 0x12345678, got 0x%x", v)
	}

	b, err := process.Read[uint8](sim, 0x1004)
	if err != nil || b != 0xAA {
		t.Fatalf("expected 0xAA, got 0x%x (%v)", b, err)
	}
}

func TestRead_UnmappedIsMemoryReadError(t *testing.T) {
	sim := process_blob.NewSimulatedProcess(1, "game.exe", "")
	sim.Map(0x1000, 4)

	_, err := process.Read[uint64](sim, 0x1000)
	if !errors.Is(err, process.ErrMemoryRead) {
		t.Fatalf("expected ErrMemoryRead, got %v", err)
	}
	if !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("expected cause ErrAddressNotMapped, got %v", err)
	}

	var mre *process.MemoryReadError
	if !errors.As(err, &mre) {
		t.Fatalf("expected *MemoryReadError, got %T", err)
	}
	if mre.Addr != 0x1000 || mre.Size != 8 {
		t.Fatalf("unexpected error fields: addr %s size %d", mre.Addr.ToString(), mre.Size)
	}
}

func TestRead_NilProcess(t *testing.T) {
	_, err := process.Read[uint8](nil, 0x1000)
	if !errors.Is(err, process.ErrProcessNotOpen) {
		t.Fatalf("expected ErrProcessNotOpen, got %v", err)
	}
}

func TestReadPath_FollowsPointers(t *testing.T) {
	sim := process_blob.NewSimulatedProcess(1, "game.exe", "")
	sim.Map(0x1000, 0x20)
	sim.Map(0x2000, 0x20)
	sim.Map(0x3000, 0x20)

	if err := sim.WriteUINT64(0x1008, 0x2000); err != nil {
		t.Fatal(err)
	}
	if err := sim.WriteUINT64(0x2010, 0x3000); err != nil {
		t.Fatal(err)
	}
	if err := sim.WriteUINT8(0x3004, 42); err != nil {
		t.Fatal(err)
	}

	v, err := process.ReadPath[uint8](sim, 0x1000, 0x8, 0x10, 0x4)
	if err != nil {
		t.Fatalf("ReadPath failed: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestReadPath_NullPointer(t *testing.T) {
	sim := process_blob.NewSimulatedProcess(1, "game.exe", "")
	sim.Map(0x1000, 0x20)

	_, err := process.ReadPath[uint8](sim, 0x1000, 0x8, 0x4)
	if !errors.Is(err, process.ErrInvalidPointer) {
		t.Fatalf("expected ErrInvalidPointer, got %v", err)
	}
}

func TestReadBytes(t *testing.T) {
	sim := process_blob.NewSimulatedProcess(1, "game.exe", "")
	sim.MapBytes(0x1000, []byte{1, 2, 3, 4})

	data, err := process.ReadBytes(sim, 0x1001, 2)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if len(data) != 2 || data[0] != 2 || data[1] != 3 {
		t.Fatalf("unexpected bytes %v", data)
	}
}
