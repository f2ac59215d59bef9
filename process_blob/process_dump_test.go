package process_blob

import (
	"testing"

	"steamwork/process"
)

func TestDump_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()

	blobs := []*ProcessBlob{
		NewProcessBlob(0x5000, []byte{5, 6, 7, 8}),
		NewProcessBlob(0x1000, []byte{1, 2}),
	}
	meta := DumpMetadata{PID: 42, Name: "MonsterHunterWorld.exe", Title: "MHW:IB v410013"}

	if err := SaveDump(dir, meta, blobs); err != nil {
		t.Fatalf("SaveDump failed: %v", err)
	}

	sim, err := LoadDump(dir)
	if err != nil {
		t.Fatalf("LoadDump failed: %v", err)
	}

	if sim.GetPID() != 42 || sim.Name() != meta.Name {
		t.Fatalf("metadata not restored: pid %d name %q", sim.GetPID(), sim.Name())
	}
	if title, _ := sim.WindowTitle(); title != meta.Title {
		t.Fatalf("expected title %q, got %q", meta.Title, title)
	}
	if sim.HasFocus() {
		t.Fatalf("a replayed dump must never report focus")
	}

	v, err := process.Read[uint32](sim, 0x5000)
	if err != nil || v != 0x08070605 {
		t.Fatalf("unexpected value 0x%x (%v)", v, err)
	}
	if len(sim.Regions()) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(sim.Regions()))
	}
}

func TestBlob_Offsets(t *testing.T) {
	blob := NewProcessBlob(0x100, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09})

	if v, err := blob.OffsetUINT8(8); err != nil || v != 9 {
		t.Fatalf("OffsetUINT8: %d %v", v, err)
	}
	if v, err := blob.OffsetUINT32(0); err != nil || v != 0x04030201 {
		t.Fatalf("OffsetUINT32: 0x%x %v", v, err)
	}
	if v, err := blob.OffsetUINT64(1); err != nil || v != 0x0908070605040302 {
		t.Fatalf("OffsetUINT64: 0x%x %v", v, err)
	}
	if _, err := blob.OffsetUINT64(2); err == nil {
		t.Fatalf("expected out of bounds read to fail")
	}
}
