// Package inspect reads the Steamworks state once and renders it for humans.
package inspect

import (
	"fmt"
	"io"

	"steamwork/coloransi"
	"steamwork/config"
	"steamwork/hexdump"
	"steamwork/process"
	"steamwork/process/memory_map"
	"steamwork/process_blob"
	"steamwork/sequence"
	"steamwork/steamworks"
	"steamwork/version"
)

// Report is a point in time view of the target and its state block
type Report struct {
	PID     process.ProcessID
	Title   string
	Status  version.Status
	Build   int
	Layout  steamworks.Layout
	Addrs   steamworks.Addresses
	Block   *process_blob.ProcessBlob
	Phase   steamworks.Phase
	Counter uint8
	Rarity  uint8
	Raw     []byte
	Fuel    *steamworks.Fuel
}

// Collect resolves the state block and copies it in a single read
func Collect(proc process.Process, cfg config.Config) (*Report, error) {
	r := &Report{PID: proc.GetPID()}

	title, err := proc.WindowTitle()
	if err != nil {
		return nil, fmt.Errorf("window title: %w", err)
	}
	r.Title = title
	r.Status = version.Classify(title, cfg.Pattern(), cfg.SupportedVersion)
	r.Build, _ = version.Parse(title, cfg.Pattern())

	layout, ok := steamworks.Lookup(r.Build)
	if !ok {
		layout = steamworks.Latest()
	}
	r.Layout = layout

	r.Addrs, err = steamworks.Resolve(proc, layout)
	if err != nil {
		return nil, err
	}
	r.Block, err = steamworks.Snapshot(proc, layout, r.Addrs)
	if err != nil {
		return nil, err
	}

	phase, err := r.Block.OffsetUINT32(layout.OffsetToPhase)
	if err != nil {
		return nil, err
	}
	r.Phase = steamworks.Phase(phase)
	if r.Counter, err = r.Block.OffsetUINT8(layout.OffsetToButtonCheck); err != nil {
		return nil, err
	}
	if r.Rarity, err = r.Block.OffsetUINT8(layout.OffsetToRarity); err != nil {
		return nil, err
	}
	if r.Raw, err = r.Block.OffsetBytes(layout.OffsetToSequence, process.ProcessMemorySize(layout.SequenceSlots)); err != nil {
		return nil, err
	}

	if layout.HasFuel() {
		var fuel steamworks.Fuel
		if fuel.Natural, err = r.Block.OffsetUINT32(layout.OffsetToNaturalFuel); err != nil {
			return nil, err
		}
		if layout.OffsetToStoredFuel != 0 {
			if fuel.Stored, err = r.Block.OffsetUINT32(layout.OffsetToStoredFuel); err != nil {
				return nil, err
			}
		}
		r.Fuel = &fuel
	}
	return r, nil
}

func offset(off process.ProcessMemorySize) string {
	return fmt.Sprintf("+0x%X", uint(off))
}

func statusColor(s string) string {
	switch s {
	case version.Supported.String():
		return coloransi.Foreground(coloransi.Green, s)
	case version.Unsupported.String():
		return coloransi.Foreground(coloransi.Yellow, s)
	}
	return coloransi.Foreground(coloransi.Red, s)
}

// Render prints the summary, the field table and a hex dump of the block.
// mm, when given, enables the pointer column of the dump.
func (r *Report) Render(w io.Writer, mm []memory_map.MemoryMapItem) error {
	summary := NewTable(
		ColumnSpec{Header: "PID"},
		ColumnSpec{Header: "Title"},
		ColumnSpec{Header: "Build"},
		ColumnSpec{Header: "Version", FormatFunc: statusColor},
		ColumnSpec{Header: "Layout"},
	)
	build := ""
	if r.Build != 0 {
		build = fmt.Sprint(r.Build)
	}
	summary.AddRow(fmt.Sprint(r.PID), r.Title, build, r.Status.String(), fmt.Sprint(r.Layout.Build))
	if err := summary.Render(w); err != nil {
		return err
	}
	fmt.Fprintln(w)

	seq := "invalid"
	if decoded, err := sequence.DecodeAll(r.Raw); err == nil {
		seq = decoded.String()
	}
	rarity := fmt.Sprint(r.Rarity)
	if r.Rarity == r.Layout.RareValue {
		rarity += " (rare)"
	}

	fields := NewTable(
		ColumnSpec{Header: "Field"},
		ColumnSpec{Header: "Offset"},
		ColumnSpec{Header: "Address"},
		ColumnSpec{Header: "Value"},
	)
	fields.AddRow("base", "", r.Addrs.Base.ToString(), "")
	fields.AddRow("sequence", offset(r.Layout.OffsetToSequence), r.Addrs.Sequence.ToString(), fmt.Sprintf("% x  %s", r.Raw, seq))
	fields.AddRow("button check", offset(r.Layout.OffsetToButtonCheck), r.Addrs.ButtonCheck.ToString(), fmt.Sprint(r.Counter))
	fields.AddRow("phase", offset(r.Layout.OffsetToPhase), r.Addrs.Phase.ToString(), r.Phase.String())
	fields.AddRow("rarity", offset(r.Layout.OffsetToRarity), r.Addrs.Rarity.ToString(), rarity)
	if r.Fuel != nil {
		fields.AddRow("natural fuel", offset(r.Layout.OffsetToNaturalFuel), r.Addrs.NaturalFuel.ToString(), fmt.Sprint(r.Fuel.Natural))
		if r.Layout.OffsetToStoredFuel != 0 {
			fields.AddRow("stored fuel", offset(r.Layout.OffsetToStoredFuel), r.Addrs.StoredFuel.ToString(), fmt.Sprint(r.Fuel.Stored))
		}
	}
	if err := fields.Render(w); err != nil {
		return err
	}
	fmt.Fprintln(w)

	opts := hexdump.DefaultOptions()
	opts.StartOffset = uint64(r.Block.Address())
	opts.MemoryMap = mm
	opts.Fields = r.dumpFields()
	hexdump.DumpToWriter(w, r.Block.Data(), opts)
	return nil
}

func (r *Report) dumpFields() []hexdump.Field {
	l := r.Layout
	fields := []hexdump.Field{
		{Name: "sequence", Offset: uint64(l.OffsetToSequence), Size: uint64(l.SequenceSlots), Color: coloransi.ColorOrange},
		{Name: "button check", Offset: uint64(l.OffsetToButtonCheck), Size: 1, Color: coloransi.Magenta},
		{Name: "phase", Offset: uint64(l.OffsetToPhase), Size: 4, Color: coloransi.BrightCyan},
		{Name: "rarity", Offset: uint64(l.OffsetToRarity), Size: 1, Color: coloransi.BrightYellow},
	}
	if l.HasFuel() {
		fields = append(fields, hexdump.Field{Name: "natural fuel", Offset: uint64(l.OffsetToNaturalFuel), Size: 4, Color: coloransi.ColorLimeGreen})
		if l.OffsetToStoredFuel != 0 {
			fields = append(fields, hexdump.Field{Name: "stored fuel", Offset: uint64(l.OffsetToStoredFuel), Size: 4, Color: coloransi.ColorTeal})
		}
	}
	return fields
}
