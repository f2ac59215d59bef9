package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"steamwork/coloransi"
	"steamwork/process/memory_map"
)

// Field marks a named range of the dumped block to highlight
type Field struct {
	Name   string
	Offset uint64
	Size   uint64
	Color  coloransi.ColorCode
}

// HexDumpOptions defines options for customizing the hexdump output
type HexDumpOptions struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// StartOffset is the address printed for the first byte
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	OffsetColor       coloransi.ColorCode
	HexColor          coloransi.ColorCode
	ASCIIColor        coloransi.ColorCode
	NonPrintableColor coloransi.ColorCode
	ZeroColor         coloransi.ColorCode

	// Fields are drawn in their own color on top of the hex and ASCII columns
	Fields []Field

	// MemoryMap enables the pointer preview column when set
	MemoryMap []memory_map.MemoryMapItem
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() HexDumpOptions {
	return HexDumpOptions{
		BytesPerLine:      16,
		OffsetWidth:       12,
		OffsetColor:       coloransi.Cyan,
		HexColor:          coloransi.Green,
		ASCIIColor:        coloransi.White,
		NonPrintableColor: coloransi.Red,
		ZeroColor:         coloransi.BrightBlack,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options HexDumpOptions) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options HexDumpOptions) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		formatLine(writer, data[offset:end], offset, options)
	}

	if len(options.Fields) > 0 {
		legend := make([]string, 0, len(options.Fields))
		for _, f := range options.Fields {
			legend = append(legend, coloransi.Foreground(f.Color, fmt.Sprintf("%s +0x%x", f.Name, f.Offset)))
		}
		fmt.Fprintln(writer, strings.Join(legend, "  "))
	}
}

// formatLine formats a single line; base is the offset of line[0] inside the block
func formatLine(writer io.Writer, line []byte, base int, options HexDumpOptions) {
	offsetStr := fmt.Sprintf("%0"+strconv.Itoa(options.OffsetWidth)+"x", uint64(base)+options.StartOffset)
	fmt.Fprint(writer, coloransi.Foreground(options.OffsetColor, offsetStr), "  ")

	hexParts := formatHexValues(line, base, options)
	half := options.BytesPerLine / 2
	if options.BytesPerLine >= 8 && len(hexParts) > half {
		fmt.Fprint(writer, strings.Join(hexParts[:half], " "), " | ", strings.Join(hexParts[half:], " "))
	} else {
		fmt.Fprint(writer, strings.Join(hexParts, " "))
	}

	// keep the ASCII column aligned on a short last line
	if missing := options.BytesPerLine - len(line); missing > 0 {
		padding := missing * 3
		if options.BytesPerLine >= 8 && len(line) <= half {
			padding += 2
		}
		fmt.Fprint(writer, strings.Repeat(" ", padding))
	}

	fmt.Fprint(writer, " | ")
	formatASCII(writer, line, base, options)

	if len(options.MemoryMap) > 0 && len(line) >= 8 {
		for i := 0; i+8 <= len(line); i += 8 {
			ptr := binary.LittleEndian.Uint64(line[i : i+8])
			if memory_map.IsValidAddress(ptr, options.MemoryMap) {
				fmt.Fprint(writer, " ", coloransi.Foreground(coloransi.Yellow, fmt.Sprintf("0x%x", ptr)))
			}
		}
	}

	fmt.Fprintln(writer)
}

// fieldAt returns the field covering block offset pos, if any
func fieldAt(pos uint64, fields []Field) *Field {
	for i := range fields {
		f := &fields[i]
		if pos >= f.Offset && pos < f.Offset+f.Size {
			return f
		}
	}
	return nil
}

// formatASCII formats the ASCII part of a hex dump line
func formatASCII(writer io.Writer, line []byte, base int, options HexDumpOptions) {
	for i, b := range line {
		c := rune(b)
		switch f := fieldAt(uint64(base+i), options.Fields); {
		case f != nil:
			ch := "."
			if unicode.IsPrint(c) && b < 0x80 {
				ch = string(c)
			}
			fmt.Fprint(writer, coloransi.Foreground(f.Color, ch))
		case b == 0:
			fmt.Fprint(writer, coloransi.Foreground(options.ZeroColor, "."))
		case b >= 0x80 || !unicode.IsPrint(c):
			fmt.Fprint(writer, coloransi.Foreground(options.NonPrintableColor, "."))
		default:
			fmt.Fprint(writer, coloransi.Foreground(options.ASCIIColor, string(c)))
		}
	}
}

// formatHexValues formats the hex values of the line, one string per byte
func formatHexValues(line []byte, base int, options HexDumpOptions) []string {
	result := make([]string, 0, len(line))
	for i, b := range line {
		color := options.HexColor
		if b == 0 {
			color = options.ZeroColor
		}
		if f := fieldAt(uint64(base+i), options.Fields); f != nil {
			color = f.Color
		}
		result = append(result, coloransi.Foreground(color, fmt.Sprintf("%02x", b)))
	}
	return result
}
