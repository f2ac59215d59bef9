package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"steamwork/config"
	"steamwork/inspect"
	"steamwork/process"
	"steamwork/process/memory_map"
	"steamwork/process_blob"
)

func runInspect(ctx context.Context, cfg config.Config, opts InspectOptions) error {
	return inspectTo(ctx, os.Stdout, cfg, opts)
}

func inspectTo(ctx context.Context, w io.Writer, cfg config.Config, opts InspectOptions) error {
	var proc process.Process
	var err error
	if opts.Dump != "" {
		proc, err = process_blob.LoadDump(opts.Dump)
	} else {
		proc, err = openTarget(ctx, cfg)
	}
	if err != nil {
		return err
	}
	defer proc.Close()

	report, err := inspect.Collect(proc, cfg)
	if err != nil {
		return err
	}

	var mm []memory_map.MemoryMapItem
	if mapper, ok := proc.(process.MemoryMapper); ok {
		mm = mapper.MemoryMap()
	}
	if err := report.Render(w, mm); err != nil {
		return err
	}

	if opts.Save == "" {
		return nil
	}
	return saveReport(w, proc, report, opts.Save)
}

// saveReport writes the pointer slot and the state block, enough for inspect --dump to resolve
func saveReport(w io.Writer, proc process.Process, report *inspect.Report, dir string) error {
	pointer, err := process_blob.ReadBlob(proc, report.Layout.PointerAddress(), 8)
	if err != nil {
		return err
	}

	meta := process_blob.DumpMetadata{PID: report.PID, Title: report.Title}
	if named, ok := proc.(interface{ Name() string }); ok {
		meta.Name = named.Name()
	}
	if err := process_blob.SaveDump(dir, meta, []*process_blob.ProcessBlob{pointer, report.Block}); err != nil {
		return err
	}
	fmt.Fprintln(w, "Saved to", dir)
	return nil
}
