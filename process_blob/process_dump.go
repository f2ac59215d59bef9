package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"steamwork/process"
	"steamwork/process/memory_map"
)

const (
	dumpMetadataFile  = "metadata.json"
	dumpMemoryMapFile = "process_memory_map.json"
)

// DumpMetadata identifies the process a dump was taken from
type DumpMetadata struct {
	PID   process.ProcessID `json:"pid"`
	Name  string            `json:"name"`
	Title string            `json:"title"`
}

func blobFileName(dirname string, region memory_map.MemoryMapItem) string {
	return filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size))
}

// SaveDump writes the given blobs and their metadata to dirname so LoadDump can replay them
func SaveDump(dirname string, metadata DumpMetadata, blobs []*ProcessBlob) error {
	if err := os.MkdirAll(dirname, 0o755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}

	metadataBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, dumpMetadataFile), metadataBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	mm := make([]memory_map.MemoryMapItem, 0, len(blobs))
	for _, blob := range blobs {
		region := memory_map.MemoryMapItem{Address: uint64(blob.Address()), Size: uint(blob.Size()), Perms: "r-"}
		if err := os.WriteFile(blobFileName(dirname, region), blob.Data(), 0o644); err != nil {
			return fmt.Errorf("failed to write blob for region 0x%x: %w", region.Address, err)
		}
		mm = append(mm, region)
	}

	mmBytes, err := json.MarshalIndent(mm, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, dumpMemoryMapFile), mmBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write memory map: %w", err)
	}
	return nil
}

// LoadDump reads a directory written by SaveDump into an unfocused simulated target
func LoadDump(dirname string) (*SimulatedProcess, error) {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, dumpMetadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata DumpMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, dumpMemoryMapFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}

	var mm []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &mm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory map: %w", err)
	}
	memory_map.Sort(mm)

	sim := NewSimulatedProcess(metadata.PID, metadata.Name, metadata.Title)
	sim.SetFocus(false)

	for _, region := range mm {
		data, err := os.ReadFile(blobFileName(dirname, region))
		if os.IsNotExist(err) {
			continue // region listed but not saved
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read blob for region 0x%x: %w", region.Address, err)
		}
		if uint(len(data)) != region.Size {
			return nil, fmt.Errorf("blob for region 0x%x has %d bytes, expected %d", region.Address, len(data), region.Size)
		}
		sim.MapBytes(process.ProcessMemoryAddress(region.Address), data)
	}

	return sim, nil
}
