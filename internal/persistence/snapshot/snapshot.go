// Package snapshot is the on-disk world image: a JSON header line followed
// by a gob body, zstd-compressed. The header line lets tooling identify a
// snapshot without decoding the body.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	SizeX int `json:"size_x"`
	SizeY int `json:"size_y"`
	SizeZ int `json:"size_z"`

	// Terrain parameters the world was seeded with (informational once the
	// voxel list exists; resume never re-runs the seeder).
	TerrainBaseHeight int     `json:"terrain_base_height"`
	TerrainAmpX       float64 `json:"terrain_amp_x"`
	TerrainFreqX      float64 `json:"terrain_freq_x"`
	TerrainAmpZ       float64 `json:"terrain_amp_z"`
	TerrainFreqZ      float64 `json:"terrain_freq_z"`

	Voxels     [][3]int   `json:"voxels"` // occupied cells, world iteration order
	Players    []PlayerV1 `json:"players"`
	EditsTotal uint64     `json:"edits_total"`
}

type PlayerV1 struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Pos   [3]float64 `json:"pos"`
	Yaw   float64    `json:"yaw"`
	Pitch float64    `json:"pitch"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
