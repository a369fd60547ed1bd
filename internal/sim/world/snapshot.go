package world

import (
	"fmt"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/persistence/snapshot"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/voxel"
)

func (s *Session) exportSnapshot(tick uint64) snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{Version: 1, Tick: tick},

		SizeX: s.cfg.Extent.SizeX,
		SizeY: s.cfg.Extent.SizeY,
		SizeZ: s.cfg.Extent.SizeZ,

		TerrainBaseHeight: s.cfg.Terrain.BaseHeight,
		TerrainAmpX:       s.cfg.Terrain.AmpX,
		TerrainFreqX:      s.cfg.Terrain.FreqX,
		TerrainAmpZ:       s.cfg.Terrain.AmpZ,
		TerrainFreqZ:      s.cfg.Terrain.FreqZ,

		EditsTotal: s.editsTotal,
	}

	snap.Voxels = make([][3]int, 0, s.world.Size())
	s.world.Iterate(func(c voxel.Vec3i) bool {
		snap.Voxels = append(snap.Voxels, [3]int{c.X, c.Y, c.Z})
		return true
	})

	for _, p := range s.players {
		snap.Players = append(snap.Players, snapshot.PlayerV1{
			ID:    p.ID,
			Name:  p.Name,
			Pos:   [3]float64{p.Pos.X, p.Pos.Y, p.Pos.Z},
			Yaw:   p.Yaw,
			Pitch: p.Pitch,
		})
	}
	return snap
}

// NewSessionFromSnapshot resumes a session from a snapshot, bypassing the
// terrain seeder: occupancy comes from the snapshot's voxel list. The
// snapshot's extent overrides the configured one so resumed coordinates
// stay valid.
func NewSessionFromSnapshot(cfg Config, snap snapshot.SnapshotV1) (*Session, error) {
	if snap.SizeX <= 0 || snap.SizeY <= 0 || snap.SizeZ <= 0 {
		return nil, fmt.Errorf("snapshot has invalid extent %dx%dx%d", snap.SizeX, snap.SizeY, snap.SizeZ)
	}
	cfg.Extent = voxel.Extent{SizeX: snap.SizeX, SizeY: snap.SizeY, SizeZ: snap.SizeZ}

	s := newSession(cfg)
	s.world = voxel.New(cfg.Extent)
	for _, v := range snap.Voxels {
		c := voxel.Vec3i{X: v[0], Y: v[1], Z: v[2]}
		if !s.world.Add(c) {
			return nil, fmt.Errorf("snapshot voxel %v out of bounds or duplicated", v)
		}
	}
	s.index.Rebuild(s.world)

	s.tick.Store(snap.Header.Tick)
	s.editsTotal = snap.EditsTotal

	// Resumed players rejoin through the normal handshake; only the ID
	// counter carries over so resumed IDs are never reissued.
	for _, pv := range snap.Players {
		num := playerNum(pv.ID)
		if num > s.nextPlayerNum {
			s.nextPlayerNum = num
		}
	}
	return s, nil
}

func playerNum(id string) uint64 {
	var n uint64
	if _, err := fmt.Sscanf(id, "P%d", &n); err != nil {
		return 0
	}
	return n
}
