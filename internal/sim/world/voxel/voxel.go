package voxel

import (
	"crypto/sha256"
	"math"
)

type Vec3i struct {
	X int
	Y int
	Z int
}

// FromPoint maps a world-space point to the coordinate of the cell containing
// it. Cell (x,y,z) spans [x,x+1) on each axis, so this is a floor, not a round.
func FromPoint(x, y, z float64) Vec3i {
	return Vec3i{
		X: int(math.Floor(x)),
		Y: int(math.Floor(y)),
		Z: int(math.Floor(z)),
	}
}

type Extent struct {
	SizeX int
	SizeY int
	SizeZ int
}

func (e Extent) Contains(c Vec3i) bool {
	return c.X >= 0 && c.X < e.SizeX &&
		c.Y >= 0 && c.Y < e.SizeY &&
		c.Z >= 0 && c.Z < e.SizeZ
}

// World is the occupancy set for a fixed-extent block world. Backing store is
// a flat dense array indexed x + z*SizeX + y*SizeX*SizeZ; enumeration order is
// array order, so two passes over an unmutated world see the same sequence.
// Not safe for concurrent use; the session loop is the only writer.
type World struct {
	extent Extent
	cells  []bool
	count  int

	dirty bool
	hash  [32]byte
}

func New(extent Extent) *World {
	return &World{
		extent: extent,
		cells:  make([]bool, extent.SizeX*extent.SizeY*extent.SizeZ),
		dirty:  true,
	}
}

func (w *World) Extent() Extent { return w.extent }

func (w *World) index(c Vec3i) int {
	return c.X + c.Z*w.extent.SizeX + c.Y*w.extent.SizeX*w.extent.SizeZ
}

// Add occupies c. It returns false and leaves the world unchanged when c is
// outside the extent or already occupied.
func (w *World) Add(c Vec3i) bool {
	if !w.extent.Contains(c) {
		return false
	}
	i := w.index(c)
	if w.cells[i] {
		return false
	}
	w.cells[i] = true
	w.count++
	w.dirty = true
	return true
}

// Remove empties c. It returns false when c is not occupied (out-of-extent
// coordinates are never occupied).
func (w *World) Remove(c Vec3i) bool {
	if !w.extent.Contains(c) {
		return false
	}
	i := w.index(c)
	if !w.cells[i] {
		return false
	}
	w.cells[i] = false
	w.count--
	w.dirty = true
	return true
}

func (w *World) Contains(c Vec3i) bool {
	return w.extent.Contains(c) && w.cells[w.index(c)]
}

func (w *World) Size() int { return w.count }

// Iterate calls fn for every occupied coordinate in array order. fn returning
// false stops the pass. The world must not be mutated during the pass.
func (w *World) Iterate(fn func(Vec3i) bool) {
	sx, sz := w.extent.SizeX, w.extent.SizeZ
	for i, occ := range w.cells {
		if !occ {
			continue
		}
		c := Vec3i{
			X: i % sx,
			Y: i / (sx * sz),
			Z: (i / sx) % sz,
		}
		if !fn(c) {
			return
		}
	}
}

// Coords returns all occupied coordinates in iteration order.
func (w *World) Coords() []Vec3i {
	out := make([]Vec3i, 0, w.count)
	w.Iterate(func(c Vec3i) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Digest is a content hash of the occupancy array, cached until the next
// mutation.
func (w *World) Digest() [32]byte {
	if w.dirty {
		h := sha256.New()
		b := make([]byte, len(w.cells))
		for i, occ := range w.cells {
			if occ {
				b[i] = 1
			}
		}
		h.Write(b)
		copy(w.hash[:], h.Sum(nil))
		w.dirty = false
	}
	return w.hash
}
