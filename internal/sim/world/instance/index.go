// Package instance keeps a dense render-slot enumeration synchronized with
// the sparse occupancy set. Slot order is arbitrary but stable between
// mutations; the renderer draws one unit cube per slot.
package instance

import (
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/voxel"
)

type Index struct {
	slots  []voxel.Vec3i
	slotOf map[voxel.Vec3i]int
}

func NewIndex() *Index {
	return &Index{slotOf: map[voxel.Vec3i]int{}}
}

// Rebuild discards the mapping and re-enumerates the world, assigning slots
// 0..N-1 in the world's iteration order.
func (ix *Index) Rebuild(w *voxel.World) {
	ix.slots = ix.slots[:0]
	ix.slotOf = make(map[voxel.Vec3i]int, w.Size())
	w.Iterate(func(c voxel.Vec3i) bool {
		ix.slotOf[c] = len(ix.slots)
		ix.slots = append(ix.slots, c)
		return true
	})
}

// Append assigns the next slot to a coordinate that was just added to the
// world. O(1) counterpart to a full Rebuild.
func (ix *Index) Append(c voxel.Vec3i) {
	if _, ok := ix.slotOf[c]; ok {
		return
	}
	ix.slotOf[c] = len(ix.slots)
	ix.slots = append(ix.slots, c)
}

// Drop releases the slot of a coordinate that was just removed from the
// world, moving the last live slot into the gap so the enumeration stays
// dense. O(1) counterpart to a full Rebuild.
func (ix *Index) Drop(c voxel.Vec3i) bool {
	slot, ok := ix.slotOf[c]
	if !ok {
		return false
	}
	last := len(ix.slots) - 1
	if slot != last {
		moved := ix.slots[last]
		ix.slots[slot] = moved
		ix.slotOf[moved] = slot
	}
	ix.slots = ix.slots[:last]
	delete(ix.slotOf, c)
	return true
}

func (ix *Index) Len() int { return len(ix.slots) }

func (ix *Index) SlotToCoord(slot int) (voxel.Vec3i, bool) {
	if slot < 0 || slot >= len(ix.slots) {
		return voxel.Vec3i{}, false
	}
	return ix.slots[slot], true
}

func (ix *Index) SlotOf(c voxel.Vec3i) (int, bool) {
	slot, ok := ix.slotOf[c]
	return slot, ok
}

// RenderTransform is the world-space center of the unit cube drawn for a
// cell: cell (x,y,z) spans [x,x+1) on each axis.
func RenderTransform(c voxel.Vec3i) [3]float64 {
	return [3]float64{
		float64(c.X) + 0.5,
		float64(c.Y) + 0.5,
		float64(c.Z) + 0.5,
	}
}

// Positions returns the render transform for every slot, in slot order.
func (ix *Index) Positions() [][3]float64 {
	out := make([][3]float64, len(ix.slots))
	for i, c := range ix.slots {
		out[i] = RenderTransform(c)
	}
	return out
}
