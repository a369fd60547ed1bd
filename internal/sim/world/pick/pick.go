// Package pick resolves a camera ray against the current instance set to
// choose block removal and placement targets. Both entry points are pure
// reads; the caller applies the resulting mutation.
package pick

import (
	"math"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/instance"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/voxel"
)

// DefaultEpsilon nudges the hit point past the struck face before flooring,
// so placement selects the empty neighbor cell instead of the struck cell.
// Must stay well under half a cell width.
const DefaultEpsilon = 0.01

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Ray is built fresh per pick attempt from camera state. Max is the reach
// limit in world units.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	Max    float64
}

// Hit is the nearest ray/cube intersection.
type Hit struct {
	Slot   int
	Coord  voxel.Vec3i
	Dist   float64
	Point  Vec3
	Normal Vec3
}

// intersectCube is the slab test of a ray against the unit cube of cell c.
// Returns the entry distance and the outward normal of the entered face.
func intersectCube(r Ray, c voxel.Vec3i) (float64, Vec3, bool) {
	lo := Vec3{float64(c.X), float64(c.Y), float64(c.Z)}
	hi := Vec3{lo.X + 1, lo.Y + 1, lo.Z + 1}

	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	var normal Vec3

	axes := [3]struct {
		o, d, lo, hi float64
		n            Vec3
	}{
		{r.Origin.X, r.Dir.X, lo.X, hi.X, Vec3{X: -1}},
		{r.Origin.Y, r.Dir.Y, lo.Y, hi.Y, Vec3{Y: -1}},
		{r.Origin.Z, r.Dir.Z, lo.Z, hi.Z, Vec3{Z: -1}},
	}
	for _, a := range axes {
		if a.d == 0 {
			if a.o < a.lo || a.o > a.hi {
				return 0, Vec3{}, false
			}
			continue
		}
		t1 := (a.lo - a.o) / a.d
		t2 := (a.hi - a.o) / a.d
		n := a.n
		if t1 > t2 {
			t1, t2 = t2, t1
			n = n.Scale(-1)
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, Vec3{}, false
		}
	}
	if tmax < 0 {
		return 0, Vec3{}, false
	}
	if tmin < 0 {
		// Origin inside the cube; no entered face.
		return 0, Vec3{}, false
	}
	return tmin, normal, true
}

// Nearest casts the ray against every current instance and returns the
// closest face intersection within reach. Equal distances resolve to the
// lowest slot number.
func Nearest(r Ray, ix *instance.Index) (Hit, bool) {
	l := r.Dir.Length()
	if l == 0 {
		return Hit{}, false
	}
	dir := r.Dir.Scale(1 / l)
	nr := Ray{Origin: r.Origin, Dir: dir, Max: r.Max}

	best := Hit{Dist: math.Inf(1)}
	found := false
	for slot := 0; slot < ix.Len(); slot++ {
		c, _ := ix.SlotToCoord(slot)
		t, n, ok := intersectCube(nr, c)
		if !ok || t > r.Max {
			continue
		}
		if t < best.Dist {
			best = Hit{
				Slot:   slot,
				Coord:  c,
				Dist:   t,
				Point:  nr.Origin.Add(dir.Scale(t)),
				Normal: n,
			}
			found = true
		}
	}
	if !found {
		return Hit{}, false
	}
	return best, true
}

// ForRemoval resolves the ray to the struck voxel. The caller removes it
// from the world and updates the index.
func ForRemoval(r Ray, w *voxel.World, ix *instance.Index) (voxel.Vec3i, bool) {
	hit, ok := Nearest(r, ix)
	if !ok || !w.Contains(hit.Coord) {
		return voxel.Vec3i{}, false
	}
	return hit.Coord, true
}

// PlacementCoord is the cell adjacent to the struck face: the hit point
// nudged eps along the outward normal, floored. eps <= 0 falls back to
// DefaultEpsilon.
func PlacementCoord(h Hit, eps float64) voxel.Vec3i {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	p := h.Point.Add(h.Normal.Scale(eps))
	return voxel.FromPoint(p.X, p.Y, p.Z)
}

// ForPlacement resolves the ray to the empty cell adjacent to the struck
// face. Returns false when there is no hit, or the candidate is occupied or
// out of bounds.
func ForPlacement(r Ray, w *voxel.World, ix *instance.Index, eps float64) (voxel.Vec3i, bool) {
	hit, ok := Nearest(r, ix)
	if !ok {
		return voxel.Vec3i{}, false
	}
	c := PlacementCoord(hit, eps)
	if !w.Extent().Contains(c) || w.Contains(c) {
		return voxel.Vec3i{}, false
	}
	return c, true
}
