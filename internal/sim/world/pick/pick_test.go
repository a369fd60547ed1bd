package pick

import (
	"testing"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/instance"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/voxel"
)

func singleVoxelWorld(t *testing.T, c voxel.Vec3i) (*voxel.World, *instance.Index) {
	t.Helper()
	w := voxel.New(voxel.Extent{SizeX: 16, SizeY: 16, SizeZ: 16})
	if !w.Add(c) {
		t.Fatalf("Add(%v) failed", c)
	}
	ix := instance.NewIndex()
	ix.Rebuild(w)
	return w, ix
}

func TestPlacementAdjacencyAllFaces(t *testing.T) {
	target := voxel.Vec3i{X: 5, Y: 5, Z: 5}
	cases := []struct {
		name   string
		origin Vec3
		dir    Vec3
		want   voxel.Vec3i
	}{
		{"top", Vec3{5.5, 9, 5.5}, Vec3{0, -1, 0}, voxel.Vec3i{X: 5, Y: 6, Z: 5}},
		{"bottom", Vec3{5.5, 2, 5.5}, Vec3{0, 1, 0}, voxel.Vec3i{X: 5, Y: 4, Z: 5}},
		{"east", Vec3{9, 5.5, 5.5}, Vec3{-1, 0, 0}, voxel.Vec3i{X: 6, Y: 5, Z: 5}},
		{"west", Vec3{2, 5.5, 5.5}, Vec3{1, 0, 0}, voxel.Vec3i{X: 4, Y: 5, Z: 5}},
		{"south", Vec3{5.5, 5.5, 9}, Vec3{0, 0, -1}, voxel.Vec3i{X: 5, Y: 5, Z: 6}},
		{"north", Vec3{5.5, 5.5, 2}, Vec3{0, 0, 1}, voxel.Vec3i{X: 5, Y: 5, Z: 4}},
	}
	for _, tc := range cases {
		w, ix := singleVoxelWorld(t, target)
		got, ok := ForPlacement(Ray{Origin: tc.origin, Dir: tc.dir, Max: 6}, w, ix, DefaultEpsilon)
		if !ok {
			t.Fatalf("%s: no placement result", tc.name)
		}
		if got != tc.want {
			t.Fatalf("%s: placement %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReachLimit(t *testing.T) {
	w, ix := singleVoxelWorld(t, voxel.Vec3i{X: 5, Y: 5, Z: 5})
	// Nearest face is 4 units from the origin along -z.
	ray := Ray{Origin: Vec3{5.5, 5.5, 10}, Dir: Vec3{0, 0, -1}, Max: 3.5}
	if _, ok := ForRemoval(ray, w, ix); ok {
		t.Fatalf("pick succeeded beyond reach")
	}
	ray.Max = 6
	if _, ok := ForRemoval(ray, w, ix); !ok {
		t.Fatalf("pick failed within reach")
	}
}

func TestUnnormalizedDirectionKeepsWorldUnits(t *testing.T) {
	w, ix := singleVoxelWorld(t, voxel.Vec3i{X: 5, Y: 5, Z: 5})
	// Reach is a world-unit limit regardless of the direction's magnitude.
	ray := Ray{Origin: Vec3{5.5, 5.5, 10}, Dir: Vec3{0, 0, -100}, Max: 3.5}
	if _, ok := ForRemoval(ray, w, ix); ok {
		t.Fatalf("scaled direction defeated the reach limit")
	}
}

func TestRemoveThenPlaceScenario(t *testing.T) {
	target := voxel.Vec3i{X: 5, Y: 5, Z: 5}
	w, ix := singleVoxelWorld(t, target)
	ray := Ray{Origin: Vec3{5, 5, 10}, Dir: Vec3{0, 0, -1}, Max: 6}

	got, ok := ForRemoval(ray, w, ix)
	if !ok || got != target {
		t.Fatalf("ForRemoval = %v,%v, want %v,true", got, ok, target)
	}

	if !w.Remove(got) {
		t.Fatalf("Remove failed")
	}
	ix.Drop(got)

	if _, ok := ForPlacement(ray, w, ix, DefaultEpsilon); ok {
		t.Fatalf("placement found a hit in an empty world")
	}
	if _, ok := ForRemoval(ray, w, ix); ok {
		t.Fatalf("removal found a hit in an empty world")
	}
}

func TestNearestPrefersCloserVoxel(t *testing.T) {
	w := voxel.New(voxel.Extent{SizeX: 16, SizeY: 16, SizeZ: 16})
	w.Add(voxel.Vec3i{X: 5, Y: 5, Z: 5})
	w.Add(voxel.Vec3i{X: 5, Y: 5, Z: 7})
	ix := instance.NewIndex()
	ix.Rebuild(w)

	ray := Ray{Origin: Vec3{5.5, 5.5, 12}, Dir: Vec3{0, 0, -1}, Max: 6}
	got, ok := ForRemoval(ray, w, ix)
	if !ok {
		t.Fatalf("no hit")
	}
	if want := (voxel.Vec3i{X: 5, Y: 5, Z: 7}); got != want {
		t.Fatalf("nearest = %v, want %v", got, want)
	}
}

func TestPlacementOnStackTop(t *testing.T) {
	// Two stacked voxels; a downward ray must hit the upper one's top face
	// and select the cell above the stack, never a cell inside it.
	w := voxel.New(voxel.Extent{SizeX: 16, SizeY: 16, SizeZ: 16})
	w.Add(voxel.Vec3i{X: 5, Y: 5, Z: 5})
	w.Add(voxel.Vec3i{X: 5, Y: 6, Z: 5})
	ix := instance.NewIndex()
	ix.Rebuild(w)

	ray := Ray{Origin: Vec3{5.5, 9, 5.5}, Dir: Vec3{0, -1, 0}, Max: 6}
	got, ok := ForPlacement(ray, w, ix, DefaultEpsilon)
	if !ok || got != (voxel.Vec3i{X: 5, Y: 7, Z: 5}) {
		t.Fatalf("stack top placement = %v,%v", got, ok)
	}
}

func TestPlacementEpsilonConfigurable(t *testing.T) {
	w, ix := singleVoxelWorld(t, voxel.Vec3i{X: 5, Y: 5, Z: 5})
	ray := Ray{Origin: Vec3{5.5, 9, 5.5}, Dir: Vec3{0, -1, 0}, Max: 6}
	want := voxel.Vec3i{X: 5, Y: 6, Z: 5}

	// Any epsilon in the valid range selects the same neighbor cell; the
	// tuned value must reach the nudge, and zero falls back to the default.
	for _, eps := range []float64{DefaultEpsilon, 0.2, 0.49, 0} {
		got, ok := ForPlacement(ray, w, ix, eps)
		if !ok || got != want {
			t.Fatalf("eps=%v: placement = %v,%v, want %v", eps, got, ok, want)
		}
	}

	hit, ok := Nearest(ray, ix)
	if !ok {
		t.Fatalf("no hit")
	}
	if got := PlacementCoord(hit, 0.2); got != want {
		t.Fatalf("PlacementCoord eps=0.2 = %v, want %v", got, want)
	}
	if got := PlacementCoord(hit, 0); got != want {
		t.Fatalf("PlacementCoord eps=0 (default) = %v, want %v", got, want)
	}
}

func TestZeroDirectionRay(t *testing.T) {
	w, ix := singleVoxelWorld(t, voxel.Vec3i{X: 5, Y: 5, Z: 5})
	if _, ok := ForRemoval(Ray{Origin: Vec3{5, 5, 10}, Max: 6}, w, ix); ok {
		t.Fatalf("zero-direction ray produced a hit")
	}
}

func TestPlacementOutOfBoundsRejected(t *testing.T) {
	// Voxel on the world edge; hitting its outward face floors into x = -1.
	edge := voxel.Vec3i{X: 0, Y: 5, Z: 5}
	w, ix := singleVoxelWorld(t, edge)
	ray := Ray{Origin: Vec3{-3, 5.5, 5.5}, Dir: Vec3{1, 0, 0}, Max: 6}
	if _, ok := ForPlacement(ray, w, ix, DefaultEpsilon); ok {
		t.Fatalf("placement outside the world accepted")
	}
	if got, ok := ForRemoval(ray, w, ix); !ok || got != edge {
		t.Fatalf("removal on edge voxel = %v,%v", got, ok)
	}
}
