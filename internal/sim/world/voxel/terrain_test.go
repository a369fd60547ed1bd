package voxel

import "testing"

func refExtent() Extent {
	return Extent{SizeX: 32, SizeY: 16, SizeZ: 32}
}

func TestTerrainColumnOrigin(t *testing.T) {
	// h(0,0) = 2 + floor(1.2*sin(0) + 1.2*cos(0)) = 2 + floor(1.2) = 3.
	p := DefaultTerrain()
	if h := p.HeightAt(0, 0); h != 3 {
		t.Fatalf("HeightAt(0,0) = %d, want 3", h)
	}

	w := Generate(refExtent(), p)
	for y := 0; y <= 3; y++ {
		if !w.Contains(Vec3i{X: 0, Y: y, Z: 0}) {
			t.Fatalf("(0,%d,0) not occupied", y)
		}
	}
	if w.Contains(Vec3i{X: 0, Y: 4, Z: 0}) {
		t.Fatalf("(0,4,0) occupied, want empty")
	}
}

func TestTerrainDeterministic(t *testing.T) {
	a := Generate(refExtent(), DefaultTerrain())
	b := Generate(refExtent(), DefaultTerrain())
	if a.Size() != b.Size() {
		t.Fatalf("sizes differ: %d vs %d", a.Size(), b.Size())
	}
	if a.Digest() != b.Digest() {
		t.Fatalf("occupancy digests differ across identical generations")
	}
}

func TestTerrainRespectsExtent(t *testing.T) {
	ext := Extent{SizeX: 32, SizeY: 2, SizeZ: 32}
	w := Generate(ext, DefaultTerrain())
	w.Iterate(func(c Vec3i) bool {
		if !ext.Contains(c) {
			t.Fatalf("generated voxel %v outside extent", c)
		}
		return true
	})
}
