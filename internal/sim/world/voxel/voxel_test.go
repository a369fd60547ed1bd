package voxel

import "testing"

func testExtent() Extent {
	return Extent{SizeX: 8, SizeY: 4, SizeZ: 8}
}

func TestAddRejectsOutOfBounds(t *testing.T) {
	w := New(testExtent())
	bad := []Vec3i{
		{X: -1, Y: 0, Z: 0},
		{X: 8, Y: 0, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 4, Z: 0},
		{X: 0, Y: 0, Z: -1},
		{X: 0, Y: 0, Z: 8},
	}
	for _, c := range bad {
		if w.Add(c) {
			t.Fatalf("Add(%v) accepted an out-of-bounds coordinate", c)
		}
		if w.Contains(c) {
			t.Fatalf("Contains(%v) true after rejected add", c)
		}
	}
	if w.Size() != 0 {
		t.Fatalf("size %d after rejected adds", w.Size())
	}
}

func TestAddRejectsDuplicate(t *testing.T) {
	w := New(testExtent())
	c := Vec3i{X: 3, Y: 1, Z: 5}
	if !w.Add(c) {
		t.Fatalf("first Add(%v) failed", c)
	}
	if w.Add(c) {
		t.Fatalf("second Add(%v) succeeded", c)
	}
	if w.Size() != 1 {
		t.Fatalf("size %d, want 1", w.Size())
	}
}

func TestRemove(t *testing.T) {
	w := New(testExtent())
	c := Vec3i{X: 2, Y: 2, Z: 2}
	if w.Remove(c) {
		t.Fatalf("Remove succeeded on empty cell")
	}
	w.Add(c)
	if !w.Remove(c) {
		t.Fatalf("Remove failed on occupied cell")
	}
	if w.Contains(c) {
		t.Fatalf("Contains true after remove")
	}
	if w.Remove(c) {
		t.Fatalf("second Remove succeeded")
	}
	if w.Size() != 0 {
		t.Fatalf("size %d, want 0", w.Size())
	}
}

func TestIterateStableOrder(t *testing.T) {
	w := New(testExtent())
	w.Add(Vec3i{X: 7, Y: 3, Z: 7})
	w.Add(Vec3i{X: 0, Y: 0, Z: 0})
	w.Add(Vec3i{X: 4, Y: 1, Z: 2})

	first := w.Coords()
	second := w.Coords()
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("got %d and %d coords, want 3", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pass order differs at %d: %v vs %v", i, first[i], second[i])
		}
	}
	for _, c := range first {
		if !w.Contains(c) {
			t.Fatalf("iterated coordinate %v not occupied", c)
		}
	}
}

func TestFromPointTruncates(t *testing.T) {
	cases := []struct {
		x, y, z float64
		want    Vec3i
	}{
		{0.5, 0.5, 0.5, Vec3i{0, 0, 0}},
		{3.999, 1.0, 2.001, Vec3i{3, 1, 2}},
		{-0.01, 0, 0, Vec3i{-1, 0, 0}},
	}
	for _, tc := range cases {
		if got := FromPoint(tc.x, tc.y, tc.z); got != tc.want {
			t.Fatalf("FromPoint(%v,%v,%v) = %v, want %v", tc.x, tc.y, tc.z, got, tc.want)
		}
	}
}

func TestDigestTracksMutations(t *testing.T) {
	w := New(testExtent())
	empty := w.Digest()
	w.Add(Vec3i{X: 1, Y: 1, Z: 1})
	after := w.Digest()
	if empty == after {
		t.Fatalf("digest unchanged after add")
	}
	w.Remove(Vec3i{X: 1, Y: 1, Z: 1})
	if w.Digest() != empty {
		t.Fatalf("digest differs from empty world after undoing the add")
	}
}
