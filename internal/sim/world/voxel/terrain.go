package voxel

import "math"

// TerrainParams drive the seeded heightmap. The formula is
// h(x,z) = base + floor(ampX*sin(freqX*x) + ampZ*cos(freqZ*z)); a column
// (x,z) is occupied for y = 0..h inclusive.
type TerrainParams struct {
	BaseHeight int
	AmpX       float64
	FreqX      float64
	AmpZ       float64
	FreqZ      float64
}

func DefaultTerrain() TerrainParams {
	return TerrainParams{
		BaseHeight: 2,
		AmpX:       1.2,
		FreqX:      0.35,
		AmpZ:       1.2,
		FreqZ:      0.3,
	}
}

// HeightAt evaluates the terrain formula for one column.
func (p TerrainParams) HeightAt(x, z int) int {
	return p.BaseHeight + int(math.Floor(p.AmpX*math.Sin(p.FreqX*float64(x))+p.AmpZ*math.Cos(p.FreqZ*float64(z))))
}

// Generate builds a freshly seeded world. The result is deterministic: the
// same extent and params reproduce bit-identical occupancy.
func Generate(extent Extent, params TerrainParams) *World {
	w := New(extent)
	for z := 0; z < extent.SizeZ; z++ {
		for x := 0; x < extent.SizeX; x++ {
			h := params.HeightAt(x, z)
			if h >= extent.SizeY {
				h = extent.SizeY - 1
			}
			for y := 0; y <= h; y++ {
				w.Add(Vec3i{X: x, Y: y, Z: z})
			}
		}
	}
	return w
}
