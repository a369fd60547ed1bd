package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	WorldSizeX int `yaml:"world_size_x"`
	WorldSizeY int `yaml:"world_size_y"`
	WorldSizeZ int `yaml:"world_size_z"`

	PickReach        float64 `yaml:"pick_reach"`
	PlacementEpsilon float64 `yaml:"placement_epsilon"`
	MoveSpeed        float64 `yaml:"move_speed"` // world units per second

	Terrain TerrainTuning `yaml:"terrain"`

	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`
	ClientQueueMax     int `yaml:"client_queue_max"`
}

type TerrainTuning struct {
	BaseHeight int     `yaml:"base_height"`
	AmpX       float64 `yaml:"amp_x"`
	FreqX      float64 `yaml:"freq_x"`
	AmpZ       float64 `yaml:"amp_z"`
	FreqZ      float64 `yaml:"freq_z"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:         20,
		WorldSizeX:         32,
		WorldSizeY:         16,
		WorldSizeZ:         32,
		PickReach:          6.0,
		PlacementEpsilon:   0.01,
		MoveSpeed:          6.0,
		Terrain:            TerrainTuning{BaseHeight: 2, AmpX: 1.2, FreqX: 0.35, AmpZ: 1.2, FreqZ: 0.3},
		SnapshotEveryTicks: 1200,
		ClientQueueMax:     8,
	}
}

// Load reads tuning.yaml. Absent fields keep their defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", t.TickRateHz)
	}
	if t.WorldSizeX <= 0 || t.WorldSizeY <= 0 || t.WorldSizeZ <= 0 {
		return fmt.Errorf("world extent must be positive, got %dx%dx%d", t.WorldSizeX, t.WorldSizeY, t.WorldSizeZ)
	}
	if t.PickReach <= 0 {
		return fmt.Errorf("pick_reach must be positive, got %v", t.PickReach)
	}
	if t.PlacementEpsilon <= 0 || t.PlacementEpsilon >= 0.5 {
		return fmt.Errorf("placement_epsilon must be in (0, 0.5), got %v", t.PlacementEpsilon)
	}
	return nil
}
