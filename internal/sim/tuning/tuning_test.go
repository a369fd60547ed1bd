package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte("tick_rate_hz: 10\nworld_size_y: 32\npick_reach: 8.5\nterrain:\n  base_height: 4\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	tune, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tune.TickRateHz != 10 || tune.WorldSizeY != 32 || tune.PickReach != 8.5 {
		t.Fatalf("overrides not applied: %+v", tune)
	}
	if tune.Terrain.BaseHeight != 4 {
		t.Fatalf("nested override not applied: %+v", tune.Terrain)
	}
	// Untouched fields keep defaults.
	if tune.WorldSizeX != 32 || tune.PlacementEpsilon != 0.01 {
		t.Fatalf("defaults clobbered: %+v", tune)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("placement_epsilon: 0.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("epsilon >= 0.5 accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}
