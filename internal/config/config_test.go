package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/scenekit/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Terrain.Samples != 1000 {
		t.Errorf("expected 1000 terrain samples, got %d", cfg.Terrain.Samples)
	}
	if cfg.Terrain.Length != 20 {
		t.Errorf("expected terrain length 20, got %v", cfg.Terrain.Length)
	}
	if cfg.Terrain.Noise.Octaves != 6 {
		t.Errorf("expected 6 octaves, got %d", cfg.Terrain.Noise.Octaves)
	}
	if len(cfg.Terrain.Lobes) != 4 {
		t.Errorf("expected 4 lobes, got %d", len(cfg.Terrain.Lobes))
	}

	if cfg.Scatter.Trees != 30 || cfg.Scatter.Grass != 50 {
		t.Errorf("expected 30 trees and 50 grass, got %d and %d", cfg.Scatter.Trees, cfg.Scatter.Grass)
	}

	if cfg.Chain.Points != 11 {
		t.Errorf("expected 11 chain points, got %d", cfg.Chain.Points)
	}
	if cfg.Chain.Physics.Stiffness != 5 {
		t.Errorf("expected stiffness 5, got %v", cfg.Chain.Physics.Stiffness)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scene.yaml")

	yamlContent := `
terrain:
  samples: 64
  length: 40
  noise:
    octaves: 3
scatter:
  seed: 9
  trees: 5
chain:
  physics:
    stiffness: 12
    gravity: {x: 0, y: 0, z: -1.62}
animation:
  times: [0, 2, 4, 6]
  positions:
    - {x: 0, y: 0, z: 5}
    - {x: 1, y: 0, z: 5}
    - {x: 2, y: 0, z: 5}
    - {x: 3, y: 0, z: 5}
logging:
  level: "debug"
  log_file: "sim.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.Samples != 64 {
		t.Errorf("expected 64 samples, got %d", cfg.Terrain.Samples)
	}
	if cfg.Terrain.Noise.Octaves != 3 {
		t.Errorf("expected 3 octaves, got %d", cfg.Terrain.Noise.Octaves)
	}
	// Fields missing from the file keep their defaults.
	if cfg.Terrain.Noise.Persistency != 0.35 {
		t.Errorf("expected default persistency, got %v", cfg.Terrain.Noise.Persistency)
	}
	if cfg.Scatter.Grass != 50 {
		t.Errorf("expected default grass count, got %d", cfg.Scatter.Grass)
	}
	if cfg.Chain.Physics.Stiffness != 12 {
		t.Errorf("expected stiffness 12, got %v", cfg.Chain.Physics.Stiffness)
	}
	if cfg.Chain.Physics.Gravity != (math.Vec3{Z: -1.62}) {
		t.Errorf("expected lunar gravity, got %v", cfg.Chain.Physics.Gravity)
	}
	if len(cfg.Animation.Times) != 4 || len(cfg.Animation.Positions) != 4 {
		t.Errorf("keyframes should replace defaults, got %d times", len(cfg.Animation.Times))
	}
	if cfg.Logging.LogFile != "sim.log" {
		t.Errorf("expected log file 'sim.log', got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
terrain:
  samples: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"one sample", func(c *Config) { c.Terrain.Samples = 1 }},
		{"zero length", func(c *Config) { c.Terrain.Length = 0 }},
		{"zero octaves", func(c *Config) { c.Terrain.Noise.Octaves = 0 }},
		{"flat lobe", func(c *Config) { c.Terrain.Lobes[0].Sigma = 0 }},
		{"negative trees", func(c *Config) { c.Scatter.Trees = -1 }},
		{"short chain", func(c *Config) { c.Chain.Points = 2 }},
		{"no substeps", func(c *Config) { c.Chain.Substeps = 0 }},
		{"substep too long", func(c *Config) { c.Chain.SubstepDt = 0.05 }},
		{"massless", func(c *Config) { c.Chain.Physics.Mass = 0 }},
		{"too few keyframes", func(c *Config) {
			c.Animation.Times = c.Animation.Times[:3]
			c.Animation.Positions = c.Animation.Positions[:3]
		}},
		{"unsorted keyframes", func(c *Config) { c.Animation.Times[2] = 0.5 }},
		{"zero bird scale", func(c *Config) { c.Bird.Scale = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "scenekit.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  samples: 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find scenekit.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "no flags",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Samples != 1000 || cfg.Scatter.Seed != 1 {
					t.Errorf("defaults changed without flags: %+v", cfg.Terrain)
				}
			},
		},
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "samples flag",
			args: []string{"-samples", "128"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Samples != 128 {
					t.Errorf("expected 128 samples, got %d", cfg.Terrain.Samples)
				}
			},
		},
		{
			name: "seed flag",
			args: []string{"-seed", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.NoiseSeed != 0 || cfg.Scatter.Seed != 0 {
					t.Errorf("expected both seeds 0, got %d and %d", cfg.Terrain.NoiseSeed, cfg.Scatter.Seed)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := BindFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			applyFlags(cfg, f)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	yamlContent := `
terrain:
  samples: 200
  length: 30
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := BindFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-samples", "50"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Samples from the flag, length from the file.
	if cfg.Terrain.Samples != 50 {
		t.Errorf("expected 50 samples from flag, got %d", cfg.Terrain.Samples)
	}
	if cfg.Terrain.Length != 30 {
		t.Errorf("expected length 30 from file, got %v", cfg.Terrain.Length)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("chain:\n  points: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(&Flags{Config: configPath, Seed: -1})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Terrain.Samples = 77
	cfg.Chain.Tail = math.Vec3{X: 1, Y: 2, Z: 3}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Terrain.Samples != 77 {
		t.Errorf("expected 77 samples after reload, got %d", loaded.Terrain.Samples)
	}
	if loaded.Chain.Tail != cfg.Chain.Tail {
		t.Errorf("tail = %v, want %v", loaded.Chain.Tail, cfg.Chain.Tail)
	}

	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("samples: 77")) {
		t.Errorf("encoded config missing samples:\n%s", buf.String())
	}
}
