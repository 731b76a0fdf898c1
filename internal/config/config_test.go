package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if cfg != DefaultFlappyConfig() {
		t.Errorf("embedded defaults drifted from DefaultFlappyConfig():\n got  %+v\n want %+v", cfg, DefaultFlappyConfig())
	}
}

func TestLoadCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "agent:\n  alpha: 0.5\npipes:\n  gap: 150\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if cfg.Agent.Alpha != 0.5 {
		t.Errorf("Alpha = %g, expected 0.5", cfg.Agent.Alpha)
	}
	if cfg.Pipes.Gap != 150 {
		t.Errorf("Gap = %d, expected 150", cfg.Pipes.Gap)
	}
	if cfg.Agent.Gamma != 0.99 {
		t.Errorf("Gamma should keep default 0.99, got %g", cfg.Agent.Gamma)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadFlappy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("agent: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFlappy(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestUserConfigTakesPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".flappyrl", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flappy.yaml"), []byte("agent:\n  bins: 8\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if cfg.Agent.Bins != 8 {
		t.Errorf("Bins = %d, expected user override 8", cfg.Agent.Bins)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultFlappyConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*FlappyConfig)
		field  string
	}{
		{"zero bins", func(c *FlappyConfig) { c.Agent.Bins = 0 }, "agent.bins"},
		{"alpha too large", func(c *FlappyConfig) { c.Agent.Alpha = 1.5 }, "agent.alpha"},
		{"negative gamma", func(c *FlappyConfig) { c.Agent.Gamma = -0.1 }, "agent.gamma"},
		{"empty window", func(c *FlappyConfig) { c.Window.Height = 0 }, "window size"},
		{"no pipes", func(c *FlappyConfig) { c.Pipes.MaxActive = 0 }, "pipes.max_active"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultFlappyConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q should mention %q", err, tc.field)
			}
		})
	}
}

func TestApplyExplorationPreset(t *testing.T) {
	cfg := DefaultFlappyConfig()
	if err := ApplyExplorationPreset(&cfg, ExploreCurious); err != nil {
		t.Fatal(err)
	}
	if cfg.Agent.EpsilonDecay != 0.999 || cfg.Agent.EpsilonMin != 0.05 {
		t.Errorf("curious preset not applied: %+v", cfg.Agent)
	}

	cfg = DefaultFlappyConfig()
	if err := ApplyExplorationPreset(&cfg, ""); err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultFlappyConfig() {
		t.Error("empty preset should leave config unchanged")
	}

	if err := ApplyExplorationPreset(&cfg, "reckless"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandPath("~/x/y.bin"); got != filepath.Join(home, "x", "y.bin") {
		t.Errorf("ExpandPath(~/x/y.bin) = %q", got)
	}
	if got := ExpandPath("rel/path"); got != "rel/path" {
		t.Errorf("relative path should be unchanged, got %q", got)
	}
}
