package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/circle-counter/internal/suppress"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CIRCLES_CONFIG", "CIRCLES_DETECTOR", "CIRCLES_MIN_RADIUS", "CIRCLES_MAX_RADIUS",
		"CIRCLES_MIN_DIST", "CIRCLES_OVERLAP_THRESHOLD", "CIRCLES_PRIORITY", "CIRCLES_METRIC",
		"CIRCLES_OUTPUT_DIR", "CIRCLES_OUTPUT_WIDTH", "CIRCLES_OUTPUT_HEIGHT", "CIRCLES_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Suppression.Threshold != 0.5 {
		t.Errorf("Threshold = %v, want 0.5", cfg.Suppression.Threshold)
	}
	if cfg.Detection.MinRadius != 5 || cfg.Detection.MaxRadius != 100 {
		t.Errorf("radius range = [%d, %d], want [5, 100]", cfg.Detection.MinRadius, cfg.Detection.MaxRadius)
	}
	if cfg.Render.Width != 800 || cfg.Render.Height != 600 {
		t.Errorf("output size = %dx%d, want 800x600", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Debug() {
		t.Error("Debug() = true with no log level set")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CIRCLES_OVERLAP_THRESHOLD", "0.3")
	t.Setenv("CIRCLES_PRIORITY", "smallest-first")
	t.Setenv("CIRCLES_MAX_RADIUS", "40")
	t.Setenv("CIRCLES_OUTPUT_WIDTH", "640")
	t.Setenv("CIRCLES_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Suppression.Threshold != 0.3 {
		t.Errorf("Threshold = %v, want 0.3", cfg.Suppression.Threshold)
	}
	if cfg.Detection.MaxRadius != 40 {
		t.Errorf("MaxRadius = %d, want 40", cfg.Detection.MaxRadius)
	}
	if cfg.Render.Width != 640 {
		t.Errorf("Width = %d, want 640", cfg.Render.Width)
	}
	if !cfg.Debug() {
		t.Error("Debug() = false with CIRCLES_LOG_LEVEL=debug")
	}

	s, err := cfg.Suppression.Suppressor()
	if err != nil {
		t.Fatalf("Suppressor failed: %v", err)
	}
	if s.Priority() != suppress.PrioritySmallestFirst {
		t.Errorf("Priority = %v, want smallest-first", s.Priority())
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		threshold bool // error must match suppress.ErrInvalidThreshold
	}{
		{"negative threshold", "CIRCLES_OVERLAP_THRESHOLD", "-0.5", true},
		{"threshold above one", "CIRCLES_OVERLAP_THRESHOLD", "1.5", true},
		{"NaN threshold", "CIRCLES_OVERLAP_THRESHOLD", "NaN", true},
		{"non-numeric threshold", "CIRCLES_OVERLAP_THRESHOLD", "abc", false},
		{"non-numeric width", "CIRCLES_OUTPUT_WIDTH", "not-a-number", false},
		{"zero width", "CIRCLES_OUTPUT_WIDTH", "0", false},
		{"negative min radius", "CIRCLES_MIN_RADIUS", "-5", false},
		{"fractional max radius", "CIRCLES_MAX_RADIUS", "12.5", false},
		{"non-numeric min dist", "CIRCLES_MIN_DIST", "far", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			if err == nil {
				t.Fatalf("%s=%q: Load succeeded with %+v, want error", tt.key, tt.value, cfg)
			}
			if cfg != nil {
				t.Errorf("Load returned a config alongside error %v", err)
			}
			if tt.threshold && !errors.Is(err, suppress.ErrInvalidThreshold) {
				t.Errorf("%s=%q: error %v is not ErrInvalidThreshold", tt.key, tt.value, err)
			}
		})
	}
}

func TestLoad_InvalidEnvReportsEveryVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("CIRCLES_OVERLAP_THRESHOLD", "abc")
	t.Setenv("CIRCLES_OUTPUT_HEIGHT", "tall")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"CIRCLES_OVERLAP_THRESHOLD", "CIRCLES_OUTPUT_HEIGHT"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoadFile_YAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "circles.yaml")
	content := `
detection:
  min_radius: 10
  max_radius: 60
suppression:
  threshold: 0.25
  metric: disk
render:
  output_dir: out
  labels: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Detection.MinRadius != 10 || cfg.Detection.MaxRadius != 60 {
		t.Errorf("radius range = [%d, %d], want [10, 60]", cfg.Detection.MinRadius, cfg.Detection.MaxRadius)
	}
	if cfg.Detection.CannyHigh != 150 {
		t.Errorf("CannyHigh = %d, want default 150 preserved", cfg.Detection.CannyHigh)
	}
	if cfg.Suppression.Threshold != 0.25 || cfg.Suppression.Metric != "disk" {
		t.Errorf("suppression = %+v", cfg.Suppression)
	}
	if cfg.Render.OutputDir != "out" || !cfg.Render.Labels {
		t.Errorf("render = %+v", cfg.Render)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("suppression: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above one", func(c *Config) { c.Suppression.Threshold = 1.5 }},
		{"unknown priority", func(c *Config) { c.Suppression.Priority = "random" }},
		{"unknown metric", func(c *Config) { c.Suppression.Metric = "triangle" }},
		{"inverted radius range", func(c *Config) { c.Detection.MinRadius = 50; c.Detection.MaxRadius = 10 }},
		{"inverted canny", func(c *Config) { c.Detection.CannyLow = 200; c.Detection.CannyHigh = 100 }},
		{"zero vote fraction", func(c *Config) { c.Detection.VoteFraction = 0 }},
		{"zero output width", func(c *Config) { c.Render.Width = 0 }},
		{"negative min dist", func(c *Config) { c.Detection.MinDist = -1 }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
