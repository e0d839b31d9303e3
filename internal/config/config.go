package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/circle-counter/internal/suppress"
)

// Config is the complete runtime configuration shared by the MCP server and
// the CLI. Build it with Load or LoadFile; Default gives the stock values.
type Config struct {
	Detection   DetectionConfig   `yaml:"detection"`
	Suppression SuppressionConfig `yaml:"suppression"`
	Render      RenderConfig      `yaml:"render"`
	LogLevel    string            `yaml:"log_level"`
}

// DetectionConfig holds the circle detector parameters.
type DetectionConfig struct {
	Backend      string  `yaml:"backend"`       // "hough" (pure Go) or "opencv" (requires -tags gocv)
	BlurRadius   float64 `yaml:"blur_radius"`   // Gaussian blur radius before edge detection
	CannyLow     int     `yaml:"canny_low"`     // hysteresis low threshold (0-255)
	CannyHigh    int     `yaml:"canny_high"`    // hysteresis high threshold (0-255)
	MinRadius    int     `yaml:"min_radius"`    // smallest radius searched, pixels
	MaxRadius    int     `yaml:"max_radius"`    // largest radius searched, pixels
	MinDist      int     `yaml:"min_dist"`      // minimum distance between detected centers
	VoteFraction float64 `yaml:"vote_fraction"` // fraction of sampled circumference that must vote
}

// SuppressionConfig selects the overlap threshold and policies used to drop
// duplicate detections. Names are parsed by Options.
type SuppressionConfig struct {
	Threshold float64 `yaml:"threshold"`
	Priority  string  `yaml:"priority"` // largest-first | smallest-first
	Metric    string  `yaml:"metric"`   // square-over-disk | disk
}

// RenderConfig controls the annotated output image: where it is saved, its
// size, and how circles are drawn. Colors are "#RRGGBB" hex strings.
type RenderConfig struct {
	OutputDir   string  `yaml:"output_dir"`
	Prefix      string  `yaml:"prefix"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	CircleColor string  `yaml:"circle_color"`
	CenterColor string  `yaml:"center_color"`
	StrokeWidth float64 `yaml:"stroke_width"`
	Labels      bool    `yaml:"labels"`
}

// Default returns the stock detection, suppression and output parameters.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Backend:      "hough",
			BlurRadius:   2,
			CannyLow:     50,
			CannyHigh:    150,
			MinRadius:    5,
			MaxRadius:    100,
			MinDist:      30,
			VoteFraction: 0.6,
		},
		Suppression: SuppressionConfig{
			Threshold: suppress.DefaultThreshold,
			Priority:  suppress.PriorityLargestFirst.String(),
			Metric:    suppress.MetricSquareOverDisk.String(),
		},
		Render: RenderConfig{
			OutputDir:   "img",
			Prefix:      "circles",
			Width:       800,
			Height:      600,
			CircleColor: "#00FF00",
			CenterColor: "#FF0000",
			StrokeWidth: 2,
		},
	}
}

// envInt parses key as an integer into dst. An unset or empty variable leaves
// dst unchanged; anything else that fails to parse is an error. Range checks
// are left to Validate.
func envInt(key string, dst *int) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	*dst = n
	return nil
}

// envFloat is envInt for floats. NaN and out-of-range values pass through.
func envFloat(key string, dst *float64) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	*dst = f
	return nil
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Load builds the configuration from defaults, an optional YAML file named by
// CIRCLES_CONFIG, and CIRCLES_* environment variables, in that order.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CIRCLES_CONFIG"))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays CIRCLES_* variables. Every malformed number is reported.
func (c *Config) applyEnv() error {
	d := &c.Detection
	d.Backend = envString("CIRCLES_DETECTOR", d.Backend)

	s := &c.Suppression
	s.Priority = envString("CIRCLES_PRIORITY", s.Priority)
	s.Metric = envString("CIRCLES_METRIC", s.Metric)

	r := &c.Render
	r.OutputDir = envString("CIRCLES_OUTPUT_DIR", r.OutputDir)

	c.LogLevel = envString("CIRCLES_LOG_LEVEL", c.LogLevel)

	return errors.Join(
		envInt("CIRCLES_MIN_RADIUS", &d.MinRadius),
		envInt("CIRCLES_MAX_RADIUS", &d.MaxRadius),
		envInt("CIRCLES_MIN_DIST", &d.MinDist),
		envFloat("CIRCLES_OVERLAP_THRESHOLD", &s.Threshold),
		envInt("CIRCLES_OUTPUT_WIDTH", &r.Width),
		envInt("CIRCLES_OUTPUT_HEIGHT", &r.Height),
	)
}

// Validate checks ranges and policy names. Errors are returned, never
// replaced by defaults.
func (c *Config) Validate() error {
	d := c.Detection
	if d.MinRadius < 0 || d.MaxRadius < d.MinRadius {
		return fmt.Errorf("invalid radius range [%d, %d]", d.MinRadius, d.MaxRadius)
	}
	if d.MinDist < 0 {
		return fmt.Errorf("invalid min_dist %d", d.MinDist)
	}
	if d.CannyLow < 0 || d.CannyHigh > 255 || d.CannyLow > d.CannyHigh {
		return fmt.Errorf("invalid canny thresholds %d/%d", d.CannyLow, d.CannyHigh)
	}
	if d.VoteFraction <= 0 || d.VoteFraction > 1 {
		return fmt.Errorf("vote_fraction %v outside (0, 1]", d.VoteFraction)
	}

	if _, err := c.Suppression.Options(); err != nil {
		return err
	}
	if _, err := suppress.New(c.Suppression.Threshold); err != nil {
		return err
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// Options converts the policy names into suppress options.
func (s SuppressionConfig) Options() ([]suppress.Option, error) {
	priority, err := suppress.ParsePriority(s.Priority)
	if err != nil {
		return nil, err
	}
	metric, err := suppress.ParseMetric(s.Metric)
	if err != nil {
		return nil, err
	}
	return []suppress.Option{suppress.WithPriority(priority), suppress.WithMetric(metric)}, nil
}

// Suppressor builds a suppress.Suppressor from the configuration.
func (s SuppressionConfig) Suppressor() (*suppress.Suppressor, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	return suppress.New(s.Threshold, opts...)
}

// Debug reports whether debug logging was requested.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}
