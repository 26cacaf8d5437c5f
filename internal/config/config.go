package config

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AndyA/Lintilla/internal/geometry"
)

// ErrInvalidConfig is returned when a required option is missing or a value
// cannot be parsed. It is always fatal.
var ErrInvalidConfig = errors.New("invalid config")

const EnvPrefix = "LINTILLA"

// Schedule selects how file tasks are distributed over workers.
type Schedule string

const (
	// SchedulePool runs every task through one bounded pool of workers.
	SchedulePool Schedule = "pool"
	// ScheduleSerial processes the files of each root strictly in walk order,
	// one at a time. Different roots run concurrently.
	ScheduleSerial Schedule = "serial"
	// ScheduleParallel starts every task at once.
	ScheduleParallel Schedule = "parallel"
)

// Config is built once at startup and passed by value; it is never mutated.
type Config struct {
	Watermark  string
	MaxWidth   float64
	MaxHeight  float64
	HPos       float64
	VPos       float64
	Alpha      float64
	Output     string
	Roots      []string
	Workers    int
	Schedule   Schedule
	AutoOrient bool
}

// Sizing returns the geometry rules for this config.
func (c Config) Sizing() geometry.Sizing {
	return geometry.Sizing{
		MaxWidth:  c.MaxWidth,
		MaxHeight: c.MaxHeight,
		HPos:      c.HPos,
		VPos:      c.VPos,
	}
}

// RegisterFlags adds the watermark options to fs with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("watermark", "w", "", "The watermark image (required)")
	fs.String("width", "100", "Max width of watermark (percent)")
	fs.String("height", "100", "Max height of watermark (percent)")
	fs.StringP("hpos", "x", "50", "Horizontal position of watermark (percent, 0=left, 100=right)")
	fs.StringP("vpos", "y", "50", "Vertical position of watermark (percent, 0=top, 100=bottom)")
	fs.StringP("alpha", "a", "100", "Alpha blending (percent)")
	fs.StringP("output", "o", "watermarked", "Output directory")
	fs.Int("workers", runtime.NumCPU(), "Number of concurrent workers for the pool schedule")
	fs.String("schedule", string(SchedulePool), "Scheduling policy: pool, serial or parallel")
	fs.Bool("auto-orient", false, "Apply EXIF orientation when decoding images")
}

// NewViper returns a viper instance bound to fs and to LINTILLA_* environment
// variables. Flags set on the command line take precedence over the
// environment.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

// Load builds a Config from v and the positional roots.
func Load(v *viper.Viper, roots []string) (Config, error) {
	cfg := Config{
		Watermark:  strings.TrimSpace(v.GetString("watermark")),
		Output:     v.GetString("output"),
		Roots:      append([]string(nil), roots...),
		Workers:    v.GetInt("workers"),
		Schedule:   Schedule(strings.ToLower(v.GetString("schedule"))),
		AutoOrient: v.GetBool("auto-orient"),
	}

	if cfg.Watermark == "" {
		return Config{}, fmt.Errorf("%w: --watermark is a required option", ErrInvalidConfig)
	}
	if len(cfg.Roots) == 0 {
		return Config{}, fmt.Errorf("%w: at least one input directory or file is required", ErrInvalidConfig)
	}
	if cfg.Output == "" {
		return Config{}, fmt.Errorf("%w: --output must not be empty", ErrInvalidConfig)
	}

	percents := []struct {
		key string
		dst *float64
		max float64
	}{
		{"width", &cfg.MaxWidth, math.Inf(1)},
		{"height", &cfg.MaxHeight, math.Inf(1)},
		{"hpos", &cfg.HPos, 1},
		{"vpos", &cfg.VPos, 1},
		{"alpha", &cfg.Alpha, 1},
	}
	for _, p := range percents {
		f, err := ParsePercent(v.GetString(p.key))
		if err != nil {
			return Config{}, fmt.Errorf("%w: --%s: %w", ErrInvalidConfig, p.key, err)
		}
		if f > p.max {
			return Config{}, fmt.Errorf("%w: --%s must not exceed 100%%", ErrInvalidConfig, p.key)
		}
		*p.dst = f
	}

	switch cfg.Schedule {
	case SchedulePool, ScheduleSerial, ScheduleParallel:
	default:
		return Config{}, fmt.Errorf("%w: unknown schedule %q", ErrInvalidConfig, cfg.Schedule)
	}

	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("%w: --workers must be at least 1", ErrInvalidConfig)
	}

	return cfg, nil
}

// ParsePercent converts "50" or "50%" into 0.5. Negative, NaN and infinite
// values are rejected.
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%q must not be negative", s)
	}
	return f / 100, nil
}
