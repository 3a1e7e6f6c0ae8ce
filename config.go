package tempo

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidFrameRate is returned for a non-positive frame rate.
	ErrInvalidFrameRate = errors.New("frame rate must be positive")
	// ErrInvalidConfig is returned for any other out-of-range setting.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds the tunables for a Scene. Zero-valued fields left out of a
// YAML document keep their DefaultConfig values.
type Config struct {
	// FrameRate is the authored frame rate used until content is bound.
	FrameRate float64 `yaml:"frame_rate"`
	// Epsilon is the fixed-step tolerance in seconds.
	Epsilon float64 `yaml:"epsilon"`
	// TimeScale multiplies deltas fed to the fixed-step driver. Use
	// Driver.Paused to freeze a scene; a zero scale is read as 1.
	TimeScale float64 `yaml:"time_scale"`
	// MaxSteps caps fixed steps per update. Zero means no cap.
	MaxSteps int `yaml:"max_steps"`
	// TweenPool is the number of tween slots allocated up front.
	TweenPool int `yaml:"tween_pool"`
	// Debug enables debug mode (see Scene.SetDebugMode).
	Debug bool `yaml:"debug"`
	// LogLevel is a zerolog level name ("debug", "warn" ...) applied to the
	// package logger by NewSceneWithConfig. Empty leaves the logger as is.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings used by NewScene.
func DefaultConfig() Config {
	return Config{
		FrameRate: DefaultFrameRate,
		Epsilon:   DefaultEpsilon,
		TimeScale: 1,
		TweenPool: 64,
	}
}

// withDefaults fills zero FrameRate, Epsilon and TimeScale from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.FrameRate == 0 {
		c.FrameRate = def.FrameRate
	}
	if c.Epsilon == 0 {
		c.Epsilon = def.Epsilon
	}
	if c.TimeScale == 0 {
		c.TimeScale = def.TimeScale
	}
	return c
}

// LoadConfig parses a YAML document over DefaultConfig and validates it.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("validate config: %w (got %v)", ErrInvalidFrameRate, c.FrameRate)
	}
	if c.Epsilon < 0 || c.Epsilon >= 1/c.FrameRate {
		return fmt.Errorf("validate config: %w: epsilon %v outside [0, step)", ErrInvalidConfig, c.Epsilon)
	}
	if c.TimeScale < 0 {
		return fmt.Errorf("validate config: %w: negative time_scale %v", ErrInvalidConfig, c.TimeScale)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("validate config: %w: negative max_steps %d", ErrInvalidConfig, c.MaxSteps)
	}
	if c.TweenPool < 0 {
		return fmt.Errorf("validate config: %w: negative tween_pool %d", ErrInvalidConfig, c.TweenPool)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Level parses LogLevel. An empty level is info, for hosts building their
// own logger from the config.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}
