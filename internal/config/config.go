// Package config loads mudra settings from defaults, an optional YAML file,
// an optional .env file and MUDRA_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/music"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MUDRA_"

// Config is the complete application configuration.
type Config struct {
	Camera   capture.Config        `yaml:"camera"`
	Gate     GateConfig            `yaml:"gate"`
	Detector detector.Config       `yaml:"detector"`
	Tracker  gesture.TrackerConfig `yaml:"tracker"`

	// Hold overrides the dwell time of count games. Zero keeps each game's own.
	Hold time.Duration `yaml:"hold"`
	// ClickHold is how long a closed hand must stay closed to count.
	ClickHold time.Duration `yaml:"click_hold"`

	Music   music.ScheduleConfig  `yaml:"music"`
	DataDir string                `yaml:"data_dir"`
	Listen  string                `yaml:"listen"`
	Log     LogConfig             `yaml:"log"`
	Plugins PluginsConfig         `yaml:"plugins"`
	Games   map[string]GameConfig `yaml:"games"`
}

// GateConfig controls reuse of detections on still frames.
type GateConfig struct {
	// Threshold is the changed-pixel percentage that forces detection.
	// Zero disables gating.
	Threshold float64 `yaml:"threshold"`
	MaxSkip   int     `yaml:"max_skip"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PluginsConfig locates external plugins.
type PluginsConfig struct {
	Dir string `yaml:"dir"`
	// Audio names the plugin that plays music; empty disables audio.
	Audio string `yaml:"audio"`
	// Track is the audio file handed to the audio plugin.
	Track   string        `yaml:"track"`
	Timeout time.Duration `yaml:"timeout"`
}

// GameConfig overrides one game's defaults.
type GameConfig struct {
	Goal   int           `yaml:"goal"`
	Budget time.Duration `yaml:"budget"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Camera:   capture.DefaultConfig(),
		Gate:     GateConfig{Threshold: capture.DefaultGateThreshold, MaxSkip: capture.DefaultMaxSkip},
		Detector: detector.DefaultConfig(),
		Tracker:  gesture.DefaultTrackerConfig(),
		Music:    music.DefaultScheduleConfig(),
		DataDir:  defaultDataDir(),
		Log:      LogConfig{Level: "info", Format: "text"},
		Plugins: PluginsConfig{
			Dir:     "plugins",
			Timeout: plugin.DefaultTimeout,
		},
		Games: map[string]GameConfig{},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

// Load builds the configuration. An empty path skips the YAML file; a
// named file must exist. A .env file in the working directory is read if
// present.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}

	if cfg.Games == nil {
		cfg.Games = map[string]GameConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	num("CAMERA_DEVICE", &c.Camera.Device)
	boolean("CAMERA_MIRROR", &c.Camera.Mirror)
	num("MAX_HANDS", &c.Detector.MaxHands)
	duration("HOLD", &c.Hold)
	duration("CLICK_HOLD", &c.ClickHold)
	str("DATA_DIR", &c.DataDir)
	str("LISTEN", &c.Listen)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("PLUGINS_DIR", &c.Plugins.Dir)
	str("AUDIO_PLUGIN", &c.Plugins.Audio)
	str("AUDIO_TRACK", &c.Plugins.Track)

	return errors.Join(errs...)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Camera.Device < 0 {
		errs = append(errs, fmt.Errorf("camera.device must be >= 0, got %d", c.Camera.Device))
	}
	if c.Detector.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("detector.max_hands must be >= 1, got %d", c.Detector.MaxHands))
	}
	if c.Tracker.MaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("tracker.max_distance must be > 0, got %g", c.Tracker.MaxDistance))
	}
	if c.Tracker.MaxMisses < 0 {
		errs = append(errs, fmt.Errorf("tracker.max_misses must be >= 0, got %d", c.Tracker.MaxMisses))
	}
	if c.Hold < 0 || c.ClickHold < 0 {
		errs = append(errs, errors.New("hold durations must not be negative"))
	}
	if c.Music.MinInterval <= 0 || c.Music.MaxInterval < c.Music.MinInterval {
		errs = append(errs, fmt.Errorf("music intervals invalid: min %s, max %s", c.Music.MinInterval, c.Music.MaxInterval))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must be set"))
	}
	for name, g := range c.Games {
		if g.Goal < 0 || g.Budget < 0 {
			errs = append(errs, fmt.Errorf("games.%s: goal and budget must not be negative", name))
		}
	}
	return errors.Join(errs...)
}

// Game returns the overrides for a game; missing entries are zero.
func (c *Config) Game(name string) GameConfig {
	return c.Games[name]
}

// DBPath returns the session history database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, store.FileName)
}

// LeaderboardDir returns the directory holding leaderboard files.
func (c *Config) LeaderboardDir() string {
	return c.DataDir
}
