// Package config loads the game configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user configuration directory.
const AppName = "poseninja"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window     WindowConfig `yaml:"window"`
	Camera     CameraConfig `yaml:"camera"`
	Game       GameConfig   `yaml:"game"`
	Audio      AudioConfig  `yaml:"audio"`
	AssetsDir  string       `yaml:"assets_dir,omitempty"`
	ScoresPath string       `yaml:"scores_path,omitempty"`
}

type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TPS        int    `yaml:"tps"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// CameraConfig controls webcam capture and pose inference.
type CameraConfig struct {
	Device      int     `yaml:"device"`
	Model       string  `yaml:"model"`
	ModelConfig string  `yaml:"model_config,omitempty"`
	InputSize   int     `yaml:"input_size"`
	Layout      string  `yaml:"layout"` // "nhwc" | "nchw"
	InputName   string  `yaml:"input_name,omitempty"`
	OutputName  string  `yaml:"output_name,omitempty"`
	InferenceHz float64 `yaml:"inference_hz"`
	Mirror      bool    `yaml:"mirror"`
	Threshold   float32 `yaml:"threshold"`
	Smoothing   float32 `yaml:"smoothing"`
	Background  bool    `yaml:"background"`
	Dim         float32 `yaml:"dim"`
}

// GameConfig holds gameplay tuning. Times are in seconds, distances in
// pixels, and Gravity in screen heights per second squared.
type GameConfig struct {
	Lives        int     `yaml:"lives"`
	RoundSeconds float64 `yaml:"round_seconds"`

	DotRadius float32 `yaml:"dot_radius"`
	DotReach  float32 `yaml:"dot_reach"`
	DotTTL    float64 `yaml:"dot_ttl"`

	ItemRadius float32 `yaml:"item_radius"`
	ItemReach  float32 `yaml:"item_reach"`
	BombChance float64 `yaml:"bomb_chance"`
	Gravity    float32 `yaml:"gravity"`
	ApexMin    float32 `yaml:"apex_min"`
	ApexMax    float32 `yaml:"apex_max"`
	MaxDrift   float32 `yaml:"max_drift"`

	SpawnInterval float64 `yaml:"spawn_interval"`
	MinInterval   float64 `yaml:"min_interval"`
	IntervalStep  float64 `yaml:"interval_step"`
	WaveMax       int     `yaml:"wave_max"`

	ButtonHold    float64 `yaml:"button_hold"`
	BladeLength   float32 `yaml:"blade_length"`
	MinSwipeSpeed float32 `yaml:"min_swipe_speed"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Pose Ninja",
			Width:  640,
			Height: 480,
			TPS:    60,
		},
		Camera: CameraConfig{
			Model:       "movenet_singlepose_lightning.onnx",
			InputSize:   192,
			Layout:      "nhwc",
			InferenceHz: 30,
			Mirror:      true,
			Threshold:   0.11,
			Smoothing:   0.2,
			Background:  true,
			Dim:         0.5,
		},
		Game: GameConfig{
			Lives:        3,
			RoundSeconds: 60,

			DotRadius: 10,
			DotReach:  20,
			DotTTL:    9,

			ItemRadius: 24,
			ItemReach:  6,
			BombChance: 1.0 / 7,
			Gravity:    0.9,
			ApexMin:    0.15,
			ApexMax:    0.45,
			MaxDrift:   120,

			SpawnInterval: 1.6,
			MinInterval:   0.6,
			IntervalStep:  0.1,
			WaveMax:       3,

			ButtonHold:    1.5,
			BladeLength:   90,
			MinSwipeSpeed: 250,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.6,
			SampleRate: 44100,
		},
	}
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns where Load looks when no path was given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultScoresPath returns where high scores live unless configured.
func DefaultScoresPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "scores.txt"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.TPS > 0, "window.tps %d", c.Window.TPS)

	check(c.Camera.InputSize > 0, "camera.input_size %d", c.Camera.InputSize)
	check(c.Camera.Layout == "nhwc" || c.Camera.Layout == "nchw", "camera.layout %q", c.Camera.Layout)
	check(c.Camera.InferenceHz > 0, "camera.inference_hz %v", c.Camera.InferenceHz)
	check(c.Camera.Threshold >= 0 && c.Camera.Threshold < 1, "camera.threshold %v", c.Camera.Threshold)
	check(c.Camera.Smoothing > 0 && c.Camera.Smoothing <= 1, "camera.smoothing %v", c.Camera.Smoothing)
	check(c.Camera.Dim >= 0 && c.Camera.Dim <= 1, "camera.dim %v", c.Camera.Dim)

	g := c.Game
	check(g.Lives > 0, "game.lives %d", g.Lives)
	check(g.RoundSeconds > 0, "game.round_seconds %v", g.RoundSeconds)
	check(g.DotRadius > 0 && g.ItemRadius > 0, "radii must be positive")
	check(g.DotReach >= 0 && g.ItemReach >= 0, "reach must not be negative")
	check(g.DotTTL > 0, "game.dot_ttl %v", g.DotTTL)
	check(g.BombChance >= 0 && g.BombChance <= 1, "game.bomb_chance %v", g.BombChance)
	check(g.Gravity > 0, "game.gravity %v", g.Gravity)
	check(g.ApexMin > 0 && g.ApexMin <= g.ApexMax && g.ApexMax < 1, "game.apex_min %v apex_max %v", g.ApexMin, g.ApexMax)
	check(g.MaxDrift >= 0, "game.max_drift %v", g.MaxDrift)
	check(g.SpawnInterval > 0 && g.MinInterval > 0 && g.MinInterval <= g.SpawnInterval,
		"game.spawn_interval %v min_interval %v", g.SpawnInterval, g.MinInterval)
	check(g.IntervalStep >= 0, "game.interval_step %v", g.IntervalStep)
	check(g.WaveMax >= 1, "game.wave_max %d", g.WaveMax)
	check(g.ButtonHold > 0, "game.button_hold %v", g.ButtonHold)
	check(g.BladeLength > 0, "game.blade_length %v", g.BladeLength)
	check(g.MinSwipeSpeed >= 0, "game.min_swipe_speed %v", g.MinSwipeSpeed)

	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume %v", c.Audio.Volume)
	check(c.Audio.SampleRate > 0, "audio.sample_rate %d", c.Audio.SampleRate)

	return errors.Join(errs...)
}

// Write saves cfg as YAML, creating the parent directory.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
