// Package config handles loading and saving accordion configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/accordion/config.yaml
//
// Values are layered: defaults, then the config file, then environment
// overrides (ApplyEnv), then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultDurationMS = 330
	DefaultFPS        = 30
	MaxDurationMS     = 10_000
)

// Themes accepted by UIConfig.Theme.
var Themes = []string{"auto", "dark", "light"}

// AnimationConfig controls expand/collapse transitions.
type AnimationConfig struct {
	DurationMS int `yaml:"duration_ms"` // 0 disables animation
	FPS        int `yaml:"fps"`
}

// ListConfig controls the host list.
type ListConfig struct {
	Gap   int  `yaml:"gap,omitempty"`  // Blank lines between rows
	Mouse bool `yaml:"mouse"`          // Click a toggle to activate it
	Wrap  bool `yaml:"wrap,omitempty"` // Cursor wraps around the ends
}

// SourceConfig names the default row sources.
type SourceConfig struct {
	Paths []string `yaml:"paths,omitempty"`
	Table string   `yaml:"table,omitempty"` // SQLite table
	Watch bool     `yaml:"watch"`           // Reload when a source changes
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme string `yaml:"theme,omitempty"` // auto, dark, light
}

// Config is the top-level configuration for accordion.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	List      ListConfig      `yaml:"list"`
	Source    SourceConfig    `yaml:"source,omitempty"`
	UI        UIConfig        `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Animation: AnimationConfig{
			DurationMS: DefaultDurationMS,
			FPS:        DefaultFPS,
		},
		List: ListConfig{
			Mouse: true,
		},
		Source: SourceConfig{
			Watch: true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// ConfigDir returns the XDG config directory for accordion.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "accordion")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "accordion")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	for i := range cfg.Source.Paths {
		cfg.Source.Paths[i] = expandHome(cfg.Source.Paths[i])
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Animation.DurationMS < 0 || c.Animation.DurationMS > MaxDurationMS {
		errs = append(errs, fmt.Errorf("animation.duration_ms must be between 0 and %d, got %d", MaxDurationMS, c.Animation.DurationMS))
	}
	if c.Animation.FPS < 1 || c.Animation.FPS > 120 {
		errs = append(errs, fmt.Errorf("animation.fps must be between 1 and 120, got %d", c.Animation.FPS))
	}
	if c.List.Gap < 0 || c.List.Gap > 5 {
		errs = append(errs, fmt.Errorf("list.gap must be between 0 and 5, got %d", c.List.Gap))
	}
	if !validTheme(c.UI.Theme) {
		errs = append(errs, fmt.Errorf("ui.theme must be one of %s, got %q", strings.Join(Themes, ", "), c.UI.Theme))
	}
	return errors.Join(errs...)
}

// ApplyEnv applies environment overrides. ACCORDION_DURATION_MS replaces
// the animation duration.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv("ACCORDION_DURATION_MS")); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ACCORDION_DURATION_MS: %w", err)
		}
		c.Animation.DurationMS = ms
	}
	return c.Validate()
}

// Duration returns the transition duration.
func (c Config) Duration() time.Duration {
	return time.Duration(c.Animation.DurationMS) * time.Millisecond
}

// FrameInterval returns the time between animation frames.
func (c Config) FrameInterval() time.Duration {
	fps := c.Animation.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

func validTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
