// Package config handles loading and saving sw configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/sw/config.yaml
//   - Data:    ~/.local/share/sw/ (themes, exports)
//   - State:   ~/.local/state/sw/ (recent sheets cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sheet represents a registered sheet project in the config.
type Sheet struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme          string `yaml:"theme,omitempty"`           // Color theme name
	DefaultExpand  bool   `yaml:"default_expand,omitempty"`  // Expand all topics on open
	ShowDifficulty bool   `yaml:"show_difficulty,omitempty"` // Show difficulty badges
}

// FilterConfig holds default filter settings applied on startup.
type FilterConfig struct {
	Difficulty string `yaml:"difficulty,omitempty"` // all, Basic, Easy, Medium, Hard
	Status     string `yaml:"status,omitempty"`     // all, solved, unsolved
}

// WatchConfig controls the live-reload watcher.
type WatchConfig struct {
	Enabled      *bool `yaml:"enabled,omitempty"`
	DebounceMS   int   `yaml:"debounce_ms,omitempty"`
	PollFallback bool  `yaml:"poll_fallback,omitempty"`
}

// Config is the top-level configuration for sw.
type Config struct {
	Sheets    []Sheet        `yaml:"sheets,omitempty"`
	Favorites map[int]string `yaml:"favorites,omitempty"` // Number key (1-9) -> sheet name
	UI        UIConfig       `yaml:"ui,omitempty"`
	Filter    FilterConfig   `yaml:"filter,omitempty"`
	Watch     WatchConfig    `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Favorites: make(map[int]string),
		UI: UIConfig{
			Theme:          "dark",
			ShowDifficulty: true,
		},
		Filter: FilterConfig{
			Difficulty: "all",
			Status:     "all",
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
}

// ConfigDir returns the XDG config directory for sw.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sw")
}

// DataDir returns the XDG data directory for sw.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "sw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "sw")
}

// StateDir returns the XDG state directory for sw.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "sw")
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

	// Ensure favorites map is initialized
	if cfg.Favorites == nil {
		cfg.Favorites = make(map[int]string)
	}

	// Expand ~ in sheet paths
	for i := range cfg.Sheets {
		cfg.Sheets[i].Path = expandHome(cfg.Sheets[i].Path)
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
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
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

// FindSheet returns the sheet with the given name, or nil.
func (c Config) FindSheet(name string) *Sheet {
	for i := range c.Sheets {
		if strings.EqualFold(c.Sheets[i].Name, name) {
			return &c.Sheets[i]
		}
	}
	return nil
}

// FavoriteSheet returns the sheet assigned to number key n (1-9), or nil.
func (c Config) FavoriteSheet(n int) *Sheet {
	name, ok := c.Favorites[n]
	if !ok {
		return nil
	}
	return c.FindSheet(name)
}

// SetFavorite assigns a sheet name to a number key (1-9).
func (c *Config) SetFavorite(n int, sheetName string) {
	if c.Favorites == nil {
		c.Favorites = make(map[int]string)
	}
	if sheetName == "" {
		delete(c.Favorites, n)
	} else {
		c.Favorites[n] = sheetName
	}
}

// WatchEnabled reports whether the live-reload watcher should run.
// Unset defaults to true.
func (c Config) WatchEnabled() bool {
	if c.Watch.Enabled == nil {
		return true
	}
	return *c.Watch.Enabled
}

// ResolvedPath returns the sheet path with ~ expanded.
func (s Sheet) ResolvedPath() string {
	return expandHome(s.Path)
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
