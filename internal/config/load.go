package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configs that decode but cannot describe a scene.
var ErrInvalid = errors.New("config: invalid")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the viewer cannot run without.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	seen := make(map[string]bool, len(c.Scene.Floors))
	for i, f := range c.Scene.Floors {
		if f.Name == "" || f.Model == "" {
			return fmt.Errorf("%w: floor %d needs a name and a model", ErrInvalid, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate floor %q", ErrInvalid, f.Name)
		}
		seen[f.Name] = true
	}
	if len(c.Scene.Camera.Presets) == 0 {
		return fmt.Errorf("%w: no camera presets", ErrInvalid)
	}
	if c.Scene.Animation.FadeOpacity < 0 || c.Scene.Animation.FadeOpacity > 1 {
		return fmt.Errorf("%w: fade_opacity %g outside [0, 1]", ErrInvalid, c.Scene.Animation.FadeOpacity)
	}
	return nil
}

// ModelPath resolves a model file against the model directory.
func (c *Config) ModelPath(model string) string {
	if filepath.IsAbs(model) || c.Scene.ModelDir == "" {
		return filepath.Clean(model)
	}
	return filepath.Join(c.Scene.ModelDir, model)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Floorview")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Floorview")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "floorview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "floorview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
