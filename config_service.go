package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Config holds persistent user preferences.
// Stored as JSON at ~/.quicklaunch/config.json.
type Config struct {
	Hotkey          string `json:"hotkey"`             // launcher toggle combo, e.g. "ctrl+alt+a"
	ShowMainOnStart bool   `json:"show_main_on_start"` // false = start hidden in the tray
}

// defaultConfig returns factory defaults.
func defaultConfig() Config {
	return Config{Hotkey: defaultCombo}
}

// ConfigService loads and saves user configuration.
type ConfigService struct {
	path string
}

// NewConfigService creates a ConfigService pointing to the standard config path.
func NewConfigService() *ConfigService {
	home, _ := os.UserHomeDir()
	return &ConfigService{
		path: filepath.Join(home, ".quicklaunch", "config.json"),
	}
}

// newConfigServiceAt creates a ConfigService with a custom path (tests only).
func newConfigServiceAt(path string) *ConfigService {
	return &ConfigService{path: path}
}

// Path returns the config file location on disk.
func (c *ConfigService) Path() string {
	return c.path
}

// Load reads config from disk. Returns defaults if the file doesn't exist.
// If the file is corrupt it logs the error and writes fresh defaults.
func (c *ConfigService) Load() Config {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return defaultConfig()
	}
	if err != nil {
		log.Printf("config: read error: %v — using defaults", err)
		return defaultConfig()
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("config: parse error: %v — resetting to defaults", err)
		defaults := defaultConfig()
		_ = c.Save(defaults) // overwrite corrupt file
		return defaults
	}
	if cfg.Hotkey == "" {
		cfg.Hotkey = defaultConfig().Hotkey
	}
	return cfg
}

// Save writes the config to disk atomically (write to temp, then rename).
func (c *ConfigService) Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
