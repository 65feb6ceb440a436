// Package config loads netlinectl's on-disk defaults: connection timeout,
// default username, and alternate DNS servers for sweep.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/alexpitcher/netline/internal/logging"
)

const (
	DefaultConfigDir = ".netlinectl"
	ConfigFile       = "config.json"
)

// Config holds netlinectl's persisted defaults.
type Config struct {
	DefaultUsername  string   `json:"default_username"`
	TimeoutMS        int      `json:"timeout_ms"`
	DNSServers       []string `json:"dns_servers"`
	RedactTranscript bool     `json:"redact_transcript"`
}

// Timeout returns TimeoutMS as a time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// GetConfigPath returns the full path to netlinectl's config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir, ConfigFile), nil
}

// Load reads the config file, returning Default() if it doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		logging.Errorf("config: failed to resolve path: %v", err)
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.Debugf("config: missing at %s, using defaults", path)
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logging.Errorf("config: read error: %v", err)
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		logging.Errorf("config: parse error: %v", err)
		return nil, err
	}
	logging.Infof("config: loaded from %s", path)
	return cfg, nil
}

// Save writes cfg to the config file, creating its directory if needed.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	logging.Infof("config: writing to %s", path)
	return os.WriteFile(path, data, 0644)
}

// Default returns netlinectl's built-in defaults.
func Default() *Config {
	return &Config{
		TimeoutMS:  15000,
		DNSServers: []string{"1.1.1.1", "8.8.8.8"},
	}
}
