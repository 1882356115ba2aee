// Package config persists the manager's own settings — as opposed to
// shimconfig, which persists individual shim documents.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds shimexe's own settings, stored once per store directory.
type Config struct {
	Version                string `yaml:"version"`
	Quiet                  bool   `yaml:"quiet"`
	DefaultCheckIntervalHours uint64 `yaml:"default_check_interval_hours,omitempty"`

	mu sync.RWMutex
}

// Manager handles reading and writing the manager settings file.
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// NewManager creates a settings manager rooted at storeDir, where the
// settings file lives at <storeDir>/config.yaml.
func NewManager(storeDir string) *Manager {
	return &Manager{
		configPath: filepath.Join(storeDir, "config.yaml"),
	}
}

func defaultConfig() *Config {
	return &Config{
		Version:                   "1.0",
		Quiet:                     false,
		DefaultCheckIntervalHours: 24,
	}
}

// Load reads the settings file, returning defaults if it does not exist.
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = defaultConfig()
		return m.config, nil
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	m.config = &cfg
	return m.config, nil
}

// Save writes cfg to disk atomically (temp file + rename).
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmpPath := m.configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmpPath, m.configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config file: %w", err)
	}

	m.config = cfg
	return nil
}

// GetConfig returns the current settings, loading them if necessary.
func (m *Manager) GetConfig() (*Config, error) {
	return m.Load()
}
