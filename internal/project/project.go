// Package project manages the per-project koye.config.json created by
// `koye init` and updated when login changes the active user or plan.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the project config file written into the project root.
const ConfigFileName = "koye.config.json"

// Servers are the base URLs the CLI talks to.
type Servers struct {
	Start string `json:"start"`
	Main  string `json:"main"`
	Web   string `json:"web"`
}

// Config is the on-disk project configuration. The version field is
// informational and never checked.
type Config struct {
	Version     string            `json:"version"`
	ProjectName string            `json:"project_name"`
	ProjectID   string            `json:"project_id"`
	UserID      string            `json:"user_id"`
	Plan        string            `json:"plan"`
	Servers     Servers           `json:"servers"`
	Assets      map[string]string `json:"assets"`
	Features    map[string]bool   `json:"features"`
}

// Exists reports whether a project config is already present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Load reads the project config from dir.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	return &cfg, nil
}

// Save writes the project config into dir. Last write wins.
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", ConfigFileName, err)
	}
	return nil
}

// ScaffoldAssets creates the asset directories named by the config.
func (c *Config) ScaffoldAssets(dir string) error {
	for _, sub := range c.Assets {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return fmt.Errorf("create asset dir %s: %w", sub, err)
		}
	}
	return nil
}
