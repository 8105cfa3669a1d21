package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the dedicated configuration file discovered upward from the target
const ConfigFileName = ".libfinder.toml"

// TomlConfigLoader handles loading configuration from .libfinder.toml files
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads .libfinder.toml found walking up from startDir,
// or returns defaults if none exists.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*MatchConfig, error) {
	configPath := l.FindConfigFile(startDir)
	if configPath == "" {
		return DefaultMatchConfig(), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile parses a TOML file on top of the defaults.
// Keys absent from the file keep their default values.
func (l *TomlConfigLoader) LoadFile(configPath string) (*MatchConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read %s", configPath), err)
	}

	cfg := DefaultMatchConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to parse %s", configPath), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile walks up the directory tree to find .libfinder.toml.
// startDir may also name a file, in which case the search starts at its directory.
func (l *TomlConfigLoader) FindConfigFile(startDir string) string {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return ""
}
