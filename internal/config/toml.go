// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Profile ProfileConfig `toml:"profile"`
	Streak  StreakConfig  `toml:"streak"`
}

// ProfileConfig selects which persisted profile to operate on.
type ProfileConfig struct {
	Name *string `toml:"name"`
}

// StreakConfig maps streak and grace-day settings.
type StreakConfig struct {
	Enabled      *bool `toml:"enabled"`
	MaxPerWeek   *int  `toml:"max-per-week"`
	WeekendPause *bool `toml:"weekend-pause"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
