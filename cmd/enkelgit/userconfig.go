package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/enkelgit/pkg/repo"
)

// userConfig holds per-user CLI preferences, read from an optional TOML
// file at ~/.config/enkelgit/config.toml.
type userConfig struct {
	Init struct {
		DefaultBranch string `toml:"default-branch"`
	} `toml:"init"`
}

// loadUserConfig reads the preferences file. A missing or unreadable file
// yields the defaults.
func loadUserConfig() userConfig {
	var cfg userConfig
	cfg.Init.DefaultBranch = repo.DefaultBranch

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".config", "enkelgit", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("ignoring malformed user config")
		return cfg
	}
	if cfg.Init.DefaultBranch == "" {
		cfg.Init.DefaultBranch = repo.DefaultBranch
	}
	return cfg
}
