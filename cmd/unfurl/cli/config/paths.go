// Package config provides configuration management for the unfurl CLI.
package config

import (
	"os"
	"path/filepath"
)

// Dir returns the unfurl config directory.
// Uses XDG_CONFIG_HOME/unfurl, defaulting to ~/.config/unfurl.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "unfurl"), nil
}
