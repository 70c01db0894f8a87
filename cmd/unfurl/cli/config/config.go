package config

import "github.com/spf13/viper"

// Config represents the unfurl CLI configuration.
// Use mapstructure tags for Viper unmarshaling.
type Config struct {
	Extract ExtractConfig `mapstructure:"extract"`
}

// ExtractConfig holds extraction defaults; flags override these.
type ExtractConfig struct {
	// BufferSize is a humanized byte size such as "256KiB".
	BufferSize string `mapstructure:"buffer_size"`
	// Concurrency bounds in-flight file writes; 0 means GOMAXPROCS.
	Concurrency int `mapstructure:"concurrency"`
}

// Load unmarshals the effective viper settings.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
