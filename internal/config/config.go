// Package config manages CLI configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the CLI configuration.
type Config struct {
	Author   string `mapstructure:"author"`
	Initials string `mapstructure:"initials"`
	LogLevel string `mapstructure:"log_level"`
	Output   struct {
		Color bool `mapstructure:"color"`
	} `mapstructure:"output"`
}

// Load reads the configuration from ~/.redline/config.yaml and environment
// variables. A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir())

	v.SetDefault("author", "Redline")
	v.SetDefault("initials", "RL")
	v.SetDefault("log_level", "info")
	v.SetDefault("output.color", true)

	v.SetEnvPrefix("REDLINE")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".redline"
	}
	return filepath.Join(home, ".redline")
}
