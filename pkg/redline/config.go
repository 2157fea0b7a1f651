package redline

import (
	"errors"
	"os"
	"sync"
)

// Config contains all configuration options for the redline engine
type Config struct {
	// DefaultAuthor is used for comments and tracked changes when the caller
	// does not supply an author name.
	DefaultAuthor string
	// DefaultInitials is used for comments when the caller does not supply initials.
	DefaultInitials string
	// LogLevel controls the verbosity of logging (debug, info, warn, error)
	LogLevel string
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	// Initialize global config from environment on first use
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultAuthor:   "Redline",
		DefaultInitials: "RL",
		LogLevel:        "info",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// REDLINE_AUTHOR
	if val := os.Getenv("REDLINE_AUTHOR"); val != "" {
		config.DefaultAuthor = val
	}

	// REDLINE_INITIALS
	if val := os.Getenv("REDLINE_INITIALS"); val != "" {
		config.DefaultInitials = val
	}

	// REDLINE_LOG_LEVEL
	if val := os.Getenv("REDLINE_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DefaultAuthor == "" {
		return errors.New("default author cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}
