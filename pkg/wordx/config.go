package wordx

import (
	"os"
	"sync"
)

// Config contains the package-wide options.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn,
	// error, off).
	LogLevel string
	// StrictMode turns the recoverable failure modes (dropped images,
	// styles synthesized for missing references) into hard errors.
	StrictMode bool
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "warn",
		StrictMode: false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("WORDX_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}
	if val := os.Getenv("WORDX_STRICT_MODE"); val != "" {
		config.StrictMode = val == "1" || val == "true" || val == "on"
	}

	return config
}

// GetGlobalConfig returns the current package-wide configuration.
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()
	return globalConfig
}

// SetGlobalConfig replaces the package-wide configuration.
func SetGlobalConfig(config *Config) {
	configOnce.Do(func() {})
	globalConfigMutex.Lock()
	defer globalConfigMutex.Unlock()
	globalConfig = config
}
