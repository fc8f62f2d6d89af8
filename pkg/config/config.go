// Package config handles configuration: defaults, an optional YAML file, and
// environment overrides (a .env file is loaded by main before this runs).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete backend configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Gemini GeminiConfig `yaml:"gemini"`
	Cache  CacheConfig  `yaml:"cache"`
	Watch  WatchConfig  `yaml:"watch"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port string `yaml:"port"`
	// ProjectRoot is the source tree that definition lookups search.
	// Empty disables prompt enrichment.
	ProjectRoot string `yaml:"project_root"`
}

// GeminiConfig configures the completion model client.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
}

// CacheConfig configures the syntax tree cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// WatchConfig configures the file watcher that invalidates cached trees.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Debounce returns the watcher debounce window as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: "7524"},
		Cache:    CacheConfig{},
		Watch:    WatchConfig{DebounceMS: 500},
		LogLevel: "info",
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("PROJECT_ROOT"); v != "" {
		c.Server.ProjectRoot = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TREE_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.MaxEntries = n
		}
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
