// Package config loads wirecat configuration from a TOML file.
//
// The config file lives at $XDG_CONFIG_HOME/wirecat/config.toml (falling
// back to ~/.config/wirecat/config.toml). Missing files are not an error;
// defaults apply.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds wirecat configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig controls diagram rendering defaults.
type RenderConfig struct {
	Format     string  `toml:"format"`      // "svg", "pdf", "png", "dot"
	ShowValues bool    `toml:"show_values"` // label wires with their value tags
	Scale      float64 `toml:"scale"`       // PNG raster scale factor
}

// CacheConfig controls render cache backend selection.
type CacheConfig struct {
	Backend string `toml:"backend"` // "file", "memory", "redis", "none"
	Dir     string `toml:"dir"`     // file backend directory, empty for default
	Size    int    `toml:"size"`    // memory backend max entries

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig holds redis connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr  string      `toml:"addr"`
	Store StoreConfig `toml:"store"`
}

// StoreConfig controls diagram storage backend selection.
type StoreConfig struct {
	Backend  string `toml:"backend"` // "memory", "mongo"
	MongoURI string `toml:"mongo_uri"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Format: "svg", ShowValues: true, Scale: 2.0},
		Cache:  CacheConfig{Backend: "file", Size: 256},
		Server: ServerConfig{
			Addr:  ":8080",
			Store: StoreConfig{Backend: "memory", MongoURI: "mongodb://localhost:27017"},
		},
	}
}

// ConfigDir returns the wirecat config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wirecat")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, applying defaults for anything unset.
func Load() *Config {
	return loadFrom(configPath())
}

func loadFrom(path string) *Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = toml.Unmarshal(data, cfg)
	return cfg
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
