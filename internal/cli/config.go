package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ideamap/ideamap/pkg/errors"
)

// Config is the TOML configuration file shape.
//
// Example (~/.config/ideamap/config.toml):
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[expand]
//	base_url = "https://ideas.example.com"
//	api_key = "secret"
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Expand ExpandConfig `toml:"expand"`
	Serve  ServeConfig  `toml:"serve"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Backend is one of "file" (default), "memory", "redis", "mongo".
	Backend string `toml:"backend"`
	// Dir is the file backend's directory. Empty uses
	// ~/.config/ideamap/maps/.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ExpandConfig configures the idea-expansion backend.
type ExpandConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfigPath returns the config file location using XDG
// conventions (~/.config/ideamap/config.toml).
func DefaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appName+".toml")
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// LoadConfig reads the config file at path. A missing file is not an
// error; it yields the zero config with all defaults applied downstream.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, nil
}
