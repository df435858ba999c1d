// Package config provides configuration loading and structs for the motoblog server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. MOTOBLOG_SERVER_PORT.
const EnvPrefix = "MOTOBLOG"

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug" mapstructure:"debug"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Content ContentConfig `yaml:"content" mapstructure:"content"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Loader  LoaderConfig  `yaml:"loader" mapstructure:"loader"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ContentConfig holds the content directory and watch settings.
type ContentConfig struct {
	Dir        string   `yaml:"dir" mapstructure:"dir"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
	Watch      *bool    `yaml:"watch" mapstructure:"watch"`
}

// WatchOrDefault returns whether to watch the content directory; defaults to true when unset.
func (c *ContentConfig) WatchOrDefault() bool {
	if c.Watch != nil {
		return *c.Watch
	}
	return true
}

// CatalogConfig holds listing and ranking settings.
type CatalogConfig struct {
	PageSize     int `yaml:"page_size" mapstructure:"page_size"`
	RelatedLimit int `yaml:"related_limit" mapstructure:"related_limit"`
	SuggestLimit int `yaml:"suggest_limit" mapstructure:"suggest_limit"`
}

// StorageConfig selects and configures the recent-search store.
type StorageConfig struct {
	Backend      string      `yaml:"backend" mapstructure:"backend"`
	DatabasePath string      `yaml:"database_path" mapstructure:"database_path"`
	Redis        RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// LoaderConfig holds incremental loading settings.
type LoaderConfig struct {
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	SimulatedDelay time.Duration `yaml:"simulated_delay" mapstructure:"simulated_delay"`
}

// envKeys are the settings that can be overridden from the environment even when
// the config file does not mention them.
var envKeys = []string{
	"debug",
	"server.host", "server.port", "server.base_url",
	"content.dir",
	"storage.backend", "storage.database_path",
	"storage.redis.addr", "storage.redis.password", "storage.redis.db",
}

// Load reads and parses the config file at path, applies environment overrides
// and defaults, and expands paths. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	expandPaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// Default returns the default configuration with paths relative to baseDir.
func Default(baseDir string) *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	expandPaths(cfg, baseDir)
	return cfg
}

// Save writes the config to path. Used by "motoblog init".
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func expandPaths(cfg *Config, configDir string) {
	cfg.Content.Dir = expandPath(cfg.Content.Dir, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// "~/" and other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}
