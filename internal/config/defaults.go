package config

import (
	"time"

	"github.com/hyperjump/motoblog/internal/models"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "https://motoblog.com"
	}
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "./content"
	}
	if cfg.Content.Extensions == nil {
		cfg.Content.Extensions = []string{".md", ".mdx", ".yaml", ".yml", ".xlsx", ".pdf", ".docx"}
	}
	if cfg.Catalog.PageSize == 0 {
		cfg.Catalog.PageSize = models.DefaultPageSize
	}
	if cfg.Catalog.RelatedLimit == 0 {
		cfg.Catalog.RelatedLimit = 3
	}
	if cfg.Catalog.SuggestLimit == 0 {
		cfg.Catalog.SuggestLimit = 5
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/motoblog.db"
	}
	if cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.Loader.Timeout == 0 {
		cfg.Loader.Timeout = 10 * time.Second
	}
}
