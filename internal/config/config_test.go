package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
catalog:
  page_size: 12
loader:
  timeout: 3s
  simulated_delay: 800ms
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Catalog.PageSize != 12 {
		t.Errorf("page_size = %d, want 12", cfg.Catalog.PageSize)
	}
	if cfg.Catalog.RelatedLimit != 3 {
		t.Errorf("related_limit default = %d, want 3", cfg.Catalog.RelatedLimit)
	}
	if cfg.Loader.Timeout != 3*time.Second || cfg.Loader.SimulatedDelay != 800*time.Millisecond {
		t.Errorf("unexpected loader config: %+v", cfg.Loader)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_envOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOTOBLOG_SERVER_PORT", "9191")
	t.Setenv("MOTOBLOG_STORAGE_BACKEND", "memory")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("port = %d, want env override 9191", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("backend = %q, want env override memory", cfg.Storage.Backend)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
content:
  dir: "./posts"
storage:
  database_path: "./data/db/motoblog.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "motoblog.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	wantContent := filepath.Join(dir, "posts")
	if cfg.Content.Dir != wantContent {
		t.Errorf("content dir = %s, want %s", cfg.Content.Dir, wantContent)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Catalog.PageSize != 9 {
		t.Errorf("default page size: got %d", cfg.Catalog.PageSize)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("default backend: got %s", cfg.Storage.Backend)
	}
	if cfg.Loader.Timeout != 10*time.Second {
		t.Errorf("default loader timeout: got %v", cfg.Loader.Timeout)
	}
	if cfg.Loader.SimulatedDelay != 0 {
		t.Errorf("simulated delay should stay zero by default: got %v", cfg.Loader.SimulatedDelay)
	}
	if len(cfg.Content.Extensions) != 7 || cfg.Content.Extensions[0] != ".md" {
		t.Errorf("content extensions: got %v", cfg.Content.Extensions)
	}
}

func TestContentConfig_WatchOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		c := &ContentConfig{}
		if got := c.WatchOrDefault(); !got {
			t.Errorf("WatchOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		c := &ContentConfig{Watch: &f}
		if got := c.WatchOrDefault(); got {
			t.Errorf("WatchOrDefault() = %v, want false", got)
		}
	})
}

func TestDefault(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir)
	if cfg.Content.Dir != filepath.Join(dir, "content") {
		t.Errorf("content dir = %s", cfg.Content.Dir)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090},
		Storage: StorageConfig{Backend: BackendMemory},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Storage.Backend != BackendMemory {
		t.Errorf("loaded backend: got %s", loaded.Storage.Backend)
	}
}
