package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ideamap/ideamap/pkg/errors"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[store]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2

[expand]
base_url = "https://ideas.example.com"
api_key = "secret"

[serve]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store.Backend != "redis" {
		t.Errorf("backend = %q, want redis", cfg.Store.Backend)
	}
	if cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("redis_addr = %q", cfg.Store.RedisAddr)
	}
	if cfg.Store.RedisDB != 2 {
		t.Errorf("redis_db = %d, want 2", cfg.Store.RedisDB)
	}
	if cfg.Expand.BaseURL != "https://ideas.example.com" {
		t.Errorf("base_url = %q", cfg.Expand.BaseURL)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("serve addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Store.Backend != "" {
		t.Errorf("backend = %q, want empty", cfg.Store.Backend)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("store = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("err = %v, want INVALID_FORMAT", err)
	}
}
