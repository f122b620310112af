package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if len(cfg.Vendors.List) != 2 {
		t.Fatalf("expected default vendor pair, got %d", len(cfg.Vendors.List))
	}
	if cfg.Token.TTL.Std() != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.Token.TTL.Std())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: ":9090"
authority:
  dsn: "postgres://localhost/auth"
  timeout: 3s
token:
  secret: "file-secret"
  ttl: 1h
state_dir: "/var/lib/smartshop"
vendors:
  timeout: 2s
  list:
    - name: "coles"
      base_url: "https://coles.example/search/"
      api_key: "abc"
      host: "coles.example"
      page_size: 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.Authority.Timeout.Std() != 3*time.Second {
		t.Fatalf("unexpected authority timeout: %v", cfg.Authority.Timeout.Std())
	}
	if cfg.Token.Secret != "file-secret" || cfg.Token.TTL.Std() != time.Hour {
		t.Fatalf("token config not loaded: %+v", cfg.Token)
	}
	if len(cfg.Vendors.List) != 1 || cfg.Vendors.List[0].PageSize != 10 {
		t.Fatalf("vendor list not loaded: %+v", cfg.Vendors.List)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvAuthSecret, "env-secret")
	t.Setenv(EnvTokenTTL, "30m")
	t.Setenv(EnvRapidAPIKey, "env-rapid-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("env addr not applied: %s", cfg.Addr)
	}
	if cfg.Token.Secret != "env-secret" {
		t.Fatalf("env secret not applied")
	}
	if cfg.Token.TTL.Std() != 30*time.Minute {
		t.Fatalf("env ttl not applied: %v", cfg.Token.TTL.Std())
	}
	for _, v := range cfg.Vendors.List {
		if v.APIKey != "env-rapid-key" {
			t.Fatalf("rapidapi key not applied to vendor %s", v.Name)
		}
	}
}

func TestBadDurationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("token:\n  ttl: banana\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}
