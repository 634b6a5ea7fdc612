package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: 8443
database:
  driver: postgres
  host: db.local
  port: 5432
  user: locator
  password: file-secret
  dbname: locator
  sslmode: disable
push:
  provider: fcm
  timeout_seconds: 5
  stale_after_seconds: 600
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8443 {
		t.Errorf("server config = %+v", cfg.Server)
	}
	if cfg.Push.Provider != "fcm" || cfg.Push.TimeoutSeconds != 5 {
		t.Errorf("push config = %+v", cfg.Push)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverridesPassword(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "env-secret")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Password != "env-secret" {
		t.Errorf("password = %q, want env override", cfg.Database.Password)
	}
}

func TestDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := "host=db.local port=5432 user=locator password=file-secret dbname=locator sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
