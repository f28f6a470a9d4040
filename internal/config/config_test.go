package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: "test-secret"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want default 8080", cfg.Server.Port)
	}
	if cfg.Database.DBName != "campuslink" {
		t.Errorf("Database.DBName = %q, want default campuslink", cfg.Database.DBName)
	}
	if cfg.JWT.AccessTokenExpiration != "1h" {
		t.Errorf("JWT.AccessTokenExpiration = %q, want default 1h", cfg.JWT.AccessTokenExpiration)
	}
	if cfg.Redis.MembershipTTL != "5m" {
		t.Errorf("Redis.MembershipTTL = %q, want default 5m", cfg.Redis.MembershipTTL)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
  mode: "production"
jwt:
  secret: "test-secret"
redis:
  addr: "redis:6379"
  membership_ttl: "30s"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Mode != "production" {
		t.Errorf("Server.Mode = %q, want production", cfg.Server.Mode)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %q, want redis:6379", cfg.Redis.Addr)
	}
	if cfg.Redis.MembershipTTL != "30s" {
		t.Errorf("Redis.MembershipTTL = %q, want 30s", cfg.Redis.MembershipTTL)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
jwt:
  secret: "file-secret"
`)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want env override 7070", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env override", cfg.JWT.Secret)
	}
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "8080"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() without a JWT secret succeeded")
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: "test-secret"
  access_token_expiration: "not-a-duration"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() with a malformed duration succeeded")
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5433"
	cfg.Database.DBName = "campuslink"

	want := "postgres://app:pw@db:5433/campuslink?sslmode=disable"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("GetPostgresConnectionString() = %q, want %q", got, want)
	}
}
