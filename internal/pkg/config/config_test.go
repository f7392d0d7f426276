package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 60},
		Directory: DirectoryConfig{Source: SourceFile, Path: "data/vietnam_locations.json", FallbackCity: "TP. Hồ Chí Minh"},
		Overpass:  OverpassConfig{URL: "https://overpass-api.de/api/interpreter", Timeout: 35, QueryTimeout: 25, RateLimit: 1},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("hotelfinder-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Directory.FallbackCity != "TP. Hồ Chí Minh" {
		t.Errorf("unexpected fallback city %q", cfg.Directory.FallbackCity)
	}
	if cfg.Overpass.QueryTimeout != 25 {
		t.Errorf("expected query timeout 25, got %d", cfg.Overpass.QueryTimeout)
	}
	if cfg.Telemetry.ServiceName != "hotelfinder-test" {
		t.Errorf("unexpected service name %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOTELFINDER_OVERPASS_URL", "http://overpass.local/api/interpreter")
	t.Setenv("HOTELFINDER_SERVER_PORT", "9090")

	cfg, err := Load("hotelfinder-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Overpass.URL != "http://overpass.local/api/interpreter" {
		t.Errorf("env override not applied: %q", cfg.Overpass.URL)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Overpass.URL = ""
	cfg.Directory.Source = "s3"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "overpass.url", "directory.source"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got: %v", want, err)
		}
	}
}

func TestValidate_SourceRequirements(t *testing.T) {
	cfg := validConfig()
	cfg.Directory.Source = SourceHTTP
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "directory.url") {
		t.Errorf("expected directory.url error, got %v", err)
	}

	cfg = validConfig()
	cfg.Directory.Source = SourcePostgres
	cfg.Database = DatabaseConfig{Host: "localhost", Port: 5432, User: "hotelfinder", DBName: "hotelfinder"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "hf", SSLMode: "disable"}
	if got := d.DSN(); got != "postgres://u:p@db:5432/hf?sslmode=disable" {
		t.Errorf("unexpected dsn %q", got)
	}
}
