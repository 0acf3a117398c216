package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mlviz/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mlviz.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadExplicit(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
session_ttl = "30m"

[catalogue]
source = "file"
path = "methods.yaml"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.SessionTTL.Duration != 30*time.Minute {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Catalogue.Source != SourceFile || cfg.Catalogue.Path != "methods.yaml" {
		t.Errorf("catalogue = %+v", cfg.Catalogue)
	}
	// Unset keys keep their defaults.
	if cfg.Catalogue.Collection != "methods" || cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("defaults lost: %+v %+v", cfg.Catalogue, cfg.Cache)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadEnv(t *testing.T) {
	path := writeConfig(t, "[server]\naddr = \":7000\"\n")
	t.Setenv(EnvVar, path)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, want :7000", cfg.Server.Addr)
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != "" || cfg.Catalogue.Source != SourceEmbedded {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "[server\naddr = 1"},
		{"unknown key", "[server]\nport = 8080\n"},
		{"bad duration", "[server]\nsession_ttl = \"soon\"\n"},
		{"unknown source", "[catalogue]\nsource = \"postgres\"\n"},
		{"file without path", "[catalogue]\nsource = \"file\"\n"},
		{"mongo without uri", "[catalogue]\nsource = \"mongo\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n"},
		{"zero session ttl", "[server]\nsession_ttl = \"0s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load error = %v, want INVALID_CONFIG", err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing explicit file error = %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ":1234"
	cfg.Cache.TTL = Duration{90 * time.Second}
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server.Addr != ":1234" || got.Cache.TTL.Duration != 90*time.Second {
		t.Errorf("round trip lost values: %+v", got)
	}
}
