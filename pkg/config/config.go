// Package config loads mlviz settings from TOML.
//
// Lookup order: the file named by $MLVIZ_CONFIG, then ./mlviz.toml, then
// $XDG_CONFIG_HOME/mlviz/config.toml (~/.config when unset). When none exists
// the defaults apply. An explicit path passed to [Load] takes precedence over
// all of them and must exist.
//
// Example file:
//
//	[server]
//	addr = ":8080"
//	session_ttl = "2h"
//
//	[catalogue]
//	source = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mlviz/pkg/errors"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "MLVIZ_CONFIG"

// Catalogue sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceMongo    = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config holds mlviz configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Catalogue CatalogueConfig `toml:"catalogue"`
	Cache     CacheConfig     `toml:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// ServerConfig controls the dashboard server.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// CatalogueConfig selects where method records come from.
type CatalogueConfig struct {
	Source     string `toml:"source"` // "embedded", "file", "mongo"
	Path       string `toml:"path"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "none", "file", "redis"
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct {
	time.Duration
}

// UnmarshalText parses strings such as "90s" or "2h".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       "127.0.0.1:8080",
			SessionTTL: Duration{2 * time.Hour},
		},
		Catalogue: CatalogueConfig{
			Source:     SourceEmbedded,
			Database:   "mlviz",
			Collection: "methods",
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			Dir:     filepath.Join(CacheDir(), "artifacts"),
			TTL:     Duration{24 * time.Hour},
		},
	}
}

// ConfigDir returns the mlviz config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mlviz")
}

// CacheDir returns the mlviz cache directory path.
func CacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "mlviz")
}

// candidates lists implicit config locations in lookup order.
func candidates() []string {
	var paths []string
	if p := os.Getenv(EnvVar); p != "" {
		paths = append(paths, p)
	}
	return append(paths, "mlviz.toml", filepath.Join(ConfigDir(), "config.toml"))
}

// Load reads explicit, or the first implicit location that exists, over the
// defaults and validates the result.
func Load(explicit string) (*Config, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		for _, p := range candidates() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML into cfg and rejects unknown keys.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0].String())
	}
	return nil
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.session_ttl must be positive")
	}

	switch c.Catalogue.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Catalogue.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "catalogue.path is required for the file source")
		}
	case SourceMongo:
		if c.Catalogue.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "catalogue.mongo_uri is required for the mongo source")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown catalogue.source %q", c.Catalogue.Source)
	}

	switch c.Cache.Backend {
	case CacheNone:
	case CacheFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
