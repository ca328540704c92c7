package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/fonts"
)

// configFile is looked up in the working directory before the user config
// directory.
const configFile = appName + ".toml"

// Config is the md2ifdam configuration file:
//
//	[layout]
//	margin_x = 30
//	rank_dir = "LR"
//
//	[font]
//	family = "Go"
//	dirs = ["./fonts"]
//
//	[cache]
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	Layout diagram.Config `toml:"layout"`
	Font   FontConfig     `toml:"font"`
	Cache  CacheConfig    `toml:"cache"`
	Serve  ServeConfig    `toml:"serve"`
}

// FontConfig selects the base font and extra font directories.
type FontConfig struct {
	Family string   `toml:"family"`
	Style  string   `toml:"style"`
	Weight int      `toml:"weight"`
	Dirs   []string `toml:"dirs"`
}

// Query returns the base font query.
func (f FontConfig) Query() fonts.Query {
	return fonts.Query{Family: f.Family, Style: f.Style, Weight: f.Weight}
}

// CacheConfig controls the artifact and font index cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	TTL      string `toml:"ttl"`
	RedisURL string `toml:"redis_url"`
}

// TTLDuration returns the parsed TTL, or the font index default when the
// value is empty or invalid.
func (c CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return fonts.DefaultIndexTTL
	}
	return d
}

// ServeConfig configures the HTTP render service.
type ServeConfig struct {
	Addr    string `toml:"addr"`
	MaxBody int64  `toml:"max_body"`
}

// DefaultConfig returns the built-in configuration. The base font is the
// embedded Go Regular face, so rendering works without any local fonts.
func DefaultConfig() Config {
	return Config{
		Layout: diagram.DefaultConfig(),
		Font:   FontConfig{Family: "Go", Style: "Regular", Weight: 400},
		Cache:  CacheConfig{TTL: "24h"},
		Serve:  ServeConfig{Addr: ":8080", MaxBody: 1 << 20},
	}
}

// Validate reports an INVALID_CONFIG error for unusable values.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	if c.Font.Weight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font weight must not be negative (got %d)", c.Font.Weight)
	}
	if c.Cache.TTL != "" {
		if d, err := time.ParseDuration(c.Cache.TTL); err != nil || d < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid cache ttl %q", c.Cache.TTL)
		}
	}
	if c.Serve.MaxBody <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "serve max_body must be positive (got %d)", c.Serve.MaxBody)
	}
	return nil
}

// LoadConfig reads the configuration from path over the defaults. With an
// empty path it tries ./md2ifdam.toml and then the user config directory;
// finding neither yields the defaults. An explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config not found: %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %v", path, keys)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func findConfig() string {
	candidates := []string{configFile}
	if dir, err := configDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
