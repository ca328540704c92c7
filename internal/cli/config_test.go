package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/fonts"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate points config lookups at empty directories.
func isolate(t *testing.T) string {
	t.Helper()
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Chdir(t.TempDir())
	return cfgHome
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Layout.MarginX != 30 || cfg.Layout.MarginY != 30 || cfg.Layout.RankDir != "TB" {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if q := cfg.Font.Query(); q != (fonts.Query{Family: "Go", Style: "Regular", Weight: 400}) {
		t.Errorf("Font = %+v", q)
	}
	if cfg.Cache.TTLDuration() != 24*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTLDuration())
	}
}

func TestLoadConfigMissing(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	_, err = LoadConfig("nope.toml")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file err = %v", err)
	}
}

func TestLoadConfigWorkingDir(t *testing.T) {
	isolate(t)
	writeFile(t, configFile, `
[layout]
margin_x = 12
rank_dir = "LR"

[font]
family = "Osaka"
dirs = ["./fonts"]

[cache]
ttl = "2h"
`)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Layout.MarginX != 12 || cfg.Layout.RankDir != "LR" {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	// unset keys keep their defaults
	if cfg.Layout.MarginY != 30 || cfg.Font.Style != "Regular" || cfg.Font.Weight != 400 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Font.Family != "Osaka" || len(cfg.Font.Dirs) != 1 {
		t.Errorf("Font = %+v", cfg.Font)
	}
	if cfg.Cache.TTLDuration() != 2*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTLDuration())
	}
}

func TestLoadConfigUserDir(t *testing.T) {
	cfgHome := isolate(t)
	writeFile(t, filepath.Join(cfgHome, appName, "config.toml"), "[serve]\naddr = \":9090\"\n")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[layout\n"},
		{"unknown key", "[layout]\nmargin = 3\n"},
		{"rank dir", "[layout]\nrank_dir = \"XY\"\n"},
		{"negative margin", "[layout]\nmargin_y = -1\n"},
		{"ttl", "[cache]\nttl = \"soon\"\n"},
		{"max body", "[serve]\nmax_body = 0\n"},
		{"weight", "[font]\nweight = -400\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), "config.toml"), tt.content)
			_, err := LoadConfig(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestTTLDurationFallback(t *testing.T) {
	for _, ttl := range []string{"", "soon", "-1h"} {
		if got := (CacheConfig{TTL: ttl}).TTLDuration(); got != fonts.DefaultIndexTTL {
			t.Errorf("TTLDuration(%q) = %v", ttl, got)
		}
	}
}
