// Package cli implements the md2ifdam command-line interface.
//
// # Commands
//
//   - render: compile an IFDAM markdown file to SVG, PNG, PDF or JSON
//   - fonts: list the font faces the renderer can resolve
//   - serve: run the HTTP render service
//   - cache: manage the local artifact and font index cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Settings are read from a TOML file (see [Config]) and overridden by
// command flags. All commands support --verbose (-v) for debug logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/md2ifdam/pkg/buildinfo"
	"github.com/matzehuels/md2ifdam/pkg/cache"
	"github.com/matzehuels/md2ifdam/pkg/fonts"
	"github.com/matzehuels/md2ifdam/pkg/layout"
	"github.com/matzehuels/md2ifdam/pkg/pipeline"
	"github.com/matzehuels/md2ifdam/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "md2ifdam"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "md2ifdam draws IFDAM screen-flow diagrams from markdown",
		Long:         `md2ifdam compiles markdown documents whose headings declare screens and operations and whose links declare transitions into SVG diagrams laid out with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./md2ifdam.toml, then $XDG_CONFIG_HOME/md2ifdam/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner whose render session resolves fonts
// against the local font index and the configured base font.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := c.loadCatalog(ctx, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	runner := pipeline.NewRunner(store, c.Logger,
		render.WithFonts(fonts.NewLoader(catalog, c.Logger)),
		render.WithBaseFont(c.Config.Font.Query()),
		render.WithLayouter(layout.NewGraphviz(c.Logger)),
	)
	runner.TTL = c.Config.Cache.TTLDuration()
	return runner, nil
}

// loadCatalog returns the local font catalog, reusing the cached index.
func (c *CLI) loadCatalog(ctx context.Context, store cache.Cache) (*fonts.Catalog, error) {
	index := fonts.NewIndexStore(cache.NewScopedCache(store, "fonts:"), c.Config.Cache.TTLDuration(), c.Logger)
	catalog, err := index.Load(ctx, c.Config.Font.Dirs...)
	if err != nil {
		return nil, fmt.Errorf("load font index: %w", err)
	}
	c.Logger.Debug("font catalog ready", "faces", catalog.Len())
	return catalog, nil
}

// newCache returns the configured cache backend: none when disabled, redis
// when a URL is set, the local cache directory otherwise.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.Config.Cache
	switch {
	case cfg.Disabled:
		return cache.NewNullCache("caching disabled"), nil
	case cfg.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching off", "error", err)
		return cache.NewNullCache("no cache directory"), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/md2ifdam/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/md2ifdam/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
