// Package cli implements the ideamap command-line interface.
//
// This package provides commands for serving the editor's HTTP API,
// exporting stored maps to shareable formats, expanding a node into
// related ideas, and managing stored documents. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the HTTP API backed by the configured store
//   - export: Render a stored map as markdown, dot, svg, or png
//   - expand: Fetch related ideas for a node and fan them onto the map
//   - docs: List and delete stored maps
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ideamap/ideamap/pkg/buildinfo"
	"github.com/ideamap/ideamap/pkg/errors"
	"github.com/ideamap/ideamap/pkg/expand"
	"github.com/ideamap/ideamap/pkg/httputil"
	"github.com/ideamap/ideamap/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "ideamap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the config
// loaded from the default path (missing config falls back to defaults).
func New(w io.Writer, level log.Level) *CLI {
	cfg, _ := LoadConfig(DefaultConfigPath())
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Ideamap edits and shares mind maps",
		Long:         `Ideamap is the toolbox around a mind-map editing core: it serves the editor's HTTP API, exports stored maps to markdown and images, and grows maps by expanding a node into related ideas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// openStore creates the configured document store backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	switch c.Config.Store.Backend {
	case "", "file":
		return store.NewFileStore(c.Config.Store.Dir)
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     c.Config.Store.RedisAddr,
			Password: c.Config.Store.RedisPassword,
			DB:       c.Config.Store.RedisDB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      c.Config.Store.MongoURI,
			Database: c.Config.Store.MongoDatabase,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Config.Store.Backend)
	}
}

// newExpandClient creates the idea-expansion client, or an error when no
// backend is configured.
func (c *CLI) newExpandClient(noCache bool) (*expand.Client, error) {
	if c.Config.Expand.BaseURL == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no expansion backend configured; set expand.base_url in %s", DefaultConfigPath())
	}
	var respCache *httputil.Cache
	if !noCache {
		respCache, _ = httputil.NewCache(cacheDir(), 24*time.Hour)
	}
	return expand.NewClient(expand.Config{
		BaseURL: c.Config.Expand.BaseURL,
		APIKey:  c.Config.Expand.APIKey,
	}, respCache), nil
}

// cacheDir returns the cache directory using XDG conventions
// (~/.cache/ideamap/). An empty string lets the cache pick its own
// default.
func cacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}
