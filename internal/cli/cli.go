// Package cli implements the simcluster command-line interface.
//
// The root command synthesizes one frame and writes it as FITS:
//
//	simcluster -s 2000 -x 256 -y 256 --seed 42 --preview cluster.fits
//
// # Commands
//
//   - simcluster <file>: synthesize a frame (the root command)
//   - cache clear: remove cached frames
//   - cache path: print the cache directory
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and handed to the pipeline runner.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/simcluster/pkg/buildinfo"
	"github.com/matzehuels/simcluster/pkg/cache"
	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/observability"
	"github.com/matzehuels/simcluster/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = buildinfo.Name

	// redisKeyPrefix scopes keys in a shared Redis instance.
	redisKeyPrefix = appName + ":"
)

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

	// Out receives user-facing results; logs and the spinner go to the
	// writer passed to New.
	Out io.Writer

	status      *statusWriter
	interactive bool
}

// New creates a new CLI instance logging to w. A spinner is shown while
// synthesizing when w is a terminal.
func New(w io.Writer, level log.Level) *CLI {
	status := &statusWriter{w: w}
	return &CLI{
		Logger:      newLogger(status, level),
		Out:         os.Stdout,
		status:      status,
		interactive: isTerminal(w),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level == LogDebug {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.generateCommand()
	root.Version = buildinfo.Resolved()
	root.SetVersionTemplate(buildinfo.Template())
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache backends that
// cannot be reached degrade to no caching.
func (c *CLI) newRunner(ctx context.Context, enabled bool, url string) *pipeline.Runner {
	if !enabled {
		return pipeline.NewRunner(nil, nil, c.Logger)
	}
	store, keyer, err := openCache(ctx, url)
	if err != nil {
		c.Logger.Warn("cache disabled", "code", errors.GetCode(err), "error", err)
		return pipeline.NewRunner(nil, nil, c.Logger)
	}
	return pipeline.NewRunner(store, keyer, c.Logger)
}

// openCache opens the Redis backend when url is set and the file cache
// otherwise.
func openCache(ctx context.Context, url string) (cache.Cache, cache.Keyer, error) {
	if url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if stderrors.Is(err, cache.ErrNetwork) {
			return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", url)
		}
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "redis url %q", url)
		}
		return rc, cache.NewScopedKeyer(nil, redisKeyPrefix), nil
	}
	fc, err := newFileCache()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeIO, err, "open file cache")
	}
	return fc, nil, nil
}

func newFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/simcluster/).
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

// previewPath derives the PNG path written next to a FITS file.
func previewPath(fitsPath string) string {
	return fitsPath[:len(fitsPath)-len(filepath.Ext(fitsPath))] + ".png"
}
