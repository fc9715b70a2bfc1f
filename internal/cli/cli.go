// Package cli implements the circlepack command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/buildinfo"
	"github.com/matzehuels/circlepack/pkg/cache"
	"github.com/matzehuels/circlepack/pkg/config"
	"github.com/matzehuels/circlepack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// redisKeyPrefix scopes circlepack keys in a shared Redis database.
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

	// Config is loaded before any command runs. Commands fall back to
	// config.Default() when it is nil.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Circlepack packs circles into rectangles",
		Long:         `Circlepack packs circles of given radii into the smallest rectangle of a given aspect ratio it can find, and lays out card galleries and keyword bubble charts on top of the packer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/circlepack/config.toml)")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.cardsCommand())
	root.AddCommand(c.keywordsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFromFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.LogLevel())
	c.Logger.Debug("loaded config", "backend", cfg.Cache.Backend)
	return nil
}

func (c *CLI) settings() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.settings()
	backend := cfg.Cache.Backend
	if noCache {
		backend = config.BackendNone
	}
	cc, err := newCache(ctx, backend, cfg.Cache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache.WithHooks(cc), nil, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

// newCache opens the named backend.
func newCache(ctx context.Context, backend string, cfg config.CacheConfig) (cache.Cache, error) {
	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendFile:
		return cache.NewFileCache(cfg.Dir)
	case config.BackendRedis:
		return newRedisCache(ctx, cfg)
	case config.BackendMongo:
		return newMongoCache(ctx, cfg)
	case config.BackendTiered:
		front, err := newRedisCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		back, err := newMongoCache(ctx, cfg)
		if err != nil {
			_ = front.Close()
			return nil, err
		}
		return cache.NewTieredCache(front, back), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

func newRedisCache(ctx context.Context, cfg config.CacheConfig) (*cache.RedisCache, error) {
	return cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   redisKeyPrefix,
	})
}

func newMongoCache(ctx context.Context, cfg config.CacheConfig) (*cache.MongoCache, error) {
	return cache.NewMongoCache(ctx, cache.MongoOptions{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
}

// =============================================================================
// Options Helpers
// =============================================================================

// packOptions returns pipeline options seeded from the config file.
func (c *CLI) packOptions() pipeline.Options {
	cfg := c.settings()
	return pipeline.Options{
		Ratio:  cfg.Pack.Ratio,
		Seed:   cfg.Pack.Seed,
		Logger: c.Logger,
	}
}
