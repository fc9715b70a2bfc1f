// Package config provides TOML-based configuration for circlepack.
//
// Configuration is read from $XDG_CONFIG_HOME/circlepack/config.toml, falling
// back to ~/.config/circlepack/config.toml. A missing file yields [Default].
// A handful of CIRCLEPACK_* environment variables override file values, which
// is how container deployments point the server at Redis or MongoDB.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circlepack/pkg/core/chart/cards"
	"github.com/matzehuels/circlepack/pkg/core/chart/keywords"
	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "circlepack"

// Cache backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendTiered = "tiered"
)

var backends = []string{BackendNone, BackendFile, BackendRedis, BackendMongo, BackendTiered}

// Config is the full configuration file.
type Config struct {
	Pack     PackConfig     `toml:"pack"`
	Cards    CardsConfig    `toml:"cards"`
	Keywords KeywordsConfig `toml:"keywords"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// PackConfig holds packing defaults.
type PackConfig struct {
	Ratio float64 `toml:"ratio"`
	Seed  uint64  `toml:"seed"`
}

// CardsConfig holds card gallery defaults.
type CardsConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Gap    float64 `toml:"gap"`
}

// KeywordsConfig holds keyword chart defaults.
type KeywordsConfig struct {
	Threshold float64 `toml:"threshold"`
	Padding   float64 `toml:"padding"`
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	BatchLimit   int      `toml:"batch_limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Pack: PackConfig{
			Ratio: 1,
			Seed:  packer.DefaultSeed,
		},
		Cards: CardsConfig{
			Width:  800,
			Height: 600,
			Gap:    cards.DefaultGap,
		},
		Keywords: KeywordsConfig{
			Threshold: keywords.DefaultThreshold,
			Padding:   keywords.DefaultPadding,
			Width:     800,
			Height:    800,
		},
		Cache: CacheConfig{
			Backend:       BackendFile,
			Dir:           filepath.Join(xdgCacheHome(home), AppName),
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "circlepack",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			BatchLimit:   4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects values that would fail later at run time.
func (c *Config) Validate() error {
	if err := errors.ValidateRatio(c.Pack.Ratio); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[pack] ratio")
	}
	if err := errors.ValidateViewport(c.Cards.Width, c.Cards.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[cards] viewport")
	}
	if c.Cards.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cards] gap must not be negative")
	}
	if err := errors.ValidateViewport(c.Keywords.Width, c.Keywords.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[keywords] viewport")
	}
	if c.Keywords.Threshold < 0 || c.Keywords.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[keywords] threshold and padding must not be negative")
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q (must be one of %v)", c.Cache.Backend, backends)
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] dir is required for the file backend")
	}
	if c.Server.BatchLimit < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] batch_limit must be at least 1")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[log] level")
	}
	return nil
}

// LogLevel returns the configured level, or info if it does not parse.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
