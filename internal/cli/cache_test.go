package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/circlepack/pkg/cache"
	"github.com/matzehuels/circlepack/pkg/config"
)

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.CacheConfig{Dir: t.TempDir()}

	c, err := newCache(ctx, config.BackendNone, cfg)
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T, want *cache.NullCache", c)
	}

	c, err = newCache(ctx, config.BackendFile, cfg)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("file backend = %T, want *cache.FileCache", c)
	}
	if fc.Dir() != cfg.Dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), cfg.Dir)
	}

	if _, err := newCache(ctx, "memcached", cfg); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestNewRunnerNoCache(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Backend = config.BackendRedis // never dialed with noCache

	r, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer r.Close()
	if r.Logger != c.Logger {
		t.Error("runner should log through the CLI logger")
	}
}

func TestCacheClearAndPath(t *testing.T) {
	out := captureStdout(t)
	c := newTestCLI(t)
	dir := c.settings().Cache.Dir

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	fc.Set(ctx, "pack:a", []byte("{}"), 0)
	fc.Set(ctx, "pack:b", []byte("{}"), 0)

	if err := runCLI(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), dir) {
		t.Errorf("cache path output = %q, want %q", out.String(), dir)
	}

	if err := runCLI(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 2 cached entries") {
		t.Errorf("cache clear output = %q", out.String())
	}
	if _, hit, _ := fc.Get(ctx, "pack:a"); hit {
		t.Error("entry survived cache clear")
	}
}
