package pipeline

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/circlepack/pkg/cache"
	"github.com/matzehuels/circlepack/pkg/core/chart/cards"
	"github.com/matzehuels/circlepack/pkg/core/chart/keywords"
	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/layout"
	"github.com/matzehuels/circlepack/pkg/observability"
)

// countingCache is an in-memory cache that counts operations.
type countingCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

func TestSetPackDefaults(t *testing.T) {
	var opts Options
	opts.SetPackDefaults()
	if opts.Ratio != DefaultRatio || opts.Seed != DefaultSeed || opts.Logger == nil {
		t.Errorf("SetPackDefaults() = %+v", opts)
	}

	opts = Options{Ratio: 2, Seed: 9}
	opts.SetPackDefaults()
	if opts.Ratio != 2 || opts.Seed != 9 {
		t.Errorf("explicit values overwritten: %+v", opts)
	}
}

func TestSetChartDefaults(t *testing.T) {
	var opts Options
	opts.SetChartDefaults()
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %gx%g", opts.Width, opts.Height)
	}
	if opts.Gap != cards.DefaultGap || opts.Threshold != keywords.DefaultThreshold || opts.Padding != keywords.DefaultPadding {
		t.Errorf("chart defaults = %+v", opts)
	}
}

func TestValidateForChart(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidViewport},
		{"negative gap", Options{Gap: -5}, errors.ErrCodeInvalidInput},
		{"negative padding", Options{Padding: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateForChart(); !errors.Is(err, tt.code) {
				t.Errorf("ValidateForChart() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPackCaching(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	radii := []float64{10, 10, 10}

	first, hit, err := r.PackWithCacheInfo(ctx, radii, Options{})
	if err != nil {
		t.Fatalf("first pack: %v", err)
	}
	if hit {
		t.Error("first pack reported a cache hit")
	}
	if !first.Complete || len(first.Circles) != 3 || first.Kind != layout.KindPack {
		t.Errorf("first pack = %+v", first)
	}
	if c.sets != 1 {
		t.Errorf("sets = %d, want 1", c.sets)
	}

	second, hit, err := r.PackWithCacheInfo(ctx, radii, Options{})
	if err != nil {
		t.Fatalf("second pack: %v", err)
	}
	if !hit {
		t.Error("second pack should hit the cache")
	}
	for i := range first.Circles {
		if first.Circles[i] != second.Circles[i] {
			t.Errorf("circle %d: cached %+v, computed %+v", i, second.Circles[i], first.Circles[i])
		}
	}

	// Different options use a different key.
	if _, hit, _ := r.PackWithCacheInfo(ctx, radii, Options{Ratio: 2}); hit {
		t.Error("ratio 2 should not share a cache entry with ratio 1")
	}

	if _, hit, _ := r.PackWithCacheInfo(ctx, radii, Options{Refresh: true}); hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestPackInvalidInput(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)

	if _, err := r.Pack(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidRadii) {
		t.Errorf("empty radii: %v, want INVALID_RADII", err)
	}
	if _, err := r.Pack(context.Background(), []float64{1}, Options{Ratio: -1}); !errors.Is(err, errors.ErrCodeInvalidRatio) {
		t.Errorf("negative ratio: %v, want INVALID_RATIO", err)
	}
	if c.gets != 0 || c.sets != 0 {
		t.Errorf("invalid input touched the cache: gets=%d sets=%d", c.gets, c.sets)
	}
}

func TestPackCacheFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("read error", func(t *testing.T) {
		c := newCountingCache()
		c.getErr = stderrors.New("connection refused")
		r := NewRunner(c, nil, nil)
		l, hit, err := r.PackWithCacheInfo(ctx, []float64{3, 4}, Options{})
		if err != nil || hit || len(l.Circles) != 2 {
			t.Errorf("got hit=%v err=%v circles=%d", hit, err, len(l.Circles))
		}
	})

	t.Run("corrupt entry", func(t *testing.T) {
		c := newCountingCache()
		r := NewRunner(c, nil, nil)
		if _, err := r.Pack(ctx, []float64{3, 4}, Options{}); err != nil {
			t.Fatal(err)
		}
		for k := range c.data {
			c.data[k] = []byte("{not json")
		}
		_, hit, err := r.PackWithCacheInfo(ctx, []float64{3, 4}, Options{})
		if err != nil || hit {
			t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
		}
	})
}

func TestPackWithFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Pack(ctx, []float64{1, 2, 3}, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := r.PackWithCacheInfo(ctx, []float64{1, 2, 3}, Options{}); !hit {
		t.Error("expected file cache hit")
	}
}

func TestPackBatch(t *testing.T) {
	r := NewRunner(newCountingCache(), nil, nil)
	jobs := []Job{
		{ID: "a", Input: layout.Input{Radii: []float64{5, 5}}},
		{ID: "bad", Input: layout.Input{Radii: []float64{-1}}},
		{ID: "c", Input: layout.Input{Radii: []float64{1, 2, 3}, Ratio: 2}},
	}

	results, err := r.PackBatch(context.Background(), jobs, Options{}, 2)
	if err != nil {
		t.Fatalf("PackBatch: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, res := range results {
		if res.ID != jobs[i].ID {
			t.Errorf("results[%d].ID = %q, want %q", i, res.ID, jobs[i].ID)
		}
	}
	if results[0].Err != nil || len(results[0].Layout.Circles) != 2 {
		t.Errorf("job a: %+v", results[0])
	}
	if !errors.Is(results[1].Err, errors.ErrCodeInvalidRadii) {
		t.Errorf("job bad: err = %v, want INVALID_RADII", results[1].Err)
	}
	if results[2].Err != nil || results[2].Layout.Ratio != 2 {
		t.Errorf("job c: ratio = %g, err = %v", results[2].Layout.Ratio, results[2].Err)
	}
}

func TestPackBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, nil)
	jobs := []Job{{ID: "a", Input: layout.Input{Radii: []float64{1}}}}
	if _, err := r.PackBatch(ctx, jobs, Options{}, 1); !stderrors.Is(err, context.Canceled) {
		t.Errorf("PackBatch() error = %v, want context.Canceled", err)
	}
}

// recordingHooks captures pipeline hook calls.
type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnPackStart(context.Context, int, float64) { h.record("pack:start") }
func (h *recordingHooks) OnPackComplete(_ context.Context, _, _, _ int, _ time.Duration, err error) {
	h.record("pack:complete")
}
func (h *recordingHooks) OnChartStart(_ context.Context, kind string, _ int) {
	h.record(kind + ":start")
}
func (h *recordingHooks) OnChartComplete(_ context.Context, kind string, _ time.Duration, _ error) {
	h.record(kind + ":complete")
}

func TestCharts(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Width: 600, Height: 600}

	cs := []cards.Card{{Name: "a", Size: 100}, {Name: "b", Size: 100}, {Name: "c", Size: 100}}
	l, err := r.Cards(ctx, cs, opts)
	if err != nil {
		t.Fatalf("Cards: %v", err)
	}
	if l.Kind != layout.KindCards || len(l.Cards) != 3 {
		t.Errorf("cards layout = %+v", l)
	}

	ds := keywords.Dataset{
		Keywords: map[string]map[string]float64{
			"Korean": {"kimchi": 0.3, "bbq": 0.3},
			"Thai":   {"curry": 0.4, "satay": 0.4},
		},
		Clusters: map[string]keywords.ClusterInfo{
			"Korean": {Size: 1000},
			"Thai":   {Size: 500},
		},
	}
	l, err = r.Keywords(ctx, ds, opts)
	if err != nil {
		t.Fatalf("Keywords: %v", err)
	}
	if l.Kind != layout.KindKeywords || len(l.Clusters) != 2 {
		t.Errorf("keywords layout = %+v", l)
	}

	// Cached charts do not run the stage again.
	if _, hit, _ := r.KeywordsWithCacheInfo(ctx, ds, opts); !hit {
		t.Error("keywords chart should hit the cache")
	}

	want := []string{"cards:start", "cards:complete", "keywords:start", "keywords:complete"}
	if len(hooks.events) != len(want) {
		t.Fatalf("events = %v, want %v", hooks.events, want)
	}
	for i := range want {
		if hooks.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, hooks.events[i], want[i])
		}
	}
}

func TestChartErrorsAreNotCached(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)

	_, err := r.Cards(context.Background(), nil, Options{})
	if err == nil {
		t.Fatal("expected error for empty card list")
	}
	if c.sets != 0 {
		t.Errorf("failed run was cached (%d sets)", c.sets)
	}
}

func TestPackCanceled(t *testing.T) {
	radii := make([]float64, 128)
	for i := range radii {
		radii[i] = 1 + float64(i%7)
	}

	t.Run("observer cancels", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		c := newCountingCache()
		r := NewRunner(c, nil, nil)

		trials := 0
		_, err := r.Pack(ctx, radii[:16], Options{Observer: func(packer.Attempt) {
			trials++
			cancel()
		}})
		if !stderrors.Is(err, context.Canceled) {
			t.Fatalf("Pack() error = %v, want context.Canceled", err)
		}
		if !errors.Is(err, errors.ErrCodeCanceled) {
			t.Errorf("Pack() code = %q, want %q", errors.GetCode(err), errors.ErrCodeCanceled)
		}
		if trials != 1 {
			t.Errorf("ran %d trials after cancel, want 1", trials)
		}
		if c.sets != 0 {
			t.Errorf("cache sets = %d, want 0", c.sets)
		}
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		c := newCountingCache()
		r := NewRunner(c, nil, nil)

		start := time.Now()
		_, err := r.Pack(ctx, radii, Options{})
		if !stderrors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Pack() error = %v, want context.DeadlineExceeded", err)
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("Pack() returned after %v", elapsed)
		}
		if c.sets != 0 {
			t.Errorf("cache sets = %d, want 0", c.sets)
		}
	})
}

func TestPackBatchCanceledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(newCountingCache(), nil, nil)
	jobs := []Job{
		{ID: "a", Input: layout.Input{Radii: []float64{3, 2, 1, 1, 2, 3}}},
		{ID: "b", Input: layout.Input{Radii: []float64{4, 1, 1, 2}}},
	}
	opts := Options{Observer: func(packer.Attempt) { cancel() }}
	_, err := r.PackBatch(ctx, jobs, opts, 1)
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("PackBatch() error = %v, want context.Canceled", err)
	}
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("PackBatch() code = %q, want %q", errors.GetCode(err), errors.ErrCodeCanceled)
	}
}
