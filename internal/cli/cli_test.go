package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/layout"
)

// captureStdout redirects status output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// newTestCLI returns a CLI whose config and cache live in temp dirs.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, k := range []string{"CIRCLEPACK_CACHE_BACKEND", "CIRCLEPACK_REDIS_ADDR", "CIRCLEPACK_MONGO_URI", "CIRCLEPACK_ADDR", "CIRCLEPACK_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return New(io.Discard, LogInfo)
}

func runCLI(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"pack", "batch", "cards", "keywords", "serve", "config", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestPackCommand(t *testing.T) {
	out := captureStdout(t)
	c := newTestCLI(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "three.json", `{"radii": [10, 10, 10]}`)

	if err := runCLI(t, c, "pack", input, "--table"); err != nil {
		t.Fatalf("pack: %v", err)
	}

	l, err := layout.ReadLayoutFile(filepath.Join(dir, "three.layout.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !l.Complete || len(l.Circles) != 3 || l.Ratio != 1 {
		t.Errorf("layout = %+v", l)
	}
	if !strings.Contains(out.String(), "Packed 3 circles") {
		t.Errorf("output = %q", out.String())
	}

	// The second run is served from the file cache.
	out.Reset()
	if err := runCLI(t, c, "pack", input); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), iconCached) {
		t.Errorf("second run output = %q, want cached", out.String())
	}
}

func TestPackCommandStdout(t *testing.T) {
	out := captureStdout(t)
	c := newTestCLI(t)

	if err := runCLI(t, c, "pack", "--radii", "3, 2, 1", "--ratio", "2", "--no-cache"); err != nil {
		t.Fatalf("pack: %v", err)
	}
	l, err := layout.UnmarshalLayout(out.Bytes())
	if err != nil {
		t.Fatalf("stdout is not a layout: %v\n%s", err, out.String())
	}
	if l.Ratio != 2 || len(l.Circles) == 0 {
		t.Errorf("layout = %+v", l)
	}
}

func TestPackCommandErrors(t *testing.T) {
	captureStdout(t)
	c := newTestCLI(t)

	tests := []struct {
		args []string
		code errors.Code
	}{
		{[]string{"pack"}, errors.ErrCodeInvalidInput},
		{[]string{"pack", "--radii", "1,x"}, errors.ErrCodeInvalidRadii},
		{[]string{"pack", "--radii", "1,-1", "-o", "-"}, errors.ErrCodeInvalidRadii},
		{[]string{"pack", filepath.Join(t.TempDir(), "missing.json")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		if err := runCLI(t, c, tt.args...); !errors.Is(err, tt.code) {
			t.Errorf("%v: error = %v, want %s", tt.args, err, tt.code)
		}
	}
}

func TestParseRadii(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
	}{
		{"1,2,3", []float64{1, 2, 3}},
		{" 1.5 , 2 ", []float64{1.5, 2}},
		{"4,", []float64{4}},
	}
	for _, tt := range tests {
		got, err := parseRadii(tt.in)
		if err != nil {
			t.Fatalf("parseRadii(%q): %v", tt.in, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("parseRadii(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseRadii(%q)[%d] = %g, want %g", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inputs/small.json", `{"radii": [1, 2], "seed": 7}`)
	path := writeFile(t, dir, "batch.toml", `
ratio = 1.5

[[job]]
input = "inputs/small.json"

[[job]]
id = "inline"
radii = [3, 2, 1]
ratio = 2.0

[[job]]
radii = [5]
`)

	jobs, err := readManifest(path)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("got %d jobs", len(jobs))
	}

	// Input files are complete requests; the manifest ratio only fills inline jobs.
	if jobs[0].ID != "small" || jobs[0].Input.Ratio != layout.DefaultRatio || jobs[0].Input.Seed != 7 {
		t.Errorf("jobs[0] = %+v", jobs[0])
	}
	if jobs[1].ID != "inline" || jobs[1].Input.Ratio != 2 || len(jobs[1].Input.Radii) != 3 {
		t.Errorf("jobs[1] = %+v", jobs[1])
	}
	if jobs[2].ID != "job-3" || jobs[2].Input.Ratio != 1.5 {
		t.Errorf("jobs[2] = %+v", jobs[2])
	}
}

func TestReadManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		code     errors.Code
	}{
		{"no jobs", `ratio = 1.0`, errors.ErrCodeInvalidInput},
		{"traversal", "[[job]]\ninput = \"../secret.json\"", errors.ErrCodeInvalidPath},
		{"absolute", "[[job]]\ninput = \"/etc/radii.json\"", errors.ErrCodeInvalidPath},
		{"duplicate id", "[[job]]\nid = \"a\"\nradii = [1]\n[[job]]\nid = \"a\"\nradii = [2]", errors.ErrCodeInvalidInput},
		{"bad id", "[[job]]\nid = \"a/b\"\nradii = [1]", errors.ErrCodeInvalidInput},
		{"malformed", `[[job]`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "batch.toml", tt.manifest)
			if _, err := readManifest(path); !errors.Is(err, tt.code) {
				t.Errorf("readManifest() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := readManifest(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing manifest: %v", err)
	}
}

func TestBatchCommand(t *testing.T) {
	captureStdout(t)
	c := newTestCLI(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "batch.toml", `
[[job]]
id = "a"
radii = [1, 1]

[[job]]
id = "b"
radii = [2, 3, 4]
`)
	outDir := filepath.Join(dir, "out")

	if err := runCLI(t, c, "batch", path, "-o", outDir, "-j", "2"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for id, n := range map[string]int{"a": 2, "b": 3} {
		l, err := layout.ReadLayoutFile(filepath.Join(outDir, id+".layout.json"))
		if err != nil {
			t.Fatalf("job %s: %v", id, err)
		}
		if len(l.Circles) != n {
			t.Errorf("job %s: %d circles, want %d", id, len(l.Circles), n)
		}
	}
}

func TestBatchCommandReportsFailures(t *testing.T) {
	out := captureStdout(t)
	c := newTestCLI(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "batch.toml", "[[job]]\nid = \"ok\"\nradii = [1]\n[[job]]\nid = \"bad\"\nradii = [0]\n")

	err := runCLI(t, c, "batch", path)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 jobs failed") {
		t.Errorf("batch error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ok.layout.json")); err != nil {
		t.Errorf("successful job not written: %v", err)
	}
	if !strings.Contains(out.String(), "bad") {
		t.Errorf("output = %q, want failed job reported", out.String())
	}
}

func TestCardsCommand(t *testing.T) {
	captureStdout(t)
	c := newTestCLI(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "gallery.json", `{"b": {"size": 100}, "a": {"size": 100}, "c": {"size": 100}}`)

	if err := runCLI(t, c, "cards", input, "--width", "600", "--height", "600"); err != nil {
		t.Fatalf("cards: %v", err)
	}
	l, err := layout.ReadLayoutFile(filepath.Join(dir, "gallery.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	if l.Kind != layout.KindCards || len(l.Cards) != 3 || l.Width != 600 {
		t.Errorf("layout = %+v", l)
	}
}

func TestKeywordsCommand(t *testing.T) {
	captureStdout(t)
	c := newTestCLI(t)
	dir := t.TempDir()
	kw := writeFile(t, dir, "keywords.json", `{"Korean": {"kimchi": 0.3, "bbq": 0.3}, "Thai": {"curry": 0.4, "satay": 0.4}}`)
	cl := writeFile(t, dir, "clusters.json", `{"Korean": {"size": 1000}, "Thai": {"size": 500}}`)
	output := filepath.Join(dir, "chart.json")

	if err := runCLI(t, c, "keywords", kw, cl, "-o", output); err != nil {
		t.Fatalf("keywords: %v", err)
	}
	l, err := layout.ReadLayoutFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if l.Kind != layout.KindKeywords || len(l.Clusters) != 2 {
		t.Errorf("layout = %+v", l)
	}
}

func TestConfigCommands(t *testing.T) {
	out := captureStdout(t)
	c := newTestCLI(t)

	if err := runCLI(t, c, "config", "show"); err != nil {
		t.Fatal(err)
	}
	for _, section := range []string{"[pack]", "[cache]", "[server]"} {
		if !strings.Contains(out.String(), section) {
			t.Errorf("config show missing %s:\n%s", section, out.String())
		}
	}

	out.Reset()
	if err := runCLI(t, c, "config", "path"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "missing") {
		t.Errorf("config path output = %q", out.String())
	}
}

func TestConfigFlag(t *testing.T) {
	captureStdout(t)
	c := newTestCLI(t)
	dir := t.TempDir()

	bad := writeFile(t, dir, "bad.toml", "[cache]\nbackend = \"memcached\"\n")
	if err := runCLI(t, c, "--config", bad, "config", "show"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid config: error = %v, want INVALID_CONFIG", err)
	}

	good := writeFile(t, dir, "good.toml", "[pack]\nratio = 3.0\n[cache]\nbackend = \"none\"\n")
	if err := runCLI(t, c, "--config", good, "pack", "--radii", "1,1", "-o", "-"); err != nil {
		t.Fatal(err)
	}
	if c.Config.Pack.Ratio != 3 {
		t.Errorf("ratio = %g, want 3 from config", c.Config.Pack.Ratio)
	}
}

func TestCircleTable(t *testing.T) {
	got := circleTable([]layout.Circle{{R: 1, X: -2.5, Y: 0}, {R: 2, X: 1, Y: 3}})
	for _, want := range []string{"r", "x", "y", "1.000", "-2.500", "3.000"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}
