package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/layout"
	"github.com/matzehuels/circlepack/pkg/pipeline"
)

// manifest lists the packings of a batch run. The top-level ratio and seed
// apply to inline jobs; input files carry their own.
//
//	ratio = 1.5
//
//	[[job]]
//	id = "small"
//	input = "inputs/small.json"
//
//	[[job]]
//	id = "inline"
//	radii = [3, 2, 1]
//	ratio = 2.0
type manifest struct {
	Ratio float64       `toml:"ratio"`
	Seed  uint64        `toml:"seed"`
	Jobs  []manifestJob `toml:"job"`
}

type manifestJob struct {
	ID    string    `toml:"id"`
	Input string    `toml:"input"` // relative to the manifest
	Radii []float64 `toml:"radii"`
	Ratio float64   `toml:"ratio"`
	Seed  uint64    `toml:"seed"`
}

// readManifest loads a manifest and resolves every job to a pipeline.Job.
func readManifest(path string) ([]pipeline.Job, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode manifest %s", path)
	}
	if len(m.Jobs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "manifest %s has no [[job]] entries", path)
	}

	base := filepath.Dir(path)
	seen := make(map[string]bool, len(m.Jobs))
	jobs := make([]pipeline.Job, len(m.Jobs))
	for i, mj := range m.Jobs {
		input := layout.Input{Radii: mj.Radii, Ratio: mj.Ratio, Seed: mj.Seed}
		if mj.Input != "" {
			if err := errors.ValidatePath(mj.Input); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "job %d input", i)
			}
			in, err := layout.ReadInputFile(filepath.Join(base, filepath.FromSlash(mj.Input)))
			if err != nil {
				return nil, err
			}
			input = in
			if mj.Ratio != 0 {
				input.Ratio = mj.Ratio
			}
			if mj.Seed != 0 {
				input.Seed = mj.Seed
			}
		}
		if input.Ratio == 0 {
			input.Ratio = m.Ratio
		}
		if input.Seed == 0 {
			input.Seed = m.Seed
		}

		id := mj.ID
		if id == "" && mj.Input != "" {
			id = strings.TrimSuffix(filepath.Base(mj.Input), filepath.Ext(mj.Input))
		}
		if id == "" {
			id = fmt.Sprintf("job-%d", i+1)
		}
		if err := errors.ValidatePath(id); err != nil || strings.Contains(id, "/") {
			return nil, errors.New(errors.ErrCodeInvalidInput, "job %d: id %q must be a plain file name", i, id)
		}
		if seen[id] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate job id %q", id)
		}
		seen[id] = true

		jobs[i] = pipeline.Job{ID: id, Input: input}
	}
	return jobs, nil
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		outDir  string
		limit   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "batch [manifest.toml]",
		Short: "Pack every job of a manifest concurrently",
		Long: `Pack every job listed in a TOML manifest.

Each [[job]] names an input file (relative to the manifest) or lists radii
inline. Jobs run concurrently and each writes <id>.layout.json to the output
directory. A failing job is reported and does not stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = filepath.Dir(args[0])
			}
			if !cmd.Flags().Changed("jobs") {
				limit = c.settings().Server.BatchLimit
			}
			return c.runBatch(cmd.Context(), args[0], outDir, limit, noCache)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default: manifest directory)")
	cmd.Flags().IntVarP(&limit, "jobs", "j", pipeline.DefaultBatchLimit, "packings to run concurrently")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runBatch packs every manifest job and writes one layout per job.
func (c *CLI) runBatch(ctx context.Context, path, outDir string, limit int, noCache bool) error {
	jobs, err := readManifest(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Packing %d jobs...", len(jobs)))
	spinner.Start()
	results, err := runner.PackBatch(ctx, jobs, c.packOptions(), limit)
	spinner.Stop()
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			printError("%s: %s", res.ID, errors.UserMessage(res.Err))
			continue
		}
		out := filepath.Join(outDir, res.ID+".layout.json")
		if err := layout.WriteLayoutFile(res.Layout, out); err != nil {
			return fmt.Errorf("write output %s: %w", out, err)
		}
		if res.Layout.Complete {
			printSuccess("%s", res.ID)
		} else {
			printWarning("%s: placed %d circles", res.ID, len(res.Layout.Circles))
		}
		printFile(out)
		printStats(res.Layout, res.Cached)
	}
	p.done(fmt.Sprintf("Packed %d of %d jobs", len(results)-failed, len(results)))

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}
