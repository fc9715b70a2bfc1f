package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/layout"
)

// stdoutPath writes a layout to standard output instead of a file.
const stdoutPath = "-"

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var (
		radii     string
		ratio     float64
		seed      uint64
		output    string
		noCache   bool
		refresh   bool
		showTable bool
	)

	cmd := &cobra.Command{
		Use:   "pack [input.json|input.toml]",
		Short: "Pack circles into the smallest rectangle of a given ratio",
		Long: `Pack circles into the smallest rectangle of a given aspect ratio.

Radii come from an input file (JSON or TOML with "radii", "ratio" and "seed"
keys) or from --radii. Flags override values from the file. The result is a
layout.json document with one entry per placed circle.

Results are cached, so packing the same input twice is instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input layout.Input
			if len(args) == 1 {
				in, err := layout.ReadInputFile(args[0])
				if err != nil {
					return err
				}
				input = in
				if output == "" {
					output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".layout.json"
				}
			}
			if radii != "" {
				rs, err := parseRadii(radii)
				if err != nil {
					return err
				}
				input.Radii = rs
			}
			if len(input.Radii) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no radii given: pass an input file or --radii")
			}
			if cmd.Flags().Changed("ratio") {
				input.Ratio = ratio
			}
			if cmd.Flags().Changed("seed") {
				input.Seed = seed
			}
			if output == "" {
				output = stdoutPath
			}
			return c.runPack(cmd.Context(), input, output, noCache, refresh, showTable)
		},
	}

	cmd.Flags().StringVar(&radii, "radii", "", "comma-separated radii, e.g. 10,10,5")
	cmd.Flags().Float64Var(&ratio, "ratio", layout.DefaultRatio, "rectangle width / height")
	cmd.Flags().Uint64Var(&seed, "seed", packer.DefaultSeed, "shuffle seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&showTable, "table", false, "print the placed circles as a table")

	return cmd
}

// runPack packs input and writes the layout.
func (c *CLI) runPack(ctx context.Context, input layout.Input, output string, noCache, refresh, showTable bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.packOptions()
	if input.Ratio != 0 {
		opts.Ratio = input.Ratio
	}
	if input.Seed != 0 {
		opts.Seed = input.Seed
	}
	opts.Refresh = refresh

	toStdout := output == stdoutPath
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinner(ctx, fmt.Sprintf("Packing %d circles...", len(input.Radii)))
		opts.Observer = func(a packer.Attempt) {
			spinner.SetMessage(fmt.Sprintf("Packing %d circles (trial %d, placed %d)...", len(input.Radii), a.Index+1, a.Placed))
		}
		spinner.Start()
	}

	l, cacheHit, err := runner.PackWithCacheInfo(ctx, input.Radii, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Packing failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if toStdout {
		return layout.WriteLayout(l, stdout)
	}
	if err := layout.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	if l.Complete {
		printSuccess("Packed %d circles", len(l.Circles))
	} else {
		printWarning("Placed %d of %d circles", len(l.Circles), len(input.Radii))
	}
	printFile(output)
	printStats(l, cacheHit)
	if showTable {
		fmt.Fprintln(stdout, circleTable(l.Circles))
	}
	return nil
}

// parseRadii parses a comma-separated list of numbers.
func parseRadii(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	radii := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		r, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRadii, err, "parse radius %q", f)
		}
		radii = append(radii, r)
	}
	return radii, nil
}
