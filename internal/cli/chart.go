package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/core/chart/cards"
	"github.com/matzehuels/circlepack/pkg/core/chart/keywords"
	"github.com/matzehuels/circlepack/pkg/layout"
	"github.com/matzehuels/circlepack/pkg/pipeline"
)

// chartFlags are the flags shared by chart commands.
type chartFlags struct {
	output  string
	noCache bool
	refresh bool
	opts    pipeline.Options
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().Float64Var(&f.opts.Width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&f.opts.Height, "height", 0, "viewport height (default from config)")
	cmd.Flags().Uint64Var(&f.opts.Seed, "seed", 0, "shuffle seed (default from config)")
}

// cardsCommand creates the cards command.
func (c *CLI) cardsCommand() *cobra.Command {
	var f chartFlags

	cmd := &cobra.Command{
		Use:   "cards [cards.json]",
		Short: "Lay out a card gallery",
		Long: `Lay out square cards as a packed gallery.

The input is a JSON array of cards or an object keyed by card name; each card
has a "size" and optional "front"/"back" images. Every card is packed as a
circle of radius size/2 + gap and the packing is scaled into the viewport.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := cards.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg := c.settings().Cards
			opts := f.opts
			opts.Width = firstNonZero(opts.Width, cfg.Width)
			opts.Height = firstNonZero(opts.Height, cfg.Height)
			opts.Gap = firstNonZero(opts.Gap, cfg.Gap)
			opts.Seed = firstNonZeroSeed(opts.Seed, c.settings().Pack.Seed)

			return c.runChart(cmd.Context(), args[0], f, func(ctx context.Context, r *pipeline.Runner) (layout.Layout, bool, error) {
				opts.Refresh = f.refresh
				opts.Logger = c.Logger
				return r.CardsWithCacheInfo(ctx, cs, opts)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().Float64Var(&f.opts.Gap, "gap", 0, "space around each card (default from config)")
	return cmd
}

// keywordsCommand creates the keywords command.
func (c *CLI) keywordsCommand() *cobra.Command {
	var f chartFlags

	cmd := &cobra.Command{
		Use:   "keywords [keywords.json] [clusters.json]",
		Short: "Build a keyword bubble chart",
		Long: `Build a two-level bubble chart of keywords grouped by cluster.

keywords.json maps cluster name to {keyword: weight}; clusters.json maps
cluster name to {"size": n}. Keywords below the threshold are dropped, the
rest are rescaled to the cluster size and packed inside their cluster circle.
Cluster circles are then packed into the viewport.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := keywords.ReadFiles(args[0], args[1])
			if err != nil {
				return err
			}
			cfg := c.settings().Keywords
			opts := f.opts
			opts.Width = firstNonZero(opts.Width, cfg.Width)
			opts.Height = firstNonZero(opts.Height, cfg.Height)
			opts.Threshold = firstNonZero(opts.Threshold, cfg.Threshold)
			opts.Padding = firstNonZero(opts.Padding, cfg.Padding)
			opts.Seed = firstNonZeroSeed(opts.Seed, c.settings().Pack.Seed)

			return c.runChart(cmd.Context(), args[0], f, func(ctx context.Context, r *pipeline.Runner) (layout.Layout, bool, error) {
				opts.Refresh = f.refresh
				opts.Logger = c.Logger
				return r.KeywordsWithCacheInfo(ctx, ds, opts)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().Float64Var(&f.opts.Threshold, "threshold", 0, "minimum keyword weight (default from config)")
	cmd.Flags().Float64Var(&f.opts.Padding, "padding", 0, "space between bubbles (default from config)")
	return cmd
}

// runChart runs build against a fresh runner and writes the layout.
func (c *CLI) runChart(ctx context.Context, input string, f chartFlags, build func(context.Context, *pipeline.Runner) (layout.Layout, bool, error)) error {
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, cacheHit, err := build(ctx, runner)
	if err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if output == stdoutPath {
		return layout.WriteLayout(l, stdout)
	}
	if err := layout.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Laid out %s chart", l.Kind)
	printFile(output)
	printStats(l, cacheHit)
	return nil
}

func firstNonZero(v, fallback float64) float64 {
	if v != 0 {
		return v
	}
	return fallback
}

func firstNonZeroSeed(v, fallback uint64) uint64 {
	if v != 0 {
		return v
	}
	return fallback
}
