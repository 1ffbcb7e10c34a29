package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/graph"
)

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "layout [root-id...]",
		Short: "Compute the node/edge layout of a family tree",
		Long: `Compute the node/edge layout of a family tree.

The layout starts at the given root persons (or the roots stored with the
data) and descends the requested number of generations. The output is a
layout.json file (same format as 'render -f json') that the 'visualize'
command turns into SVG, PNG or PDF.

Results are cached for faster subsequent runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.applyConfig(cmd, c.cfg)
			return c.runLayout(cmd.Context(), args, flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, roots []string, flags renderFlags) error {
	src, closeSrc, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	snap, err := c.load(ctx, runner, src, flags.refresh)
	if err != nil {
		return err
	}

	if roots, err = resolveRoots(snap, roots); err != nil {
		return err
	}
	opts := c.options(flags, roots, nil)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var cacheHit bool
	l, err := spin(ctx, "Computing layout...", func() (graph.Layout, error) {
		l, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, snap, opts)
		cacheHit = hit
		return l, err
	})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := flags.output
	if path == "" {
		path = strings.Join(roots, "_") + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(cacheHit,
		fmt.Sprintf("%d persons", l.PersonCount()),
		fmt.Sprintf("%d generations", len(l.Generations)),
		fmt.Sprintf("%d edges", len(l.Edges)))
	printNewline()
	printNextStep("Render", appName+" visualize "+path)

	return nil
}

