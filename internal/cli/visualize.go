package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a saved
// layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr  string
		style       string
		scale       float64
		interactive bool
		output      string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout to SVG, PNG or PDF",
		Long: `Render a computed layout to SVG, PNG or PDF.

The visualize command takes a layout.json file (produced by 'layout' or
'render -f json'). The layout carries every position, so this step only
draws; the family data is not read again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			for _, f := range formats {
				if f == pipeline.FormatDOT || f == pipeline.FormatJSON {
					return errors.New(errors.ErrCodeInvalidFormat,
						"visualize draws svg, png or pdf; use 'render -f %s'", f)
				}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			opts := pipeline.Options{
				Formats:     formats,
				VizType:     graph.VizTypeFlow,
				Style:       style,
				Scale:       scale,
				Interactive: interactive,
				Layout:      c.cfg.Layout,
				Logger:      c.Logger,
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().StringVar(&style, "style", "", "visual style: simple, detailed (default: the layout's style)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "add hover highlighting to SVG output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if opts.Style == "" {
		opts.Style = l.Style
	}
	opts.Roots = l.Roots
	opts.ShowDecorations = hasDecorations(l)

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	var cacheHit bool
	artifacts, err := spin(ctx, "Rendering...", func() (map[string][]byte, error) {
		a, hit, err := runner.RenderWithCacheInfo(ctx, l, nil, opts)
		cacheHit = hit
		return a, err
	})
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	base := strings.TrimSuffix(strings.TrimSuffix(input, filepath.Ext(input)), ".layout")
	paths, err := writeArtifacts(artifacts, opts.Formats, base, output)
	if err != nil {
		return err
	}

	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(cacheHit, fmt.Sprintf("%d persons", l.PersonCount()))
	return nil
}

// hasDecorations reports whether the layout was computed with generation
// boxes, which the drawing then shows.
func hasDecorations(l graph.Layout) bool {
	for i := range l.Nodes {
		if l.Nodes[i].IsDecoration() {
			return true
		}
	}
	return false
}
