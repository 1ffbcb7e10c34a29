package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/pipeline"
)

// renderCommand creates the render command: load, layout and render in one
// step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      renderFlags
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [root-id...]",
		Short: "Render a family tree to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a family tree to SVG, PNG, PDF, DOT or layout JSON.

This is 'layout' followed by 'visualize' without the intermediate file.
Several formats can be requested at once; each is written next to the
others as <base>.<format>.

PNG and PDF output requires rsvg-convert on the PATH for the flow view.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.applyConfig(cmd, c.cfg)
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, formats, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, roots, formats []string, flags renderFlags) error {
	src, closeSrc, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	opts := c.options(flags, roots, formats)
	prog := newProgress(c.Logger)
	result, err := spin(ctx, fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")), func() (*pipeline.Result, error) {
		return runner.Execute(ctx, src, opts)
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d generations", result.Stats.Generations))

	base := strings.Join(result.Layout.Roots, "_")
	paths, err := writeArtifacts(result.Artifacts, formats, base, flags.output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		fmt.Sprintf("%d persons", result.Stats.Persons),
		fmt.Sprintf("%d generations", result.Stats.Generations),
		fmt.Sprintf("%d nodes", result.Stats.NodeCount))
	return nil
}

// outputPaths maps each format to its file. A single format writes to
// output as given; several formats use output without its extension as the
// base name. An empty output uses base.
func outputPaths(formats []string, base, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	if base == "" {
		base = appName
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each requested artifact and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	targets := outputPaths(formats, base, output)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := targets[f]
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
