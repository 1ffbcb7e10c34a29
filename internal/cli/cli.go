// Package cli implements the kintree command-line interface.
//
// The commands lay out family trees, render them to SVG, PNG, PDF or DOT,
// list generations, browse persons interactively, serve the HTTP API and
// manage the layout cache. Family data comes from a JSON file, a remote
// URL or MongoDB, selected by flags or by the [source] section of
// kintree.toml.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "kintree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	input      string
	url        string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks log through the CLI logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "kintree lays out and renders family trees",
		Long:         `kintree computes generation-layered layouts of family trees and renders them as SVG, PNG, PDF or Graphviz drawings, from a JSON file, a URL or a MongoDB database.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.FileName+")")
	flags.StringVarP(&c.input, "input", "i", "", "family tree JSON file")
	flags.StringVar(&c.url, "url", "", "family tree JSON URL")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.generationsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "source", cfg.Source.Type, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened degrades to no caching.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	ch, err := cache.Open(ctx, c.cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags are the options shared by layout, render and visualize.
type renderFlags struct {
	generations int
	decorations bool
	style       string
	vizType     string
	scale       float64
	interactive bool
	refresh     bool
	noCache     bool
	output      string
}

// register binds the flags to cmd with the built-in defaults.
func (f *renderFlags) register(cmd *cobra.Command) {
	d := config.Default().Render

	fs := cmd.Flags()
	fs.IntVarP(&f.generations, "generations", "g", d.Generations, "generations to lay out below the roots (0 = unlimited)")
	fs.BoolVar(&f.decorations, "decorations", d.Decorations, "draw generation boxes and labels")
	fs.StringVar(&f.style, "style", d.Style, "visual style: simple, detailed")
	fs.StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: flow, nodelink")
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	fs.BoolVar(&f.interactive, "interactive", false, "add hover highlighting to SVG output")
	fs.BoolVar(&f.refresh, "refresh", false, "reload the family data, bypassing the snapshot cache")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
}

// applyConfig takes the [render] section for every flag not set on the
// command line. The config is only known once the root pre-run has loaded it.
func (f *renderFlags) applyConfig(cmd *cobra.Command, cfg config.Config) {
	fs := cmd.Flags()
	if !fs.Changed("generations") {
		f.generations = cfg.Render.Generations
	}
	if !fs.Changed("decorations") {
		f.decorations = cfg.Render.Decorations
	}
	if !fs.Changed("style") {
		f.style = cfg.Render.Style
	}
}

// options converts the flags into pipeline options for roots.
func (c *CLI) options(f renderFlags, roots []string, formats []string) pipeline.Options {
	return pipeline.Options{
		Roots:           roots,
		Generations:     f.generations,
		ShowDecorations: f.decorations,
		Formats:         formats,
		VizType:         f.vizType,
		Style:           f.style,
		Scale:           f.scale,
		Interactive:     f.interactive,
		Refresh:         f.refresh,
		Layout:          c.cfg.Layout,
		Logger:          c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
