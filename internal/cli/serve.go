package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/internal/server"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		Long: `Serve layouts and renders over HTTP.

Endpoints:
  GET /health
  GET /api/v1/trees/{rootID}/layout
  GET /api/v1/trees/{rootID}/render.{svg,png,pdf,dot,json}
  GET /api/v1/persons/{id}/generations/{n}

Query parameters generations, style, viz, scale, decorations, interactive
and refresh override the [render] defaults per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr or :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	src, closeSrc, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

	srv := server.New(runner, src, server.Options{
		Addr:    addr,
		Timeout: c.cfg.Server.Timeout.Duration,
		Defaults: pipeline.Options{
			Generations:     c.cfg.Render.Generations,
			ShowDecorations: c.cfg.Render.Decorations,
			Style:           c.cfg.Render.Style,
			Layout:          c.cfg.Layout,
		},
	}, c.Logger)

	printInfo("Serving %s on %s", src, addr)
	return srv.ListenAndServe(ctx)
}
