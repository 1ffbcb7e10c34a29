package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot, layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry of the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := cache.Open(cmd.Context(), c.cfg.CacheOptions())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Cache backend %q holds nothing to clear", c.cfg.Cache.Backend)
				return nil
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", n)
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(out, cacheLocation(c.cfg.CacheOptions()))
			return nil
		},
	}
}

// cacheLocation describes the backend: a directory for the file cache, a
// redis address and key prefix, or "disabled".
func cacheLocation(opts cache.Options) string {
	switch opts.Backend {
	case cache.BackendRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", opts.Redis.Addr, opts.Redis.DB, opts.Redis.Prefix)
	case cache.BackendNone:
		return "disabled"
	}
	if opts.Dir != "" {
		return opts.Dir
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}
