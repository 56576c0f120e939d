package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/internal/server"
	"github.com/matzehuels/pianoxl/pkg/cache"
	"github.com/matzehuels/pianoxl/pkg/preview"
)

// serveCommand creates the HTTP preview server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		designPath string
		noCache    bool
		flags      storeFlags
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preview over HTTP",
		Long: `Serve the preview over HTTP.

Endpoints:
  POST /resize          {"width": w, "height": h} lays out for a new window size
  GET  /frame.{format}  the current frame (svg, png, pdf, json)
  GET  /render.{format} a stateless frame for ?width=&height=
  GET  /layout          the current layout as JSON
  GET  /hit?x=&y=       the element under a point
  POST /click           {"x": x, "y": y} clicks at a point
  GET  /state, PUT /state
  GET  /plan.{dot,svg}  the layout step graph`,
		Example: `  pianoxl serve --addr :8080
  pianoxl serve --store redis --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, designPath, noCache, &flags)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVar(&designPath, "design", "", "design table TOML (default: embedded)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the frame cache for /render")
	flags.register(cmd)
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, designPath string, noCache bool, flags *storeFlags) error {
	table, err := loadTable(designPath)
	if err != nil {
		return err
	}
	store, err := flags.open(ctx, c.Logger)
	if err != nil {
		return err
	}
	shell, err := preview.New(ctx, table,
		preview.WithStore(store, flags.key),
		preview.WithLogger(c.Logger))
	if err != nil {
		store.Close()
		return err
	}
	defer shell.Close()

	// Servers sharing the cache directory keep their frames apart.
	runner, err := c.newRunner(noCache, cache.NewScopedKeyer(nil, "serve:"+addr+":"))
	if err != nil {
		return err
	}
	defer runner.Close()

	printInfo("Serving on %s", StyleHighlight.Render("http://"+addr))
	srv := server.New(shell, server.WithLogger(c.Logger), server.WithRunner(runner))
	return srv.ListenAndServe(ctx, addr)
}
