package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/pipeline"
	"github.com/matzehuels/pianoxl/pkg/render"
	"github.com/matzehuels/pianoxl/pkg/state"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string
	formats    string
	designPath string
	noCache    bool
	withState  bool
	size       string
	selected   string
	fader      float64
	store      storeFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	opts := pipeline.Options{
		Width:  pipeline.DefaultWidth,
		Height: pipeline.DefaultHeight,
		Scale:  1,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the keyboard preview for a window size",
		Long: `Render the keyboard preview for a window size.

The keyboard keeps its aspect ratio and is centred in the window; the
settings strip stays at a fixed pixel size. Frames are cached locally so
repeated renders of the same size and state are instant.

With several formats, --output is used as a base path and each format gets
its own extension.`,
		Example: `  pianoxl render --width 1920 --height 1080 -f svg,png
  pianoxl render --size XXL --select inversion -o keyboard.pdf -f pdf
  pianoxl render --with-state --store redis --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (default: pianoxl)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&ro.designPath, "design", "", "design table TOML (default: embedded)")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "window width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "window height in pixels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG device scale")
	cmd.Flags().BoolVar(&opts.PixelSnap, "pixel-snap", false, "truncate element rects to whole pixels")
	cmd.Flags().BoolVar(&opts.Unbounded, "unbounded", false, "ignore the maximum size constraints")

	cmd.Flags().BoolVar(&ro.withState, "with-state", false, "render the persisted UI state")
	cmd.Flags().StringVar(&ro.size, "size", "", "size button label: XL, XXL or XXXL")
	cmd.Flags().StringVar(&ro.selected, "select", "", "selected control: key, mode, octave or inversion")
	cmd.Flags().Float64Var(&ro.fader, "fader", -1, "fader position in [0, 1]")
	ro.store.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ro renderOpts) error {
	opts.Formats = parseFormats(ro.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if slices.Contains(opts.Formats, pipeline.FormatPDF) && !render.HasRSVG() {
		if len(opts.Formats) == 1 {
			return fmt.Errorf("pdf output requires rsvg-convert (brew install librsvg, apt install librsvg2-bin)")
		}
		printWarning("Skipping pdf: rsvg-convert not found")
		opts.Formats = slices.DeleteFunc(opts.Formats, func(f string) bool { return f == pipeline.FormatPDF })
	}

	table, err := loadTable(ro.designPath)
	if err != nil {
		return err
	}
	opts.Table = table

	st, err := c.renderState(ctx, ro)
	if err != nil {
		return err
	}
	opts.State = &st

	runner, err := c.newRunner(ro.noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %.0fx%.0f...", opts.Width, opts.Height))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.stage("pipeline", "layout", res.Stats.LayoutTime, "render", res.Stats.RenderTime, "hits", res.CacheInfo.Hits)

	paths := outputPaths(ro.output, opts.Formats)
	for _, f := range opts.Formats {
		if err := writeOutput(paths[f], res.Artifacts[f]); err != nil {
			return err
		}
		prog.stage("write", "path", paths[f], "bytes", len(res.Artifacts[f]))
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)), "cached", res.CacheInfo.AllHit())

	printSuccess("Render complete")
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	elements, scale := 0, 0.0
	if res.Layout != nil {
		elements, scale = len(res.Layout.Elements), res.Layout.Fit.Scale
	}
	printStats(elements, scale, res.CacheInfo.AllHit())
	printNewline()
	printNextStep("Preview interactively", "pianoxl preview")
	return nil
}

// renderState builds the UI state for a render from the store (when
// --with-state is set) and the per-field overrides.
func (c *CLI) renderState(ctx context.Context, ro renderOpts) (state.State, error) {
	st := state.Default()
	if ro.withState {
		store, err := ro.store.open(ctx, c.Logger)
		if err != nil {
			return st, err
		}
		defer store.Close()
		if st, err = state.LoadOrDefault(ctx, store, ro.store.key); err != nil {
			return st, err
		}
	}
	if ro.size != "" {
		st.Size = strings.ToUpper(ro.size)
	}
	if ro.selected != "" {
		st.Selected = ro.selected
	}
	if ro.fader >= 0 {
		st.Fader = ro.fader
	}
	return st, st.Validate()
}

// outputPaths maps each format to its output file. A single format writes
// to output as given; several formats share output as a base path.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, defaulting to the
// app name.
func basePath(output string) string {
	if output == "" {
		return appName
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
