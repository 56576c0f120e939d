package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/pipeline"
	"github.com/matzehuels/pianoxl/pkg/render/sink"
)

// layoutCommand prints the computed layout for a window size.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		designPath string
		asJSON     bool
	)
	opts := pipeline.Options{
		Width:  pipeline.DefaultWidth,
		Height: pipeline.DefaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the placed elements for a window size",
		Long: `Print the placed elements for a window size.

Rects are the unrotated element rectangles in window pixels; rotated
elements (the title block) also list their rotation.`,
		Example: `  pianoxl layout --width 800 --height 600
  pianoxl layout --json | jq '.elements[] | select(.kind == "key")'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(designPath)
			if err != nil {
				return err
			}
			opts.Table = table
			opts.Logger = c.Logger

			res, err := pipeline.NewRunner(nil, nil, c.Logger).Layout(opts)
			if err != nil {
				return err
			}
			if asJSON {
				data, err := sink.RenderJSON(res, sink.WithIndent(), sink.WithDesignHash(table.Hash()))
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			printLayout(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&designPath, "design", "", "design table TOML (default: embedded)")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "window width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "window height in pixels")
	cmd.Flags().BoolVar(&opts.PixelSnap, "pixel-snap", false, "truncate element rects to whole pixels")
	cmd.Flags().BoolVar(&opts.Unbounded, "unbounded", false, "ignore the maximum size constraints")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	return cmd
}

func printLayout(w io.Writer, res *layout.Result) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Layout %.0fx%.0f", res.Viewport.Width, res.Viewport.Height)))
	if res.Degenerate {
		fmt.Fprintln(w, StyleWarning.Render("degenerate viewport, nothing placed"))
		return
	}
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("content %s · scale %.4f",
		rectString(res.Fit.Rect().X, res.Fit.Rect().Y, res.Fit.Width, res.Fit.Height), res.Fit.Scale)))
	fmt.Fprintln(w, layoutTable(res).Render())
}

func layoutTable(res *layout.Result) *table.Table {
	rows := make([][]string, 0, len(res.Elements))
	for _, el := range res.Elements {
		rot := ""
		if !el.Transform.IsIdentity() {
			rot = strconv.FormatFloat(el.Transform.Degrees, 'f', -1, 64) + "°"
		}
		rows = append(rows, []string{
			el.ID,
			string(el.Kind),
			rectString(el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H),
			rot,
			strconv.Itoa(len(el.Children)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Kind", "Rect", "Rotate", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle.Foreground(colorWhite)
		})
}

func rectString(x, y, w, h float64) string {
	return fmt.Sprintf("%.1f,%.1f %.1fx%.1f", x, y, w, h)
}
