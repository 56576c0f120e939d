package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/render/depgraph"
)

// planCommand prints or renders the layout step dependency graph.
func (c *CLI) planCommand() *cobra.Command {
	var (
		designPath string
		format     string
		output     string
		detailed   bool
		zoom       float64
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the layout step graph",
		Long: `Show the layout step graph.

Every layout pass runs its steps in dependency order: each step may only
read geometry placed by the steps it depends on. This command prints the
order and renders the graph with graphviz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(designPath)
			if err != nil {
				return err
			}
			eng, err := layout.New(table, layout.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			steps := eng.Steps()
			dot := depgraph.ToDOT(steps, depgraph.Options{Detailed: detailed})

			var data []byte
			switch format {
			case "", "text":
				for i, s := range steps {
					fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, StyleValue.Render(string(s.ID)))
				}
				return nil
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = depgraph.RenderSVG(cmd.Context(), dot)
			case "pdf":
				data, err = depgraph.RenderPDF(cmd.Context(), dot)
			case "png":
				data, err = depgraph.RenderPNG(cmd.Context(), dot, zoom)
			default:
				return fmt.Errorf("unknown plan format %q (want text, dot, svg, pdf or png)", format)
			}
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeOutput(output, data); err != nil {
				return err
			}
			printSuccess("Plan written")
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVar(&designPath, "design", "", "design table TOML (default: embedded)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output: text, dot, svg, pdf or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "number steps in execution order")
	cmd.Flags().Float64Var(&zoom, "zoom", 2, "PNG zoom")
	return cmd
}
