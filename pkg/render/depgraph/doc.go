// Package depgraph renders the layout engine's step plan as a node-link
// diagram.
//
// Each placement step is a box; an arrow from A to B means B reads an
// anchor A produced. The diagram is the quickest way to check that a
// customised [layout.Plan] still places the fader after the buttons and
// the black keys.
//
//	dot := depgraph.ToDOT(eng.Steps(), depgraph.Options{Detailed: true})
//	svg, err := depgraph.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]. PDF and PNG conversion requires librsvg.
//
// [layout.Plan]: github.com/matzehuels/pianoxl/pkg/layout.Plan
package depgraph
