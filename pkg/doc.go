// Package pkg holds the libraries behind pianoxl, the proportional layout
// engine for a virtual piano keyboard preview.
//
// # Overview
//
// Every element of the preview (keys, title block, zoom buttons, fader and
// the settings strip) is described in a fixed design space. For each window
// size the engine fits that space into the window, places every element and
// hands the result to a renderer. The packages are organized as:
//
//  1. [design], [geom] - the design table and the 2D primitives
//  2. [layout] - viewport fitting, row packing, placement and rotation
//  3. [render] - painting onto SVG, PNG, PDF, JSON and terminal surfaces
//  4. [state], [cache] - persisted UI state and cached frames
//  5. [pipeline], [preview] - orchestration (layout then render) and the
//     resize/paint shell driven by a window
//
// # Architecture
//
// A frame flows through:
//
//	Design table (TOML)
//	         ↓
//	    [layout] package (fit + place, in step order)
//	         ↓
//	    [render] package (scene + surface)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Lay out the default keyboard for a window and render it:
//
//	import (
//	    "github.com/matzehuels/pianoxl/pkg/design"
//	    "github.com/matzehuels/pianoxl/pkg/layout"
//	    "github.com/matzehuels/pianoxl/pkg/render"
//	    "github.com/matzehuels/pianoxl/pkg/render/sink"
//	)
//
//	eng, err := layout.New(design.Default())
//	if err != nil {
//	    return err
//	}
//	res := eng.Layout(layout.Viewport{Width: 1280, Height: 800})
//	svg, err := sink.RenderSVG(render.Scene{Layout: res})
//
// For cached, multi-format output use [pipeline.Runner]; for interactive
// use [preview.Shell].
package pkg
