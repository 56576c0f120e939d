// Package sink provides the concrete drawing surfaces and output formats
// for a painted frame.
//
// # Overview
//
// A "sink" turns a [render.Scene] into bytes. This package provides:
//
//   - SVG: [SVGSurface], one <g> per element carrying its rotation
//   - PNG: [PNGSurface], rasterised in-process with fogleman/gg
//   - PDF: [RenderPDF], SVG converted through rsvg-convert
//   - JSON: [RenderJSON], the layout result itself
//   - Cells: [CellSurface], a character grid for terminal previews
//
// Basic usage:
//
//	svg, err := sink.RenderSVG(scene)
//	png, err := sink.RenderPNG(scene, sink.WithPNGScale(2))
//
// PNG output does not need librsvg: gg draws directly into an RGBA image
// using the Go Regular font from [fonts]. PDF output does.
//
// [render.Scene]: github.com/matzehuels/pianoxl/pkg/render.Scene
// [fonts]: github.com/matzehuels/pianoxl/pkg/fonts
package sink
