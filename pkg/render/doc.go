// Package render paints a computed layout onto a drawing surface.
//
// # Overview
//
// Painting is split in two halves:
//
//   - [Surface] is the opaque drawing target: rounded rectangles, ellipses,
//     text and a transform stack. Implementations live in [sink] (SVG,
//     PNG via gg, terminal cells).
//   - [Paint] walks a [layout.Result] in paint order and dispatches each
//     element to the painter registered for its [design.Kind]. The style
//     table is passed in explicitly with the [Scene].
//
// Each element is painted between BeginElement and EndElement, which push
// its rotation. Children are drawn in the element's unrotated frame, so a
// rotated title rotates its label and size button with it.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output through the external rsvg-convert
// tool (from librsvg):
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
package render
