package render

import (
	"image/color"

	"github.com/matzehuels/pianoxl/pkg/geom"
)

// Align positions text inside its box.
type Align int

const (
	// AlignCenter centres text both ways.
	AlignCenter Align = iota
	// AlignLeft left-aligns text, vertically centred.
	AlignLeft
	// AlignBottom centres text horizontally on the box's bottom edge.
	AlignBottom
)

// Surface is a drawing target. Coordinates are screen pixels in the frame
// set up by the enclosing BeginElement calls.
type Surface interface {
	Size() geom.Size
	Clear(c color.RGBA)

	// BeginElement opens a paint group for element id and applies t to
	// everything drawn until the matching EndElement.
	BeginElement(id string, t geom.Transform)
	EndElement()

	FillRoundedRect(r geom.Rect, radius float64, c color.RGBA)
	StrokeRoundedRect(r geom.Rect, radius, width float64, c color.RGBA)
	FillEllipse(r geom.Rect, c color.RGBA)
	StrokeEllipse(r geom.Rect, width float64, c color.RGBA)
	Text(s string, r geom.Rect, size float64, align Align, c color.RGBA)
}
