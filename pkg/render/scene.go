package render

import (
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/style"
)

// Scene is everything a paint call needs: the geometry, the style table and
// the UI state that changes how elements look.
type Scene struct {
	Layout *layout.Result
	Style  style.Table

	// Labels overrides element or child labels by ID, e.g. the size
	// button's XL/XXL/XXXL text or the chord display.
	Labels map[string]string
	// Disabled dims elements by ID.
	Disabled map[string]bool
	// Selected outlines settings controls by ID.
	Selected map[string]bool
	// Fader is the fader position in [0, 1].
	Fader float64
}

// NewScene returns a scene with the default style and no overrides.
func NewScene(res *layout.Result) Scene {
	return Scene{Layout: res, Style: style.Default()}
}

func (sc *Scene) label(id, fallback string) string {
	if v, ok := sc.Labels[id]; ok {
		return v
	}
	return fallback
}
