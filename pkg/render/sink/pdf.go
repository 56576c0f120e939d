package sink

import (
	"context"

	"github.com/matzehuels/pianoxl/pkg/render"
)

// RenderPDF renders sc as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, sc render.Scene) ([]byte, error) {
	svg, err := RenderSVG(sc)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
