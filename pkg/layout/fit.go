package layout

import (
	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/geom"
)

// Viewport is the window's drawable size in screen pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Degenerate reports whether either side is non-positive.
func (v Viewport) Degenerate() bool { return v.Width <= 0 || v.Height <= 0 }

// FitResult is the content rectangle chosen for a viewport.
type FitResult struct {
	Origin geom.Point `json:"origin"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Scale  float64    `json:"scale"`
}

// Rect returns the content rectangle.
func (f FitResult) Rect() geom.Rect {
	return geom.Rect{X: f.Origin.X, Y: f.Origin.Y, W: f.Width, H: f.Height}
}

// Fit aspect-fits the canvas into vp. The content is centred in the window
// and then shifted by the canvas pixel offset.
func Fit(vp Viewport, c design.Canvas) FitResult {
	if vp.Degenerate() || c.BaseWidth <= 0 || c.BaseHeight <= 0 {
		return FitResult{}
	}
	w, h := FitSize(vp.Width, vp.Height, c.Aspect(), c.Constraints)
	return FitResult{
		Origin: geom.Point{
			X: (vp.Width-w)/2 + c.OffsetPx.X,
			Y: (vp.Height-h)/2 + c.OffsetPx.Y,
		},
		Width:  w,
		Height: h,
		Scale:  w / c.BaseWidth,
	}
}

// FitSize returns the content size for a window of vw×vh at the given
// aspect ratio. Clamps run in a fixed order (min width, min height, max
// height, max width) and each recomputes the other axis, so the last
// active clamp wins when they conflict.
func FitSize(vw, vh, aspect float64, k design.Constraints) (w, h float64) {
	if vw/vh > aspect {
		h = vh
		w = h * aspect
	} else {
		w = vw
		h = w / aspect
	}

	if w < k.MinWidth {
		w = k.MinWidth
		h = w / aspect
	}
	if k.MinHeight > 0 && h < k.MinHeight {
		h = k.MinHeight
		w = h * aspect
	}
	if k.MaxHeight > 0 && h > k.MaxHeight {
		h = k.MaxHeight
		w = h * aspect
	}
	if k.MaxWidth > 0 && w > k.MaxWidth {
		w = k.MaxWidth
		h = w / aspect
	}
	return w, h
}
