package layout

import (
	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/geom"
)

// Place maps spec's design rectangle to screen space relative to anchor.
func Place(spec design.ElementSpec, anchor geom.Point, scale float64) geom.Rect {
	return geom.Rect{
		X: anchor.X + spec.Rect.X*scale,
		Y: anchor.Y + spec.Rect.Y*scale,
		W: spec.Rect.W * scale,
		H: spec.Rect.H * scale,
	}
}

// ComposeRotation returns the transform that rotates r by degrees about its
// centre. Zero (mod 360) yields the identity.
func ComposeRotation(r geom.Rect, degrees float64) geom.Transform {
	return rotateAbout(r.Center(), degrees)
}

func rotateAbout(pivot geom.Point, degrees float64) geom.Transform {
	t := geom.Transform{Degrees: degrees, Pivot: pivot}
	if t.IsIdentity() {
		return geom.Transform{}
	}
	return t
}

func transformFor(spec design.ElementSpec, r geom.Rect) geom.Transform {
	if spec.Pivot == design.PivotOrigin {
		return rotateAbout(r.Origin(), spec.Rotation)
	}
	return ComposeRotation(r, spec.Rotation)
}
