package layout

import (
	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/geom"
)

// PlacedElement is an element's final screen geometry. Rect is the
// unrotated rectangle; Transform rotates it (and its children) at paint
// time. Elements are listed in paint order.
type PlacedElement struct {
	ID        string         `json:"id"`
	Kind      design.Kind    `json:"kind"`
	Label     string         `json:"label,omitempty"`
	Shape     string         `json:"shape,omitempty"`
	Highlight bool           `json:"highlight,omitempty"`
	Rect      geom.Rect      `json:"rect"`
	Transform geom.Transform `json:"transform"`
	// Scale is the factor text and stroke sizes should be multiplied by.
	Scale    float64       `json:"scale"`
	Children []PlacedChild `json:"children,omitempty"`
}

// PlacedChild is a sub-element in its parent's unrotated local frame,
// relative to the parent's top-left corner.
type PlacedChild struct {
	ID    string      `json:"id"`
	Kind  design.Kind `json:"kind"`
	Label string      `json:"label,omitempty"`
	Rect  geom.Rect   `json:"rect"`
}

// Bounds returns the element's on-screen bounding box after rotation.
func (e PlacedElement) Bounds() geom.Rect { return e.Transform.Bounds(e.Rect) }

// ChildScreenRect returns the unrotated screen rect of child c.
func (e PlacedElement) ChildScreenRect(c PlacedChild) geom.Rect {
	return c.Rect.Translate(e.Rect.Origin())
}

// Result is the output of one layout pass.
type Result struct {
	Viewport   Viewport             `json:"viewport"`
	Fit        FitResult            `json:"fit"`
	Elements   []PlacedElement      `json:"elements"`
	Rows       map[string]RowResult `json:"rows"`
	Order      []StepID             `json:"order"`
	Degenerate bool                 `json:"degenerate,omitempty"`
}

// Element looks an element up by ID.
func (r *Result) Element(id string) (PlacedElement, bool) {
	for _, el := range r.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return PlacedElement{}, false
}

// Hit identifies what lies under a screen point.
type Hit struct {
	Element PlacedElement
	// Child is empty when the point is on the element but not on a child.
	Child string
	// Local is the point in the element's unrotated local frame.
	Local geom.Point
}

// HitTest returns the topmost element under p. Rotated elements are tested
// in their own frame by inverting their transform. Elements that react to
// input win over passive ones (panels, labels, displays) painted above them.
func (r *Result) HitTest(p geom.Point) (Hit, bool) {
	if hit, ok := r.hitTest(p, true); ok {
		return hit, true
	}
	return r.hitTest(p, false)
}

func (r *Result) hitTest(p geom.Point, skipPassive bool) (Hit, bool) {
	for i := len(r.Elements) - 1; i >= 0; i-- {
		el := r.Elements[i]
		if skipPassive && el.Kind.Passive() {
			continue
		}
		q := el.Transform.Unapply(p)
		if !el.Rect.Contains(q) {
			continue
		}
		local := q.Sub(el.Rect.Origin())
		hit := Hit{Element: el, Local: local}
		for j := len(el.Children) - 1; j >= 0; j-- {
			if el.Children[j].Rect.Contains(local) {
				hit.Child = el.Children[j].ID
				break
			}
		}
		return hit, true
	}
	return Hit{}, false
}

// Bounds returns the union of every element's rotated bounding box.
func (r *Result) Bounds() geom.Rect {
	var pts []geom.Point
	for _, el := range r.Elements {
		c := el.Bounds().Corners()
		pts = append(pts, c[0], c[2])
	}
	return geom.Bounds(pts...)
}
