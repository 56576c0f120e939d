// Package layout computes screen rectangles for every element of the
// keyboard preview from a [design.Table] and a window size.
//
// # Overview
//
// A layout pass is a pure function of (table, viewport):
//
//  1. [Fit] aspect-fits the design canvas into the window, applying the
//     canvas clamps in a fixed order, and yields one uniform scale factor.
//  2. [PackRow] places the key rows left to right, honouring per-item
//     margins and placeholder gaps.
//  3. [Place] maps anchored elements (title, buttons, fader) from design
//     space through an anchor point and the scale.
//  4. [ComposeRotation] attaches a rotation about an element's own centre.
//     Child rectangles stay in the element's unrotated local frame.
//
// The order of the placement steps is data: each [Step] names the steps
// it requires, and the [Engine] validates and sorts the plan once at
// construction. Dependants read their anchors from earlier results, e.g.
// the fader is positioned from the buttons' X and the black row's Y.
//
// # Usage
//
//	eng, err := layout.New(design.Default())
//	res := eng.Layout(layout.Viewport{Width: 1024, Height: 600})
//	for _, el := range res.Elements {
//	    fmt.Println(el.ID, el.Rect)
//	}
//
// A viewport with a non-positive side yields a Result with Degenerate set
// and no elements; nothing is painted for it.
package layout
