package render

import (
	"image/color"

	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/style"
)

// PaintFunc draws one element. The surface already has the element's
// transform applied.
type PaintFunc func(s Surface, el layout.PlacedElement, sc *Scene)

var painters = map[design.Kind]PaintFunc{
	design.KindKey:     paintKey,
	design.KindButton:  paintButton,
	design.KindFader:   paintFader,
	design.KindTitle:   paintTitle,
	design.KindPanel:   paintPanel,
	design.KindControl: paintControl,
	design.KindLabel:   paintLabel,
	design.KindDisplay: paintDisplay,
}

// Painter returns the paint function registered for kind.
func Painter(kind design.Kind) (PaintFunc, bool) {
	p, ok := painters[kind]
	return p, ok
}

// Paint clears s and draws every element of sc.Layout in order. A
// degenerate layout paints the background only.
func Paint(s Surface, sc Scene) error {
	if sc.Layout == nil {
		return errors.New(errors.ErrCodeNotInitialized, "paint before first layout pass")
	}
	s.Clear(sc.Style.Background)
	if sc.Layout.Degenerate {
		return nil
	}
	for _, el := range sc.Layout.Elements {
		p, ok := painters[el.Kind]
		if !ok {
			return errors.New(errors.ErrCodeUnsupported, "no painter for %q (element %s)", el.Kind, el.ID)
		}
		s.BeginElement(el.ID, el.Transform)
		p(s, el, &sc)
		s.EndElement()
	}
	return nil
}

func paintKey(s Surface, el layout.PlacedElement, sc *Scene) {
	st, k := sc.Style, el.Scale
	black := el.Shape == "black"

	fill := st.WhiteKey
	if black {
		fill = st.BlackKey
	}
	if sc.Selected[el.ID] {
		fill = style.Brighter(fill, 0.2)
	}
	s.FillRoundedRect(el.Rect, st.KeyRadius*k, fill)

	var border color.RGBA
	switch {
	case el.Highlight:
		border = st.InScaleBorder
	case black:
		border = st.BlackKeyBorder
	}
	if border.A > 0 {
		bw := st.KeyBorderWidth * k
		s.StrokeRoundedRect(inset(el.Rect, bw/2), st.KeyRadius*k, bw, border)
	}

	textBox := el.Rect
	textBox.H -= st.KeyTextPadding * k
	s.Text(sc.label(el.ID, el.Label), textBox, st.KeyFontSize*k, AlignBottom, st.KeyText)
}

func paintButton(s Surface, el layout.PlacedElement, sc *Scene) {
	st, k := sc.Style, el.Scale
	fill, text := st.Button, st.ButtonText
	if sc.Disabled[el.ID] {
		fill = st.ButtonDisabled
		text.A /= 2
	}
	s.FillRoundedRect(el.Rect, st.ButtonRadius*k, fill)
	s.Text(sc.label(el.ID, el.Label), el.Rect, st.ButtonFontSize*k, AlignCenter, text)
}

func paintFader(s Surface, el layout.PlacedElement, sc *Scene) {
	st, k, r := sc.Style, el.Scale, el.Rect

	tw := st.FaderTrackWidth * k
	s.FillRoundedRect(geom.R(r.CenterX()-tw/2, r.Y, tw, r.H), st.FaderTrackRadius*k, st.FaderTrack)

	v := min(max(sc.Fader, 0), 1)
	thW, thH := st.FaderThumbWidth*k, st.FaderThumbHeight*k
	thumb := geom.R(r.CenterX()-thW/2, r.Y+(1-v)*(r.H-thH), thW, thH)
	s.FillRoundedRect(thumb, thH/2, st.FaderThumb)
	s.StrokeRoundedRect(inset(thumb, 0.5), thH/2, 1, st.FaderThumbBorder)
}

func paintTitle(s Surface, el layout.PlacedElement, sc *Scene) {
	st, k := sc.Style, el.Scale
	for _, ch := range el.Children {
		r := el.ChildScreenRect(ch)
		switch ch.ID {
		case "xl-button":
			s.FillRoundedRect(r, st.SizeRadius*k, st.SizeButton)
			s.StrokeRoundedRect(inset(r, 0.5), st.SizeRadius*k, 1, st.SizeOutline)
			s.Text(sc.label(ch.ID, ch.Label), r, st.TitleFontSize*k, AlignCenter, st.TitleText)
		default:
			s.Text(sc.label(ch.ID, ch.Label), r, st.TitleFontSize*k, AlignLeft, st.TitleText)
		}
	}
}

func paintPanel(s Surface, el layout.PlacedElement, sc *Scene) {
	if sc.Style.Panel.A == 0 {
		return
	}
	s.FillRoundedRect(el.Rect, sc.Style.PanelRadius, sc.Style.Panel)
}

func paintControl(s Surface, el layout.PlacedElement, sc *Scene) {
	st := sc.Style
	bg, border := st.Control, st.ControlBorder
	if sc.Selected[el.ID] {
		bg, border = style.Brighter(bg, 0.1), st.ControlSelected
	}

	switch el.Shape {
	case "circle":
		s.FillEllipse(el.Rect, bg)
		s.StrokeEllipse(inset(el.Rect, st.CircleButtonInset), 1, border)
		s.Text(sc.label(el.ID, el.Label), el.Rect, st.LabelFontSize, AlignCenter, st.ControlText)
	case "stack":
		for _, ch := range el.Children {
			r := el.ChildScreenRect(ch)
			s.FillRoundedRect(r, 0, bg)
			if sc.Selected[el.ID] {
				s.StrokeRoundedRect(r, 0, 1, border)
			}
			size, fg := st.DisplayFontSize, st.ControlText
			if ch.Kind == design.KindLabel {
				size, fg = st.LabelFontSize, st.LabelText
			}
			s.Text(sc.label(ch.ID, ch.Label), r, size, AlignCenter, fg)
		}
	default:
		s.FillRoundedRect(el.Rect, st.ControlRadius, bg)
		s.StrokeRoundedRect(inset(el.Rect, 0.5), st.ControlRadius, 1, border)
		s.Text(sc.label(el.ID, el.Label), el.Rect, st.LabelFontSize, AlignCenter, st.ControlText)
	}
}

func paintLabel(s Surface, el layout.PlacedElement, sc *Scene) {
	s.Text(sc.label(el.ID, el.Label), el.Rect, sc.Style.LabelFontSize, AlignCenter, sc.Style.LabelText)
}

func paintDisplay(s Surface, el layout.PlacedElement, sc *Scene) {
	s.Text(sc.label(el.ID, el.Label), el.Rect, sc.Style.ChordFontSize, AlignCenter, sc.Style.ControlText)
}

func inset(r geom.Rect, d float64) geom.Rect {
	return geom.Rect{X: r.X + d, Y: r.Y + d, W: max(0, r.W-2*d), H: max(0, r.H-2*d)}
}
