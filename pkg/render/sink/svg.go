package sink

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"math"
	"strconv"

	"github.com/matzehuels/pianoxl/pkg/fonts"
	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/render"
	"github.com/matzehuels/pianoxl/pkg/style"
)

// SVGSurface writes SVG markup into a buffer. Call Bytes once painting is
// done to get the closed document.
type SVGSurface struct {
	buf    bytes.Buffer
	size   geom.Size
	depth  int
	closed bool
}

// NewSVGSurface starts a document of the given pixel size.
func NewSVGSurface(size geom.Size) *SVGSurface {
	s := &SVGSurface{size: size}
	fmt.Fprintf(&s.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(size.W), num(size.H), size.W, size.H)
	return s
}

func (s *SVGSurface) Size() geom.Size { return s.size }

func (s *SVGSurface) Clear(c color.RGBA) {
	fmt.Fprintf(&s.buf, `  <rect width="100%%" height="100%%"%s/>`+"\n", fillAttrs(c))
}

func (s *SVGSurface) BeginElement(id string, t geom.Transform) {
	s.depth++
	fmt.Fprintf(&s.buf, `  <g id="%s"`, html.EscapeString(id))
	if !t.IsIdentity() {
		fmt.Fprintf(&s.buf, ` transform="rotate(%s %s %s)"`, num(t.Degrees), num(t.Pivot.X), num(t.Pivot.Y))
	}
	s.buf.WriteString(">\n")
}

func (s *SVGSurface) EndElement() {
	if s.depth == 0 {
		return
	}
	s.depth--
	s.buf.WriteString("  </g>\n")
}

func (s *SVGSurface) FillRoundedRect(r geom.Rect, radius float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	fmt.Fprintf(&s.buf, `    <rect %s rx="%s"%s/>`+"\n", rectAttrs(r), num(radius), fillAttrs(c))
}

func (s *SVGSurface) StrokeRoundedRect(r geom.Rect, radius, width float64, c color.RGBA) {
	if c.A == 0 || width <= 0 {
		return
	}
	fmt.Fprintf(&s.buf, `    <rect %s rx="%s" fill="none"%s/>`+"\n", rectAttrs(r), num(radius), strokeAttrs(c, width))
}

func (s *SVGSurface) FillEllipse(r geom.Rect, c color.RGBA) {
	if c.A == 0 {
		return
	}
	fmt.Fprintf(&s.buf, `    <ellipse %s%s/>`+"\n", ellipseAttrs(r), fillAttrs(c))
}

func (s *SVGSurface) StrokeEllipse(r geom.Rect, width float64, c color.RGBA) {
	if c.A == 0 || width <= 0 {
		return
	}
	fmt.Fprintf(&s.buf, `    <ellipse %s fill="none"%s/>`+"\n", ellipseAttrs(r), strokeAttrs(c, width))
}

func (s *SVGSurface) Text(text string, r geom.Rect, size float64, align render.Align, c color.RGBA) {
	if text == "" {
		return
	}
	x, y, anchor, baseline := r.CenterX(), r.CenterY(), "middle", "central"
	switch align {
	case render.AlignLeft:
		x, anchor = r.X, "start"
	case render.AlignBottom:
		y, baseline = r.Bottom(), "text-after-edge"
	}
	fmt.Fprintf(&s.buf, `    <text x="%s" y="%s" text-anchor="%s" dominant-baseline="%s" font-family="%s" font-size="%s"%s>%s</text>`+"\n",
		num(x), num(y), anchor, baseline, html.EscapeString(fonts.FontFamily), num(size), fillAttrs(c), html.EscapeString(text))
}

// Bytes closes any open groups and the document and returns the markup.
func (s *SVGSurface) Bytes() []byte {
	if !s.closed {
		for s.depth > 0 {
			s.EndElement()
		}
		s.buf.WriteString("</svg>\n")
		s.closed = true
	}
	return s.buf.Bytes()
}

// RenderSVG paints sc onto a viewport-sized SVG document.
func RenderSVG(sc render.Scene) ([]byte, error) {
	s := NewSVGSurface(viewportSize(sc))
	if err := render.Paint(s, sc); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

func viewportSize(sc render.Scene) geom.Size {
	if sc.Layout == nil {
		return geom.Size{}
	}
	return geom.Size{W: sc.Layout.Viewport.Width, H: sc.Layout.Viewport.Height}
}

func rectAttrs(r geom.Rect) string {
	return fmt.Sprintf(`x="%s" y="%s" width="%s" height="%s"`, num(r.X), num(r.Y), num(r.W), num(r.H))
}

func ellipseAttrs(r geom.Rect) string {
	return fmt.Sprintf(`cx="%s" cy="%s" rx="%s" ry="%s"`, num(r.CenterX()), num(r.CenterY()), num(r.W/2), num(r.H/2))
}

func fillAttrs(c color.RGBA) string {
	hex, op := style.Hex(c)
	if op >= 1 {
		return fmt.Sprintf(` fill="%s"`, hex)
	}
	return fmt.Sprintf(` fill="%s" fill-opacity="%s"`, hex, num(op))
}

func strokeAttrs(c color.RGBA, width float64) string {
	hex, op := style.Hex(c)
	if op >= 1 {
		return fmt.Sprintf(` stroke="%s" stroke-width="%s"`, hex, num(width))
	}
	return fmt.Sprintf(` stroke="%s" stroke-width="%s" stroke-opacity="%s"`, hex, num(width), num(op))
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
