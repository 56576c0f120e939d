package sink

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/fonts"
	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/render"
)

// PNGSurface rasterises onto an in-memory RGBA image with gg.
type PNGSurface struct {
	dc    *gg.Context
	size  geom.Size
	scale float64
	faces *fonts.Faces
	err   error
}

// PNGOption configures a [PNGSurface].
type PNGOption func(*PNGSurface)

// WithPNGScale renders at scale device pixels per layout pixel (default 1).
func WithPNGScale(s float64) PNGOption {
	return func(p *PNGSurface) {
		if s > 0 {
			p.scale = s
		}
	}
}

// WithFaces shares a font face cache across surfaces.
func WithFaces(f *fonts.Faces) PNGOption {
	return func(p *PNGSurface) { p.faces = f }
}

// NewPNGSurface allocates a surface for a size-pixel frame.
func NewPNGSurface(size geom.Size, opts ...PNGOption) *PNGSurface {
	p := &PNGSurface{size: size, scale: 1}
	for _, opt := range opts {
		opt(p)
	}
	if p.faces == nil {
		p.faces = fonts.Default()
	}
	w := max(1, int(math.Ceil(size.W*p.scale)))
	h := max(1, int(math.Ceil(size.H*p.scale)))
	p.dc = gg.NewContext(w, h)
	p.dc.Scale(p.scale, p.scale)
	return p
}

func (p *PNGSurface) Size() geom.Size { return p.size }

func (p *PNGSurface) Clear(c color.RGBA) {
	p.dc.SetColor(c)
	p.dc.Clear()
}

func (p *PNGSurface) BeginElement(_ string, t geom.Transform) {
	p.dc.Push()
	if !t.IsIdentity() {
		p.dc.RotateAbout(t.Radians(), t.Pivot.X, t.Pivot.Y)
	}
}

func (p *PNGSurface) EndElement() { p.dc.Pop() }

func (p *PNGSurface) FillRoundedRect(r geom.Rect, radius float64, c color.RGBA) {
	if c.A == 0 || r.Empty() {
		return
	}
	p.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, clampRadius(r, radius))
	p.dc.SetColor(c)
	p.dc.Fill()
}

func (p *PNGSurface) StrokeRoundedRect(r geom.Rect, radius, width float64, c color.RGBA) {
	if c.A == 0 || width <= 0 || r.Empty() {
		return
	}
	p.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, clampRadius(r, radius))
	p.dc.SetColor(c)
	p.dc.SetLineWidth(width)
	p.dc.Stroke()
}

func (p *PNGSurface) FillEllipse(r geom.Rect, c color.RGBA) {
	if c.A == 0 || r.Empty() {
		return
	}
	p.dc.DrawEllipse(r.CenterX(), r.CenterY(), r.W/2, r.H/2)
	p.dc.SetColor(c)
	p.dc.Fill()
}

func (p *PNGSurface) StrokeEllipse(r geom.Rect, width float64, c color.RGBA) {
	if c.A == 0 || width <= 0 || r.Empty() {
		return
	}
	p.dc.DrawEllipse(r.CenterX(), r.CenterY(), r.W/2, r.H/2)
	p.dc.SetColor(c)
	p.dc.SetLineWidth(width)
	p.dc.Stroke()
}

func (p *PNGSurface) Text(s string, r geom.Rect, size float64, align render.Align, c color.RGBA) {
	if s == "" || size <= 0 {
		return
	}
	face, err := p.faces.Face(size)
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		return
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(c)
	switch align {
	case render.AlignLeft:
		p.dc.DrawStringAnchored(s, r.X, r.CenterY(), 0, 0.35)
	case render.AlignBottom:
		p.dc.DrawStringAnchored(s, r.CenterX(), r.Bottom(), 0.5, 0)
	default:
		p.dc.DrawStringAnchored(s, r.CenterX(), r.CenterY(), 0.5, 0.35)
	}
}

// Image returns the rendered image.
func (p *PNGSurface) Image() image.Image { return p.dc.Image() }

// Err returns the first font error hit while drawing text.
func (p *PNGSurface) Err() error { return p.err }

// Bytes encodes the image as PNG.
func (p *PNGSurface) Bytes() ([]byte, error) {
	if p.err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, p.err, "draw text")
	}
	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderPNG paints sc into a PNG without any external tools.
func RenderPNG(sc render.Scene, opts ...PNGOption) ([]byte, error) {
	size := viewportSize(sc)
	if size.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidViewport, "cannot rasterise a %vx%v frame", size.W, size.H)
	}
	p := NewPNGSurface(size, opts...)
	if err := render.Paint(p, sc); err != nil {
		return nil, err
	}
	return p.Bytes()
}

func clampRadius(r geom.Rect, radius float64) float64 {
	return max(0, min(radius, r.W/2, r.H/2))
}
