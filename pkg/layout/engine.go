package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/fonts"
	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/observability"
)

// Engine runs layout passes for one design table. It holds no per-pass
// state and is safe for concurrent use.
type Engine struct {
	table    *design.Table
	steps    []Step
	measurer fonts.Measurer
	snap     bool
	logger   *log.Logger
	hooks    observability.LayoutHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithMeasurer sets the text measurer used to size the title banner.
// Defaults to Go Regular via [fonts.Default].
func WithMeasurer(m fonts.Measurer) Option {
	return func(e *Engine) {
		if m != nil {
			e.measurer = m
		}
	}
}

// WithPixelSnap truncates the content rectangle and every emitted element
// rectangle to whole pixels. The scale is then derived from the truncated
// content width.
func WithPixelSnap() Option { return func(e *Engine) { e.snap = true } }

// WithLogger sets the debug logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks sets the hooks notified after each pass. Defaults to the
// globally registered [observability.Layout] hooks at construction time.
func WithHooks(h observability.LayoutHooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithPlan replaces the placement plan. Every step of [DefaultPlan] must
// still be present; custom plans may only reorder dependencies.
func WithPlan(p Plan) Option {
	return func(e *Engine) { e.steps = p }
}

// New validates the plan and returns an Engine for t.
func New(t *design.Table, opts ...Option) (*Engine, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeNotInitialized, "layout engine needs a design table")
	}
	e := &Engine{
		table:  t,
		steps:  DefaultPlan(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.measurer == nil {
		e.measurer = fonts.Default()
	}
	if e.hooks == nil {
		e.hooks = observability.Layout()
	}
	ordered, err := Plan(e.steps).Order()
	if err != nil {
		return nil, err
	}
	for _, s := range ordered {
		if s.run == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "layout step %q has no implementation", s.ID)
		}
	}
	e.steps = ordered
	return e, nil
}

// Table returns the design table the engine was built with.
func (e *Engine) Table() *design.Table { return e.table }

// Steps returns the validated steps in execution order.
func (e *Engine) Steps() []Step { return e.steps }

// Layout runs one full pass for vp.
func (e *Engine) Layout(vp Viewport) *Result {
	start := time.Now()
	res := &Result{
		Viewport: vp,
		Rows:     make(map[string]RowResult),
		Order:    IDs(e.steps),
	}
	if vp.Degenerate() {
		res.Degenerate = true
		e.logger.Debug("degenerate viewport, skipping layout", "width", vp.Width, "height", vp.Height)
		e.hooks.OnLayout(vp.Width, vp.Height, 0, 0, time.Since(start))
		return res
	}

	p := &pass{engine: e, table: e.table, vp: vp, res: res}
	for _, s := range e.steps {
		s.run(p)
	}
	if res.Fit.Scale <= 0 {
		res.Degenerate = true
		res.Elements = nil
	}

	e.logger.Debug("layout pass",
		"viewport", vp,
		"scale", res.Fit.Scale,
		"content", res.Fit.Rect(),
		"elements", len(res.Elements))
	e.hooks.OnLayout(vp.Width, vp.Height, res.Fit.Scale, len(res.Elements), time.Since(start))
	return res
}

// pass carries the intermediate anchors of a single Layout call.
type pass struct {
	engine *Engine
	table  *design.Table
	vp     Viewport
	res    *Result

	scale       float64
	contentRect geom.Rect
	pianoArea   geom.Point
	buttonsX    float64
}

func (p *pass) snapRect(r geom.Rect) geom.Rect {
	if p.engine.snap {
		return r.Truncate()
	}
	return r
}

func (p *pass) emit(el PlacedElement) {
	el.Rect = p.snapRect(el.Rect)
	for i := range el.Children {
		el.Children[i].Rect = p.snapRect(el.Children[i].Rect)
	}
	p.res.Elements = append(p.res.Elements, el)
}

func (p *pass) content() {
	fit := Fit(p.vp, p.table.Canvas)
	if p.engine.snap && fit.Scale > 0 {
		r := fit.Rect().Truncate()
		fit = FitResult{
			Origin: r.Origin(),
			Width:  r.W,
			Height: r.H,
			Scale:  r.W / p.table.Canvas.BaseWidth,
		}
	}
	p.res.Fit = fit
	p.scale = fit.Scale
	p.contentRect = fit.Rect()
}

func (p *pass) piano() {
	p.pianoArea = p.contentRect.Origin().Add(p.table.Piano.Scale(p.scale))
}

func (p *pass) whiteKeys() { p.packKeys(p.table.WhiteKeys) }

func (p *pass) blackKeys() { p.packKeys(p.table.BlackKeys) }

func (p *pass) packKeys(row design.RowSpec) {
	rr := PackRow(row, p.pianoArea, p.scale)
	p.res.Rows[row.ID] = rr
	for _, s := range rr.Items() {
		p.emit(slotElement(s, p.scale))
	}
}

func (p *pass) title() {
	t := p.table.Title
	textW := p.engine.measurer.TextWidth(t.Text, t.FontSize)
	spec := t.Spec(textW)
	// Snap before composing so the pivot is the centre of the final rect.
	r := p.snapRect(Place(spec, p.pianoArea, p.scale))

	label := ""
	if len(t.SizeModes) > 0 {
		label = t.SizeModes[0]
	}
	p.emit(PlacedElement{
		ID:        spec.ID,
		Kind:      design.KindTitle,
		Label:     t.Text,
		Rect:      r,
		Transform: transformFor(spec, r),
		Scale:     p.scale,
		Children:  titleChildren(r, spec.Rect.W, t, label),
	})
}

// titleChildren lays the banner out in its own unrotated frame using only
// its width and height: the size button hugs the right edge, vertically
// centred, and the label takes the remaining width.
func titleChildren(r geom.Rect, designW float64, t design.Title, buttonLabel string) []PlacedChild {
	k := 0.0
	if designW > 0 {
		k = r.W / designW
	}
	bw, bh, pad := t.ButtonWidth*k, t.ButtonHeight*k, t.Padding*k
	return []PlacedChild{
		{
			ID:    "title-label",
			Kind:  design.KindLabel,
			Label: t.Text,
			Rect:  geom.R(0, 0, max(0, r.W-bw-pad), r.H),
		},
		{
			ID:    "xl-button",
			Kind:  design.KindButton,
			Label: buttonLabel,
			Rect:  geom.R(r.W-bw, (r.H-bh)/2, bw, bh),
		},
	}
}

func (p *pass) buttons() {
	b := p.table.Buttons
	anchor := geom.Point{X: p.contentRect.Right() - b.RightInsetPx, Y: p.contentRect.CenterY()}
	plus, minus := b.Specs()
	pr := Place(plus, anchor, p.scale)
	p.buttonsX = pr.X
	for _, spec := range []design.ElementSpec{plus, minus} {
		p.emit(PlacedElement{
			ID:    spec.ID,
			Kind:  spec.Kind,
			Label: spec.Label,
			Rect:  Place(spec, anchor, p.scale),
			Scale: p.scale,
		})
	}
}

func (p *pass) fader() {
	black := p.res.Rows[p.table.BlackKeys.ID]
	anchor := geom.Point{X: p.buttonsX, Y: black.Origin.Y}
	spec := p.table.Fader.Spec()
	p.emit(PlacedElement{
		ID:    spec.ID,
		Kind:  spec.Kind,
		Rect:  Place(spec, anchor, p.scale),
		Scale: p.scale,
	})
}

// settings places the fixed-size control strip. It is centred on the
// window, not the content, and is laid out at scale 1.
func (p *pass) settings() {
	s := p.table.Settings
	panel := geom.R((p.vp.Width-s.WidthPx)/2, s.TopPx, s.WidthPx, s.HeightPx)
	p.emit(PlacedElement{ID: "settings", Kind: design.KindPanel, Rect: panel, Scale: 1})

	rr := PackRow(s.Row, panel.Origin(), 1)
	p.res.Rows[s.Row.ID] = rr
	for _, slot := range rr.Items() {
		p.emit(slotElement(slot, 1))
	}

	next := rr.End + s.Row.Margin
	for _, el := range s.Trailing {
		p.emit(PlacedElement{
			ID:    el.ID,
			Kind:  el.Kind,
			Label: el.Label,
			Rect:  geom.R(next+el.Rect.X, panel.Y+el.Rect.Y, el.Rect.W, el.Rect.H),
			Scale: 1,
		})
	}
}

func slotElement(s Slot, scale float64) PlacedElement {
	el := PlacedElement{
		ID:        s.ID,
		Kind:      s.Item.Kind,
		Label:     s.Item.Label,
		Shape:     s.Item.Shape,
		Highlight: s.Item.Highlight,
		Rect:      s.Rect,
		Scale:     scale,
	}
	for _, ch := range s.Item.Children {
		el.Children = append(el.Children, PlacedChild{
			ID:    ch.ID,
			Kind:  ch.Kind,
			Label: ch.Label,
			Rect:  ch.Rect.Scale(scale),
		})
	}
	return el
}
