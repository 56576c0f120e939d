package design

import (
	"github.com/matzehuels/pianoxl/pkg/geom"
)

// Kind tags what an element is, which decides how it is painted.
type Kind string

const (
	KindKey     Kind = "key"
	KindButton  Kind = "button"
	KindFader   Kind = "fader"
	KindTitle   Kind = "title"
	KindPanel   Kind = "panel"
	KindControl Kind = "control"
	KindLabel   Kind = "label"
	KindDisplay Kind = "display"
)

// Passive reports whether the kind only decorates or reports state and never
// reacts to a click.
func (k Kind) Passive() bool {
	return k == KindPanel || k == KindLabel || k == KindDisplay
}

// Pivot selects the rotation centre of an element.
type Pivot string

const (
	PivotCenter Pivot = "center"
	PivotOrigin Pivot = "origin"
)

// ElementSpec describes one element in design space relative to an anchor.
type ElementSpec struct {
	ID       string    `toml:"id" json:"id"`
	Kind     Kind      `toml:"kind" json:"kind"`
	Label    string    `toml:"label" json:"label,omitempty"`
	Shape    string    `toml:"shape" json:"shape,omitempty"`
	Rect     geom.Rect `toml:"rect" json:"rect"`
	Rotation float64   `toml:"rotation" json:"rotation,omitempty"`
	Pivot    Pivot     `toml:"pivot" json:"pivot,omitempty"`
}

// RowItem is one slot of a [RowSpec]. Zero Width/Height fall back to the
// row's item size and a nil Margin to the row's margin. For placeholders
// Width is the horizontal distance consumed.
type RowItem struct {
	ID          string        `toml:"id"`
	Kind        Kind          `toml:"kind"`
	Label       string        `toml:"label"`
	Shape       string        `toml:"shape"`
	Placeholder bool          `toml:"placeholder"`
	Highlight   bool          `toml:"highlight"`
	Width       float64       `toml:"width"`
	Height      float64       `toml:"height"`
	Margin      *float64      `toml:"margin"`
	Children    []ElementSpec `toml:"children"`
}

// RowSpec is a horizontal run of items packed left to right.
type RowSpec struct {
	ID         string     `toml:"id"`
	Kind       Kind       `toml:"kind"`
	ItemWidth  float64    `toml:"item_width"`
	ItemHeight float64    `toml:"item_height"`
	Margin     float64    `toml:"margin"`
	Padding    float64    `toml:"padding"`
	Offset     geom.Point `toml:"offset"`
	OffsetPx   geom.Point `toml:"offset_px"`
	// BandHeight, when positive, centres every item vertically in a band
	// of this height instead of top-aligning it.
	BandHeight float64   `toml:"band_height"`
	Items      []RowItem `toml:"items"`
}

// Constraints bound the fitted content size. Zero fields are inactive.
type Constraints struct {
	MinWidth  float64 `toml:"min_width" json:"min_width"`
	MinHeight float64 `toml:"min_height" json:"min_height"`
	MaxWidth  float64 `toml:"max_width" json:"max_width"`
	MaxHeight float64 `toml:"max_height" json:"max_height"`
}

// Canvas is the design-space frame that is aspect-fitted into the window.
type Canvas struct {
	BaseWidth   float64     `toml:"base_width"`
	BaseHeight  float64     `toml:"base_height"`
	Constraints Constraints `toml:"constraints"`
	// OffsetPx is added to the centred content origin.
	OffsetPx geom.Point `toml:"offset_px"`
}

// Aspect returns BaseWidth / BaseHeight.
func (c Canvas) Aspect() float64 { return c.BaseWidth / c.BaseHeight }

// Title is the rotated banner holding the product name and the size button.
type Title struct {
	Offset       geom.Point `toml:"offset"`
	Text         string     `toml:"text"`
	FontSize     float64    `toml:"font_size"`
	Padding      float64    `toml:"padding"`
	ButtonWidth  float64    `toml:"button_width"`
	ButtonHeight float64    `toml:"button_height"`
	Rotation     float64    `toml:"rotation"`
	SizeModes    []string   `toml:"size_modes"`
}

// DesignSize returns the unrotated banner size for a measured text width.
func (t Title) DesignSize(textWidth float64) geom.Size {
	return geom.Size{
		W: textWidth + t.Padding + t.ButtonWidth,
		H: max(t.FontSize, t.ButtonHeight),
	}
}

// Spec returns the banner's element spec relative to the piano area.
func (t Title) Spec(textWidth float64) ElementSpec {
	sz := t.DesignSize(textWidth)
	return ElementSpec{
		ID:       "title",
		Kind:     KindTitle,
		Label:    t.Text,
		Rect:     geom.R(t.Offset.X, t.Offset.Y, sz.W, sz.H),
		Rotation: t.Rotation,
		Pivot:    PivotCenter,
	}
}

// Buttons is the plus/minus pair anchored to the right edge of the content.
type Buttons struct {
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	Spacing         float64 `toml:"spacing"`
	RightInset      float64 `toml:"right_inset"`
	RightInsetPx    float64 `toml:"right_inset_px"`
	RaiseFromCenter float64 `toml:"raise_from_center"`
}

// Specs returns the plus and minus specs relative to the anchor
// (content.Right - RightInsetPx, content.CenterY).
func (b Buttons) Specs() (plus, minus ElementSpec) {
	x := -(b.Width + b.RightInset)
	top := -(b.Height + b.Spacing/2) - b.RaiseFromCenter
	plus = ElementSpec{ID: "plus", Kind: KindButton, Label: "+", Rect: geom.R(x, top, b.Width, b.Height)}
	minus = ElementSpec{ID: "minus", Kind: KindButton, Label: "-", Rect: geom.R(x, top+b.Height+b.Spacing, b.Width, b.Height)}
	return plus, minus
}

// Fader is the vertical slider anchored at (buttons.X, blackRow.Y).
type Fader struct {
	Width          float64 `toml:"width"`
	Height         float64 `toml:"height"`
	LeftOfButtons  float64 `toml:"left_of_buttons"`
	BelowBlackKeys float64 `toml:"below_black_keys"`
	TrackWidth     float64 `toml:"track_width"`
	ThumbWidth     float64 `toml:"thumb_width"`
	ThumbHeight    float64 `toml:"thumb_height"`
	Step           float64 `toml:"step"`
	Default        float64 `toml:"default"`
}

// Spec returns the fader spec relative to its anchor.
func (f Fader) Spec() ElementSpec {
	return ElementSpec{
		ID:   "fader",
		Kind: KindFader,
		Rect: geom.R(-f.LeftOfButtons, f.BelowBlackKeys, f.Width, f.Height),
	}
}

// SnapPoints returns 0, Step, 2*Step, ... up to and including 1.
func (f Fader) SnapPoints() []float64 {
	if f.Step <= 0 {
		return []float64{0, 1}
	}
	n := int(1/f.Step + 0.5)
	pts := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, float64(i)*f.Step)
	}
	return pts
}

// Settings is the fixed-size control strip at the top of the window. It is
// laid out in screen pixels and does not follow the content scale.
type Settings struct {
	WidthPx  float64 `toml:"width_px"`
	HeightPx float64 `toml:"height_px"`
	TopPx    float64 `toml:"top_px"`
	Row      RowSpec `toml:"row"`
	// Trailing elements are positioned relative to the slot that would
	// follow the last row item. Rect.Y is panel-local.
	Trailing []ElementSpec `toml:"trailing"`
}

// Table is the complete design description.
type Table struct {
	Canvas    Canvas     `toml:"canvas"`
	Piano     geom.Point `toml:"piano"`
	WhiteKeys RowSpec    `toml:"white_keys"`
	BlackKeys RowSpec    `toml:"black_keys"`
	Title     Title      `toml:"title"`
	Buttons   Buttons    `toml:"buttons"`
	Fader     Fader      `toml:"fader"`
	Settings  Settings   `toml:"settings"`
}

// ItemSize returns the effective design size of item within row.
func (r RowSpec) ItemSize(it RowItem) (w, h float64) {
	w, h = r.ItemWidth, r.ItemHeight
	if it.Width > 0 {
		w = it.Width
	}
	if it.Height > 0 {
		h = it.Height
	}
	return w, h
}

// ItemMargin returns the effective horizontal margin of item within row.
func (r RowSpec) ItemMargin(it RowItem) float64 {
	if it.Margin != nil {
		return *it.Margin
	}
	return r.Margin
}

// Extent returns the design width the row consumes from its origin,
// including the leading padding.
func (r RowSpec) Extent() float64 {
	x := r.Padding
	for _, it := range r.Items {
		w, _ := r.ItemSize(it)
		if it.Placeholder {
			x += w
			continue
		}
		x += w + 2*r.ItemMargin(it)
	}
	return x
}
