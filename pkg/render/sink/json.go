package sink

import (
	"encoding/json"

	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	designHash string
	state      any
	indent     bool
}

// WithDesignHash records the hash of the design table the frame was laid
// out from.
func WithDesignHash(h string) JSONOption { return func(r *jsonRenderer) { r.designHash = h } }

// WithState embeds the UI state alongside the geometry.
func WithState(s any) JSONOption { return func(r *jsonRenderer) { r.state = s } }

// WithIndent pretty-prints the output.
func WithIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Design     string              `json:"design,omitempty"`
	Viewport   layout.Viewport     `json:"viewport"`
	Fit        layout.FitResult    `json:"fit"`
	Degenerate bool                `json:"degenerate,omitempty"`
	Order      []layout.StepID     `json:"order"`
	Rows       map[string]jsonRow  `json:"rows,omitempty"`
	Elements   []jsonElement       `json:"elements"`
	Kinds      map[design.Kind]int `json:"kinds,omitempty"`
	State      any                 `json:"state,omitempty"`
}

type jsonRow struct {
	OriginX float64  `json:"origin_x"`
	OriginY float64  `json:"origin_y"`
	End     float64  `json:"end"`
	Items   []string `json:"items"`
}

type jsonElement struct {
	layout.PlacedElement
	Bounds struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"bounds"`
}

// RenderJSON exports a layout result for external tools. Each element
// carries both its unrotated rect and its rotated screen bounds.
func RenderJSON(res *layout.Result, opts ...JSONOption) ([]byte, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeNotInitialized, "no layout to export")
	}
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Design:     r.designHash,
		Viewport:   res.Viewport,
		Fit:        res.Fit,
		Degenerate: res.Degenerate,
		Order:      res.Order,
		Elements:   make([]jsonElement, 0, len(res.Elements)),
		State:      r.state,
	}
	if len(res.Rows) > 0 {
		out.Rows = make(map[string]jsonRow, len(res.Rows))
		for id, row := range res.Rows {
			jr := jsonRow{OriginX: row.Origin.X, OriginY: row.Origin.Y, End: row.End}
			for _, s := range row.Items() {
				jr.Items = append(jr.Items, s.ID)
			}
			out.Rows[id] = jr
		}
	}
	for _, el := range res.Elements {
		je := jsonElement{PlacedElement: el}
		b := el.Bounds()
		je.Bounds.X, je.Bounds.Y, je.Bounds.W, je.Bounds.H = b.X, b.Y, b.W, b.H
		out.Elements = append(out.Elements, je)
		if out.Kinds == nil {
			out.Kinds = make(map[design.Kind]int)
		}
		out.Kinds[el.Kind]++
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
