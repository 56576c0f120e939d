package layout

import (
	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/geom"
)

// Slot is one packed row position. Placeholders keep their consumed span in
// Rect (with zero height) but are never emitted as elements.
type Slot struct {
	Item        design.RowItem `json:"-"`
	ID          string         `json:"id,omitempty"`
	Rect        geom.Rect      `json:"rect"`
	Placeholder bool           `json:"placeholder,omitempty"`
}

// RowResult is the outcome of packing one row.
type RowResult struct {
	ID     string     `json:"id"`
	Origin geom.Point `json:"origin"`
	Slots  []Slot     `json:"slots"`
	// End is the cursor after the last slot: the right edge of the space
	// the row consumed, including the last item's trailing margin.
	End float64 `json:"end"`
}

// Items returns the non-placeholder slots in order.
func (r RowResult) Items() []Slot {
	out := make([]Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		if !s.Placeholder {
			out = append(out, s)
		}
	}
	return out
}

// PackRow lays row out left to right from anchor. The row origin is
// anchor + Offset*scale + OffsetPx; the cursor starts Padding*scale to its
// right. Each real item is drawn at cursor + margin and advances the cursor
// by width + 2*margin; a placeholder advances it by its width only.
func PackRow(row design.RowSpec, anchor geom.Point, scale float64) RowResult {
	origin := anchor.Add(row.Offset.Scale(scale)).Add(row.OffsetPx)
	res := RowResult{
		ID:     row.ID,
		Origin: origin,
		Slots:  make([]Slot, 0, len(row.Items)),
	}

	cursor := origin.X + row.Padding*scale
	for _, it := range row.Items {
		w, h := row.ItemSize(it)
		if it.Placeholder {
			res.Slots = append(res.Slots, Slot{
				Item:        it,
				ID:          it.ID,
				Rect:        geom.Rect{X: cursor, Y: origin.Y, W: w * scale},
				Placeholder: true,
			})
			cursor += w * scale
			continue
		}

		m := row.ItemMargin(it)
		y := origin.Y
		if row.BandHeight > 0 {
			y += (row.BandHeight - h) / 2 * scale
		}
		res.Slots = append(res.Slots, Slot{
			Item: it,
			ID:   it.ID,
			Rect: geom.Rect{X: cursor + m*scale, Y: y, W: w * scale, H: h * scale},
		})
		cursor += (w + 2*m) * scale
	}
	res.End = cursor
	return res
}
