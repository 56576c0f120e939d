package sink

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/render"
	"github.com/matzehuels/pianoxl/pkg/style"
)

// Default terminal cell size in layout pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	r  rune
	fg color.RGBA
	bg color.RGBA
}

// CellSurface draws onto a character grid for terminal previews. Each cell
// covers CellWidth x CellHeight layout pixels. Rotated elements are drawn
// through their transform: shapes by their rotated bounds, text one rune
// per cell along the rotated baseline.
type CellSurface struct {
	cols, rows int
	cw, ch     float64
	grid       []cell
	stack      []geom.Transform
}

// NewCellSurface creates a cols x rows grid.
func NewCellSurface(cols, rows int) *CellSurface {
	cols, rows = max(cols, 0), max(rows, 0)
	return &CellSurface{
		cols: cols,
		rows: rows,
		cw:   CellWidth,
		ch:   CellHeight,
		grid: make([]cell, cols*rows),
	}
}

// Viewport returns the pixel size the grid represents.
func (s *CellSurface) Viewport() geom.Size {
	return geom.Size{W: float64(s.cols) * s.cw, H: float64(s.rows) * s.ch}
}

func (s *CellSurface) Size() geom.Size { return s.Viewport() }

func (s *CellSurface) Clear(c color.RGBA) {
	for i := range s.grid {
		s.grid[i] = cell{r: ' ', bg: c}
	}
}

func (s *CellSurface) BeginElement(_ string, t geom.Transform) { s.stack = append(s.stack, t) }

func (s *CellSurface) EndElement() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}

func (s *CellSurface) current() geom.Transform {
	if n := len(s.stack); n > 0 {
		return s.stack[n-1]
	}
	return geom.Transform{}
}

func (s *CellSurface) FillRoundedRect(r geom.Rect, _ float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	s.each(s.current().Bounds(r), func(x, y int) { s.grid[y*s.cols+x].bg = c })
}

func (s *CellSurface) StrokeRoundedRect(r geom.Rect, _, _ float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	x0, y0, x1, y1 := s.cellRange(s.current().Bounds(r))
	if x0 > x1 || y0 > y1 {
		return
	}
	for x := x0; x <= x1; x++ {
		s.put(x, y0, '─', c)
		s.put(x, y1, '─', c)
	}
	for y := y0; y <= y1; y++ {
		s.put(x0, y, '│', c)
		s.put(x1, y, '│', c)
	}
	s.put(x0, y0, '╭', c)
	s.put(x1, y0, '╮', c)
	s.put(x0, y1, '╰', c)
	s.put(x1, y1, '╯', c)
}

func (s *CellSurface) FillEllipse(r geom.Rect, c color.RGBA) { s.FillRoundedRect(r, 0, c) }

func (s *CellSurface) StrokeEllipse(r geom.Rect, _ float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	b := s.current().Bounds(r)
	x, y := s.cellAt(b.Center())
	s.put(x, y, '◯', c)
}

func (s *CellSurface) Text(text string, r geom.Rect, _ float64, align render.Align, c color.RGBA) {
	runes := []rune(text)
	if len(runes) == 0 {
		return
	}
	t := s.current()

	// Baseline start and per-rune step in the element's local frame.
	step := geom.Point{X: s.cw}
	start := geom.Point{X: r.CenterX() - float64(len(runes))*s.cw/2, Y: r.CenterY()}
	switch align {
	case render.AlignLeft:
		start.X = r.X
	case render.AlignBottom:
		start.Y = r.Bottom() - s.ch/2
	}
	if !t.IsIdentity() {
		// One rune per cell along the rotated direction.
		dir := t.Apply(step).Sub(t.Apply(geom.Point{}))
		if math.Abs(dir.Y) > math.Abs(dir.X) {
			step = geom.Point{Y: s.ch}
			if dir.Y < 0 {
				step.Y = -s.ch
			}
			center := t.Apply(r.Center())
			start = geom.Point{X: center.X, Y: center.Y - step.Y*float64(len(runes))/2}
			t = geom.Transform{}
		}
	}
	p := t.Apply(start)
	for _, ru := range runes {
		x, y := s.cellAt(geom.Point{X: p.X + s.cw/2, Y: p.Y})
		s.put(x, y, ru, c)
		p = p.Add(step)
	}
}

func (s *CellSurface) cellAt(p geom.Point) (int, int) {
	return int(math.Floor(p.X / s.cw)), int(math.Floor(p.Y / s.ch))
}

func (s *CellSurface) cellRange(r geom.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = s.cellAt(r.Origin())
	x1 = int(math.Ceil(r.Right()/s.cw)) - 1
	y1 = int(math.Ceil(r.Bottom()/s.ch)) - 1
	return max(x0, 0), max(y0, 0), min(x1, s.cols-1), min(y1, s.rows-1)
}

func (s *CellSurface) each(r geom.Rect, fn func(x, y int)) {
	x0, y0, x1, y1 := s.cellRange(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(x, y)
		}
	}
}

func (s *CellSurface) put(x, y int, r rune, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows {
		return
	}
	s.grid[y*s.cols+x].r = r
	s.grid[y*s.cols+x].fg = c
}

// Lines returns the grid as plain text, one string per row.
func (s *CellSurface) Lines() []string {
	out := make([]string, s.rows)
	var b strings.Builder
	for y := range s.rows {
		b.Reset()
		for x := range s.cols {
			r := s.grid[y*s.cols+x].r
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		out[y] = b.String()
	}
	return out
}

// String renders the grid with terminal colours. Runs of cells sharing
// colours are styled together.
func (s *CellSurface) String() string {
	var out strings.Builder
	for y := range s.rows {
		var run strings.Builder
		var cur cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(cellStyle(cur).Render(run.String()))
			run.Reset()
		}
		for x := range s.cols {
			c := s.grid[y*s.cols+x]
			if c.r == 0 {
				c.r = ' '
			}
			if run.Len() > 0 && (c.fg != cur.fg || c.bg != cur.bg) {
				flush()
			}
			cur = c
			run.WriteRune(c.r)
		}
		flush()
		if y < s.rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func cellStyle(c cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if hex, _ := style.Hex(c.fg); hex != "none" {
		st = st.Foreground(lipgloss.Color(hex))
	}
	if hex, _ := style.Hex(c.bg); hex != "none" {
		st = st.Background(lipgloss.Color(hex))
	}
	return st
}

// RenderCells paints sc onto a cols x rows grid. The scene's layout must
// have been computed for the grid's [CellSurface.Viewport].
func RenderCells(sc render.Scene, cols, rows int) (*CellSurface, error) {
	s := NewCellSurface(cols, rows)
	if err := render.Paint(s, sc); err != nil {
		return nil, err
	}
	return s, nil
}
