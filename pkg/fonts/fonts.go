// Package fonts provides the single font used to size and draw text in the
// preview, and a width query over it.
//
// Go Regular is bundled with golang.org/x/image, so no font files need to be
// installed for PNG output or for measuring the title banner.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family written into SVG output.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// Measurer answers "how wide is this string at this size". The layout engine
// depends only on this interface.
type Measurer interface {
	TextWidth(text string, size float64) float64
}

var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Faces caches one font.Face per size. It is safe for concurrent use.
type Faces struct {
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFaces creates an empty face cache.
func NewFaces() *Faces {
	return &Faces{faces: make(map[float64]font.Face)}
}

// Face returns the Go Regular face at size pixels (72 DPI, no hinting).
func (f *Faces) Face(size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	fnt, err := Regular()
	if err != nil {
		return nil, fmt.Errorf("parse go regular: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %.1fpx: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// TextWidth implements [Measurer]. A face that cannot be built falls back to
// an average advance of 0.6em per rune.
func (f *Faces) TextWidth(text string, size float64) float64 {
	face, err := f.Face(size)
	if err != nil {
		return float64(len([]rune(text))) * size * 0.6
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	adv := font.MeasureString(face, text)
	return float64(adv) / 64
}

var (
	shared     *Faces
	sharedOnce sync.Once
)

// Default returns a process-wide face cache.
func Default() *Faces {
	sharedOnce.Do(func() { shared = NewFaces() })
	return shared
}

// Fixed is a [Measurer] returning a constant advance per rune, for tests and
// for callers that need a result independent of font metrics.
type Fixed float64

// TextWidth implements [Measurer].
func (f Fixed) TextWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * float64(f) * size
}
