// Package pipeline runs layout and rendering for one request: the single
// entry point used by the render command and the preview server.
//
// # Architecture
//
// A run has two stages:
//
//  1. Layout: fit the design table into the requested viewport
//  2. Render: paint the result into every requested format
//
// Rendered frames are cached by design hash, viewport, UI state and
// format, so a server answering the same resize twice only lays out once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Width:   1014,
//	    Height:  680,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pianoxl/pkg/cache"
	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/fonts"
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/state"
)

const (
	// DefaultWidth and DefaultHeight give the base canvas plus the content
	// offset on both sides, so the keyboard renders at scale 1.
	DefaultWidth  = 1014.0
	DefaultHeight = 680.0

	// MaxScale bounds the PNG device scale.
	MaxScale = 4.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures one run. It supports JSON for the server's query
// decoding and for logging.
type Options struct {
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	PixelSnap bool     `json:"pixel_snap,omitempty"`
	Unbounded bool     `json:"unbounded,omitempty"`
	// Scale is the PNG device scale (default 1).
	Scale float64 `json:"scale,omitempty"`
	// State drives labels, selection outlines and the fader thumb.
	// Nil means state.Default().
	State   *state.State `json:"state,omitempty"`
	Refresh bool         `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Table    *design.Table  `json:"-"`
	Measurer fonts.Measurer `json:"-"`
	Logger   *log.Logger    `json:"-"`

	validated bool
}

// ValidateAndSetDefaults fills zero fields and rejects bad values. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 && o.Height == 0 {
		o.Width, o.Height = DefaultWidth, DefaultHeight
	}
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %v], got %v", MaxScale, o.Scale)
	}
	if o.State == nil {
		st := state.Default()
		o.State = &st
	}
	if err := o.State.Validate(); err != nil {
		return err
	}
	if o.Table == nil {
		o.Table = design.Default()
	}
	if o.Unbounded {
		o.Table = o.Table.Unbounded()
	}
	o.validated = true
	return nil
}

// Viewport returns the requested viewport.
func (o Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns the cache key inputs for the layout stage.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		PixelSnap: o.PixelSnap,
		Unbounded: o.Unbounded,
	}
}

// FrameKeyOpts returns the cache key inputs for one rendered format.
func (o Options) FrameKeyOpts(format string) cache.FrameKeyOpts {
	k := cache.FrameKeyOpts{LayoutKeyOpts: o.LayoutKeyOpts(), Format: format}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if o.State != nil {
		k.StateHash = o.State.Hash()
	}
	return k
}

// ValidateFormat checks a single output format. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Result contains the outputs of a run.
type Result struct {
	// Layout is nil when every artifact came from the cache.
	Layout     *layout.Result
	DesignHash string
	// Artifacts holds rendered bytes keyed by format.
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing information.
type Stats struct {
	Elements   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which formats were served from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// AllHit reports whether no rendering was needed.
func (c CacheInfo) AllHit() bool { return len(c.Misses) == 0 && len(c.Hits) > 0 }
