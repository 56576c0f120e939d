package pipeline

import (
	"context"

	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/render"
	"github.com/matzehuels/pianoxl/pkg/render/sink"
	"github.com/matzehuels/pianoxl/pkg/state"
)

// NewScene combines a layout result with the UI state that changes how it
// is painted.
func NewScene(res *layout.Result, st state.State) render.Scene {
	sc := render.NewScene(res)
	sc.Labels = st.Labels()
	sc.Disabled = st.Disabled()
	sc.Selected = st.SelectedIDs()
	sc.Fader = st.Fader
	return sc
}

// RenderFormat paints sc into one output format.
func RenderFormat(ctx context.Context, sc render.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(sc)
	case FormatPNG:
		return sink.RenderPNG(sc, sink.WithPNGScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, sc)
	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithIndent()}
		if opts.Table != nil {
			jsonOpts = append(jsonOpts, sink.WithDesignHash(opts.Table.Hash()))
		}
		if opts.State != nil {
			jsonOpts = append(jsonOpts, sink.WithState(opts.State))
		}
		return sink.RenderJSON(sc.Layout, jsonOpts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

// RenderAll paints sc into every format in opts.Formats.
func RenderAll(ctx context.Context, sc render.Scene, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := RenderFormat(ctx, sc, f, opts)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}
