package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pianoxl/pkg/buildinfo"
	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/httputil"
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/pipeline"
	"github.com/matzehuels/pianoxl/pkg/render/depgraph"
	"github.com/matzehuels/pianoxl/pkg/render/sink"
	"github.com/matzehuels/pianoxl/pkg/state"
)

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type layoutSummary struct {
	Viewport   layout.Viewport  `json:"viewport"`
	Fit        layout.FitResult `json:"fit"`
	Degenerate bool             `json:"degenerate"`
	Elements   int              `json:"elements"`
}

type clickResponse struct {
	ID    string      `json:"id,omitempty"`
	State state.State `json:"state"`
}

type hitResponse struct {
	ID  string `json:"id,omitempty"`
	Hit bool   `json:"hit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode resize request"))
		return
	}
	if err := errors.ValidateWindow(req.Width, req.Height); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	s.shell.OnResize(req.Width, req.Height)
	httputil.WriteJSON(w, http.StatusOK, summarize(s.shell.Result()))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res := s.shell.Result()
	if res == nil {
		httputil.WriteError(w, r, errors.New(errors.ErrCodeNotInitialized, "no layout before first resize"))
		return
	}
	data, err := sink.RenderJSON(res,
		sink.WithIndent(),
		sink.WithDesignHash(s.shell.Table().Hash()),
		sink.WithState(s.shell.State()))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteBytes(w, httputil.ContentType(pipeline.FormatJSON), data)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	scale, err := scaleParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	sc, err := s.shell.Scene()
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	st := s.shell.State()
	opts := pipeline.Options{Scale: scale, State: &st, Table: s.shell.Table()}
	data, err := pipeline.RenderFormat(r.Context(), sc, format, opts)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteBytes(w, httputil.ContentType(format), data)
}

// handleRender lays out for the requested size without touching the
// shell's cached result. Frames go through the runner's cache.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	width, err := httputil.FloatParam(r, "width", pipeline.DefaultWidth)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	height, err := httputil.FloatParam(r, "height", pipeline.DefaultHeight)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	scale, err := scaleParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	q := r.URL.Query()
	st := s.shell.State()
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Width:     width,
		Height:    height,
		Formats:   []string{format},
		Scale:     scale,
		PixelSnap: q.Get("pixel_snap") == "true",
		Refresh:   q.Get("refresh") == "true",
		State:     &st,
		Table:     s.shell.Table(),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if res.CacheInfo.AllHit() {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	httputil.WriteBytes(w, httputil.ContentType(format), res.Artifacts[format])
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	p, err := pointParams(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	id, ok := s.shell.HitTest(p)
	httputil.WriteJSON(w, http.StatusOK, hitResponse{ID: id, Hit: ok})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var p geom.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httputil.WriteError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode click"))
		return
	}
	if s.shell.Result() == nil {
		httputil.WriteError(w, r, errors.New(errors.ErrCodeNotInitialized, "click before first resize"))
		return
	}
	id, err := s.shell.Click(r.Context(), p)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, clickResponse{ID: id, State: s.shell.State()})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.shell.State())
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	var st state.State
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		httputil.WriteError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode state"))
		return
	}
	if err := s.shell.SetState(r.Context(), st); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.shell.State())
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	dot := depgraph.ToDOT(s.shell.Steps(), depgraph.Options{Detailed: r.URL.Query().Get("detailed") == "true"})
	switch format {
	case "dot":
		httputil.WriteBytes(w, "text/vnd.graphviz", []byte(dot))
	case pipeline.FormatSVG:
		data, err := depgraph.RenderSVG(r.Context(), dot)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteBytes(w, httputil.ContentType(format), data)
	default:
		httputil.WriteError(w, r, errors.New(errors.ErrCodeInvalidFormat, "plan format %q (want dot or svg)", format))
	}
}

func summarize(res *layout.Result) layoutSummary {
	return layoutSummary{
		Viewport:   res.Viewport,
		Fit:        res.Fit,
		Degenerate: res.Degenerate,
		Elements:   len(res.Elements),
	}
}

func scaleParam(r *http.Request) (float64, error) {
	scale, err := httputil.FloatParam(r, "scale", 1)
	if err != nil {
		return 0, err
	}
	if scale <= 0 || scale > pipeline.MaxScale {
		return 0, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %v], got %v", pipeline.MaxScale, scale)
	}
	return scale, nil
}

func pointParams(r *http.Request) (geom.Point, error) {
	x, err := httputil.FloatParam(r, "x", 0)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := httputil.FloatParam(r, "y", 0)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}
