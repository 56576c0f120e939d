// Package preview hosts the keyboard preview: it reacts to window resizes
// by running a full layout pass, paints the cached result on demand, and
// turns clicks into UI state changes.
//
// A Shell is safe for concurrent use, so the HTTP server and the terminal
// preview can drive the same instance.
package preview

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/geom"
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/observability"
	"github.com/matzehuels/pianoxl/pkg/pipeline"
	"github.com/matzehuels/pianoxl/pkg/render"
	"github.com/matzehuels/pianoxl/pkg/state"
	"github.com/matzehuels/pianoxl/pkg/style"
)

// Shell owns the engine, the last layout result and the UI state.
type Shell struct {
	mu     sync.RWMutex
	engine *layout.Engine
	res    *layout.Result
	st     state.State
	style  style.Table

	store  state.Store
	key    string
	logger *log.Logger
	hooks  observability.PreviewHooks

	engineOpts []layout.Option
}

// Option configures a Shell.
type Option func(*Shell)

// WithStore persists UI state under key after every change.
func WithStore(st state.Store, key string) Option {
	return func(s *Shell) {
		s.store = st
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger. The shell's engine logs through it too.
func WithLogger(l *log.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHooks overrides the global preview hooks.
func WithHooks(h observability.PreviewHooks) Option {
	return func(s *Shell) {
		if h != nil {
			s.hooks = h
		}
	}
}

// WithStyle replaces the default colour table.
func WithStyle(t style.Table) Option { return func(s *Shell) { s.style = t } }

// WithEngineOptions passes options through to layout.New.
func WithEngineOptions(opts ...layout.Option) Option {
	return func(s *Shell) { s.engineOpts = append(s.engineOpts, opts...) }
}

// New builds a shell for table and loads the persisted state, if any.
// Nothing is laid out until the first OnResize.
func New(ctx context.Context, table *design.Table, opts ...Option) (*Shell, error) {
	s := &Shell{
		st:     state.Default(),
		style:  style.Default(),
		store:  state.NewNullStore(),
		key:    state.DefaultKey,
		logger: log.New(io.Discard),
		hooks:  observability.Preview(),
	}
	for _, opt := range opts {
		opt(s)
	}

	eng, err := layout.New(table, append([]layout.Option{layout.WithLogger(s.logger)}, s.engineOpts...)...)
	if err != nil {
		return nil, err
	}
	s.engine = eng
	if table != nil {
		s.st.Fader = table.Fader.Default
	}

	st, err := s.store.Load(ctx, s.key)
	switch {
	case stderrors.Is(err, state.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		s.st = st
	}
	return s, nil
}

// OnResize lays out for a new window size. The pass completes before the
// cached result is replaced, so concurrent paints never see a partial frame.
func (s *Shell) OnResize(w, h float64) {
	s.hooks.OnResize(w, h)
	res := s.engine.Layout(layout.Viewport{Width: w, Height: h})

	s.mu.Lock()
	s.res = res
	s.mu.Unlock()
}

// OnPaint draws the last layout onto surf.
func (s *Shell) OnPaint(surf render.Surface) (err error) {
	start := time.Now()
	sc, err := s.Scene()
	n := 0
	if sc.Layout != nil {
		n = len(sc.Layout.Elements)
	}
	defer func() { s.hooks.OnPaint(n, time.Since(start), err) }()
	if err != nil {
		return err
	}
	return render.Paint(surf, sc)
}

// Scene returns the current result and state as a paintable scene.
func (s *Shell) Scene() (render.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.res == nil {
		return render.Scene{}, errors.New(errors.ErrCodeNotInitialized, "paint before first resize")
	}
	sc := pipeline.NewScene(s.res, s.st)
	sc.Style = s.style
	return sc, nil
}

// Result returns the cached layout, or nil before the first resize.
func (s *Shell) Result() *layout.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

// Table returns the design table in use.
func (s *Shell) Table() *design.Table { return s.engine.Table() }

// Steps returns the engine's step plan in execution order.
func (s *Shell) Steps() []layout.Step { return s.engine.Steps() }

// HitTest returns the ID of the element (or child) under p.
func (s *Shell) HitTest(p geom.Point) (string, bool) {
	s.mu.RLock()
	res := s.res
	s.mu.RUnlock()
	if res == nil {
		return "", false
	}
	hit, ok := res.HitTest(p)
	if !ok {
		return "", false
	}
	if hit.Child != "" {
		return hit.Child, true
	}
	return hit.Element.ID, true
}

// Click applies the interaction under p and persists the new state. It
// returns the ID that was hit, or "" when nothing reacts at p.
func (s *Shell) Click(ctx context.Context, p geom.Point) (string, error) {
	id, ok := s.HitTest(p)
	if !ok {
		return "", nil
	}

	s.mu.Lock()
	next, changed := s.apply(id)
	if changed {
		s.st = next
	}
	s.mu.Unlock()

	if !changed {
		return "", nil
	}
	s.logger.Debug("click", "id", id, "selected", next.Selected, "size", next.Size)
	return id, s.save(ctx, next)
}

// apply maps a hit ID to a state change. Callers hold s.mu.
func (s *Shell) apply(id string) (state.State, bool) {
	st := s.st
	switch id {
	case "xl-button":
		return st.CycleSize(), true
	case "fader":
		return st.TapFader(s.engine.Table().Fader.SnapPoints()), true
	case "plus", "minus":
		if !st.ButtonsEnabled() {
			return st, false
		}
		if id == "plus" {
			return st.Adjust(1), true
		}
		return st.Adjust(-1), true
	}
	if control, ok := controlFor(id); ok {
		return st.Toggle(control), true
	}
	return st, false
}

// controlFor resolves a settings element or one of its stack children
// ("octave-value") to its selectable control.
func controlFor(id string) (string, bool) {
	for _, c := range state.Selectable {
		if id == c || id == c+"-label" || id == c+"-value" {
			return c, true
		}
	}
	return "", false
}

// State returns a copy of the UI state.
func (s *Shell) State() state.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// SetState validates, applies and persists st.
func (s *Shell) SetState(ctx context.Context, st state.State) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
	return s.save(ctx, st)
}

func (s *Shell) save(ctx context.Context, st state.State) error {
	st.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, s.key, st); err != nil {
		s.logger.Warn("failed to persist state", "key", s.key, "error", err)
		return err
	}
	return nil
}

// Close releases the state store.
func (s *Shell) Close() error { return s.store.Close() }
