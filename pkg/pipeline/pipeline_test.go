package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/matzehuels/pianoxl/pkg/cache"
	"github.com/matzehuels/pianoxl/pkg/errors"
	"github.com/matzehuels/pianoxl/pkg/state"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v, want %vx%v", o.Width, o.Height, DefaultWidth, DefaultHeight)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Scale != 1 {
		t.Errorf("Scale = %v, want 1", o.Scale)
	}
	if o.State == nil || o.Table == nil {
		t.Fatal("State and Table should be defaulted")
	}
}

func TestOptionsValidation(t *testing.T) {
	badState := state.Default()
	badState.Selected = "volume"

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative width", Options{Width: -1, Height: 10}, errors.ErrCodeInvalidViewport},
		{"zero height", Options{Width: 100}, errors.ErrCodeInvalidViewport},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"scale too big", Options{Scale: 10}, errors.ErrCodeInvalidInput},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
		{"bad state", Options{State: &badState}, errors.ErrCodeInvalidControl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsDedupesFormats(t *testing.T) {
	o := Options{Formats: []string{"svg", "json", "svg"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(o.Formats) != 2 {
		t.Errorf("Formats = %v, want [svg json]", o.Formats)
	}
}

func TestFrameKeyOptsScaleOnlyForPNG(t *testing.T) {
	o := Options{Scale: 2}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := o.FrameKeyOpts(FormatSVG).Scale; got != 0 {
		t.Errorf("svg Scale = %v, want 0", got)
	}
	if got := o.FrameKeyOpts(FormatPNG).Scale; got != 2 {
		t.Errorf("png Scale = %v, want 2", got)
	}
	if o.FrameKeyOpts(FormatSVG).StateHash == "" {
		t.Error("StateHash should be set")
	}
}

func TestExecuteRendersFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{Formats: []string{"svg", "png", "json"}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Layout == nil {
		t.Fatal("Layout should be set on a cold run")
	}
	if res.Stats.Elements != len(res.Layout.Elements) {
		t.Errorf("Stats.Elements = %d, want %d", res.Stats.Elements, len(res.Layout.Elements))
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg: %.40q", res.Artifacts["svg"])
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}

	var out struct {
		Design string `json:"design"`
	}
	if err := json.Unmarshal(res.Artifacts["json"], &out); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if out.Design != res.DesignHash {
		t.Errorf("json design = %q, want %q", out.Design, res.DesignHash)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()
	ctx := context.Background()
	opts := Options{Width: 800, Height: 600, Formats: []string{"svg"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.CacheInfo.Misses) != 1 {
		t.Errorf("first run misses = %v, want [svg]", first.CacheInfo.Misses)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.AllHit() {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if second.Layout != nil {
		t.Error("cached run should skip layout")
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached artifact differs from rendered one")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Layout == nil {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteStateChangesKey(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{}); err != nil {
		t.Fatal(err)
	}
	st := state.Default().CycleSize()
	res, err := r.Execute(ctx, Options{State: &st})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.AllHit() {
		t.Error("a different state should not hit the cached frame")
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte("XXL")) {
		t.Error("svg should carry the XXL size label")
	}
}

func TestExecuteDegenerateViewportRejected(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Width: 0, Height: 300})
	if !errors.Is(err, errors.ErrCodeInvalidViewport) {
		t.Errorf("Execute() error = %v, want INVALID_VIEWPORT", err)
	}
}

func TestNewSceneCarriesState(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	lay, err := r.Layout(Options{})
	if err != nil {
		t.Fatal(err)
	}
	st := state.Default().Toggle(state.ControlInversion)
	sc := NewScene(lay, st)
	if !sc.Selected["inversion"] {
		t.Errorf("Selected = %v, want inversion", sc.Selected)
	}
	if sc.Disabled["plus"] {
		t.Error("plus should be enabled while inversion is selected")
	}
	if sc.Fader != st.Fader {
		t.Errorf("Fader = %v, want %v", sc.Fader, st.Fader)
	}
}
