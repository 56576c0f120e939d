package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/fonts"
	"github.com/matzehuels/pianoxl/pkg/httputil"
	"github.com/matzehuels/pianoxl/pkg/layout"
	"github.com/matzehuels/pianoxl/pkg/preview"
	"github.com/matzehuels/pianoxl/pkg/state"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	shell, err := preview.New(context.Background(), design.Default(),
		preview.WithEngineOptions(layout.WithMeasurer(fonts.Fixed(0.5))))
	if err != nil {
		t.Fatalf("preview.New() error = %v", err)
	}
	srv := httptest.NewServer(New(shell, WithLogger(log.New(&bytes.Buffer{}))).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHealthAndHeaders(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, srv, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(httputil.RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "pianoxl/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
}

func TestFrameBeforeResize(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, srv, http.MethodGet, "/frame.svg", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	var body httputil.ErrorBody
	decode(t, resp, &body)
	if body.Error.Code != "NOT_INITIALIZED" {
		t.Errorf("code = %q, want NOT_INITIALIZED", body.Error.Code)
	}
}

func TestResizeThenFrame(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/resize", `{"width": 2028, "height": 1360}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resize status = %d", resp.StatusCode)
	}
	var sum layoutSummary
	decode(t, resp, &sum)
	if sum.Degenerate || sum.Elements == 0 {
		t.Errorf("summary = %+v, want a laid-out result", sum)
	}

	resp = do(t, srv, http.MethodGet, "/frame.svg", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frame status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}

	resp = do(t, srv, http.MethodGet, "/frame.gif", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", resp.StatusCode)
	}
}

func TestResizeDegenerate(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, srv, http.MethodPost, "/resize", `{"width": 0, "height": 500}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resize status = %d, want 200", resp.StatusCode)
	}
	var sum layoutSummary
	decode(t, resp, &sum)
	if !sum.Degenerate || sum.Elements != 0 {
		t.Errorf("summary = %+v, want degenerate", sum)
	}
}

func TestResizeRejectsOversize(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/resize", `{"width": 1014, "height": 680}`)

	for _, body := range []string{
		`{"width": 1e12, "height": 500}`,
		`{"width": 844, "height": 16385}`,
	} {
		resp := do(t, srv, http.MethodPost, "/resize", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("resize %s status = %d, want 400", body, resp.StatusCode)
		}
		var eb httputil.ErrorBody
		decode(t, resp, &eb)
		if eb.Error.Code != "INVALID_VIEWPORT" {
			t.Errorf("resize %s code = %q, want INVALID_VIEWPORT", body, eb.Error.Code)
		}
	}

	resp := do(t, srv, http.MethodGet, "/layout", "")
	var out struct {
		Viewport layout.Viewport `json:"viewport"`
	}
	decode(t, resp, &out)
	if out.Viewport.Width != 1014 || out.Viewport.Height != 680 {
		t.Errorf("viewport after rejected resize = %+v, want 1014x680", out.Viewport)
	}
}

func TestRenderStateless(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, srv, http.MethodGet, "/render.json?width=800&height=600", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Viewport layout.Viewport `json:"viewport"`
	}
	decode(t, resp, &out)
	if out.Viewport.Width != 800 || out.Viewport.Height != 600 {
		t.Errorf("viewport = %+v, want 800x600", out.Viewport)
	}

	resp = do(t, srv, http.MethodGet, "/render.svg?width=-5", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative width status = %d, want 400", resp.StatusCode)
	}
	resp = do(t, srv, http.MethodGet, "/render.svg?scale=9", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("scale=9 status = %d, want 400", resp.StatusCode)
	}
}

func TestClickAndState(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/resize", `{"width": 1014, "height": 680}`)

	resp := do(t, srv, http.MethodGet, "/layout", "")
	var lay struct {
		Elements []layout.PlacedElement `json:"elements"`
	}
	decode(t, resp, &lay)
	var mode layout.PlacedElement
	for _, el := range lay.Elements {
		if el.ID == "mode" {
			mode = el
		}
	}
	if mode.ID == "" {
		t.Fatal("mode control missing from layout")
	}
	c := mode.Rect.Center()

	resp = do(t, srv, http.MethodGet, "/hit?x="+ftoa(c.X)+"&y="+ftoa(c.Y), "")
	var hit hitResponse
	decode(t, resp, &hit)
	if !hit.Hit || hit.ID != "mode" {
		t.Errorf("hit = %+v, want mode", hit)
	}

	body, _ := json.Marshal(c)
	resp = do(t, srv, http.MethodPost, "/click", string(body))
	var click clickResponse
	decode(t, resp, &click)
	if click.ID != "mode" || click.State.Selected != state.ControlMode {
		t.Errorf("click = %+v, want mode selected", click)
	}

	resp = do(t, srv, http.MethodPut, "/state", `{"size": "XXXL", "key": "D", "mode": "FREE", "fader": 0.5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /state status = %d", resp.StatusCode)
	}
	resp = do(t, srv, http.MethodGet, "/state", "")
	var st state.State
	decode(t, resp, &st)
	if st.Size != "XXXL" || st.Key != "D" {
		t.Errorf("state = %+v, want XXXL/D", st)
	}

	resp = do(t, srv, http.MethodPut, "/state", `{"size": "XL", "key": "C", "mode": "FREE", "octave": 12}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad octave status = %d, want 400", resp.StatusCode)
	}
}

func TestPlanDOT(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, srv, http.MethodGet, "/plan.dot", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "digraph") {
		t.Errorf("body = %q, want a digraph", buf.String())
	}
	resp = do(t, srv, http.MethodGet, "/plan.png", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("png status = %d, want 400", resp.StatusCode)
	}
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
