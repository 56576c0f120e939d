package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   errors.Code
	}{
		{"viewport", errors.New(errors.ErrCodeInvalidViewport, "width must be positive"), 400, errors.ErrCodeInvalidViewport},
		{"not initialized", errors.New(errors.ErrCodeNotInitialized, "paint before first resize"), 409, errors.ErrCodeNotInitialized},
		{"store", errors.New(errors.ErrCodeStoreUnavailable, "redis down"), 503, errors.ErrCodeStoreUnavailable},
		{"plain", http.ErrHandlerTimeout, 500, errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("generated ID %q is not a UUID", seen)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), seen)
	}

	// A valid inbound ID is kept; garbage is replaced.
	in := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, in)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != in {
		t.Errorf("inbound ID = %q, want %q", seen, in)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "not-a-uuid" {
		t.Error("invalid inbound ID should be replaced")
	}
}

func TestLoggerLogsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	if !bytes.Contains(buf.Bytes(), []byte("/boom")) {
		t.Errorf("log output %q does not mention the path", buf.String())
	}
}

func TestFloatParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?w=800.5&bad=x", nil)
	if v, err := FloatParam(r, "w", 0); err != nil || v != 800.5 {
		t.Errorf("FloatParam(w) = %v, %v", v, err)
	}
	if v, err := FloatParam(r, "h", 680); err != nil || v != 680 {
		t.Errorf("FloatParam(h) = %v, %v, want default", v, err)
	}
	if _, err := FloatParam(r, "bad", 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("FloatParam(bad) error = %v, want INVALID_INPUT", err)
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("svg"); got != "image/svg+xml" {
		t.Errorf("ContentType(svg) = %q", got)
	}
	if got := ContentType("zip"); got != "application/octet-stream" {
		t.Errorf("ContentType(zip) = %q", got)
	}
}
