package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Error struct {
		Code      errors.Code `json:"code"`
		Message   string      `json:"message"`
		RequestID string      `json:"request_id,omitempty"`
	} `json:"error"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// WriteError writes err with the status its code maps to. Errors without a
// code are reported as INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var body ErrorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	body.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, errors.HTTPStatus(err), body)
}

// WriteBytes writes a rendered artifact.
func WriteBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ContentType returns the MIME type for an output format.
func ContentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "pdf":
		return "application/pdf"
	case "json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// FloatParam parses a query parameter, returning def when it is absent.
func FloatParam(r *http.Request, name string, def float64) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", name, s)
	}
	return v, nil
}
