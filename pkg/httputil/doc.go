// Package httputil provides the HTTP plumbing of the preview server.
//
// # Responses
//
// [WriteJSON] encodes a value with the given status. [WriteError] maps a
// pkg/errors code to its HTTP status and writes a JSON error body:
//
//	{"error": {"code": "INVALID_VIEWPORT", "message": "width must be positive, got 0"}}
//
// # Middleware
//
// [RequestID] tags every request with an X-Request-ID (reusing the
// caller's if present) and [Logger] logs each response with its status and
// duration, reporting both to the observability server hooks.
package httputil
