package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxViewportSide bounds a requested viewport so a single query parameter
// cannot make the PNG surface allocate gigabytes.
const MaxViewportSide = 16384

// ValidateViewport checks a requested window size. Zero or negative sizes are
// rejected here even though the layout engine tolerates them; callers that
// want a degenerate pass use [ValidateWindow].
func ValidateViewport(width, height float64) error {
	return validateSides(width, height, false)
}

// ValidateWindow checks a size reported by a window. Zero and negative sides
// pass, since a minimised window lays out to a degenerate result.
func ValidateWindow(width, height float64) error {
	return validateSides(width, height, true)
}

func validateSides(width, height float64, degenerateOK bool) error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return New(ErrCodeInvalidViewport, "%s must be a finite number", v.name)
		}
		if v.val <= 0 && !degenerateOK {
			return New(ErrCodeInvalidViewport, "%s must be positive, got %v", v.name, v.val)
		}
		if v.val > MaxViewportSide {
			return New(ErrCodeInvalidViewport, "%s too large (max %d), got %v", v.name, MaxViewportSide, v.val)
		}
	}
	return nil
}

// ValidateKey validates a state key or session identifier. It rejects names
// that could escape the state directory when used as a file name.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "key too long (max 128 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "key contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidInput, "key contains invalid characters: %q", pattern)
		}
	}
	return nil
}
