package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxCircles bounds the number of radii accepted at the boundary.
// Placement cost grows with the fourth power of the circle count.
const MaxCircles = 256

// ValidateRadii checks a radius list before it reaches the packer.
//
// The validation rules:
//   - At least one radius
//   - At most MaxCircles radii
//   - Every radius finite and strictly positive
func ValidateRadii(radii []float64) error {
	if len(radii) == 0 {
		return New(ErrCodeInvalidRadii, "at least one radius is required")
	}
	if len(radii) > MaxCircles {
		return New(ErrCodeInvalidRadii, "too many circles: %d (max %d)", len(radii), MaxCircles)
	}
	for i, r := range radii {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return New(ErrCodeInvalidRadii, "radius %d is not a finite number", i)
		}
		if r <= 0 {
			return New(ErrCodeInvalidRadii, "radius %d must be positive, got %g", i, r)
		}
	}
	return nil
}

// ValidateRatio checks a width/height aspect ratio.
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return New(ErrCodeInvalidRatio, "aspect ratio must be a positive finite number, got %g", ratio)
	}
	return nil
}

// ValidateViewport checks the target dimensions a chart is fitted into.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return New(ErrCodeInvalidViewport, "viewport must be positive and finite, got %gx%g", width, height)
		}
	}
	return nil
}

// ValidatePath validates a user-supplied relative file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
