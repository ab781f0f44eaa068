package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxDimension bounds either image axis. FITS NAXISn values are signed
// 32-bit on most readers; anything near that is a typo, not a request.
const MaxDimension = 1 << 16

// ValidateDimensions checks that an image shape is usable.
// Both axes must be at least one pixel.
func ValidateDimensions(width, height int) error {
	if width < 1 {
		return New(ErrCodeInvalidInput, "width must be positive, got %d", width)
	}
	if height < 1 {
		return New(ErrCodeInvalidInput, "height must be positive, got %d", height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidInput, "image %dx%d exceeds maximum axis length %d", width, height, MaxDimension)
	}
	return nil
}

// ValidateStarCount checks that a star count is non-negative.
// Zero is allowed and yields a noise-only frame.
func ValidateStarCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "star count must be non-negative, got %d", n)
	}
	return nil
}

// ValidateOutputPath checks that path names a writable file location.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name an existing directory
//   - The parent directory must exist
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return New(ErrCodeInvalidPath, "output path %q is a directory", path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "output directory %q", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "output parent %q is not a directory", dir)
	}
	return nil
}
