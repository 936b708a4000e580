package font

import "errors"

// Sentinel errors for the font package.
var (
	// ErrEmptyFontData is returned when registering a face without data.
	ErrEmptyFontData = errors.New("font: empty font data")

	// ErrUnknownFamily is returned when no face is registered for a family.
	ErrUnknownFamily = errors.New("font: unknown family")
)
