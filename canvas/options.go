package canvas

import "log/slog"

// Option configures a Canvas during creation.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	width, height int
	maxArea       int
	advanceCap    int
}

func defaultOptions() options {
	return options{
		logger:     slog.New(slog.DiscardHandler),
		width:      DefaultWidth,
		height:     DefaultHeight,
		maxArea:    MaxArea,
		advanceCap: 0, // cache default
	}
}

// WithLogger sets the logger used for font fallbacks.
// A nil logger keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSize sets the initial canvas size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithAdvanceCache sets the per-shard capacity of the glyph advance cache.
func WithAdvanceCache(capacity int) Option {
	return func(o *options) {
		o.advanceCap = capacity
	}
}

// WithMaxArea lowers the pixel area limit applied when the canvas is sized.
// Values below 1 or above MaxArea select MaxArea.
func WithMaxArea(pixels int) Option {
	return func(o *options) {
		if pixels < 1 || pixels > MaxArea {
			pixels = MaxArea
		}
		o.maxArea = pixels
	}
}
