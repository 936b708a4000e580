package loader

import "log/slog"

// Option configures a Loader during creation.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	callback    Callback
	concurrency int
	imageCap    int
}

func defaultOptions() options {
	return options{
		logger:      slog.New(slog.DiscardHandler),
		concurrency: DefaultConcurrency,
	}
}

// WithLogger sets the logger. A nil logger keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCallback installs the host callback at construction.
func WithCallback(cb Callback) Option {
	return func(o *options) {
		o.callback = cb
	}
}

// WithConcurrency bounds the number of images Preload decodes at once.
// Values below 1 select DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultConcurrency
		}
		o.concurrency = n
	}
}

// WithImageCache sets the per-shard capacity of the decoded image cache.
func WithImageCache(capacity int) Option {
	return func(o *options) {
		o.imageCap = capacity
	}
}
