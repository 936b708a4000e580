package glyphhost

import (
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glyphhost/loader"
	"github.com/gogpu/glyphhost/sdf"
	"github.com/gogpu/glyphhost/store"
)

// Option configures a Host during creation.
//
// Example:
//
//	// Memory-backed host serving assets from ./assets
//	h, err := glyphhost.New(
//	    glyphhost.WithConfig(glyphhost.Config{AssetDir: "assets"}),
//	    glyphhost.WithStore(store.NewMemory()),
//	)
type Option func(*options)

type options struct {
	logger   *slog.Logger
	config   Config
	store    store.Store
	callback loader.Callback
	sdf      sdf.Computer
	provider gpucontext.DeviceProvider
}

func defaultOptions() options {
	return options{}
}

// WithLogger sets the host logger. Without it the package logger from
// Logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithConfig applies c. Options given after WithConfig override its fields.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}

// WithCanvasSize sets the initial canvas size.
func WithCanvasSize(width, height int) Option {
	return func(o *options) {
		o.config.Width = width
		o.config.Height = height
	}
}

// WithAtlasSize sets the glyph atlas size. Zero keeps
// pack.DefaultAtlasSize.
func WithAtlasSize(width, height int) Option {
	return func(o *options) {
		o.config.AtlasWidth = width
		o.config.AtlasHeight = height
	}
}

// WithConcurrency bounds concurrent image loads during preload.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.config.Concurrency = n
	}
}

// WithStore sets the storage backend.
//
// Without it a host with a load callback stores through the callback
// (store.Bridge), and a host without one keeps data in memory.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithLoadCallback hands every load request to cb instead of the built-in
// file and store handlers. The host answers through Host.Loader().Complete.
func WithLoadCallback(cb loader.Callback) Option {
	return func(o *options) {
		o.callback = cb
	}
}

// WithSDF sets the distance field computer. The default is sdf.Stub.
func WithSDF(c sdf.Computer) Option {
	return func(o *options) {
		o.sdf = c
	}
}

// WithDeviceProvider sets the GPU device provider used to choose the
// render target format. The default is texture.NullProvider.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}
