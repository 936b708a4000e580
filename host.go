package glyphhost

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphhost/atom"
	"github.com/gogpu/glyphhost/canvas"
	"github.com/gogpu/glyphhost/font"
	"github.com/gogpu/glyphhost/font/pack"
	"github.com/gogpu/glyphhost/font/split"
	"github.com/gogpu/glyphhost/loader"
	"github.com/gogpu/glyphhost/sdf"
	"github.com/gogpu/glyphhost/store"
	"github.com/gogpu/glyphhost/texture"
)

// Host owns one atom table and the components that share it.
//
// Host is safe for concurrent use except for the canvas, which, like an
// HTML canvas, expects a single drawing goroutine.
type Host struct {
	logger   *slog.Logger
	atoms    *atom.Table
	fonts    *font.Registry
	canvas   *canvas.Canvas
	atlas    *pack.Atlas
	loader   *loader.Loader
	mux      *loader.Mux
	store    store.Store
	sdf      sdf.Computer
	provider gpucontext.DeviceProvider

	serveCtx  context.Context
	stopServe context.CancelFunc
	closeOnce sync.Once
}

// New creates a host.
//
// Unless WithLoadCallback is given, load requests are answered in process:
// module "file" from Config.AssetDir (when set) and module "store" from the
// host's store. Fonts under Config.FontDir are registered up front; files
// that fail to load are logged and skipped.
func New(opts ...Option) (*Host, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	fonts, err := font.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("glyphhost: font registry: %w", err)
	}
	if dir := o.config.FontDir; dir != "" {
		n, err := fonts.LoadFS(os.DirFS(dir), ".")
		if err != nil {
			logger.Warn("glyphhost: some fonts failed to load", "dir", dir, "err", err)
		}
		logger.Info("glyphhost: fonts loaded", "dir", dir, "faces", n)
	}

	atoms := atom.NewTable()
	h := &Host{
		logger:   logger,
		atoms:    atoms,
		fonts:    fonts,
		provider: o.provider,
	}
	if h.provider == nil {
		h.provider = texture.NullProvider{}
	}

	var canvasOpts []canvas.Option
	canvasOpts = append(canvasOpts, canvas.WithLogger(logger))
	if o.config.Width > 0 && o.config.Height > 0 {
		canvasOpts = append(canvasOpts, canvas.WithSize(o.config.Width, o.config.Height))
	}
	h.canvas = canvas.New(atoms, fonts, canvasOpts...)
	h.atlas = pack.NewAtlas(o.config.AtlasWidth, o.config.AtlasHeight)

	h.loader = loader.New(atoms,
		loader.WithLogger(logger),
		loader.WithConcurrency(o.config.Concurrency),
	)

	h.store = o.store
	h.sdf = o.sdf
	if h.sdf == nil {
		h.sdf = sdf.NewStub(atoms, sdf.WithLogger(logger))
	}

	h.serveCtx, h.stopServe = context.WithCancel(context.Background())
	if o.callback != nil {
		if h.store == nil {
			h.store = store.NewBridge(h.loader)
		}
		h.loader.SetCallback(o.callback)
		return h, nil
	}

	if h.store == nil {
		h.store = store.NewMemory()
	}
	h.mux = loader.NewMux(h.loader)
	if dir := o.config.AssetDir; dir != "" {
		h.mux.Handle(loader.ModuleFile, loader.FSHandler(h.loader, os.DirFS(dir)))
	}
	if _, bridged := h.store.(*store.Bridge); !bridged {
		h.mux.Handle(store.Module, store.Serve(h.serveCtx, h.loader, h.store, logger))
	}
	h.loader.SetCallback(h.mux.Serve)
	return h, nil
}

// Init prepares the store for use.
func (h *Host) Init(ctx context.Context) error {
	return h.store.Init(ctx)
}

// Atoms returns the host's atom table.
func (h *Host) Atoms() *atom.Table { return h.atoms }

// Canvas returns the drawing surface.
func (h *Host) Canvas() *canvas.Canvas { return h.canvas }

// Atlas returns the glyph atlas filled by PackText.
func (h *Host) Atlas() *pack.Atlas { return h.atlas }

// Fonts returns the font registry.
func (h *Host) Fonts() *font.Registry { return h.fonts }

// Loader returns the request loader.
func (h *Host) Loader() *loader.Loader { return h.loader }

// Mux returns the built-in request dispatcher, or nil for hosts created
// with WithLoadCallback. Extra modules can be added with Mux().Handle.
func (h *Host) Mux() *loader.Mux { return h.mux }

// Store returns the storage backend.
func (h *Host) Store() store.Store { return h.store }

// SDF returns the distance field computer.
func (h *Host) SDF() sdf.Computer { return h.sdf }

// LoadFont fetches a font file through the loader and registers it under
// family with weight class w, both for drawing and with the SDF computer.
// The family is interned so the canvas can select it by atom.
func (h *Host) LoadFont(ctx context.Context, family string, w font.Weight, path string) (atom.Atom, error) {
	data, err := h.loader.LoadFile(ctx, path)
	if err != nil {
		return 0, err
	}
	if err := h.fonts.Register(family, w, data); err != nil {
		return 0, err
	}
	if _, err := h.sdf.CreateFace(ctx, family, data); err != nil {
		return 0, err
	}
	a := h.atoms.Intern(family)
	h.logger.Debug("glyphhost: font loaded", "family", family, "weight", w, "path", path, "atom", a)
	return a, nil
}

// FamilyAtom interns family so it can be passed to the canvas.
func (h *Host) FamilyAtom(family string) atom.Atom {
	return h.atoms.Intern(family)
}

// LoadTexture loads the image at path and describes it as a
// texture.ImageFormat texture. KTX files keep their compressed format.
// With a non-nil creator the pixels are also uploaded.
func (h *Host) LoadTexture(ctx context.Context, path string, c texture.Creator) (*texture.ImageTexture, error) {
	if texture.IsKTX(path) {
		data, err := h.loader.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		tex, err := texture.FromKTX(path, data, c)
		if err != nil {
			return nil, err
		}
		tex.Atom = uint32(h.atoms.Intern(path))
		return tex, nil
	}
	img, err := h.loader.LoadImage(ctx, path)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return texture.FromImage(img)
	}
	return texture.Upload(c, img)
}

// RenderFormat returns the format for render targets on the host's device.
func (h *Host) RenderFormat() gputypes.TextureFormat {
	return texture.DefaultFormat(h.provider)
}

// PackText places every drawable character of text in the glyph atlas and
// returns the glyphs in text order. Cells are sized from the canvas
// measurements of family at size; repeated characters share one cell.
// On pack.ErrFull the glyphs placed so far are returned; the caller resets
// the atlas and packs again.
//
// PackText measures with the canvas and must not run concurrently with
// drawing.
func (h *Host) PackText(text string, family atom.Atom, size int) ([]pack.Glyph, error) {
	lineHeight := int(math.Ceil(h.canvas.GlobalMetricsHeight(family, float64(size))))
	var glyphs []pack.Glyph
	for tok := range split.Split(text, true, true) {
		if !tok.Kind.HasChar() {
			continue
		}
		key := pack.GlyphKey{Family: family, Size: size, Char: tok.Char}
		g, ok := h.atlas.Lookup(key)
		if !ok {
			width := int(math.Ceil(h.canvas.MeasureText(uint32(tok.Char), size, family)))
			var err error
			if g, err = h.atlas.Alloc(key, width, lineHeight); err != nil {
				h.logger.Warn("glyphhost: glyph atlas full", "glyphs", h.atlas.Len())
				return glyphs, err
			}
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

// Close releases the canvas and stops in-process request handling.
// Close is idempotent.
func (h *Host) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.stopServe()
		err = h.canvas.Close()
	})
	return err
}
