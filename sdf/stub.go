package sdf

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphhost/atom"
	"github.com/gogpu/glyphhost/internal/cache"
)

// Stub is a Computer that parses fonts and extracts outlines but leaves
// textures empty.
type Stub struct {
	atoms  *atom.Table
	logger *slog.Logger

	mu    sync.RWMutex
	faces map[FaceID]*sfnt.Font

	outlines *cache.LRU[uint64, Outline]
	bufs     sync.Pool
}

var _ Computer = (*Stub)(nil)

// StubOption configures a Stub.
type StubOption func(*Stub)

// WithLogger sets the logger used by the stub.
func WithLogger(l *slog.Logger) StubOption {
	return func(s *Stub) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStub returns a Stub that names faces by atoms of their family.
func NewStub(atoms *atom.Table, opts ...StubOption) *Stub {
	s := &Stub{
		atoms:    atoms,
		logger:   slog.New(slog.DiscardHandler),
		faces:    make(map[FaceID]*sfnt.Font),
		outlines: cache.New[uint64, Outline](0, cache.Uint64Hasher),
		bufs:     sync.Pool{New: func() any { return new(sfnt.Buffer) }},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFace parses data and registers it under family. Creating a face
// for a family that already has one replaces it.
func (s *Stub) CreateFace(ctx context.Context, family string, data []byte) (FaceID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("sdf: parse face %q: %w", family, err)
	}
	id := FaceID(s.atoms.Intern(family))

	s.mu.Lock()
	_, replaced := s.faces[id]
	s.faces[id] = f
	s.mu.Unlock()

	if replaced {
		s.outlines.Purge()
	}
	s.logger.Debug("sdf: face created", "family", family, "id", id, "glyphs", f.NumGlyphs())
	return id, nil
}

func (s *Stub) face(id FaceID) (*sfnt.Font, error) {
	s.mu.RLock()
	f, ok := s.faces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFace, id)
	}
	return f, nil
}

// Outline returns the outline of r in font units.
func (s *Stub) Outline(ctx context.Context, id FaceID, r rune) (Outline, error) {
	if err := ctx.Err(); err != nil {
		return Outline{}, err
	}
	f, err := s.face(id)
	if err != nil {
		return Outline{}, err
	}
	key := uint64(id)<<32 | uint64(uint32(r))
	return s.outlines.GetOrLoad(key, func() (Outline, error) {
		return s.load(f, r)
	})
}

func (s *Stub) load(f *sfnt.Font, r rune) (Outline, error) {
	b := s.bufs.Get().(*sfnt.Buffer)
	defer s.bufs.Put(b)

	gi, err := f.GlyphIndex(b, r)
	if err != nil {
		return Outline{}, fmt.Errorf("sdf: glyph index %U: %w", r, err)
	}
	if gi == 0 {
		return Outline{}, fmt.Errorf("%w: %U", ErrNoGlyph, r)
	}
	ppem := fixed.I(int(f.UnitsPerEm()))
	segs, err := f.LoadGlyph(b, gi, ppem, nil)
	if err != nil {
		return Outline{}, fmt.Errorf("sdf: load glyph %U: %w", r, err)
	}
	adv, err := f.GlyphAdvance(b, gi, ppem, font.HintingNone)
	if err != nil {
		return Outline{}, fmt.Errorf("sdf: glyph advance %U: %w", r, err)
	}
	return Outline{
		Rune:     r,
		Advance:  adv,
		Bounds:   segs.Bounds(),
		Segments: append(sfnt.Segments(nil), segs...),
	}, nil
}

// ComputeTexture returns the empty texture.
func (s *Stub) ComputeTexture(ctx context.Context, req TexRequest) (TexInfo, error) {
	if err := ctx.Err(); err != nil {
		return TexInfo{}, err
	}
	s.logger.Debug("sdf: texture requested", "rune", req.Shape.Rune, "size", req.TexSize, "pxrange", req.PxRange)
	return TexInfo{}, nil
}
