package pack

import (
	"errors"
	"image"
	"sync"

	"github.com/gogpu/glyphhost/atom"
)

// DefaultAtlasSize is the side of the atlas used when none is configured.
const DefaultAtlasSize = 1024

// ErrFull is returned when a glyph no longer fits in the atlas.
var ErrFull = errors.New("pack: atlas full")

// GlyphKey identifies a rasterized glyph.
type GlyphKey struct {
	Family atom.Atom
	Size   int
	Char   rune
}

// Glyph is a glyph placed in the atlas. IDs start at 1.
type Glyph struct {
	ID     uint32
	Key    GlyphKey
	Pos    image.Point
	Width  int
	Height int
}

// Atlas assigns glyph IDs and atlas cells. It is safe for concurrent use.
type Atlas struct {
	mu     sync.Mutex
	packer *Packer
	ids    map[GlyphKey]uint32
	glyphs []Glyph
}

// NewAtlas returns an empty atlas. Sizes below 1 select DefaultAtlasSize.
func NewAtlas(width, height int) *Atlas {
	if width < 1 {
		width = DefaultAtlasSize
	}
	if height < 1 {
		height = DefaultAtlasSize
	}
	return &Atlas{
		packer: New(width, height),
		ids:    make(map[GlyphKey]uint32),
	}
}

// Size returns the atlas size in pixels.
func (a *Atlas) Size() (width, height int) {
	return a.packer.Size()
}

// Alloc returns the glyph for k, placing a width x height cell for it on
// first use. It returns ErrFull when the cell does not fit; the atlas stays
// full until Reset.
func (a *Atlas) Alloc(k GlyphKey, width, height int) (Glyph, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.ids[k]; ok {
		return a.glyphs[id-1], nil
	}
	pos, ok := a.packer.Alloc(width, height)
	if !ok {
		return Glyph{}, ErrFull
	}
	g := Glyph{
		ID:     uint32(len(a.glyphs) + 1),
		Key:    k,
		Pos:    pos,
		Width:  width,
		Height: height,
	}
	a.glyphs = append(a.glyphs, g)
	a.ids[k] = g.ID
	return g, nil
}

// Glyph returns the glyph with the given ID.
func (a *Atlas) Glyph(id uint32) (Glyph, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id == 0 || int(id) > len(a.glyphs) {
		return Glyph{}, false
	}
	return a.glyphs[id-1], true
}

// Lookup returns the glyph placed for k.
func (a *Atlas) Lookup(k GlyphKey) (Glyph, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.ids[k]
	if !ok {
		return Glyph{}, false
	}
	return a.glyphs[id-1], true
}

// Len returns the number of placed glyphs.
func (a *Atlas) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.glyphs)
}

// Reset empties the atlas. Glyph IDs are reused afterwards.
func (a *Atlas) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.packer.Clear()
	clear(a.ids)
	a.glyphs = a.glyphs[:0]
}
