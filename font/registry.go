// Package font resolves font family names to parsed faces.
//
// The drawing surface receives a family name (resolved from an atom), a weight
// class and a pixel size. The Registry turns that into an x/image font.Face
// for drawing and measuring, and into go-text metrics for line heights.
//
// Family names are matched case-insensitively, as CSS does. The Go fonts
// from golang.org/x/image/font/gofont are always available under the
// families "Go" (the default) and "Go Mono".
package font

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
)

// Built-in family names.
const (
	DefaultFamily = "Go"
	MonoFamily    = "Go Mono"
)

// Registry maps family names to faces per weight class.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*family
}

// family groups the faces registered under one name.
type family struct {
	name  string
	faces [weightCount]*source
}

// source is one parsed font file.
// The go-text font is parsed lazily on the first metrics query.
type source struct {
	data []byte
	otf  *opentype.Font

	gtOnce sync.Once
	gt     *gtfont.Font
	gtErr  error
}

// NewRegistry creates a registry preloaded with the Go fonts.
func NewRegistry() (*Registry, error) {
	r := &Registry{families: make(map[string]*family)}
	builtin := []struct {
		family string
		weight Weight
		data   []byte
	}{
		{DefaultFamily, Normal, goregular.TTF},
		{DefaultFamily, Bold, gobold.TTF},
		{MonoFamily, Normal, gomono.TTF},
		{MonoFamily, Bold, gomonobold.TTF},
	}
	for _, b := range builtin {
		if err := r.Register(b.family, b.weight, b.data); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// foldKey normalizes a family name for lookup.
// A Caser keeps state, so one is created per call.
func foldKey(name string) string {
	return cases.Fold().String(name)
}

// Register parses data (TTF or OTF) and stores it as the face for the given
// family and weight class, replacing any earlier face.
// The data slice is copied.
func (r *Registry) Register(name string, w Weight, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFontData
	}
	if w >= weightCount {
		return fmt.Errorf("font: invalid weight class %d", w)
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("font: failed to parse %q: %w", name, err)
	}
	src := &source{data: slices.Clone(data), otf: otf}

	key := foldKey(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	fam, ok := r.families[key]
	if !ok {
		fam = &family{name: name}
		r.families[key] = fam
	}
	fam.faces[w] = src
	return nil
}

// Has reports whether any face is registered for name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.families[foldKey(name)]
	return ok
}

// Families returns the registered family names, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.families))
	for _, fam := range r.families {
		names = append(names, fam.name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// lookup finds the closest face for name and w.
func (r *Registry) lookup(name string, w Weight) (*source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fam, ok := r.families[foldKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	for _, c := range w.fallbacks() {
		if src := fam.faces[c]; src != nil {
			return src, nil
		}
	}
	return nil, fmt.Errorf("%w: %q has no faces", ErrUnknownFamily, name)
}

// Source returns the raw font data chosen for name and w.
func (r *Registry) Source(name string, w Weight) ([]byte, bool) {
	src, err := r.lookup(name, w)
	if err != nil {
		return nil, false
	}
	return src.data, true
}

// Face returns a new x/image face for d.
// Faces are not safe for concurrent use; the caller owns and closes it.
func (r *Registry) Face(d Descriptor) (xfont.Face, error) {
	src, err := r.lookup(d.Family, d.Weight)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(src.otf, &opentype.FaceOptions{
		Size:    d.Size,
		DPI:     72,
		Hinting: xfont.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font: failed to create face %s: %w", d, err)
	}
	return face, nil
}

// Advance returns the horizontal advance of r in pixels.
// Runes missing from the font measure as the font's .notdef glyph.
func (r *Registry) Advance(d Descriptor, ch rune) (float64, error) {
	src, err := r.lookup(d.Family, d.Weight)
	if err != nil {
		return 0, err
	}
	var buf sfnt.Buffer
	gid, err := src.otf.GlyphIndex(&buf, ch)
	if err != nil {
		return 0, fmt.Errorf("font: glyph index for %U: %w", ch, err)
	}
	adv, err := src.otf.GlyphAdvance(&buf, gid, floatToFixed(d.Size), xfont.HintingNone)
	if err != nil {
		return 0, fmt.Errorf("font: glyph advance for %U: %w", ch, err)
	}
	return fixedToFloat(adv), nil
}

// LineHeight returns ascender - descender + line gap for the family's normal
// face, scaled to size pixels. It returns 0 for unknown families or fonts
// without horizontal extents.
func (r *Registry) LineHeight(name string, size float64) float64 {
	src, err := r.lookup(name, Normal)
	if err != nil {
		return 0
	}
	gt, err := src.goText()
	if err != nil {
		return 0
	}
	face := gtfont.NewFace(gt)
	ext, ok := face.FontHExtents()
	if !ok {
		return 0
	}
	upem := float64(gt.Upem())
	if upem == 0 {
		return 0
	}
	return float64(ext.Ascender-ext.Descender+ext.LineGap) * size / upem
}

func (s *source) goText() (*gtfont.Font, error) {
	s.gtOnce.Do(func() {
		face, err := gtfont.ParseTTF(bytes.NewReader(s.data))
		if err != nil {
			s.gtErr = fmt.Errorf("font: go-text parse: %w", err)
			return
		}
		s.gt = face.Font
	})
	return s.gt, s.gtErr
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
