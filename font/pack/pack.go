// Package pack places glyph cells in a texture atlas.
//
// Packer is a shelf packer: glyphs of similar height share a horizontal
// line (a shelf) that is filled left to right. Line heights are rounded to
// a few fixed classes so that one shelf serves several font sizes. When a
// shelf is full a new one of the same class is opened below the last shelf.
//
// Atlas builds glyph identity on top of a Packer: each distinct glyph key is
// placed once and keeps its cell until Reset.
package pack

import "image"

// Shelf height classes. Heights up to MinLineHeight share one class; taller
// glyphs step in units of LineStep.
const (
	MinLineHeight = 42
	LineStep      = 32
)

// LineHeight returns the shelf height used for glyphs of height h.
func LineHeight(h int) int {
	if h <= MinLineHeight {
		return MinLineHeight
	}
	return (h-MinLineHeight)/LineStep*LineStep + LineStep + MinLineHeight
}

type shelf struct {
	x, y  int
	count int
}

// Packer allocates cells in a width x height area.
//
// Packer is not safe for concurrent use.
type Packer struct {
	width, height int
	lastV         int
	shelves       map[int]*shelf
}

// New returns an empty packer for an atlas of the given size.
func New(width, height int) *Packer {
	return &Packer{
		width:   width,
		height:  height,
		shelves: make(map[int]*shelf),
	}
}

// Size returns the atlas size.
func (p *Packer) Size() (width, height int) {
	return p.width, p.height
}

// Used returns the height consumed by open shelves. It exceeds the atlas
// height once an allocation has failed.
func (p *Packer) Used() int {
	return p.lastV
}

// Clear forgets every allocation.
func (p *Packer) Clear() {
	clear(p.shelves)
	p.lastV = 0
}

// Line is the current shelf of one height class.
type Line struct {
	p      *Packer
	s      *shelf
	height int
}

// AllocLine returns the shelf for glyphs of height h, opening one below the
// last shelf if the class has none yet.
func (p *Packer) AllocLine(h int) Line {
	h = LineHeight(h)
	s, ok := p.shelves[h]
	if !ok {
		s = &shelf{y: p.lastV}
		p.shelves[h] = s
		p.lastV += h
	}
	return Line{p: p, s: s, height: h}
}

// Y returns the top of the shelf.
func (l Line) Y() int { return l.s.y }

// Height returns the shelf's height class.
func (l Line) Height() int { return l.height }

// Count returns the number of cells on the shelf.
func (l Line) Count() int { return l.s.count }

// Alloc reserves width pixels on the shelf and returns the cell origin.
// A shelf without room is replaced by a new one of the same class opened
// below the last shelf.
func (l Line) Alloc(width int) image.Point {
	if l.p.width >= l.s.x+width {
		pt := image.Pt(l.s.x, l.s.y)
		l.s.x += width
		l.s.count++
		return pt
	}
	l.s.x = width
	l.s.y = l.p.lastV
	l.s.count = 1
	l.p.lastV += l.height
	return image.Pt(0, l.s.y)
}

// Alloc reserves a width x height cell. It reports false when the cell
// does not fit below the atlas height; every later call fails as well until
// Clear, after which the caller re-packs its glyphs.
func (p *Packer) Alloc(width, height int) (image.Point, bool) {
	pt := p.AllocLine(height).Alloc(width)
	if p.lastV > p.height {
		return image.Point{}, false
	}
	return pt, true
}
