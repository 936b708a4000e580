// Package canvas is the 2D drawing surface used by the guest module to
// rasterize single glyphs.
//
// Its operations follow the HTML canvas helpers the guest was written
// against: a background fill, a font setter that takes the family as an atom,
// fill and stroke of one character, and per-character measurement.
//
// Canvas is NOT safe for concurrent use. The advance cache it owns is.
package canvas

import (
	"fmt"
	"hash/maphash"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"math"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphhost/atom"
	"github.com/gogpu/glyphhost/font"
	"github.com/gogpu/glyphhost/internal/cache"
)

// Default canvas size, matching an HTML canvas element.
const (
	DefaultWidth  = 300
	DefaultHeight = 150
)

// Size limits. Larger requests are clamped, like the area limit browsers
// apply to canvas elements.
const (
	MaxSide = 32767
	MaxArea = 16384 * 16384
)

// Colours used by the glyph pipeline. The guest reads glyph coverage from
// the green channel and stroke coverage from the red channel.
var (
	BackgroundColor = color.RGBA{0, 0, 0xff, 0xff}
	FillColor       = color.RGBA{0, 0xff, 0, 0xff}
	StrokeColor     = color.RGBA{0xff, 0, 0, 0xff}
)

// Baseline selects which line of the em box the y coordinate refers to.
type Baseline uint8

const (
	BaselineAlphabetic Baseline = iota
	BaselineTop
)

// state is the resettable drawing state.
type state struct {
	font      font.Descriptor
	fill      color.RGBA
	stroke    color.RGBA
	lineWidth float64
	baseline  Baseline
}

func defaultState() state {
	return state{
		font:      font.Descriptor{Weight: font.Normal, Size: 10, Family: font.DefaultFamily},
		fill:      color.RGBA{0, 0, 0, 0xff},
		stroke:    color.RGBA{0, 0, 0, 0xff},
		lineWidth: 1,
		baseline:  BaselineAlphabetic,
	}
}

type advanceKey struct {
	family string
	weight font.Weight
	size   float64
	ch     rune
}

var advanceSeed = maphash.MakeSeed()

func hashAdvanceKey(k advanceKey) uint64 {
	return maphash.Comparable(advanceSeed, k)
}

// Canvas is an RGBA raster with canvas-like text state.
type Canvas struct {
	atoms   *atom.Table
	fonts   *font.Registry
	logger  *slog.Logger
	maxArea int

	img   *image.RGBA
	state state
	face  xfont.Face // face for state.font, created lazily

	advances *cache.LRU[advanceKey, float64]
}

// New creates a canvas resolving family atoms through atoms and faces
// through fonts.
func New(atoms *atom.Table, fonts *font.Registry, opts ...Option) *Canvas {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Canvas{
		atoms:    atoms,
		fonts:    fonts,
		logger:   o.logger,
		maxArea:  o.maxArea,
		state:    defaultState(),
		advances: cache.New[advanceKey, float64](o.advanceCap, hashAdvanceKey),
	}
	c.img = c.newRGBA(o.width, o.height)
	return c
}

// newRGBA allocates a raster of at most MaxSide per side and maxArea pixels.
// Over-tall requests lose rows first.
func (c *Canvas) newRGBA(width, height int) *image.RGBA {
	w := min(max(width, 0), MaxSide)
	h := min(max(height, 0), MaxSide)
	if w > 0 && w*h > c.maxArea {
		h = c.maxArea / w
		if h == 0 {
			w, h = c.maxArea, 1
		}
	}
	if w != width || h != height {
		c.logger.Warn("canvas: size clamped",
			"width", width, "height", height, "clampedWidth", w, "clampedHeight", h)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// FillBackground resizes the canvas to width x height and fills it with
// BackgroundColor. Resizing resets the drawing state, as it does for an HTML
// canvas; the fill colour is left at BackgroundColor. Sizes beyond MaxSide
// or the area limit are clamped.
func (c *Canvas) FillBackground(width, height int) {
	c.img = c.newRGBA(width, height)
	c.resetState()
	c.state.fill = BackgroundColor
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(BackgroundColor), image.Point{}, draw.Src)
}

func (c *Canvas) resetState() {
	c.state = defaultState()
	c.setFace(nil)
}

// SetFont prepares the state for glyph drawing.
//
// The family atom is resolved through the atom table; an unregistered atom
// falls back to font.DefaultFamily. The weight is classified with
// font.ClassifyWeight. Fill is set to FillColor and the baseline to top. When
// strokeWidth is positive the line width and StrokeColor are set as well.
func (c *Canvas) SetFont(weight, size int, family atom.Atom, strokeWidth int) {
	c.state.font = font.Descriptor{
		Weight: font.ClassifyWeight(weight),
		Size:   float64(size),
		Family: c.familyName(family),
	}
	c.setFace(nil)
	c.state.fill = FillColor
	c.state.baseline = BaselineTop
	if strokeWidth > 0 {
		c.state.lineWidth = float64(strokeWidth)
		c.state.stroke = StrokeColor
	}
}

// familyName resolves a family atom.
func (c *Canvas) familyName(family atom.Atom) string {
	name, ok := c.atoms.String(family)
	if !ok {
		c.logger.Warn("canvas: unregistered font atom, using default family",
			"atom", family, "family", font.DefaultFamily)
		return font.DefaultFamily
	}
	return name
}

// Font returns the current font descriptor.
func (c *Canvas) Font() font.Descriptor { return c.state.font }

// FillStyle returns the current fill colour.
func (c *Canvas) FillStyle() color.RGBA { return c.state.fill }

// StrokeStyle returns the current stroke colour.
func (c *Canvas) StrokeStyle() color.RGBA { return c.state.stroke }

// LineWidth returns the current stroke width.
func (c *Canvas) LineWidth() float64 { return c.state.lineWidth }

// TextBaseline returns the current baseline.
func (c *Canvas) TextBaseline() Baseline { return c.state.baseline }

// DrawChar fills the character code at (x, y).
func (c *Canvas) DrawChar(code uint32, x, y int) {
	c.drawGlyph(CharFromCode(code), x, y, c.state.fill, 0)
}

// DrawCharWithStroke strokes, then fills, the character code at (x, y).
// Filling last keeps the fill on top, matching CSS text-stroke.
func (c *Canvas) DrawCharWithStroke(code uint32, x, y int) {
	ch := CharFromCode(code)
	c.drawGlyph(ch, x, y, c.state.stroke, strokeRadius(c.state.lineWidth))
	c.drawGlyph(ch, x, y, c.state.fill, 0)
}

// strokeRadius converts a centred line width into the outward dilation.
func strokeRadius(lineWidth float64) int {
	if lineWidth <= 0 {
		return 0
	}
	return int(math.Ceil(lineWidth / 2))
}

// drawGlyph composites ch with col. A positive radius dilates the glyph mask
// by that many pixels, which approximates a stroke of twice the width.
func (c *Canvas) drawGlyph(ch rune, x, y int, col color.RGBA, radius int) {
	face, err := c.currentFace()
	if err != nil {
		c.logger.Warn("canvas: no face for font", "font", c.state.font.String(), "err", err)
		return
	}
	baselineY := y
	if c.state.baseline == BaselineTop {
		baselineY += face.Metrics().Ascent.Ceil()
	}
	dot := fixed.P(x, baselineY)
	dr, mask, maskp, _, ok := face.Glyph(dot, ch)
	if !ok {
		return
	}
	src := image.NewUniform(col)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			draw.DrawMask(c.img, dr.Add(image.Pt(dx, dy)), src, image.Point{}, mask, maskp, draw.Over)
		}
	}
}

func (c *Canvas) currentFace() (xfont.Face, error) {
	if c.face != nil {
		return c.face, nil
	}
	face, err := c.fonts.Face(c.state.font)
	if err != nil {
		fallback := c.state.font
		fallback.Family = font.DefaultFamily
		face, err = c.fonts.Face(fallback)
		if err != nil {
			return nil, err
		}
	}
	c.face = face
	return face, nil
}

func (c *Canvas) setFace(face xfont.Face) {
	if c.face != nil {
		_ = c.face.Close()
	}
	c.face = face
}

// MeasureText returns the advance width of the character code at size
// pixels in the family atom. As with the canvas API, measuring sets the
// current font to size and family at normal weight.
func (c *Canvas) MeasureText(code uint32, size int, family atom.Atom) float64 {
	c.state.font = font.Descriptor{
		Weight: font.Normal,
		Size:   float64(size),
		Family: c.familyName(family),
	}
	c.setFace(nil)
	return c.advance(c.state.font, CharFromCode(code))
}

func (c *Canvas) advance(d font.Descriptor, ch rune) float64 {
	key := advanceKey{family: d.Family, weight: d.Weight, size: d.Size, ch: ch}
	w, err := c.advances.GetOrLoad(key, func() (float64, error) {
		w, err := c.fonts.Advance(d, ch)
		if err == nil {
			return w, nil
		}
		fallback := d
		fallback.Family = font.DefaultFamily
		return c.fonts.Advance(fallback, ch)
	})
	if err != nil {
		c.logger.Warn("canvas: measure failed", "font", d.String(), "char", ch, "err", err)
		return 0
	}
	return w
}

// GlobalMetricsHeight returns the line height of the family atom at size
// pixels, or 0 if the atom or family is unknown.
func (c *Canvas) GlobalMetricsHeight(family atom.Atom, size float64) float64 {
	name, ok := c.atoms.String(family)
	if !ok {
		return 0
	}
	return c.fonts.LineHeight(name, size)
}

// Image returns the backing raster. It shares memory with the canvas.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// EncodePNG writes the raster as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("canvas: encode png: %w", err)
	}
	return nil
}

// AdvanceCacheStats reports the measurement cache counters.
func (c *Canvas) AdvanceCacheStats() cache.Stats { return c.advances.Stats() }

// Close releases the current face.
func (c *Canvas) Close() error {
	c.setFace(nil)
	return nil
}

// CharFromCode converts a character code the way String.fromCharCode does:
// the value is truncated to a UTF-16 code unit. Lone surrogates become
// U+FFFD.
func CharFromCode(code uint32) rune {
	r := rune(uint16(code))
	if utf16.IsSurrogate(r) {
		return utf8.RuneError
	}
	return r
}

// UseVAO reports whether vertex array objects should be used for the given
// user agent. iOS WebGL implementations are excluded.
func UseVAO(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	return !strings.Contains(ua, "ipad") && !strings.Contains(ua, "iphone")
}
