package loader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"strings"

	// Decoders available to LoadImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/glyphhost/atom"
)

// Image is a decoded image together with the identity it was loaded under.
type Image struct {
	Atom   atom.Atom
	Name   string
	Format string // decoder name, e.g. "png"
	IsPNG  bool   // name ends in "png"
	Width  int
	Height int
	Pixels *image.RGBA
}

// Size returns the number of bytes held by Pixels.
func (img *Image) Size() int {
	return len(img.Pixels.Pix)
}

// LoadImage fetches and decodes the image at path.
// Decoded images are cached by path.
func (l *Loader) LoadImage(ctx context.Context, path string) (*Image, error) {
	if img, ok := l.images.Get(path); ok {
		return img, nil
	}
	data, err := l.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(path, data)
	if err != nil {
		l.opts.logger.Warn("loader: undecodable image", "path", path, "err", err)
		return nil, &LoadError{Path: path, Err: err}
	}
	img.Atom = l.atoms.Intern(path)
	l.images.Put(path, img)
	return img, nil
}

// Decode decodes data into an RGBA image named name.
// The Atom field is left zero.
func Decode(name string, data []byte) (*Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Bounds().Min != (image.Point{}) {
		b := src.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return &Image{
		Name:   name,
		Format: format,
		IsPNG:  strings.HasSuffix(name, "png"),
		Width:  rgba.Bounds().Dx(),
		Height: rgba.Bounds().Dy(),
		Pixels: rgba,
	}, nil
}

// Preload loads and decodes paths concurrently, bounded by the configured
// concurrency. It returns the first error; remaining loads are cancelled.
func (l *Loader) Preload(ctx context.Context, paths ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.concurrency)
	for _, p := range paths {
		g.Go(func() error {
			_, err := l.LoadImage(gctx, p)
			return err
		})
	}
	return g.Wait()
}

// ForgetImage drops a cached decoded image.
func (l *Loader) ForgetImage(path string) bool {
	return l.images.Remove(path)
}
