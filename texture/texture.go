// Package texture describes images as GPU textures.
//
// The package never creates a device. Formats are chosen from the host's
// gpucontext.DeviceProvider and pixel data is handed to a texture creator
// owned by the host.
package texture

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphhost/loader"
)

// Sentinel errors for the texture package.
var (
	// ErrNilCreator is returned by Upload without a texture creator.
	ErrNilCreator = errors.New("texture: nil texture creator")

	// ErrNilImage is returned when no image is given.
	ErrNilImage = errors.New("texture: nil image")
)

// Creator turns RGBA pixels into a host texture.
// gpucontext.TextureCreator satisfies it.
type Creator interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

// PlatformFormat returns the render format for the build target:
// RGBA8 on Android and WebAssembly, where BGRA8 is unreliable, and BGRA8
// everywhere else.
func PlatformFormat() gputypes.TextureFormat {
	return platformFormat(runtime.GOOS, runtime.GOARCH)
}

func platformFormat(goos, goarch string) gputypes.TextureFormat {
	if goos == "android" || goarch == "wasm" {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatBGRA8Unorm
}

// DefaultFormat returns the render target format: the provider's surface
// format, or PlatformFormat when the provider is nil or reports no surface.
// Image textures never use it; see ImageFormat.
func DefaultFormat(p gpucontext.DeviceProvider) gputypes.TextureFormat {
	if p != nil {
		if f := p.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			return f
		}
	}
	return PlatformFormat()
}

// ImageFormat is the format of every image texture. Decoded images hold
// RGBA bytes in memory order and are uploaded unchanged.
const ImageFormat = gputypes.TextureFormatRGBA8Unorm

// ImageTexture describes a texture created from a decoded image.
type ImageTexture struct {
	Atom          uint32
	Format        gputypes.TextureFormat
	Width         uint32
	Height        uint32
	Size          int
	Opaque        bool
	ViewDimension gputypes.TextureViewDimension

	// Handle is the host texture once uploaded, nil before.
	Handle any
}

// FromImage describes img as a 2D ImageFormat texture.
func FromImage(img *loader.Image) (*ImageTexture, error) {
	if img == nil || img.Pixels == nil {
		return nil, ErrNilImage
	}
	return &ImageTexture{
		Atom:          uint32(img.Atom),
		Format:        ImageFormat,
		Width:         uint32(img.Width),
		Height:        uint32(img.Height),
		Size:          img.Size(),
		Opaque:        img.Pixels.Opaque(),
		ViewDimension: gputypes.TextureViewDimension2D,
	}, nil
}

// Upload describes img and creates its host texture through c.
// The texture receives the image's RGBA bytes unchanged.
func Upload(c Creator, img *loader.Image) (*ImageTexture, error) {
	if c == nil {
		return nil, ErrNilCreator
	}
	tex, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	h, err := c.NewTextureFromRGBA(img.Width, img.Height, img.Pixels.Pix)
	if err != nil {
		return nil, fmt.Errorf("texture: upload %q: %w", img.Name, err)
	}
	tex.Handle = h
	return tex, nil
}

// ErrNotUpdatable is returned by Update when the host texture cannot be
// rewritten in place.
var ErrNotUpdatable = errors.New("texture: host texture does not support updates")

// Update replaces the pixels of an uploaded texture in place. The image
// must have the texture's size.
func (t *ImageTexture) Update(img *loader.Image) error {
	if img == nil || img.Pixels == nil {
		return ErrNilImage
	}
	if uint32(img.Width) != t.Width || uint32(img.Height) != t.Height {
		return fmt.Errorf("texture: update %dx%d texture with %dx%d image",
			t.Width, t.Height, img.Width, img.Height)
	}
	u, ok := t.Handle.(gpucontext.TextureUpdater)
	if !ok {
		return ErrNotUpdatable
	}
	if err := u.UpdateData(img.Pixels.Pix); err != nil {
		return fmt.Errorf("texture: update %q: %w", img.Name, err)
	}
	t.Size = img.Size()
	t.Opaque = img.Pixels.Opaque()
	return nil
}

// DepthOrArrayLayers returns the third texture extent: the number of
// layers times faces for arrays and cube maps, the depth otherwise.
// The result is at least 1.
func DepthOrArrayLayers(layers, faces, depth uint32) uint32 {
	n := depth
	if layers > 1 || faces > 1 {
		n = layers * faces
	}
	return max(n, 1)
}

// Dimension picks the texture dimension from its height and depth.
func Dimension(height, depth uint32) gputypes.TextureDimension {
	switch {
	case depth > 1:
		return gputypes.TextureDimension3D
	case height > 1:
		return gputypes.TextureDimension2D
	default:
		return gputypes.TextureDimension1D
	}
}

// ViewDimension picks the view dimension for a texture with the given
// layer count, face count and depth. Six faces make a cube map.
func ViewDimension(layers, faces, depth uint32) gputypes.TextureViewDimension {
	switch {
	case faces == 6 && layers > 1:
		return gputypes.TextureViewDimensionCubeArray
	case faces == 6:
		return gputypes.TextureViewDimensionCube
	case layers > 1:
		return gputypes.TextureViewDimension2DArray
	case depth > 1:
		return gputypes.TextureViewDimension3D
	default:
		return gputypes.TextureViewDimension2D
	}
}
