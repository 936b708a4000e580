package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// KTXExt is the file extension of KTX compressed textures.
const KTXExt = ".ktx"

// Sentinel errors for compressed textures.
var (
	ErrUnsupportedFormat = errors.New("texture: unsupported compressed format")
	ErrBadKTX            = errors.New("texture: malformed KTX file")
	ErrNoCompressed      = errors.New("texture: creator cannot upload compressed textures")
)

// IsKTX reports whether path names a KTX texture.
func IsKTX(path string) bool {
	return strings.HasSuffix(path, KTXExt)
}

type compressedFormat struct {
	format         gputypes.TextureFormat
	blockW, blockH uint32
}

// GL internal formats of the compressed textures hosts ship.
var glFormats = map[uint32]compressedFormat{
	0x83f1: {gputypes.TextureFormatBC1RGBAUnorm, 4, 4},   // COMPRESSED_RGBA_S3TC_DXT1_EXT
	0x83f2: {gputypes.TextureFormatBC2RGBAUnorm, 4, 4},   // COMPRESSED_RGBA_S3TC_DXT3_EXT
	0x83f3: {gputypes.TextureFormatBC3RGBAUnorm, 4, 4},   // COMPRESSED_RGBA_S3TC_DXT5_EXT
	0x9274: {gputypes.TextureFormatETC2RGB8Unorm, 4, 4},  // COMPRESSED_RGB8_ETC2
	0x9278: {gputypes.TextureFormatETC2RGBA8Unorm, 4, 4}, // COMPRESSED_RGBA8_ETC2_EAC
	0x93b0: {gputypes.TextureFormatASTC4x4Unorm, 4, 4},
	0x93b1: {gputypes.TextureFormatASTC5x4Unorm, 5, 4},
	0x93b2: {gputypes.TextureFormatASTC5x5Unorm, 5, 5},
	0x93b3: {gputypes.TextureFormatASTC6x5Unorm, 6, 5},
	0x93b4: {gputypes.TextureFormatASTC6x6Unorm, 6, 6},
	0x93b5: {gputypes.TextureFormatASTC8x5Unorm, 8, 5},
	0x93b6: {gputypes.TextureFormatASTC8x6Unorm, 8, 6},
	0x93b7: {gputypes.TextureFormatASTC8x8Unorm, 8, 8},
	0x93b8: {gputypes.TextureFormatASTC10x5Unorm, 10, 5},
	0x93b9: {gputypes.TextureFormatASTC10x6Unorm, 10, 6},
	0x93ba: {gputypes.TextureFormatASTC10x8Unorm, 10, 8},
	0x93bb: {gputypes.TextureFormatASTC10x10Unorm, 10, 10},
	0x93bc: {gputypes.TextureFormatASTC12x10Unorm, 12, 10},
	0x93bd: {gputypes.TextureFormatASTC12x12Unorm, 12, 12},
}

// ConvertFormat maps a GL internal format to a texture format.
func ConvertFormat(glInternalFormat uint32) (gputypes.TextureFormat, error) {
	f, ok := glFormats[glInternalFormat]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: 0x%x", ErrUnsupportedFormat, glInternalFormat)
	}
	return f.format, nil
}

var ktxIdentifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '1', '1', 0xBB, '\r', '\n', 0x1A, '\n'}

const ktxHeaderSize = 64

// KTXHeader is the fixed header of a KTX 1 file.
type KTXHeader struct {
	GLType               uint32
	GLTypeSize           uint32
	GLFormat             uint32
	GLInternalFormat     uint32
	GLBaseInternalFormat uint32
	PixelWidth           uint32
	PixelHeight          uint32
	PixelDepth           uint32
	ArrayElements        uint32
	Faces                uint32
	MipmapLevels         uint32
	KeyValueBytes        uint32
}

// ParseKTX reads the header of a KTX 1 file in either byte order.
func ParseKTX(data []byte) (KTXHeader, binary.ByteOrder, error) {
	var h KTXHeader
	if len(data) < ktxHeaderSize || !bytes.Equal(data[:12], ktxIdentifier[:]) {
		return h, nil, fmt.Errorf("%w: bad identifier", ErrBadKTX)
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch binary.LittleEndian.Uint32(data[12:16]) {
	case 0x04030201:
	case 0x01020304:
		order = binary.BigEndian
	default:
		return h, nil, fmt.Errorf("%w: bad endianness marker", ErrBadKTX)
	}
	if err := binary.Read(bytes.NewReader(data[16:ktxHeaderSize]), order, &h); err != nil {
		return h, nil, fmt.Errorf("%w: %v", ErrBadKTX, err)
	}
	return h, order, nil
}

// Descriptor returns the texture descriptor for the KTX texture, with
// the extent rounded up to whole compression blocks.
func (h KTXHeader) Descriptor(usage gputypes.TextureUsage) (gputypes.TextureDescriptor, error) {
	f, ok := glFormats[h.GLInternalFormat]
	if !ok {
		return gputypes.TextureDescriptor{}, fmt.Errorf("%w: 0x%x", ErrUnsupportedFormat, h.GLInternalFormat)
	}
	return gputypes.TextureDescriptor{
		Label: "ktx texture",
		Size: gputypes.Extent3D{
			Width:              roundUp(h.PixelWidth, f.blockW),
			Height:             roundUp(max(h.PixelHeight, 1), f.blockH),
			DepthOrArrayLayers: DepthOrArrayLayers(max(h.ArrayElements, 1), max(h.Faces, 1), h.PixelDepth),
		},
		MipLevelCount: max(h.MipmapLevels, 1),
		SampleCount:   1,
		Dimension:     Dimension(h.PixelHeight, h.PixelDepth),
		Format:        f.format,
		Usage:         usage,
	}, nil
}

// ViewDimension returns the view dimension for the KTX texture.
func (h KTXHeader) ViewDimension() gputypes.TextureViewDimension {
	return ViewDimension(max(h.ArrayElements, 1), max(h.Faces, 1), h.PixelDepth)
}

func roundUp(n, block uint32) uint32 {
	return (n + block - 1) / block * block
}

// KTXLevels returns the image data of every mip level, in level order, with
// size fields and padding removed. Cube map faces of one level are
// consecutive.
func KTXLevels(data []byte) ([]byte, error) {
	h, order, err := ParseKTX(data)
	if err != nil {
		return nil, err
	}
	off := ktxHeaderSize + int(h.KeyValueBytes)
	faces := 1
	if h.Faces == 6 && h.ArrayElements == 0 {
		faces = 6 // non-array cube maps store each face with its own padding
	}
	var out []byte
	for level := uint32(0); level < max(h.MipmapLevels, 1); level++ {
		if off+4 > len(data) {
			return nil, fmt.Errorf("%w: level %d truncated", ErrBadKTX, level)
		}
		size := int(order.Uint32(data[off : off+4]))
		off += 4
		for range faces {
			if size < 0 || off+size > len(data) {
				return nil, fmt.Errorf("%w: level %d truncated", ErrBadKTX, level)
			}
			out = append(out, data[off:off+size]...)
			off += pad4(size)
		}
	}
	return out, nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// CompressedCreator is implemented by texture creators that accept
// pre-compressed data.
type CompressedCreator interface {
	NewCompressedTexture(desc gputypes.TextureDescriptor, data []byte) (any, error)
}

// FromKTX describes a KTX file as a texture. Atom is left zero. With a
// non-nil creator the level data is uploaded; the creator must implement
// CompressedCreator.
func FromKTX(name string, data []byte, c Creator) (*ImageTexture, error) {
	h, _, err := ParseKTX(data)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", name, err)
	}
	desc, err := h.Descriptor(gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", name, err)
	}
	tex := &ImageTexture{
		Format:        desc.Format,
		Width:         h.PixelWidth,
		Height:        h.PixelHeight,
		Size:          len(data),
		Opaque:        true,
		ViewDimension: h.ViewDimension(),
	}
	if c == nil {
		return tex, nil
	}
	cc, ok := c.(CompressedCreator)
	if !ok {
		return nil, ErrNoCompressed
	}
	levels, err := KTXLevels(data)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", name, err)
	}
	handle, err := cc.NewCompressedTexture(desc, levels)
	if err != nil {
		return nil, fmt.Errorf("texture: upload %q: %w", name, err)
	}
	tex.Handle = handle
	return tex, nil
}
