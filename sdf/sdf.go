// Package sdf defines the collaborator that turns glyph outlines into
// signed distance field textures.
//
// Distance field generation itself lives outside this module. Stub
// implements Computer with real font parsing and outline extraction and
// returns empty textures, which is enough for hosts that draw glyphs
// through the canvas instead.
package sdf

import (
	"context"
	"errors"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Sentinel errors for the sdf package.
var (
	// ErrUnknownFace is returned for a FaceID that was never created.
	ErrUnknownFace = errors.New("sdf: unknown face")

	// ErrNoGlyph is returned when a face has no glyph for a rune.
	ErrNoGlyph = errors.New("sdf: no glyph for rune")
)

// FaceID identifies a face created by a Computer. It is the atom of the
// face's family name.
type FaceID uint32

// Outline is a glyph outline scaled so that one pixel is one font unit.
type Outline struct {
	Rune     rune
	Advance  fixed.Int26_6
	Bounds   fixed.Rectangle26_6
	Segments sfnt.Segments
}

// Empty reports whether the outline has no contours, as for a space.
func (o Outline) Empty() bool { return len(o.Segments) == 0 }

// TexRequest describes one distance field texture to compute.
type TexRequest struct {
	Shape     Outline
	TexSize   uint32
	PxRange   uint32
	OuterGlow bool
	CurOff    uint32
	Scale     float32
}

// TexInfo is a computed distance field texture and its layout.
// The zero value is the empty texture.
type TexInfo struct {
	TexSize     uint32
	Distance    float32
	PlaneBounds [4]float32
	AtlasBounds [4]float32
	Pixels      []byte
}

// Empty reports whether no texture data was produced.
func (t TexInfo) Empty() bool { return len(t.Pixels) == 0 }

// Computer creates faces, extracts outlines and computes distance field
// textures. Implementations must be safe for concurrent use.
type Computer interface {
	CreateFace(ctx context.Context, family string, data []byte) (FaceID, error)
	Outline(ctx context.Context, face FaceID, r rune) (Outline, error)
	ComputeTexture(ctx context.Context, req TexRequest) (TexInfo, error)
}
