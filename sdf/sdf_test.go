package sdf

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphhost/atom"
)

func TestCreateFace(t *testing.T) {
	atoms := atom.NewTable()
	s := NewStub(atoms)
	ctx := context.Background()

	id, err := s.CreateFace(ctx, "Go", goregular.TTF)
	if err != nil {
		t.Fatalf("CreateFace() error = %v", err)
	}
	if got, ok := atoms.String(atom.Atom(id)); !ok || got != "Go" {
		t.Errorf("face id %d resolves to %q, %v; want \"Go\"", id, got, ok)
	}

	again, err := s.CreateFace(ctx, "Go", goregular.TTF)
	if err != nil {
		t.Fatalf("CreateFace() again error = %v", err)
	}
	if again != id {
		t.Errorf("same family got id %d, want %d", again, id)
	}
}

func TestCreateFaceRejectsBadData(t *testing.T) {
	s := NewStub(atom.NewTable())
	if _, err := s.CreateFace(context.Background(), "Broken", []byte("not a font")); err == nil {
		t.Fatal("CreateFace() accepted garbage")
	}
}

func TestOutline(t *testing.T) {
	s := NewStub(atom.NewTable())
	ctx := context.Background()
	id, err := s.CreateFace(ctx, "Go", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		r     rune
		empty bool
	}{
		{"letter", 'A', false},
		{"digit", '8', false},
		{"space", ' ', true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := s.Outline(ctx, id, tt.r)
			if err != nil {
				t.Fatalf("Outline(%q) error = %v", tt.r, err)
			}
			if o.Empty() != tt.empty {
				t.Errorf("Outline(%q).Empty() = %v, want %v", tt.r, o.Empty(), tt.empty)
			}
			if o.Advance <= 0 {
				t.Errorf("Outline(%q).Advance = %v, want > 0", tt.r, o.Advance)
			}
			if !tt.empty && o.Bounds.Empty() {
				t.Errorf("Outline(%q) has empty bounds", tt.r)
			}
		})
	}

	stats := s.outlines.Stats()
	if _, err := s.Outline(ctx, id, 'A'); err != nil {
		t.Fatal(err)
	}
	if s.outlines.Stats().Hits != stats.Hits+1 {
		t.Error("second Outline('A') was not served from cache")
	}
}

func TestOutlineErrors(t *testing.T) {
	s := NewStub(atom.NewTable())
	ctx := context.Background()

	if _, err := s.Outline(ctx, 12345, 'A'); !errors.Is(err, ErrUnknownFace) {
		t.Errorf("unknown face: err = %v, want ErrUnknownFace", err)
	}

	id, err := s.CreateFace(ctx, "Go", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Outline(ctx, id, '\U0001F600'); !errors.Is(err, ErrNoGlyph) {
		t.Errorf("missing glyph: err = %v, want ErrNoGlyph", err)
	}
}

func TestComputeTexture(t *testing.T) {
	s := NewStub(atom.NewTable())
	info, err := s.ComputeTexture(context.Background(), TexRequest{TexSize: 32, PxRange: 4, Scale: 1})
	if err != nil {
		t.Fatalf("ComputeTexture() error = %v", err)
	}
	if !info.Empty() {
		t.Errorf("ComputeTexture() = %+v, want empty", info)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ComputeTexture(ctx, TexRequest{}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v, want context.Canceled", err)
	}
}
