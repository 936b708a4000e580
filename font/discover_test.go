package font

import (
	"testing"
	"testing/fstest"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		weight Weight
	}{
		{"regular", goregular.TTF, Normal},
		{"bold", gobold.TTF, Bold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, w, err := Describe(tt.data)
			if err != nil {
				t.Fatalf("Describe() error = %v", err)
			}
			if family != "Go" {
				t.Errorf("family = %q, want %q", family, "Go")
			}
			if w != tt.weight {
				t.Errorf("weight = %v, want %v", w, tt.weight)
			}
		})
	}

	if _, _, err := Describe([]byte("junk")); err == nil {
		t.Error("Describe() accepted junk")
	}
}

func TestSubfamilyWeight(t *testing.T) {
	tests := map[string]Weight{
		"Regular":            Normal,
		"Italic":             Normal,
		"Bold Italic":        Bold,
		"SemiBold":           Bold,
		"ExtraBold":          Bolder,
		"Black":              Bolder,
		"Light":              Lighter,
		"Thin":               Lighter,
		"ExtraLight Oblique": Lighter,
	}
	for sub, want := range tests {
		if got := subfamilyWeight(sub); got != want {
			t.Errorf("subfamilyWeight(%q) = %v, want %v", sub, got, want)
		}
	}
}

func TestLoadFS(t *testing.T) {
	r := &Registry{families: make(map[string]*family)}
	fsys := fstest.MapFS{
		"fonts/italic.ttf": {Data: goitalic.TTF},
		"fonts/sub/b.TTF":  {Data: gobolditalic.TTF},
		"fonts/readme.txt": {Data: []byte("not a font")},
		"fonts/broken.otf": {Data: []byte("junk")},
	}

	n, err := r.LoadFS(fsys, "fonts")
	if n != 2 {
		t.Errorf("LoadFS() registered %d faces, want 2", n)
	}
	if err == nil {
		t.Error("LoadFS() did not report the broken file")
	}
	if !r.Has("go") {
		t.Fatal("family Go not registered")
	}
	if _, ok := r.Source("Go", Normal); !ok {
		t.Error("italic face missing")
	}
	if _, ok := r.Source("Go", Bold); !ok {
		t.Error("bold face missing")
	}
}
