package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/gogpu/glyphhost"
)

func TestCharCode(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		ok   bool
	}{
		{"A", 'A', true},
		{"é", 'é', true},
		{"65", 65, true},
		{"0x41", 0x41, true},
		{"5", '5', true},
		{"0x5", 5, true},
		{"U+0041", 0x41, true},
		{"u+1F600", 0x1F600, true},
		{"U+", 0, false},
		{"U+XYZ", 0, false},
		{"AB", 0, false},
	}
	for _, tt := range tests {
		got, err := charCode(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("charCode(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("charCode(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
		ok   bool
	}{
		{"font 400 16 Go", []string{"font", "400", "16", "Go"}, true},
		{`font 400 16 "Go Mono" 2`, []string{"font", "400", "16", "Go Mono", "2"}, true},
		{"measure W 16 'Go Mono'", []string{"measure", "W", "16", "Go Mono"}, true},
		{`put k ""`, []string{"put", "k", ""}, true},
		{`put k "it's"`, []string{"put", "k", "it's"}, true},
		{"  atom\tGo  ", []string{"atom", "Go"}, true},
		{`font 400 16 "Go Mono`, nil, false},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("splitArgs(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExecute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphhost.cli")
	defer teardown()

	h, err := glyphhost.New()
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	intp := &Intp{host: h}
	out := filepath.Join(t.TempDir(), "out.png")

	script := [][]string{
		{"atom", "Go"},
		{"register", "5", "Arial"},
		{"lookup", "5"},
		{"fill", "40", "20"},
		{"font", "700", "16", "Go", "2"},
		{"draw", "A", "2", "2"},
		{"stroke", "0x42", "20", "2"},
		{"measure", "W", "16", "Go"},
		{"height", "Go", "16"},
		{"put", "k", "v"},
		{"get", "k"},
		{"del", "k"},
		{"save", out},
		{"pack", "16", "Go", "hello", "world"},
	}
	for _, line := range script {
		stop, err := intp.execute(line[0], line[1:])
		if err != nil {
			t.Fatalf("%v: %v", line, err)
		}
		if stop {
			t.Fatalf("%v stopped the shell", line)
		}
	}

	if s, ok := h.Atoms().String(5); !ok || s != "Arial" {
		t.Errorf("atom 5 = %q, %v; want Arial", s, ok)
	}
	if n := h.Atlas().Len(); n != 7 {
		t.Errorf("atlas holds %d glyphs, want 7 distinct characters of hello world", n)
	}
	if w, ht := h.Canvas().Size(); w != 40 || ht != 20 {
		t.Errorf("canvas = %dx%d, want 40x20", w, ht)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("save wrote nothing: %v", err)
	}

	args, err := splitArgs(`font 400 16 "Go Mono"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := intp.execute(args[0], args[1:]); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	if got := h.Canvas().Font().Family; got != "Go Mono" {
		t.Errorf("quoted family selected %q, want Go Mono", got)
	}

	if _, err := intp.execute("font", []string{"700"}); err == nil {
		t.Error("font with too few arguments succeeded")
	}
	if stop, _ := intp.execute("quit", nil); !stop {
		t.Error("quit did not stop the shell")
	}
}
