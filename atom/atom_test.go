package atom

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegisterExample(t *testing.T) {
	tbl := NewTable()
	tbl.Register(5, "Arial")

	if s, ok := tbl.String(5); !ok || s != "Arial" {
		t.Errorf("String(5) = (%q, %v), want (\"Arial\", true)", s, ok)
	}
	if n, ok := tbl.Number("Arial"); !ok || n != 5 {
		t.Errorf("Number(\"Arial\") = (%d, %v), want (5, true)", n, ok)
	}
	if s, ok := tbl.String(6); ok {
		t.Errorf("String(6) = (%q, true), want absent", s)
	}
}

func TestAbsentLookups(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.String(0); ok {
		t.Error("String on empty table reported a value")
	}
	if _, ok := tbl.Number(""); ok {
		t.Error("Number on empty table reported a value")
	}
	if tbl.Has(0) {
		t.Error("Has(0) on empty table = true")
	}
}

func TestRoundTrip(t *testing.T) {
	tbl := NewTable()
	names := []string{"serif", "sans-serif", "monospace", "Noto Sans CJK", ""}
	for i, name := range names {
		tbl.Register(Atom(100+i), name)
	}
	for i := range names {
		n := Atom(100 + i)
		s, ok := tbl.String(n)
		if !ok {
			t.Fatalf("String(%d) absent", n)
		}
		if back, _ := tbl.Number(s); back != n {
			t.Errorf("Number(String(%d)) = %d", n, back)
		}
	}
}

func TestRegisterOverwriteDropsStaleReverse(t *testing.T) {
	tbl := NewTable()
	tbl.Register(7, "Arial")
	tbl.Register(7, "Helvetica")

	if s, _ := tbl.String(7); s != "Helvetica" {
		t.Errorf("String(7) = %q, want \"Helvetica\"", s)
	}
	if n, ok := tbl.Number("Arial"); ok {
		t.Errorf("Number(\"Arial\") = %d, want absent after overwrite", n)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}

func TestRegisterMovesString(t *testing.T) {
	tbl := NewTable()
	tbl.Register(1, "Arial")
	tbl.Register(2, "Arial")

	if tbl.Has(1) {
		t.Error("atom 1 still registered after its string moved to atom 2")
	}
	if n, _ := tbl.Number("Arial"); n != 2 {
		t.Errorf("Number(\"Arial\") = %d, want 2", n)
	}
}

func TestIntern(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("images/logo.png")
	if a != Hash("images/logo.png") {
		t.Errorf("Intern = %d, want hash %d", a, Hash("images/logo.png"))
	}
	if again := tbl.Intern("images/logo.png"); again != a {
		t.Errorf("second Intern = %d, want %d", again, a)
	}
	if s, _ := tbl.String(a); s != "images/logo.png" {
		t.Errorf("String(%d) = %q", a, s)
	}
}

func TestInternProbesPastTakenAtom(t *testing.T) {
	tbl := NewTable()
	h := Hash("font.ttf")
	tbl.Register(h, "someone else")

	a := tbl.Intern("font.ttf")
	if a == h {
		t.Fatal("Intern reused an atom owned by another string")
	}
	if s, _ := tbl.String(h); s != "someone else" {
		t.Errorf("Intern disturbed existing pair: String(%d) = %q", h, s)
	}
	if s, _ := tbl.String(a); s != "font.ttf" {
		t.Errorf("String(%d) = %q, want \"font.ttf\"", a, s)
	}
}

func TestAllOrdered(t *testing.T) {
	tbl := NewTable()
	tbl.Register(30, "c")
	tbl.Register(10, "a")
	tbl.Register(20, "b")

	var got []string
	for a, s := range tbl.All() {
		got = append(got, fmt.Sprintf("%d=%s", a, s))
	}
	want := []string{"10=a", "20=b", "30=c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestConcurrentRegisterKeepsInverse(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				a := Atom(i % 32)
				s := fmt.Sprintf("font-%d", (i+g)%48)
				tbl.Register(a, s)
				_, _ = tbl.String(a)
				_ = tbl.Intern(s)
			}
		}(g)
	}
	wg.Wait()

	for a, s := range tbl.All() {
		if back, _ := tbl.Number(s); back != a {
			t.Errorf("pair (%d, %q) not inverse after concurrent writes", a, s)
		}
	}
}
