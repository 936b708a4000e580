package bimap

import "testing"

func TestPutAndLookup(t *testing.T) {
	m := New[int, string](4)
	if displaced := m.Put(1, "a"); displaced {
		t.Error("Put into empty map reported displacement")
	}

	if v, ok := m.Value(1); !ok || v != "a" {
		t.Errorf("Value(1) = (%q, %v), want (\"a\", true)", v, ok)
	}
	if k, ok := m.Key("a"); !ok || k != 1 {
		t.Errorf("Key(\"a\") = (%d, %v), want (1, true)", k, ok)
	}
	if _, ok := m.Value(2); ok {
		t.Error("Value(2) found a pair that was never stored")
	}
	if _, ok := m.Key("b"); ok {
		t.Error("Key(\"b\") found a pair that was never stored")
	}
}

func TestPutKeepsInverse(t *testing.T) {
	tests := []struct {
		name      string
		puts      [][2]any
		wantLen   int
		wantPairs map[int]string
		gone      []string
	}{
		{
			name:      "same key new value",
			puts:      [][2]any{{1, "a"}, {1, "b"}},
			wantLen:   1,
			wantPairs: map[int]string{1: "b"},
			gone:      []string{"a"},
		},
		{
			name:      "same value new key",
			puts:      [][2]any{{1, "a"}, {2, "a"}},
			wantLen:   1,
			wantPairs: map[int]string{2: "a"},
		},
		{
			name:      "cross collision",
			puts:      [][2]any{{1, "a"}, {2, "b"}, {1, "b"}},
			wantLen:   1,
			wantPairs: map[int]string{1: "b"},
			gone:      []string{"a"},
		},
		{
			name:      "idempotent",
			puts:      [][2]any{{1, "a"}, {1, "a"}},
			wantLen:   1,
			wantPairs: map[int]string{1: "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New[int, string](0)
			for _, p := range tt.puts {
				m.Put(p[0].(int), p[1].(string))
			}
			if m.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", m.Len(), tt.wantLen)
			}
			for k, v := range tt.wantPairs {
				if got, _ := m.Value(k); got != v {
					t.Errorf("Value(%d) = %q, want %q", k, got, v)
				}
				if got, _ := m.Key(v); got != k {
					t.Errorf("Key(%q) = %d, want %d", v, got, k)
				}
			}
			for _, v := range tt.gone {
				if _, ok := m.Key(v); ok {
					t.Errorf("Key(%q) still present after overwrite", v)
				}
			}
			for _, k := range m.Keys() {
				v, _ := m.Value(k)
				if back, _ := m.Key(v); back != k {
					t.Errorf("pair (%d, %q) is not mutually inverse", k, v)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	m := New[int, string](0)
	m.Put(1, "a")
	m.Put(2, "b")

	if !m.DeleteKey(1) {
		t.Error("DeleteKey(1) = false, want true")
	}
	if _, ok := m.Key("a"); ok {
		t.Error("reverse entry survived DeleteKey")
	}
	if m.DeleteKey(1) {
		t.Error("second DeleteKey(1) = true, want false")
	}

	if !m.DeleteValue("b") {
		t.Error("DeleteValue(\"b\") = false, want true")
	}
	if _, ok := m.Value(2); ok {
		t.Error("forward entry survived DeleteValue")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after deleting everything", m.Len())
	}
}
