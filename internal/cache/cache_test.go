package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestGetPut(t *testing.T) {
	c := New[string, int](4, StringHasher)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Put("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = (%d, %v), want (1, true)", v, ok)
	}

	c.Put("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestEvictionIsPerShardLRU(t *testing.T) {
	// Identity hash with mask puts keys 0, 16, 32 in shard 0.
	c := New[uint64, string](2, func(u uint64) uint64 { return u })

	c.Put(0, "zero")
	c.Put(16, "sixteen")
	c.Get(0) // 16 becomes least recently used
	c.Put(32, "thirty-two")

	if _, ok := c.Get(16); ok {
		t.Error("least recently used key survived eviction")
	}
	if _, ok := c.Get(0); !ok {
		t.Error("recently used key was evicted")
	}
	if _, ok := c.Get(32); !ok {
		t.Error("new key missing")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestGetOrLoad(t *testing.T) {
	c := New[string, int](0, StringHasher)
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != 42 {
			t.Fatalf("GetOrLoad = (%d, %v), want (42, nil)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad error = %v, want %v", err, boom)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed load was cached")
	}
}

func TestRemoveAndPurge(t *testing.T) {
	c := New[string, int](0, StringHasher)
	c.Put("a", 1)
	c.Put("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestStats(t *testing.T) {
	c := New[string, int](8, StringHasher)
	c.Put("a", 1)
	c.Get("a")
	c.Get("b")

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 1/1", st.Hits, st.Misses)
	}
	if st.Capacity != 8*ShardCount {
		t.Errorf("Capacity = %d, want %d", st.Capacity, 8*ShardCount)
	}
	if st.HitRate() != 0.5 {
		t.Errorf("HitRate() = %v, want 0.5", st.HitRate())
	}
	if (Stats{}).HitRate() != 0 {
		t.Error("HitRate of empty stats should be 0")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](32, StringHasher)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (i*g)%200)
				c.Put(key, i)
				c.Get(key)
				_, _ = c.GetOrLoad(key, func() (int, error) { return i, nil })
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 32*ShardCount {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
