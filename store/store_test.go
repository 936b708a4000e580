package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glyphhost/atom"
	"github.com/gogpu/glyphhost/loader"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Init(ctx))

	_, ok, err := s.Get(ctx, "glyph:a")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must not hold glyph:a")

	buf := []byte{1, 2, 3}
	require.NoError(t, s.Write(ctx, "glyph:a", buf))
	buf[0] = 9

	got, ok, err := s.Get(ctx, "glyph:a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got, "stored value must not alias the caller's buffer")

	got[1] = 9
	again, _, err := s.Get(ctx, "glyph:a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again, "returned value must not alias the stored one")

	require.NoError(t, s.Delete(ctx, "glyph:a"))
	_, ok, err = s.Get(ctx, "glyph:a")
	require.NoError(t, err)
	assert.False(t, ok, "deleted key must be absent")

	require.NoError(t, s.Delete(ctx, "never-written"))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exercise(t, m)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryCancelled(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, m.Write(ctx, "k", []byte{1}), context.Canceled)
	_, _, err := m.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Len())
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var s Store = Nop{}
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Write(ctx, "k", []byte{1}))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.Delete(ctx, "k"))
}

func newBridge(t *testing.T, backend Store) (*Bridge, *loader.Loader) {
	t.Helper()
	l := loader.New(atom.NewTable())
	mux := loader.NewMux(l)
	mux.Handle(Module, Serve(context.Background(), l, backend, nil))
	l.SetCallback(mux.Serve)
	return NewBridge(l), l
}

func TestBridgeOverMemory(t *testing.T) {
	backend := NewMemory()
	b, l := newBridge(t, backend)
	exercise(t, b)
	assert.Equal(t, 0, l.Pending())
}

func TestBridgeWritesReachBackend(t *testing.T) {
	backend := NewMemory()
	b, _ := newBridge(t, backend)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, "tex", []byte("pixels")))
	got, ok, err := backend.Get(ctx, "tex")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("pixels"), got)
}

func TestBridgeEmptyValueIsAbsent(t *testing.T) {
	b, _ := newBridge(t, NewMemory())
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, "empty", nil))
	_, ok, err := b.Get(ctx, "empty")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBridgeWithoutHost(t *testing.T) {
	b := NewBridge(loader.New(atom.NewTable()))
	err := b.Init(context.Background())
	require.ErrorIs(t, err, loader.ErrNoCallback)
}

func TestServeUnknownFunc(t *testing.T) {
	l := loader.New(atom.NewTable())
	l.SetCallback(Serve(context.Background(), l, NewMemory(), nil))

	_, err := l.Await(context.Background(), Module, "compact", 1, loader.StringArg("k"))
	require.ErrorIs(t, err, ErrUnsupportedFunc)

	_, err = l.Await(context.Background(), Module, FuncGet, 2)
	require.Error(t, err, "get without a key argument must fail")
}

func TestRequestKeysAreUnique(t *testing.T) {
	b := NewBridge(loader.New(atom.NewTable()))
	keys := map[uint64]string{}
	for _, tag := range []string{tagGet, tagWrite, tagDelete, tagGet, tagGet} {
		k := b.requestKey("glyph:a", tag)
		_, dup := keys[k]
		assert.False(t, dup, "request key for %s reused", tag)
		keys[k] = tag
	}
}

func TestBridgeGetAfterWriteIsFresh(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()
	require.NoError(t, backend.Write(ctx, "k", []byte("old")))

	l := loader.New(atom.NewTable())
	serve := Serve(ctx, l, backend, nil)
	held := make(chan loader.Request, 1)
	var first atomic.Bool
	l.SetCallback(func(req loader.Request) {
		if req.Func == FuncGet && first.CompareAndSwap(false, true) {
			held <- req
			return
		}
		serve(req)
	})
	b := NewBridge(l)

	stale := make(chan []byte, 1)
	go func() {
		data, _, err := b.Get(ctx, "k")
		assert.NoError(t, err)
		stale <- data
	}()

	var req loader.Request
	select {
	case req = <-held:
	case <-time.After(time.Second):
		t.Fatal("first get never reached the host")
	}

	require.NoError(t, b.Write(ctx, "k", []byte("new")))
	got, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got, "get issued after write must not join the earlier get")

	serve(req)
	assert.Equal(t, []byte("old"), <-stale)
	assert.Equal(t, 0, l.Pending())
}
