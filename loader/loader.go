// Package loader bridges asynchronous resource requests to the host.
//
// A request is identified by a 64-bit key. The first caller waiting on a key
// triggers the host Callback; later callers for the same key join the wait.
// When the host calls Complete, every waiter receives the same result.
//
//	l := loader.New(atoms, loader.WithCallback(func(req loader.Request) {
//	    go func() {
//	        data, err := fetch(req)
//	        _ = l.Complete(req.Key, data, err)
//	    }()
//	}))
//	data, err := l.LoadFile(ctx, "fonts/title.ttf")
package loader

import (
	"context"
	"slices"
	"sync"

	"github.com/gogpu/glyphhost/atom"
	"github.com/gogpu/glyphhost/internal/cache"
)

// DefaultConcurrency is the default bound for Preload.
const DefaultConcurrency = 4

// Module and function names used for file requests.
const (
	ModuleFile = "file"
	FuncLoad   = "load"
)

type result struct {
	data []byte
	err  error
}

// Loader tracks pending requests and forwards new ones to the host.
//
// Loader is safe for concurrent use.
type Loader struct {
	atoms *atom.Table
	opts  options

	mu       sync.Mutex
	callback Callback
	pending  map[uint64][]chan result

	images *cache.LRU[string, *Image]
}

// New creates a Loader that interns file paths in atoms.
func New(atoms *atom.Table, opts ...Option) *Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{
		atoms:    atoms,
		opts:     o,
		callback: o.callback,
		pending:  make(map[uint64][]chan result),
		images:   cache.New[string, *Image](o.imageCap, cache.StringHasher),
	}
}

// SetCallback installs or replaces the host callback.
func (l *Loader) SetCallback(cb Callback) {
	l.mu.Lock()
	l.callback = cb
	l.mu.Unlock()
}

// Await requests the bytes for key and blocks until the host completes it
// or ctx is done. Only the first concurrent waiter for a key reaches the
// callback; the module, function and args of later waiters are ignored.
func (l *Loader) Await(ctx context.Context, module, fn string, key uint64, args ...Arg) ([]byte, error) {
	ch := make(chan result, 1)

	l.mu.Lock()
	waiters := append(l.pending[key], ch)
	l.pending[key] = waiters
	first := len(waiters) == 1
	cb := l.callback
	l.mu.Unlock()

	if first {
		if cb == nil {
			l.resolve(key, nil, ErrNoCallback)
		} else {
			l.opts.logger.Debug("loader: request", "module", module, "func", fn, "key", key)
			cb(Request{Module: module, Func: fn, Key: key, Args: args})
		}
	}

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		l.abandon(key, ch)
		return nil, ctx.Err()
	}
}

// abandon removes a cancelled waiter.
func (l *Loader) abandon(key uint64, ch chan result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	waiters := l.pending[key]
	i := slices.Index(waiters, ch)
	if i < 0 {
		return
	}
	waiters = slices.Delete(waiters, i, i+1)
	if len(waiters) == 0 {
		delete(l.pending, key)
		return
	}
	l.pending[key] = waiters
}

// Complete delivers the host's answer for key to every waiter.
// The data slice is shared between waiters and must not be modified.
// It returns ErrUnknownKey if nobody is waiting for key.
func (l *Loader) Complete(key uint64, data []byte, err error) error {
	if !l.resolve(key, data, err) {
		return ErrUnknownKey
	}
	return nil
}

func (l *Loader) resolve(key uint64, data []byte, err error) bool {
	l.mu.Lock()
	waiters, ok := l.pending[key]
	delete(l.pending, key)
	l.mu.Unlock()
	if !ok {
		return false
	}
	for _, ch := range waiters {
		ch <- result{data: data, err: err}
	}
	return true
}

// Pending returns the number of keys with outstanding requests.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// LoadFile fetches the file at path through the host.
//
// The path is interned in the atom table and the atom is used as request
// key, so the host can resolve the key back to the path.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]byte, error) {
	a := l.atoms.Intern(path)
	data, err := l.Await(ctx, ModuleFile, FuncLoad, uint64(a), StringArg(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return data, nil
}
