package loader

import (
	"fmt"
	"io/fs"
	"sync"
)

// Mux dispatches requests to per-module callbacks.
// Requests for modules without a handler are completed with
// ErrUnsupportedModule.
type Mux struct {
	l        *Loader
	mu       sync.RWMutex
	handlers map[string]Callback
}

// NewMux creates a Mux that answers unsupported requests through l.
func NewMux(l *Loader) *Mux {
	return &Mux{l: l, handlers: make(map[string]Callback)}
}

// Handle registers cb for module, replacing any earlier handler.
func (m *Mux) Handle(module string, cb Callback) {
	m.mu.Lock()
	m.handlers[module] = cb
	m.mu.Unlock()
}

// Serve is a Callback.
func (m *Mux) Serve(req Request) {
	m.mu.RLock()
	cb, ok := m.handlers[req.Module]
	m.mu.RUnlock()
	if !ok {
		go func() {
			_ = m.l.Complete(req.Key, nil, fmt.Errorf("%w: %q", ErrUnsupportedModule, req.Module))
		}()
		return
	}
	cb(req)
}

// FSHandler returns a callback serving file requests from fsys.
// The path is taken from the first string argument. Reads run on their own
// goroutine.
func FSHandler(l *Loader, fsys fs.FS) Callback {
	return func(req Request) {
		go func() {
			path, ok := req.StringArg(0)
			if !ok {
				_ = l.Complete(req.Key, nil, fmt.Errorf("loader: request %d has no path argument", req.Key))
				return
			}
			data, err := fs.ReadFile(fsys, path)
			_ = l.Complete(req.Key, data, err)
		}()
	}
}
