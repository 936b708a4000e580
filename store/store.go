// Package store keeps small binary blobs, such as generated glyph textures,
// under string keys.
//
// Three implementations are provided: Nop never keeps anything, Memory keeps
// values in process, and Bridge forwards every call to the host through a
// loader.Loader. Serve answers Bridge requests from any other Store, which is
// how a host process backs the bridge.
package store

import (
	"context"
	"errors"
)

// Store is a key/value store for binary data.
//
// Get reports absent keys with ok == false and a nil error. Implementations
// must be safe for concurrent use.
type Store interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// ErrUnsupportedFunc is returned to the host for a store request whose
// function name is not one of the Func constants.
var ErrUnsupportedFunc = errors.New("store: unsupported function")

// Nop is a Store that keeps nothing. Get always reports absent.
type Nop struct{}

var _ Store = Nop{}

func (Nop) Init(context.Context) error { return nil }

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Nop) Write(context.Context, string, []byte) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }
