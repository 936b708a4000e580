package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/gogpu/glyphhost/loader"
)

// Module is the loader module name used for store requests.
const Module = "store"

// Function names carried by store requests.
const (
	FuncInit   = "initLocalStore"
	FuncGet    = "get"
	FuncWrite  = "write"
	FuncDelete = "delete"
)

// Key tags mixed into request keys so that a get and a write of the same
// store key are distinct requests.
const (
	tagInit   = "STORE_INIT_LOCAL_KEY"
	tagGet    = "STORE_GET_KEY"
	tagWrite  = "STORE_WRITE_KEY"
	tagDelete = "STORE_DELETE_KEY"
)

// Bridge is a Store that asks the host for every operation.
//
// Requests go through a loader.Loader with module "store". Concurrent Init
// calls share one host request. Every Get, Write and Delete is its own
// request, so a Get started after a Write returned sees that write.
// The host answers a get with the stored bytes, or with an empty reply when
// the key is absent; an empty value therefore cannot be told apart from a
// missing one.
type Bridge struct {
	l   *loader.Loader
	seq atomic.Uint64
}

var _ Store = (*Bridge)(nil)

// NewBridge returns a Bridge sending requests through l.
func NewBridge(l *loader.Loader) *Bridge {
	return &Bridge{l: l}
}

// requestKey returns a fresh request key for one operation on key.
func (b *Bridge) requestKey(key, tag string) uint64 {
	return loader.HashKey(key, tag, strconv.FormatUint(b.seq.Add(1), 10))
}

func (b *Bridge) Init(ctx context.Context) error {
	_, err := b.l.Await(ctx, Module, FuncInit, loader.HashKey(tagInit))
	if err != nil {
		return fmt.Errorf("store: init: %w", err)
	}
	return nil
}

func (b *Bridge) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.l.Await(ctx, Module, FuncGet, b.requestKey(key, tagGet), loader.StringArg(key))
	if err != nil {
		return nil, false, fmt.Errorf("store: get %q: %w", key, err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (b *Bridge) Write(ctx context.Context, key string, data []byte) error {
	_, err := b.l.Await(ctx, Module, FuncWrite, b.requestKey(key, tagWrite),
		loader.StringArg(key), loader.BufferArg(data))
	if err != nil {
		return fmt.Errorf("store: write %q: %w", key, err)
	}
	return nil
}

func (b *Bridge) Delete(ctx context.Context, key string) error {
	_, err := b.l.Await(ctx, Module, FuncDelete, b.requestKey(key, tagDelete), loader.StringArg(key))
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

// Serve returns a loader callback that answers store requests from backend.
// Each request is handled on its own goroutine under ctx.
func Serve(ctx context.Context, l *loader.Loader, backend Store, logger *slog.Logger) loader.Callback {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(req loader.Request) {
		go func() {
			data, err := handle(ctx, backend, req)
			if err != nil {
				logger.Debug("store: request failed", "func", req.Func, "err", err)
			}
			if cerr := l.Complete(req.Key, data, err); cerr != nil {
				logger.Warn("store: reply dropped", "func", req.Func, "key", req.Key, "err", cerr)
			}
		}()
	}
}

func handle(ctx context.Context, backend Store, req loader.Request) ([]byte, error) {
	if req.Func == FuncInit {
		return nil, backend.Init(ctx)
	}
	key, ok := req.StringArg(0)
	if !ok {
		return nil, fmt.Errorf("store: %s request has no key argument", req.Func)
	}
	switch req.Func {
	case FuncGet:
		data, _, err := backend.Get(ctx, key)
		return data, err
	case FuncWrite:
		data, _ := req.BufferArg(1)
		return nil, backend.Write(ctx, key, data)
	case FuncDelete:
		return nil, backend.Delete(ctx, key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFunc, req.Func)
	}
}
