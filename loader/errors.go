package loader

import (
	"errors"
	"fmt"
)

// Sentinel errors for the loader package.
var (
	// ErrNoCallback is returned when a request is made before the host
	// installed a callback.
	ErrNoCallback = errors.New("loader: no load callback installed")

	// ErrUnknownKey is returned by Complete for a key nobody waits for.
	ErrUnknownKey = errors.New("loader: no pending request for key")

	// ErrUnsupportedModule is delivered to waiters when a Mux has no
	// handler for the request's module.
	ErrUnsupportedModule = errors.New("loader: unsupported module")
)

// LoadError records a failed file or image load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loader: load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
