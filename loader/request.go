package loader

import (
	"fmt"
	"hash/fnv"
)

// ArgKind tags the payload of an Arg.
type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgNumber
	ArgString
	ArgBuffer
)

// Arg is one argument forwarded to the host with a Request.
type Arg struct {
	Kind   ArgKind
	Number uint64
	Text   string
	Buffer []byte
}

// NoneArg returns an empty argument.
func NoneArg() Arg { return Arg{Kind: ArgNone} }

// NumberArg wraps a number.
func NumberArg(n uint64) Arg { return Arg{Kind: ArgNumber, Number: n} }

// StringArg wraps a string.
func StringArg(s string) Arg { return Arg{Kind: ArgString, Text: s} }

// BufferArg wraps a byte buffer. The buffer is not copied.
func BufferArg(b []byte) Arg { return Arg{Kind: ArgBuffer, Buffer: b} }

func (a Arg) String() string {
	switch a.Kind {
	case ArgNumber:
		return fmt.Sprintf("number(%d)", a.Number)
	case ArgString:
		return fmt.Sprintf("string(%q)", a.Text)
	case ArgBuffer:
		return fmt.Sprintf("buffer(%d bytes)", len(a.Buffer))
	default:
		return "none"
	}
}

// Request asks the host to produce the bytes for Key.
// The host answers by calling Loader.Complete with the same Key.
type Request struct {
	Module string
	Func   string
	Key    uint64
	Args   []Arg
}

// StringArg returns the i-th argument if it is a string.
func (r Request) StringArg(i int) (string, bool) {
	if i < 0 || i >= len(r.Args) || r.Args[i].Kind != ArgString {
		return "", false
	}
	return r.Args[i].Text, true
}

// BufferArg returns the i-th argument if it is a buffer.
func (r Request) BufferArg(i int) ([]byte, bool) {
	if i < 0 || i >= len(r.Args) || r.Args[i].Kind != ArgBuffer {
		return nil, false
	}
	return r.Args[i].Buffer, true
}

// Callback delivers requests to the host. It must not block; the host is
// expected to answer asynchronously through Loader.Complete.
type Callback func(Request)

// HashKey derives a request key from its parts with 64-bit FNV-1a.
func HashKey(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p)) // fnv.Write never returns an error
	}
	return h.Sum64()
}
