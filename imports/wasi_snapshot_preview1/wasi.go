// Package wasi_snapshot_preview1 implements the subset of the WASI
// snapshot-01 ABI this engine's guests are expected to import: writing to
// stdout/stderr and exiting the process. Each WASI function is a Go
// function named after its WASI name, taking the fd table and memory it
// needs and returning an Errno (or, for proc_exit, an error the
// interpreter's call stack has no other way to signal).
package wasi_snapshot_preview1

import (
	"fmt"
	"io"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

// ModuleName is the two-level import namespace these functions are exported
// under, and the name the interpreter's Interpreter.SetWASI binds to.
const ModuleName = "wasi_snapshot_preview1"

// Handler implements interpreter.WASIHandler against a small fixed file
// descriptor table: fd 1 and 2 map to the stdout and stderr writers given to
// NewHandler, matching the POSIX convention guests compiled against WASI
// expect.
type Handler struct {
	fds map[uint32]io.Writer
}

// NewHandler returns a Handler whose fd 1 and 2 write to stdout and stderr.
func NewHandler(stdout, stderr io.Writer) *Handler {
	return &Handler{fds: map[uint32]io.Writer{1: stdout, 2: stderr}}
}

// Invoke dispatches funcName to the matching WASI function. Unrecognized
// names fail rather than silently stubbing, since this subset only claims
// to support the functions it implements.
func (h *Handler) Invoke(store *wasm.Store, funcName string, args []wasm.Value) (*wasm.Value, error) {
	ints, err := toUint32s(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", funcName, err)
	}

	switch funcName {
	case "fd_write":
		errno, err := h.fdWrite(store, ints)
		if err != nil {
			return nil, fmt.Errorf("fd_write: %w", err)
		}
		result := wasm.I32(int32(errno))
		return &result, nil
	case "proc_exit":
		return nil, h.procExit(ints)
	default:
		return nil, fmt.Errorf("%s: unsupported wasi_snapshot_preview1 function", funcName)
	}
}

func toUint32s(args []wasm.Value) ([]uint32, error) {
	out := make([]uint32, len(args))
	for i, a := range args {
		v, ok := a.I32Value()
		if !ok {
			return nil, fmt.Errorf("argument %d: %w", i, wasm.ErrRuntimeTypeMismatch)
		}
		out[i] = uint32(v)
	}
	return out, nil
}
