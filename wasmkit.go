// Package wasmkit decodes and runs a small subset of WebAssembly 1.0
// binaries: i32 arithmetic, locals, function calls, a single linear memory,
// and host-call imports including an optional wasi_snapshot_preview1
// boundary.
//
// Ex.
//
//	rt, err := wasmkit.NewRuntime(source)
//	result, err := rt.Call("add", wasmkit.I32(1), wasmkit.I32(2))
package wasmkit

import (
	"fmt"
	"io"
	"os"

	"github.com/wasmkit/wasmkit/imports/wasi_snapshot_preview1"
	"github.com/wasmkit/wasmkit/internal/interpreter"
	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasm/binary"
)

// Value, I32, I64, and HostFunc are the public names for this engine's
// tagged value type and host-call signature; they are aliases so callers
// never need to import an internal package.
type (
	Value    = wasm.Value
	HostFunc = interpreter.HostFunc
)

var (
	I32 = wasm.I32
	I64 = wasm.I64
)

// RuntimeConfig configures a Runtime before it decodes a module. The
// default returned by NewRuntimeConfig wires stdout/stderr to
// os.Stdout/os.Stderr and leaves WASI disabled; a zero RuntimeConfig has
// nil writers.
type RuntimeConfig struct {
	stdout, stderr io.Writer
	useWASI        bool
}

// NewRuntimeConfig returns the default configuration.
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{stdout: os.Stdout, stderr: os.Stderr}
}

// WithWASI enables the wasi_snapshot_preview1 host-call boundary: calls
// into that module name are answered by this engine's WASI handler instead
// of failing with "not found module".
func (c *RuntimeConfig) WithWASI() *RuntimeConfig {
	c.useWASI = true
	return c
}

// WithStdout redirects the stream fd 1 writes to under WASI.
func (c *RuntimeConfig) WithStdout(w io.Writer) *RuntimeConfig {
	c.stdout = w
	return c
}

// WithStderr redirects the stream fd 2 writes to under WASI.
func (c *RuntimeConfig) WithStderr(w io.Writer) *RuntimeConfig {
	c.stderr = w
	return c
}

// Runtime is one decoded, instantiated module ready to be called into.
type Runtime struct {
	interp *interpreter.Interpreter
}

// NewRuntime decodes source and instantiates it with the default
// RuntimeConfig.
func NewRuntime(source []byte) (*Runtime, error) {
	return NewRuntimeWithConfig(source, NewRuntimeConfig())
}

// NewRuntimeWithConfig decodes source and instantiates it per config.
func NewRuntimeWithConfig(source []byte, config *RuntimeConfig) (*Runtime, error) {
	module, err := binary.DecodeModule(source)
	if err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	store, err := wasm.NewStore(module)
	if err != nil {
		return nil, fmt.Errorf("instantiate module: %w", err)
	}

	interp := interpreter.New(store)
	if config.useWASI {
		interp.SetWASI(wasi_snapshot_preview1.NewHandler(config.stdout, config.stderr))
	}

	return &Runtime{interp: interp}, nil
}

// AddImport registers a host function resolved for calls to
// moduleName.fieldName. It must be called before Call if the module
// imports that name.
func (r *Runtime) AddImport(moduleName, fieldName string, fn HostFunc) {
	r.interp.AddImport(moduleName, fieldName, fn)
}

// Call invokes the named export with args, returning its single result if
// it produced one.
func (r *Runtime) Call(name string, args ...Value) (*Value, error) {
	return r.interp.Call(name, args)
}
