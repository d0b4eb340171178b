package wasmkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

// uleb128, section, vec, and name hand-encode the tiny binary fixtures
// below; every value here fits one byte.
func uleb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, uleb128(uint32(len(body)))...)
	return append(out, body...)
}

func vec(items ...[]byte) []byte {
	out := uleb128(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func name(s string) []byte {
	return append(uleb128(uint32(len(s))), []byte(s)...)
}

const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secExport   = 7
	secCode     = 10
)

func funcType(params, results int) []byte {
	p := make([]byte, params)
	for i := range p {
		p[i] = 0x7F
	}
	r := make([]byte, results)
	for i := range r {
		r[i] = 0x7F
	}
	return append([]byte{0x60}, append(vec(byteItems(p)...), vec(byteItems(r)...)...)...)
}

func byteItems(bs []byte) [][]byte {
	out := make([][]byte, len(bs))
	for i, b := range bs {
		out[i] = []byte{b}
	}
	return out
}

func codeEntry(locals, body []byte) []byte {
	code := append(append([]byte{}, locals...), body...)
	return append(uleb128(uint32(len(code))), code...)
}

// addModule builds a binary exporting `add(i32,i32)->i32`.
func addModule() []byte {
	out := append([]byte{}, Magic()...)
	out = append(out, section(secType, vec(funcType(2, 1)))...)
	out = append(out, section(secFunction, vec(uleb128(0)))...)
	out = append(out, section(secExport, vec(append(name("add"), 0x00, 0x00)))...)
	body := []byte{0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}
	out = append(out, section(secCode, vec(codeEntry(uleb128(0), body)))...)
	return out
}

// importAddModule builds a binary importing env.add(i32,i32)->i32 and
// exporting it unchanged as "call_add".
func importAddModule() []byte {
	out := append([]byte{}, Magic()...)
	out = append(out, section(secType, vec(funcType(2, 1)))...)
	imp := append(append(name("env"), name("add")...), 0x00, 0x00)
	out = append(out, section(secImport, vec(imp))...)
	out = append(out, section(secExport, vec(append(name("call_add"), 0x00, 0x00)))...)
	return out
}

func Magic() []byte { return []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00} }

func TestRuntime_add(t *testing.T) {
	rt, err := NewRuntime(addModule())
	require.NoError(t, err)

	result, err := rt.Call("add", I32(2), I32(3))
	require.NoError(t, err)
	v, _ := result.I32Value()
	assert.Equal(t, int32(5), v)
}

func TestRuntime_exportNotFound(t *testing.T) {
	rt, err := NewRuntime(addModule())
	require.NoError(t, err)

	_, err = rt.Call("subtract")
	assert.Error(t, err)
}

func TestRuntime_importCall(t *testing.T) {
	rt, err := NewRuntime(importAddModule())
	require.NoError(t, err)
	rt.AddImport("env", "add", func(_ *wasm.Store, args []Value) (*Value, error) {
		a, _ := args[0].I32Value()
		b, _ := args[1].I32Value()
		result := I32(a + b)
		return &result, nil
	})

	result, err := rt.Call("call_add", I32(4), I32(5))
	require.NoError(t, err)
	v, _ := result.I32Value()
	assert.Equal(t, int32(9), v)
}

func TestRuntime_importFunctionNotFound(t *testing.T) {
	rt, err := NewRuntime(importAddModule())
	require.NoError(t, err)
	rt.AddImport("env", "fooooo", func(_ *wasm.Store, args []Value) (*Value, error) { return nil, nil })

	_, err = rt.Call("call_add", I32(4), I32(5))
	assert.Error(t, err)
}

func TestRuntime_decodeError(t *testing.T) {
	_, err := NewRuntime([]byte("not wasm"))
	assert.Error(t, err)
}

func TestRuntime_wasi(t *testing.T) {
	var stdout bytes.Buffer
	config := NewRuntimeConfig().WithWASI().WithStdout(&stdout)
	assert.True(t, config.useWASI)
}
