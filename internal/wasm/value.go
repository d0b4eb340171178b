package wasm

import "fmt"

// ValueType is the binary encoding of a WebAssembly value kind. This
// subset only recognizes the two integer types; decoding any other byte
// where a ValueType is expected fails.
//
// See https://www.w3.org/TR/wasm-core-1/#value-types%E2%91%A0
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7F
	ValueTypeI64 ValueType = 0x7E
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	default:
		return fmt.Sprintf("unknown(0x%x)", byte(t))
	}
}

// valueKind discriminates the Value union.
type valueKind byte

const (
	valueKindI32 valueKind = iota
	valueKindI64
)

// Value is a tagged union of the two value types this engine operates on.
// Every operand-stack entry and local slot is a Value; dispatch on its
// kind (via IsI32/IsI64, Type, or the I32Value/I64Value accessors) rather
// than on any Go interface hierarchy.
type Value struct {
	kind valueKind
	i32  int32
	i64  int64
}

// I32 constructs a Value holding a 32-bit integer.
func I32(v int32) Value { return Value{kind: valueKindI32, i32: v} }

// I64 constructs a Value holding a 64-bit integer.
func I64(v int64) Value { return Value{kind: valueKindI64, i64: v} }

// ZeroValue returns the zero value for a declared local of type t.
func ZeroValue(t ValueType) Value {
	switch t {
	case ValueTypeI32:
		return I32(0)
	case ValueTypeI64:
		return I64(0)
	default:
		panic(fmt.Sprintf("unsupported value type: %s", t))
	}
}

// IsI32 reports whether this Value holds an I32.
func (v Value) IsI32() bool { return v.kind == valueKindI32 }

// IsI64 reports whether this Value holds an I64.
func (v Value) IsI64() bool { return v.kind == valueKindI64 }

// I32Value returns the wrapped int32 and whether the Value actually holds
// an I32 (false means calling this was a type-mismatch bug upstream).
func (v Value) I32Value() (int32, bool) { return v.i32, v.kind == valueKindI32 }

// I64Value returns the wrapped int64 and whether the Value actually holds
// an I64.
func (v Value) I64Value() (int64, bool) { return v.i64, v.kind == valueKindI64 }

// Type returns this Value's ValueType.
func (v Value) Type() ValueType {
	if v.kind == valueKindI64 {
		return ValueTypeI64
	}
	return ValueTypeI32
}

func (v Value) String() string {
	switch v.kind {
	case valueKindI32:
		return fmt.Sprintf("i32:%d", v.i32)
	case valueKindI64:
		return fmt.Sprintf("i64:%d", v.i64)
	default:
		return "invalid"
	}
}

// FuncType is the signature of a function: its ordered parameter and
// result types.
//
// See https://www.w3.org/TR/wasm-core-1/#function-types%E2%91%A0
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}
