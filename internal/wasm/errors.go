package wasm

import "errors"

// These sentinel errors are returned by the interpreter during execution
// of a Wasm function and indicate that the running instance's state is
// unrecoverable for the current call. See Runtime.Call.
var (
	// ErrRuntimeTypeMismatch indicates an arithmetic or store opcode
	// found a Value of the wrong kind on the operand stack. This can
	// only happen against a malformed or unvalidated module, since this
	// subset performs no upfront type checking.
	ErrRuntimeTypeMismatch = errors.New("type mismatch")
	// ErrRuntimeStackUnderflow indicates a pop was attempted against an
	// empty operand stack, or that it held fewer values than a callee's
	// parameter count.
	ErrRuntimeStackUnderflow = errors.New("stack underflow")
	// ErrRuntimeOutOfBoundsMemoryAccess indicates a store instruction
	// addressed a byte range beyond the end of linear memory.
	ErrRuntimeOutOfBoundsMemoryAccess = errors.New("out of bounds memory access")
	// ErrRuntimeInvalidOpcode indicates the interpreter encountered an
	// Instruction variant it does not know how to execute. This should
	// be unreachable if the instruction stream came from this module's
	// own decoder, since the decoder rejects unrecognized opcodes first.
	ErrRuntimeInvalidOpcode = errors.New("invalid opcode")
)

// InstantiationError kinds.
var (
	// ErrDataSegmentOutOfBounds indicates a data segment's offset plus
	// length does not fit within its target memory's size.
	ErrDataSegmentOutOfBounds = errors.New("data is too large to fit in memory")
)

// Lookup error kinds, returned by Runtime.Call and the host-call
// boundary rather than treated as fatal engine state.
var (
	ErrExportFunctionNotFound = errors.New("not found export function")
	ErrImportModuleNotFound   = errors.New("not found module")
	ErrImportFunctionNotFound = errors.New("not found function")
)
