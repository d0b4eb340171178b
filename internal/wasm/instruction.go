package wasm

// Opcode identifies a single instruction's binary encoding. Only the
// opcodes this subset's interpreter can execute are named; anything else
// found in a code section body fails decoding.
//
// See https://www.w3.org/TR/wasm-core-1/#a-index-of-instructions
type Opcode byte

const (
	OpcodeIf       Opcode = 0x04
	OpcodeEnd      Opcode = 0x0B
	OpcodeReturn   Opcode = 0x0F
	OpcodeCall     Opcode = 0x10
	OpcodeLocalGet Opcode = 0x20
	OpcodeLocalSet Opcode = 0x21
	OpcodeI32Store Opcode = 0x36
	OpcodeI32Const Opcode = 0x41
	OpcodeI32LtS   Opcode = 0x48
	OpcodeI32Add   Opcode = 0x6A
	OpcodeI32Sub   Opcode = 0x6B
)

// BlockType is the immediate of an If instruction: either void, or a
// single result value type. Multi-value block types are out of scope.
type BlockType struct {
	// Void is true when the block produces no result (the 0x40 byte).
	Void bool
	// Result is the block's single result type, meaningful only when
	// !Void.
	Result ValueType
}

// ResultCount returns the block's arity: 0 if void, 1 otherwise.
func (b BlockType) ResultCount() int {
	if b.Void {
		return 0
	}
	return 1
}

// InstructionKind discriminates the Instruction union. The interpreter's
// step loop and the decoder's block-target resolution switch on this,
// never on a type hierarchy; the decoder's immediate reader switches on
// the raw Opcode.
type InstructionKind byte

const (
	InstructionIf InstructionKind = iota
	InstructionEnd
	InstructionReturn
	InstructionCall
	InstructionLocalGet
	InstructionLocalSet
	InstructionI32Const
	InstructionI32LtS
	InstructionI32Add
	InstructionI32Sub
	InstructionI32Store
)

// MemArg is the alignment/offset immediate pair carried by memory
// instructions. Alignment is decoded but unused by this subset's single
// unaligned byte-at-a-time store implementation.
type MemArg struct {
	Align  uint32
	Offset uint32
}

// Instruction is a tagged variant covering this engine's restricted
// opcode set. Each Func body is a flat []Instruction; EndPC on an If
// points at the index of its matching End, precomputed at decode time
// so the interpreter never has to re-scan for it at execution time.
type Instruction struct {
	Kind InstructionKind

	// Index is the local/function index operand for LocalGet, LocalSet,
	// and Call.
	Index uint32

	// I32ConstValue is the immediate of an I32Const instruction.
	I32ConstValue int32

	// Block is the immediate of an If instruction.
	Block BlockType
	// EndPC is the index, within the enclosing Func's instruction slice,
	// of the If's matching End. Set by the decoder's matching-End search
	// at decode time.
	EndPC int

	// MemArg is the immediate of I32Store.
	MemArg MemArg
}
