package binary

import (
	"bytes"
	"fmt"

	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

// decodeInstruction reads one opcode byte and its immediates from r.
func decodeInstruction(r *bytes.Reader) (wasm.Instruction, error) {
	op, err := r.ReadByte()
	if err != nil {
		return wasm.Instruction{}, fmt.Errorf("read opcode: %w", err)
	}

	switch wasm.Opcode(op) {
	case wasm.OpcodeIf:
		block, err := decodeBlockType(r)
		if err != nil {
			return wasm.Instruction{}, fmt.Errorf("read if blocktype: %w", err)
		}
		return wasm.Instruction{Kind: wasm.InstructionIf, Block: block}, nil

	case wasm.OpcodeEnd:
		return wasm.Instruction{Kind: wasm.InstructionEnd}, nil

	case wasm.OpcodeReturn:
		return wasm.Instruction{Kind: wasm.InstructionReturn}, nil

	case wasm.OpcodeCall:
		idx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return wasm.Instruction{}, fmt.Errorf("read call funcidx: %w", err)
		}
		return wasm.Instruction{Kind: wasm.InstructionCall, Index: idx}, nil

	case wasm.OpcodeLocalGet:
		idx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return wasm.Instruction{}, fmt.Errorf("read local.get localidx: %w", err)
		}
		return wasm.Instruction{Kind: wasm.InstructionLocalGet, Index: idx}, nil

	case wasm.OpcodeLocalSet:
		idx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return wasm.Instruction{}, fmt.Errorf("read local.set localidx: %w", err)
		}
		return wasm.Instruction{Kind: wasm.InstructionLocalSet, Index: idx}, nil

	case wasm.OpcodeI32Store:
		align, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return wasm.Instruction{}, fmt.Errorf("read i32.store align: %w", err)
		}
		offset, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return wasm.Instruction{}, fmt.Errorf("read i32.store offset: %w", err)
		}
		return wasm.Instruction{Kind: wasm.InstructionI32Store, MemArg: wasm.MemArg{Align: align, Offset: offset}}, nil

	case wasm.OpcodeI32Const:
		v, _, err := leb128.DecodeInt32(r)
		if err != nil {
			return wasm.Instruction{}, fmt.Errorf("read i32.const immediate: %w", err)
		}
		return wasm.Instruction{Kind: wasm.InstructionI32Const, I32ConstValue: v}, nil

	case wasm.OpcodeI32LtS:
		return wasm.Instruction{Kind: wasm.InstructionI32LtS}, nil

	case wasm.OpcodeI32Add:
		return wasm.Instruction{Kind: wasm.InstructionI32Add}, nil

	case wasm.OpcodeI32Sub:
		return wasm.Instruction{Kind: wasm.InstructionI32Sub}, nil

	default:
		return wasm.Instruction{}, fmt.Errorf("%w: 0x%x", ErrInvalidOpcode, op)
	}
}

func decodeBlockType(r *bytes.Reader) (wasm.BlockType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return wasm.BlockType{}, fmt.Errorf("read blocktype byte: %w", err)
	}
	if b == 0x40 {
		return wasm.BlockType{Void: true}, nil
	}
	switch wasm.ValueType(b) {
	case wasm.ValueTypeI32, wasm.ValueTypeI64:
		return wasm.BlockType{Result: wasm.ValueType(b)}, nil
	default:
		return wasm.BlockType{}, fmt.Errorf("invalid blocktype: 0x%x", b)
	}
}

// resolveBlockTargets precomputes each If's matching End index by
// walking the instruction stream once with a LIFO of open block starts.
// This is the static, decode-time equivalent of a runtime matching-End
// search: since the instruction stream never changes after decoding,
// the search result is the same every time an If with a false condition
// is taken, so it is computed once here instead of being re-walked on
// every execution.
func resolveBlockTargets(body []wasm.Instruction) {
	var open []int
	for i := range body {
		switch body[i].Kind {
		case wasm.InstructionIf:
			open = append(open, i)
		case wasm.InstructionEnd:
			if len(open) > 0 {
				start := open[len(open)-1]
				open = open[:len(open)-1]
				body[start].EndPC = i
			}
		}
	}
}
