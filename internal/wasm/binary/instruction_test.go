package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

func TestDecodeInstruction(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  wasm.Instruction
	}{
		{"end", []byte{0x0B}, wasm.Instruction{Kind: wasm.InstructionEnd}},
		{"return", []byte{0x0F}, wasm.Instruction{Kind: wasm.InstructionReturn}},
		{"call", []byte{0x10, 0x05}, wasm.Instruction{Kind: wasm.InstructionCall, Index: 5}},
		{"local.get", []byte{0x20, 0x01}, wasm.Instruction{Kind: wasm.InstructionLocalGet, Index: 1}},
		{"local.set", []byte{0x21, 0x02}, wasm.Instruction{Kind: wasm.InstructionLocalSet, Index: 2}},
		{"i32.const positive", []byte{0x41, 0x05}, wasm.Instruction{Kind: wasm.InstructionI32Const, I32ConstValue: 5}},
		{"i32.const negative", []byte{0x41, 0x7F}, wasm.Instruction{Kind: wasm.InstructionI32Const, I32ConstValue: -1}},
		{"i32.lt_s", []byte{0x48}, wasm.Instruction{Kind: wasm.InstructionI32LtS}},
		{"i32.add", []byte{0x6A}, wasm.Instruction{Kind: wasm.InstructionI32Add}},
		{"i32.sub", []byte{0x6B}, wasm.Instruction{Kind: wasm.InstructionI32Sub}},
		{
			"i32.store",
			[]byte{0x36, 0x02, 0x04},
			wasm.Instruction{Kind: wasm.InstructionI32Store, MemArg: wasm.MemArg{Align: 2, Offset: 4}},
		},
		{"if void", []byte{0x04, 0x40}, wasm.Instruction{Kind: wasm.InstructionIf, Block: wasm.BlockType{Void: true}}},
		{
			"if i32",
			[]byte{0x04, byte(wasm.ValueTypeI32)},
			wasm.Instruction{Kind: wasm.InstructionIf, Block: wasm.BlockType{Result: wasm.ValueTypeI32}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeInstruction(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInstruction_invalidOpcode(t *testing.T) {
	_, err := decodeInstruction(bytes.NewReader([]byte{0xFF}))
	assert.ErrorIs(t, err, ErrInvalidOpcode)
}

func TestResolveBlockTargets(t *testing.T) {
	// if (void) ... end ... end(function)
	body := []wasm.Instruction{
		{Kind: wasm.InstructionI32Const},
		{Kind: wasm.InstructionIf, Block: wasm.BlockType{Void: true}},
		{Kind: wasm.InstructionI32Const},
		{Kind: wasm.InstructionEnd},
		{Kind: wasm.InstructionEnd},
	}
	resolveBlockTargets(body)
	assert.Equal(t, 3, body[1].EndPC)
}
