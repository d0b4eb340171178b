package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

func decodeCodeSection(r *bytes.Reader) ([]wasm.Func, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("get size of vector: %w", err)
	}
	result := make([]wasm.Func, count)
	for i := range result {
		if result[i], err = decodeCode(r); err != nil {
			return nil, fmt.Errorf("read %d-th code segment: %w", i, err)
		}
	}
	return result, nil
}

// decodeCode reads one function body: its byte-length-prefixed window,
// inside which a run-length-encoded local declaration list precedes the
// instruction stream. The window is exhausted exactly at the
// function-level End, which is decoded as part of the body.
func decodeCode(r *bytes.Reader) (wasm.Func, error) {
	bodySize, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.Func{}, fmt.Errorf("get size of code: %w", err)
	}

	raw := make([]byte, bodySize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return wasm.Func{}, fmt.Errorf("read code body: %w", err)
	}
	br := bytes.NewReader(raw)

	runCount, _, err := leb128.DecodeUint32(br)
	if err != nil {
		return wasm.Func{}, fmt.Errorf("read local run count: %w", err)
	}

	var locals []wasm.ValueType
	for i := uint32(0); i < runCount; i++ {
		typeCount, _, err := leb128.DecodeUint32(br)
		if err != nil {
			return wasm.Func{}, fmt.Errorf("read local run %d count: %w", i, err)
		}
		vt, err := decodeValueType(br)
		if err != nil {
			return wasm.Func{}, fmt.Errorf("read local run %d type: %w", i, err)
		}
		for j := uint32(0); j < typeCount; j++ {
			locals = append(locals, vt)
		}
	}

	var body []wasm.Instruction
	for br.Len() > 0 {
		inst, err := decodeInstruction(br)
		if err != nil {
			return wasm.Func{}, fmt.Errorf("read instruction %d: %w", len(body), err)
		}
		body = append(body, inst)
	}
	if len(body) == 0 || body[len(body)-1].Kind != wasm.InstructionEnd {
		return wasm.Func{}, fmt.Errorf("function body must end with end")
	}

	resolveBlockTargets(body)

	return wasm.Func{Locals: locals, Body: body}, nil
}
