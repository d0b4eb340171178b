package binary

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

func decodeName(r *bytes.Reader) (string, error) {
	size, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return "", fmt.Errorf("read size of name: %w", err)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read bytes of name: %w", err)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("name must be valid utf8")
	}
	return string(buf), nil
}

func decodeValueType(r *bytes.Reader) (wasm.ValueType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("read value type: %w", err)
	}
	switch vt := wasm.ValueType(b); vt {
	case wasm.ValueTypeI32, wasm.ValueTypeI64:
		return vt, nil
	default:
		return 0, fmt.Errorf("invalid value type: 0x%x", b)
	}
}

func decodeValueTypes(r *bytes.Reader, n uint32) ([]wasm.ValueType, error) {
	ret := make([]wasm.ValueType, n)
	for i := range ret {
		vt, err := decodeValueType(r)
		if err != nil {
			return nil, err
		}
		ret[i] = vt
	}
	return ret, nil
}

func decodeTypeSection(r *bytes.Reader) ([]wasm.FuncType, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("get size of vector: %w", err)
	}
	result := make([]wasm.FuncType, count)
	for i := range result {
		if result[i], err = decodeFuncType(r); err != nil {
			return nil, fmt.Errorf("read %d-th type: %w", i, err)
		}
	}
	return result, nil
}

func decodeFuncType(r *bytes.Reader) (wasm.FuncType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("read leading byte: %w", err)
	}
	if b != 0x60 {
		return wasm.FuncType{}, fmt.Errorf("%w: %#x != 0x60", ErrInvalidByte, b)
	}

	pc, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("read parameter count: %w", err)
	}
	params, err := decodeValueTypes(r, pc)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("read parameter types: %w", err)
	}

	rc, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("read result count: %w", err)
	}
	results, err := decodeValueTypes(r, rc)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("read result types: %w", err)
	}

	return wasm.FuncType{Params: params, Results: results}, nil
}

func decodeImportSection(r *bytes.Reader) ([]wasm.Import, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("get size of vector: %w", err)
	}
	result := make([]wasm.Import, count)
	for i := range result {
		if result[i], err = decodeImport(r); err != nil {
			return nil, fmt.Errorf("read import %d: %w", i, err)
		}
	}
	return result, nil
}

func decodeImport(r *bytes.Reader) (wasm.Import, error) {
	moduleName, err := decodeName(r)
	if err != nil {
		return wasm.Import{}, fmt.Errorf("read module name: %w", err)
	}
	name, err := decodeName(r)
	if err != nil {
		return wasm.Import{}, fmt.Errorf("read field name: %w", err)
	}
	kind, err := r.ReadByte()
	if err != nil {
		return wasm.Import{}, fmt.Errorf("read kind: %w", err)
	}
	if kind != 0 {
		return wasm.Import{}, fmt.Errorf("only function imports are supported, got kind=%d", kind)
	}
	typeIdx, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.Import{}, fmt.Errorf("read type index: %w", err)
	}
	return wasm.Import{Module: moduleName, Name: name, TypeIndex: typeIdx}, nil
}

func decodeFunctionSection(r *bytes.Reader) ([]wasm.Index, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("get size of vector: %w", err)
	}
	result := make([]wasm.Index, count)
	for i := range result {
		if result[i], _, err = leb128.DecodeUint32(r); err != nil {
			return nil, fmt.Errorf("read type index %d: %w", i, err)
		}
	}
	return result, nil
}

func decodeLimits(r *bytes.Reader) (wasm.Limits, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return wasm.Limits{}, fmt.Errorf("read flags: %w", err)
	}
	min, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.Limits{}, fmt.Errorf("read min: %w", err)
	}
	if flags == 0 {
		return wasm.Limits{Min: min}, nil
	}
	max, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.Limits{}, fmt.Errorf("read max: %w", err)
	}
	return wasm.Limits{Min: min, Max: &max}, nil
}

func decodeMemorySection(r *bytes.Reader) ([]wasm.Limits, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("get size of vector: %w", err)
	}
	result := make([]wasm.Limits, count)
	for i := range result {
		if result[i], err = decodeLimits(r); err != nil {
			return nil, fmt.Errorf("read memory %d: %w", i, err)
		}
	}
	return result, nil
}

func decodeExportSection(r *bytes.Reader) ([]wasm.Export, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("get size of vector: %w", err)
	}
	seen := make(map[string]struct{}, count)
	result := make([]wasm.Export, count)
	for i := range result {
		exp, err := decodeExport(r)
		if err != nil {
			return nil, fmt.Errorf("read export %d: %w", i, err)
		}
		if _, ok := seen[exp.Name]; ok {
			return nil, fmt.Errorf("export %d duplicates name %q", i, exp.Name)
		}
		seen[exp.Name] = struct{}{}
		result[i] = exp
	}
	return result, nil
}

func decodeExport(r *bytes.Reader) (wasm.Export, error) {
	name, err := decodeName(r)
	if err != nil {
		return wasm.Export{}, fmt.Errorf("read name: %w", err)
	}
	kind, err := r.ReadByte()
	if err != nil {
		return wasm.Export{}, fmt.Errorf("read kind: %w", err)
	}
	if kind != 0 {
		return wasm.Export{}, fmt.Errorf("only function exports are supported, got kind=%d", kind)
	}
	idx, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.Export{}, fmt.Errorf("read function index: %w", err)
	}
	return wasm.Export{Name: name, FuncIndex: idx}, nil
}

func decodeDataSection(r *bytes.Reader) ([]wasm.DataSegment, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("get size of vector: %w", err)
	}
	result := make([]wasm.DataSegment, count)
	for i := range result {
		if result[i], err = decodeDataSegment(r); err != nil {
			return nil, fmt.Errorf("read data segment %d: %w", i, err)
		}
	}
	return result, nil
}

func decodeDataSegment(r *bytes.Reader) (wasm.DataSegment, error) {
	memIdx, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.DataSegment{}, fmt.Errorf("read memory index: %w", err)
	}

	offset, err := decodeConstI32Expr(r)
	if err != nil {
		return wasm.DataSegment{}, fmt.Errorf("read offset expression: %w", err)
	}

	size, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return wasm.DataSegment{}, fmt.Errorf("read size: %w", err)
	}
	init := make([]byte, size)
	if _, err := io.ReadFull(r, init); err != nil {
		return wasm.DataSegment{}, fmt.Errorf("read bytes: %w", err)
	}
	return wasm.DataSegment{MemoryIndex: memIdx, Offset: offset, Init: init}, nil
}

// decodeConstI32Expr reads a constant-expression operand: the only
// producing instruction accepted in this subset is i32.const, terminated
// by End.
func decodeConstI32Expr(r *bytes.Reader) (int32, error) {
	op, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("read const-expr opcode: %w", err)
	}
	if wasm.Opcode(op) != wasm.OpcodeI32Const {
		return 0, fmt.Errorf("unsupported const expression opcode: 0x%x", op)
	}
	v, _, err := leb128.DecodeInt32(r)
	if err != nil {
		return 0, fmt.Errorf("read i32.const immediate: %w", err)
	}
	end, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("read const-expr end: %w", err)
	}
	if wasm.Opcode(end) != wasm.OpcodeEnd {
		return 0, fmt.Errorf("const expression not terminated by end")
	}
	return v, nil
}
