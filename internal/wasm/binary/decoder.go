// Package binary decodes the WebAssembly 1.0 (MVP) binary format into an
// internal/wasm.Module, restricted to a small section and instruction
// subset: no tables, globals, multiple memories, or SIMD/GC types.
//
// See https://www.w3.org/TR/wasm-core-1/#binary-format%E2%91%A0
package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

// DecodeModule parses a Wasm binary into a Module. Custom sections are
// skipped by advancing past their declared size; any other unrecognized
// section id fails.
func DecodeModule(source []byte) (*wasm.Module, error) {
	r := bytes.NewReader(source)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil || !bytes.Equal(magic, Magic) {
		return nil, ErrInvalidMagicNumber
	}

	ver := make([]byte, 4)
	if _, err := io.ReadFull(r, ver); err != nil || !bytes.Equal(ver, version) {
		return nil, ErrInvalidVersion
	}

	m := &wasm.Module{}
	for {
		id, err := r.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read section id: %w", err)
		}

		size, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read size of section id=%d: %w", id, err)
		}

		before := r.Len()
		switch SectionID(id) {
		case SectionIDCustom:
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("skip custom section: %w", err)
			}
		case SectionIDType:
			m.TypeSection, err = decodeTypeSection(r)
		case SectionIDImport:
			m.ImportSection, err = decodeImportSection(r)
		case SectionIDFunction:
			m.FunctionSection, err = decodeFunctionSection(r)
		case SectionIDMemory:
			m.MemorySection, err = decodeMemorySection(r)
		case SectionIDExport:
			m.ExportSection, err = decodeExportSection(r)
		case SectionIDCode:
			m.CodeSection, err = decodeCodeSection(r)
		case SectionIDData:
			m.DataSection, err = decodeDataSection(r)
		default:
			err = fmt.Errorf("%w: %d", ErrInvalidSectionID, id)
		}
		if err != nil {
			return nil, fmt.Errorf("section id %d: %w", id, err)
		}

		consumed := before - r.Len()
		if uint32(consumed) != size {
			return nil, fmt.Errorf("section id %d: declared size %d but consumed %d", id, size, consumed)
		}
	}

	if len(m.FunctionSection) != len(m.CodeSection) {
		return nil, fmt.Errorf("function and code section have inconsistent lengths: %d != %d",
			len(m.FunctionSection), len(m.CodeSection))
	}
	return m, nil
}
