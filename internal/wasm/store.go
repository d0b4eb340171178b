package wasm

import "fmt"

// FuncInst is a sum of {Internal, External}: every function reachable at
// run time, addressed by its index in Store.Funcs. Imports occupy the
// low indices in import order; module-defined functions follow in
// code-section order.
//
// See https://www.w3.org/TR/wasm-core-1/#function-instances%E2%91%A0
type FuncInst struct {
	// IsImport discriminates the union: true selects External, false
	// selects Internal.
	IsImport bool
	Internal InternalFuncInst
	External ExternalFuncInst
}

// InternalFuncInst is a module-defined function: its signature plus its
// decoded body.
type InternalFuncInst struct {
	Type FuncType
	Code Func
}

// ExternalFuncInst is an imported function: its two-level name and the
// signature the importing module declared for it.
type ExternalFuncInst struct {
	ModuleName string
	FieldName  string
	Type       FuncType
}

// Type returns the FuncType of this instance regardless of which variant
// it holds.
func (f FuncInst) Type() FuncType {
	if f.IsImport {
		return f.External.Type
	}
	return f.Internal.Type
}

// ExportInst is a single named export; currently only function exports
// are modeled, since this subset has no tables, memories, or globals to
// export.
type ExportInst struct {
	FuncIndex Index
}

// MemoryInst is the runtime linear memory: a flat byte array sized in
// 64KiB pages, mutated by data-segment initialization and by i32.store.
//
// See https://www.w3.org/TR/wasm-core-1/#memory-instances%E2%91%A0
type MemoryInst struct {
	Data []byte
	Max  *uint32
}

// ModuleInst is the runtime export surface of an instantiated Module:
// just the name-keyed export map, since this subset instantiates exactly
// one module per Store (no module linking).
type ModuleInst struct {
	Exports map[string]ExportInst
}

// Store holds everything needed at run time to execute a single
// instantiated module: its function table, its exports, and its linear
// memory (nil if the module declared none).
type Store struct {
	Funcs  []FuncInst
	Module ModuleInst
	Memory *MemoryInst
}

// NewStore builds a Store from a decoded Module: it interleaves imported
// and internal functions by index, builds the export map, and allocates
// and initializes linear memory from the module's data segments.
func NewStore(m *Module) (*Store, error) {
	funcs := make([]FuncInst, 0, len(m.ImportSection)+len(m.CodeSection))
	for _, imp := range m.ImportSection {
		if int(imp.TypeIndex) >= len(m.TypeSection) {
			return nil, fmt.Errorf("import %s.%s: type index %d out of range", imp.Module, imp.Name, imp.TypeIndex)
		}
		funcs = append(funcs, FuncInst{
			IsImport: true,
			External: ExternalFuncInst{
				ModuleName: imp.Module,
				FieldName:  imp.Name,
				Type:       m.TypeSection[imp.TypeIndex],
			},
		})
	}

	if len(m.FunctionSection) != len(m.CodeSection) {
		return nil, fmt.Errorf("function and code section have inconsistent lengths: %d != %d",
			len(m.FunctionSection), len(m.CodeSection))
	}
	for i, typeIdx := range m.FunctionSection {
		if int(typeIdx) >= len(m.TypeSection) {
			return nil, fmt.Errorf("function %d: type index %d out of range", i, typeIdx)
		}
		funcs = append(funcs, FuncInst{
			Internal: InternalFuncInst{
				Type: m.TypeSection[typeIdx],
				Code: m.CodeSection[i],
			},
		})
	}

	exports := make(map[string]ExportInst, len(m.ExportSection))
	for _, exp := range m.ExportSection {
		if int(exp.FuncIndex) >= len(funcs) {
			return nil, fmt.Errorf("export %q: function index %d out of range", exp.Name, exp.FuncIndex)
		}
		exports[exp.Name] = ExportInst{FuncIndex: exp.FuncIndex}
	}

	s := &Store{
		Funcs:  funcs,
		Module: ModuleInst{Exports: exports},
	}

	if len(m.MemorySection) > 0 {
		limits := m.MemorySection[0]
		mem := &MemoryInst{
			Data: make([]byte, uint64(limits.Min)*MemoryPageSize),
			Max:  limits.Max,
		}
		s.Memory = mem
	}

	for i, seg := range m.DataSection {
		if s.Memory == nil {
			return nil, fmt.Errorf("data segment %d: module declares no memory", i)
		}
		offset := int64(seg.Offset)
		end := offset + int64(len(seg.Init))
		if offset < 0 || end > int64(len(s.Memory.Data)) {
			return nil, fmt.Errorf("data segment %d: %w", i, ErrDataSegmentOutOfBounds)
		}
		copy(s.Memory.Data[offset:end], seg.Init)
	}

	return s, nil
}
