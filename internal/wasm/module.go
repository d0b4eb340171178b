package wasm

// Index is a zero-based index into one of a Module's index spaces
// (types, functions, ...). WebAssembly indices are always encoded as
// unsigned LEB128.
type Index = uint32

// Import describes a single entry in the import section. Only function
// imports are supported in this subset; Kind is always 0.
//
// See https://www.w3.org/TR/wasm-core-1/#import-section%E2%91%A0
type Import struct {
	Module    string
	Name      string
	TypeIndex Index
}

// Export describes a single entry in the export section. Only function
// exports are supported; Kind is always 0.
//
// See https://www.w3.org/TR/wasm-core-1/#export-section%E2%91%A0
type Export struct {
	Name      string
	FuncIndex Index
}

// Limits is the min/max pair that defines a memory's size bounds, in
// 64KiB pages.
//
// See https://www.w3.org/TR/wasm-core-1/#limits%E2%91%A6
type Limits struct {
	Min uint32
	// Max is nil when the memory declares no upper bound (flags == 0).
	Max *uint32
}

// MemoryPageSize is the fixed size, in bytes, of one linear memory page.
//
// See https://www.w3.org/TR/wasm-core-1/#page-size
const MemoryPageSize = 65536

// DataSegment is one entry of the data section: a byte string and the
// i32.const-evaluated offset, within MemoryIndex's memory, to copy it to
// at instantiation time.
//
// See https://www.w3.org/TR/wasm-core-1/#data-segments%E2%91%A0
type DataSegment struct {
	MemoryIndex Index
	Offset      int32
	Init        []byte
}

// Func is a decoded function body: its expanded local declarations (run
// length pairs already flattened to one ValueType per local slot) and its
// instruction stream.
//
// See https://www.w3.org/TR/wasm-core-1/#code-section%E2%91%A0
type Func struct {
	Locals []ValueType
	Body   []Instruction
}

// Module is the result of decoding a Wasm binary: a plain structure
// holding each recognized section, index-correlated the way the binary
// format defines (FunctionSection[i] and CodeSection[i] describe the same
// function).
//
// See https://www.w3.org/TR/wasm-core-1/#modules%E2%91%A8
type Module struct {
	TypeSection     []FuncType
	ImportSection   []Import
	FunctionSection []Index
	MemorySection   []Limits
	ExportSection   []Export
	CodeSection     []Func
	DataSection     []DataSegment
}
