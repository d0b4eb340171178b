package binary

// Magic is the 4-byte preamble ("\0asm") every Wasm binary starts with.
//
// See https://www.w3.org/TR/wasm-core-1/#binary-magic
var Magic = []byte{0x00, 0x61, 0x73, 0x6D}

// version is the 4-byte little-endian format version. It doesn't change
// between specification revisions this engine targets.
//
// See https://www.w3.org/TR/wasm-core-1/#binary-version
var version = []byte{0x01, 0x00, 0x00, 0x00}

// SectionID identifies the kind of a section header. Only the ids this
// subset recognizes are named; any other non-custom id fails decoding.
//
// See https://www.w3.org/TR/wasm-core-1/#sections%E2%91%A0
type SectionID byte

const (
	SectionIDCustom   SectionID = 0
	SectionIDType     SectionID = 1
	SectionIDImport   SectionID = 2
	SectionIDFunction SectionID = 3
	SectionIDMemory   SectionID = 5
	SectionIDExport   SectionID = 7
	SectionIDCode     SectionID = 10
	SectionIDData     SectionID = 11
)
