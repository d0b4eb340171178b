// Package leb128 decodes the variable-length integer encoding used
// throughout the WebAssembly binary format.
//
// See https://www.w3.org/TR/wasm-core-1/#integers%E2%91%A4
package leb128

import (
	"bytes"
	"fmt"
)

// DecodeUint32 reads an unsigned LEB128-encoded value from r, stopping at
// the first byte whose high bit is clear. It returns the decoded value and
// the number of bytes consumed.
func DecodeUint32(r *bytes.Reader) (ret uint32, bytesRead uint32, err error) {
	const (
		mask  uint32 = 1 << 7
		mask2        = ^mask
	)
	for shift := 0; shift < 35; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("readByte failed: %w", err)
		}
		bytesRead++
		ret |= (uint32(b) & mask2) << shift
		if uint32(b)&mask == 0 {
			return ret, bytesRead, nil
		}
	}
	return 0, 0, fmt.Errorf("invalid leb128 encoding for uint32: exceeded width")
}

// DecodeInt32 reads a signed LEB128-encoded value from r, sign-extending
// the result once the terminating byte's sign bit (0x40) demands it.
func DecodeInt32(r *bytes.Reader) (ret int32, bytesRead uint32, err error) {
	const (
		mask  int32 = 1 << 7
		mask2       = ^mask
		signBit     = 1 << 6
	)
	var shift int
	var b byte
	for shift < 35 {
		b, err = r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("readByte failed: %w", err)
		}
		bytesRead++
		ret |= (int32(b) & mask2) << shift
		shift += 7
		if int32(b)&mask == 0 {
			break
		}
	}
	if shift < 32 && int32(b)&signBit == signBit {
		ret |= -1 << shift
	}
	return ret, bytesRead, nil
}

// DecodeUint64 reads an unsigned LEB128-encoded value wide enough for a
// 64-bit result. Only used where the binary format requires a 64-bit
// count or index; this subset never arithmetically operates on i64.
func DecodeUint64(r *bytes.Reader) (ret uint64, bytesRead uint32, err error) {
	const (
		mask  uint64 = 1 << 7
		mask2        = ^mask
	)
	for shift := 0; shift < 70; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("readByte failed: %w", err)
		}
		bytesRead++
		ret |= (uint64(b) & mask2) << shift
		if uint64(b)&mask == 0 {
			return ret, bytesRead, nil
		}
	}
	return 0, 0, fmt.Errorf("invalid leb128 encoding for uint64: exceeded width")
}

// DecodeInt64 reads a signed LEB128-encoded value wide enough for a 64-bit
// result, sign-extending past the terminating byte as needed.
func DecodeInt64(r *bytes.Reader) (ret int64, bytesRead uint32, err error) {
	const (
		mask  int64 = 1 << 7
		mask2       = ^mask
		signBit     = 1 << 6
	)
	var shift int
	var b byte
	for shift < 70 {
		b, err = r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("readByte failed: %w", err)
		}
		bytesRead++
		ret |= (int64(b) & mask2) << shift
		shift += 7
		if int64(b)&mask == 0 {
			break
		}
	}
	if shift < 64 && int64(b)&signBit == signBit {
		ret |= -1 << shift
	}
	return ret, bytesRead, nil
}
