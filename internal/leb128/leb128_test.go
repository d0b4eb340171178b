package leb128

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUint32(t *testing.T) {
	for _, c := range []struct {
		bytes []byte
		exp   uint32
	}{
		{bytes: []byte{0x04}, exp: 4},
		{bytes: []byte{0x80, 0x7f}, exp: 16256},
		{bytes: []byte{0xe5, 0x8e, 0x26}, exp: 624485},
		{bytes: []byte{0x80, 0x80, 0x80, 0x4f}, exp: 165675008},
	} {
		actual, num, err := DecodeUint32(bytes.NewReader(c.bytes))
		require.NoError(t, err)
		assert.Equal(t, c.exp, actual)
		assert.Equal(t, uint32(len(c.bytes)), num)
	}
}

func TestDecodeInt32(t *testing.T) {
	for _, c := range []struct {
		bytes []byte
		exp   int32
	}{
		{bytes: []byte{0x00}, exp: 0},
		{bytes: []byte{0x04}, exp: 4},
		{bytes: []byte{0xFF, 0x00}, exp: 127},
		{bytes: []byte{0x81, 0x01}, exp: 129},
		{bytes: []byte{0x7f}, exp: -1},
		{bytes: []byte{0x81, 0x7f}, exp: -127},
		{bytes: []byte{0xFF, 0x7e}, exp: -129},
	} {
		actual, num, err := DecodeInt32(bytes.NewReader(c.bytes))
		require.NoError(t, err)
		assert.Equal(t, c.exp, actual)
		assert.Equal(t, uint32(len(c.bytes)), num)
	}
}

func TestDecodeUint32_errors(t *testing.T) {
	_, _, err := DecodeUint32(bytes.NewReader([]byte{0x80}))
	assert.Error(t, err)
}

func TestDecodeInt32_errors(t *testing.T) {
	_, _, err := DecodeInt32(bytes.NewReader(nil))
	assert.Error(t, err)
}

// encodeUint32 and encodeInt32 are local test helpers mirroring the
// encoder the fixtures above were derived from; the engine itself never
// needs to re-encode LEB128 values.
func encodeUint32(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

func encodeInt32(v int32) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func TestDecodeUint32_roundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 624485, math.MaxUint32, math.MaxUint32 - 1} {
		got, _, err := DecodeUint32(bytes.NewReader(encodeUint32(v)))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestDecodeInt32_roundTrip(t *testing.T) {
	samples := []int32{0, 1, -1, 127, -127, 128, -128, math.MinInt32, math.MaxInt32}
	for i := int32(-5000); i < 5000; i += 37 {
		samples = append(samples, i)
	}
	for _, v := range samples {
		got, _, err := DecodeInt32(bytes.NewReader(encodeInt32(v)))
		require.NoError(t, err)
		assert.Equal(t, v, got, "value %d", v)
	}
}
