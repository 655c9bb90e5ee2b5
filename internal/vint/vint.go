// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package vint implements the self-describing little-endian variable-length
// integer encoding used by MSRF length fields.
//
// The first byte (the tag) alone determines the total encoded length: a tag
// with exactly k trailing zero bits occupies k+1 bytes in total, so 1 through
// 9 bytes cover the full uint64 range. For encodings of up to 7 bytes the
// value shares the tag byte (shifted past the tag bits); for 8- and 9-byte
// encodings the tag carries no value bits and the value follows whole.
package vint

import (
	"encoding/binary"
	"math/bits"
)

// MaxLen is the longest possible encoding in bytes.
const MaxLen = 9

// tagDataLen is the widest encoding whose tag byte still carries value bits.
const tagDataLen = 7

// Len reports the total encoded length implied by the tag byte.
func Len(tag byte) int {
	return bits.TrailingZeros8(tag) + 1
}

// EncodedLen reports the number of bytes Encode will use for v.
func EncodedLen(v uint64) int {
	if v == 0 {
		return 1
	}
	n := (bits.Len64(v) + 6) / 7
	if n > 8 {
		n = MaxLen
	}
	return n
}

// Encode writes v into buf and returns the number of bytes used.
func Encode(buf *[MaxLen]byte, v uint64) int {
	n := EncodedLen(v)
	switch {
	case n == 1:
		buf[0] = byte(v<<1) | 0x01
	case n <= tagDataLen:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], v<<uint(n)|1<<uint(n-1))
		copy(buf[:n], tmp[:n])
	case n == 8:
		// Tag carries no value bits; v fits the 7 following bytes.
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], v)
		buf[0] = 0x80
		copy(buf[1:8], tmp[:7])
	default:
		buf[0] = 0x00
		binary.LittleEndian.PutUint64(buf[1:], v)
	}
	return n
}

// Decode reads one varint from src, returning the value and the number of
// bytes consumed. If src is too short, the second result is negative and its
// magnitude is the number of missing bytes.
func Decode(src []byte) (uint64, int) {
	if len(src) == 0 {
		return 0, -1
	}
	n := Len(src[0])
	if len(src) < n {
		return 0, -(n - len(src))
	}
	var tmp [8]byte
	if n <= tagDataLen {
		copy(tmp[:], src[:n])
		return binary.LittleEndian.Uint64(tmp[:]) >> uint(n), n
	}
	copy(tmp[:], src[1:n])
	return binary.LittleEndian.Uint64(tmp[:]), n
}
