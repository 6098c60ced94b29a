// Package vlq implements [Variable-length quantity] encoding as used in BER.
// A VLQ is essentially a base-128 representation of an unsigned integer with
// the addition of the eighth bit to mark continuation of bytes. Object
// identifier arcs use this encoding.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import "errors"

var (
	// ErrNotMinimal indicates a VLQ with a leading 0x80 continuation octet.
	ErrNotMinimal = errors.New("vlq is not minimally encoded")
	// ErrOverflow indicates a VLQ that does not fit into a uint64.
	ErrOverflow = errors.New("vlq too large for target type")
	// ErrTruncated indicates input that ends inside a VLQ.
	ErrTruncated = errors.New("vlq is truncated")
)

// Len returns the number of bytes needed to encode v as a VLQ.
func Len(v uint64) int {
	if v == 0 {
		return 1
	}
	l := 0
	for i := v; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the VLQ encoding of v to dst and returns the extended slice.
func Append(dst []byte, v uint64) []byte {
	l := Len(v)
	for j := l - 1; j >= 0; j-- {
		b := byte(v>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// Decode parses one minimally-encoded VLQ from the start of b. It returns the
// decoded value and the number of bytes consumed.
func Decode(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrTruncated
	}
	if b[0] == 0x80 {
		return 0, 0, ErrNotMinimal
	}

	var v uint64
	for n := 0; n < len(b); n++ {
		if v > 1<<57-1 {
			// another 7 bits would not fit
			return 0, 0, ErrOverflow
		}
		v = v<<7 | uint64(b[n]&0x7f)
		if b[n]&0x80 == 0 {
			return v, n + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}
