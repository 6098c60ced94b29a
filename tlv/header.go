package tlv

import (
	"fmt"

	"github.com/Killers2/asn1"
)

// maxLengthOctets is the maximum number of long-form length octets accepted by
// the decoder. Four octets bound a length to 4 GiB which is far beyond any
// structure this codec is used for.
const maxLengthOctets = 4

// LengthSize returns the number of octets needed to encode l in canonical DER
// length form.
func LengthSize(l int) int {
	if l < 0x80 {
		return 1
	}
	n := 2
	for l > 0xff {
		n++
		l >>= 8
	}
	return n
}

// AppendLength appends the canonical DER encoding of the length l to dst and
// returns the extended slice. Lengths below 128 use the short form, larger
// lengths the long form with the minimum number of length octets.
func AppendLength(dst []byte, l int) []byte {
	if l < 0x80 {
		return append(dst, byte(l))
	}
	n := 1
	for ll := l; ll > 0xff; ll >>= 8 {
		n++
	}
	dst = append(dst, 0x80|byte(n))
	for ; n > 0; n-- {
		dst = append(dst, byte(l>>uint((n-1)*8)))
	}
	return dst
}

// Append appends the encoding tag ‖ length ‖ payload to dst and returns the
// extended slice. The payload is written as-is; callers that require SET-OF
// canonical ordering must pre-sort.
func Append(dst []byte, tag asn1.Tag, payload []byte) []byte {
	dst = append(dst, byte(tag))
	dst = AppendLength(dst, len(payload))
	return append(dst, payload...)
}

// decodeLength decodes the length octets at offset off in buf. It returns the
// decoded length and the number of length octets consumed.
func decodeLength(buf []byte, off int) (length, n int, err error) {
	if off >= len(buf) {
		return 0, 0, fmt.Errorf("%w: missing length octet", asn1.ErrInvalidData)
	}
	b := buf[off]
	if b < 0x80 {
		return int(b), 1, nil
	}
	if b == 0x80 {
		return 0, 0, fmt.Errorf("%w: indefinite length", asn1.ErrInvalidData)
	}
	n = int(b & 0x7f)
	if n > maxLengthOctets {
		return 0, 0, fmt.Errorf("%w: %d length octets", asn1.ErrOverflow, n)
	}
	if off+1+n > len(buf) {
		return 0, 0, fmt.Errorf("%w: truncated length", asn1.ErrInvalidData)
	}
	for i := 0; i < n; i++ {
		length = length<<8 | int(buf[off+1+i])
	}
	return length, n + 1, nil
}

// DecodeHeader decodes the TLV header at offset off in buf. The header and the
// payload it announces must lie entirely within buf.
func DecodeHeader(buf []byte, off int) (Header, error) {
	if off < 0 || off+2 > len(buf) {
		return Header{}, fmt.Errorf("%w: buffer too short for header", asn1.ErrInvalidData)
	}
	tag := asn1.Tag(buf[off])
	if tag == 0 {
		return Header{}, fmt.Errorf("%w: reserved tag 0x00", asn1.ErrInvalidTag)
	}
	if tag.Number() == 0x1f {
		return Header{}, fmt.Errorf("%w: high-tag-number form", asn1.ErrInvalidData)
	}
	length, n, err := decodeLength(buf, off+1)
	if err != nil {
		return Header{}, err
	}
	h := Header{Tag: tag, Length: length, HeaderLen: 1 + n}
	if off+h.FullLen() > len(buf) || off+h.FullLen() < 0 {
		return Header{}, fmt.Errorf("%w: length %d exceeds buffer", asn1.ErrInvalidData, length)
	}
	return h, nil
}
