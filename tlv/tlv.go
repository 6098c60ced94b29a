// Package tlv implements the tag-length-value (TLV) format used by the
// Distinguished Encoding Rules (DER) as specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// This package deals with the syntactic layer of DER while the
// [github.com/Killers2/asn1/der] package deals with the semantic layer.
//
// # Headers and Values
//
// Each value is encoded using a tag-length-value format. The tag and length
// (together a header) are represented by the [Header] type. The [Reader] type
// navigates a fully buffered encoding as a tree of TLV nodes without copying
// payloads. Encoding is append-based: [AppendLength] and [Append] wrap
// payloads in canonical DER form.
//
// Only definite lengths with at most four length octets are supported. The
// indefinite-length form and the high-tag-number form are rejected.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"strconv"

	"github.com/Killers2/asn1"
)

// Header represents a decoded TLV header. Length is the number of content
// octets, HeaderLen the number of identifier and length octets. HeaderLen is 2
// for the short length form and 2+N for the long form with N length octets.
type Header struct {
	Tag       asn1.Tag
	Length    int
	HeaderLen int
}

// FullLen returns the total number of octets of the data value encoding
// described by h, header included.
func (h Header) FullLen() int {
	return h.HeaderLen + h.Length
}

// String returns a string representation of h.
func (h Header) String() string {
	return h.Tag.Name() + ":" + strconv.Itoa(h.Length)
}

// SyntaxError represents an error in the TLV encoding. The error value
// contains the location of the error within the input as well as the tag of
// the data value containing the malformed bytes, if known.
type SyntaxError struct {
	Err        error    // underlying error
	ByteOffset int      // start of the TLV header containing the error
	Tag        asn1.Tag // tag of the offending data value, 0 if unknown
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *SyntaxError) Error() string {
	b := []byte("tlv: syntax error")
	if e.Tag != 0 {
		b = append(b, " in "...)
		b = append(b, e.Tag.Name()...)
	}
	b = strconv.AppendInt(append(b, " at offset "...), int64(e.ByteOffset), 10)
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}
