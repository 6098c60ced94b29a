// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. Bytes holds the bits packed
// into octets and UnusedBits records how many trailing bits of the last octet
// carry no information.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes      []byte
	UnusedBits uint8
}

// IsValid reports whether the unused-bit count of s is in the allowed range.
func (s BitString) IsValid() bool {
	return s.UnusedBits <= 7 && (len(s.Bytes) > 0 || s.UnusedBits == 0)
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return len(s.Bytes)*8 - int(s.UnusedBits)
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.Len() {
		panic("index out of range")
	}
	return int(s.Bytes[i/8]>>(7-uint(i%8))) & 1
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// maxOIDStringLen is the maximum accepted length of the dotted-decimal
// notation of an object identifier.
const maxOIDStringLen = 8192

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of
// an object identifier are specified in [Rec. ITU-T X.660].
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint64

// ParseOID parses the dotted-decimal notation of an object identifier. An
// identifier must have at least three arcs, the first arc must be 0, 1 or 2
// and the second arc must be at most 39 unless the first arc is 2. The empty
// string parses to a nil identifier, matching the zero-length encoding.
//
// Strings longer than 8192 bytes are rejected with [ErrOverflow]. Any other
// violation is reported as [ErrInvalidData].
func ParseOID(s string) (ObjectIdentifier, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) > maxOIDStringLen {
		return nil, fmt.Errorf("%w: oid notation exceeds %d bytes", ErrOverflow, maxOIDStringLen)
	}
	parts := strings.Split(s, ".")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: oid %q has fewer than three arcs", ErrInvalidData, s)
	}
	oid := make(ObjectIdentifier, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: oid arc %q", ErrInvalidData, p)
		}
		oid[i] = v
	}
	if oid[0] > 2 {
		return nil, fmt.Errorf("%w: oid first arc %d out of range", ErrInvalidData, oid[0])
	}
	if oid[0] < 2 && oid[1] > 39 {
		return nil, fmt.Errorf("%w: oid second arc %d exceeds 39", ErrInvalidData, oid[1])
	}
	return oid, nil
}

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 20)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, v, 10))
	}
	return s.String()
}

//endregion
