// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "errors"

// Error kinds shared by all layers of the codec. Errors returned from this
// module match exactly one of these sentinels under [errors.Is].
var (
	// ErrInvalidTag indicates that the tag at the current position does not
	// match the caller's expectation, or that a reserved tag was encountered.
	ErrInvalidTag = errors.New("asn1: invalid tag")

	// ErrInvalidData indicates that a byte sequence is not a well-formed DER
	// TLV or that a payload does not decode under its tag's value syntax.
	ErrInvalidData = errors.New("asn1: invalid data")

	// ErrOverflow indicates that a length field uses more than four octets or
	// that an input exceeds a documented size bound.
	ErrOverflow = errors.New("asn1: overflow")

	// ErrNilArgument indicates that a caller supplied a nil value where one is
	// required.
	ErrNilArgument = errors.New("asn1: nil argument")
)
