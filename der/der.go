// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements the semantic layer of the Distinguished Encoding
// Rules (DER) on top of [github.com/Killers2/asn1/tlv]. It provides payload
// codecs for the universal types whose byte layouts are non-obvious (OBJECT
// IDENTIFIER, UTCTime, GeneralizedTime, INTEGER), the [Element] value wrapper
// and the [Builder] used to compose encoded structures.
//
// The codec is strictly DER: indefinite lengths, non-canonical length forms on
// encode and the high-tag-number form are not supported. String-valued types
// are handled structurally; their alphabets are not validated.
package der
