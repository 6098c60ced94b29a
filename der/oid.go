// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"fmt"

	"github.com/Killers2/asn1"
	"github.com/Killers2/asn1/internal/vlq"
)

// AppendOID appends the DER content octets of oid to dst. The first two arcs
// are fused into a single base-128 value, every following arc is encoded as
// its own base-128 value. A nil identifier produces no content octets,
// matching the zero-length OBJECT IDENTIFIER encoding.
func AppendOID(dst []byte, oid asn1.ObjectIdentifier) ([]byte, error) {
	if len(oid) == 0 {
		return dst, nil
	}
	if len(oid) < 3 || oid[0] > 2 || (oid[0] < 2 && oid[1] > 39) {
		return dst, fmt.Errorf("%w: invalid object identifier %q", asn1.ErrInvalidData, oid.String())
	}
	dst = vlq.Append(dst, 40*oid[0]+oid[1])
	for _, arc := range oid[2:] {
		dst = vlq.Append(dst, arc)
	}
	return dst, nil
}

// DecodeOID decodes the DER content octets of an OBJECT IDENTIFIER. The first
// base-128 value fuses the first two arcs: values below 80 split as 40*a1+a2,
// larger values belong to the joint arc 2. Zero-length content decodes to a
// nil identifier.
func DecodeOID(payload []byte) (asn1.ObjectIdentifier, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	v, n, err := vlq.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: oid arc: %v", asn1.ErrInvalidData, err)
	}

	// In the worst case every remaining arc is a single octet long.
	oid := make(asn1.ObjectIdentifier, 2, len(payload)-n+2)
	if v < 80 {
		oid[0], oid[1] = v/40, v%40
	} else {
		oid[0], oid[1] = 2, v-80
	}
	for payload = payload[n:]; len(payload) > 0; payload = payload[n:] {
		if v, n, err = vlq.Decode(payload); err != nil {
			return nil, fmt.Errorf("%w: oid arc: %v", asn1.ErrInvalidData, err)
		}
		oid = append(oid, v)
	}
	return oid, nil
}
