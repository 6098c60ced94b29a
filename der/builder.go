// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"fmt"
	"slices"
	"time"

	"github.com/Killers2/asn1"
	"github.com/Killers2/asn1/tlv"
)

// Builder accumulates the encoded forms of children and wraps them into an
// outer tag on demand. Every Add method appends exactly one child and returns
// the builder for chaining. The first error encountered sticks: subsequent Add
// calls become no-ops and the error surfaces from [Builder.Err] and
// [Builder.Encoded]. A failed Add never modifies the accumulated bytes.
//
// A Builder is a single-writer accumulator and must not be shared between
// goroutines.
type Builder struct {
	buf []byte
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Err returns the first error encountered by an Add method, if any.
func (b *Builder) Err() error { return b.err }

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int { return len(b.buf) }

// Bytes returns the accumulated concatenation of encoded children without an
// outer wrapper. The returned slice borrows the builder's internal buffer.
func (b *Builder) Bytes() []byte { return b.buf }

// fail records the first error.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// add appends one child in tag ‖ length ‖ payload form.
func (b *Builder) add(tag asn1.Tag, payload []byte) *Builder {
	if b.err == nil {
		b.buf = tlv.Append(b.buf, tag, payload)
	}
	return b
}

// AddBoolean appends a BOOLEAN child.
func (b *Builder) AddBoolean(v bool) *Builder {
	if v {
		return b.add(asn1.TagBoolean, []byte{0xff})
	}
	return b.add(asn1.TagBoolean, []byte{0x00})
}

// AddInteger appends an INTEGER child in minimal two's-complement form.
func (b *Builder) AddInteger(v int64) *Builder {
	return b.add(asn1.TagInteger, appendInt(nil, v))
}

// AddEnumerated appends an ENUMERATED child.
func (b *Builder) AddEnumerated(v int64) *Builder {
	return b.add(asn1.TagEnumerated, appendInt(nil, v))
}

// AddNull appends a NULL child.
func (b *Builder) AddNull() *Builder {
	return b.add(asn1.TagNull, nil)
}

// AddOctetString appends an OCTET STRING child.
func (b *Builder) AddOctetString(p []byte) *Builder {
	return b.add(asn1.TagOctetString, p)
}

// AddBitString appends a BIT STRING child. unusedBits counts the trailing
// bits of the last octet of v that carry no information.
func (b *Builder) AddBitString(v []byte, unusedBits uint8) *Builder {
	if b.err != nil {
		return b
	}
	if unusedBits > 7 || (len(v) == 0 && unusedBits != 0) {
		return b.fail(fmt.Errorf("%w: %d unused bits", asn1.ErrInvalidData, unusedBits))
	}
	payload := make([]byte, 0, len(v)+1)
	payload = append(payload, unusedBits)
	payload = append(payload, v...)
	return b.add(asn1.TagBitString, payload)
}

// AddOID appends an OBJECT IDENTIFIER child from dotted notation.
func (b *Builder) AddOID(dotted string) *Builder {
	if b.err != nil {
		return b
	}
	oid, err := asn1.ParseOID(dotted)
	if err != nil {
		return b.fail(err)
	}
	payload, err := AppendOID(nil, oid)
	if err != nil {
		return b.fail(err)
	}
	return b.add(asn1.TagOID, payload)
}

//region String children

// AddUTF8String appends a UTF8String child.
func (b *Builder) AddUTF8String(s string) *Builder {
	return b.add(asn1.TagUTF8String, []byte(s))
}

// AddPrintableString appends a PrintableString child. The contents are not
// checked against the PrintableString alphabet.
func (b *Builder) AddPrintableString(s string) *Builder {
	return b.add(asn1.TagPrintableString, []byte(s))
}

// AddNumericString appends a NumericString child.
func (b *Builder) AddNumericString(s string) *Builder {
	return b.add(asn1.TagNumericString, []byte(s))
}

// AddIA5String appends an IA5String child.
func (b *Builder) AddIA5String(s string) *Builder {
	return b.add(asn1.TagIA5String, []byte(s))
}

// AddTeletexString appends a TeletexString child.
func (b *Builder) AddTeletexString(s string) *Builder {
	return b.add(asn1.TagTeletexString, []byte(s))
}

// AddVideotexString appends a VideotexString child.
func (b *Builder) AddVideotexString(s string) *Builder {
	return b.add(asn1.TagVideotexString, []byte(s))
}

// AddVisibleString appends a VisibleString child.
func (b *Builder) AddVisibleString(s string) *Builder {
	return b.add(asn1.TagVisibleString, []byte(s))
}

// AddUniversalString appends a UniversalString child. The contents are written
// as-is in their Go (UTF-8) representation.
func (b *Builder) AddUniversalString(s string) *Builder {
	return b.add(asn1.TagUniversalString, []byte(s))
}

// AddBMPString appends a BMPString child. The contents are written as-is in
// their Go (UTF-8) representation.
func (b *Builder) AddBMPString(s string) *Builder {
	return b.add(asn1.TagBMPString, []byte(s))
}

//endregion

//region Time children

// AddUTCTime appends a UTCTime child. See [AppendUTCTime] for zone and
// precision handling.
func (b *Builder) AddUTCTime(t time.Time, zone *ZoneOffset, precise bool) *Builder {
	if b.err != nil {
		return b
	}
	payload, err := AppendUTCTime(nil, t, zone, precise)
	if err != nil {
		return b.fail(err)
	}
	return b.add(asn1.TagUTCTime, payload)
}

// AddGeneralizedTime appends a GeneralizedTime child. See
// [AppendGeneralizedTime] for zone and precision handling.
func (b *Builder) AddGeneralizedTime(t time.Time, zone *ZoneOffset, precise bool) *Builder {
	if b.err != nil {
		return b
	}
	payload, err := AppendGeneralizedTime(nil, t, zone, precise)
	if err != nil {
		return b.fail(err)
	}
	return b.add(asn1.TagGeneralizedTime, payload)
}

// AddRFC5280Time appends a UTCTime or GeneralizedTime child following the
// RFC 5280 year rule: UTCTime through 2049, GeneralizedTime from 2050 on.
func (b *Builder) AddRFC5280Time(t time.Time) *Builder {
	if b.err != nil {
		return b
	}
	payload, tag, err := AppendRFC5280Time(nil, t)
	if err != nil {
		return b.fail(err)
	}
	return b.add(tag, payload)
}

//endregion

//region Constructed children

// AddSequence appends a SEQUENCE child holding payload, which must be a
// concatenation of well-formed data values.
func (b *Builder) AddSequence(payload []byte) *Builder {
	return b.addValidated(asn1.TagSequence, payload)
}

// AddSet appends a SET child holding payload, which must be a concatenation of
// well-formed data values. Canonical SET-OF ordering is the caller's
// responsibility.
func (b *Builder) AddSet(payload []byte) *Builder {
	return b.addValidated(asn1.TagSet, payload)
}

func (b *Builder) addValidated(tag asn1.Tag, payload []byte) *Builder {
	if b.err != nil {
		return b
	}
	if err := validateChildren(payload); err != nil {
		return b.fail(err)
	}
	return b.add(tag, payload)
}

// AddSequenceFunc appends a SEQUENCE child composed by fn on a nested builder.
func (b *Builder) AddSequenceFunc(fn func(*Builder)) *Builder {
	return b.addNested(asn1.TagSequence, fn)
}

// AddSetFunc appends a SET child composed by fn on a nested builder.
func (b *Builder) AddSetFunc(fn func(*Builder)) *Builder {
	return b.addNested(asn1.TagSet, fn)
}

// AddOctetStringFunc appends an OCTET STRING child whose contents are composed
// by fn on a nested builder. The child is emitted in primitive form.
func (b *Builder) AddOctetStringFunc(fn func(*Builder)) *Builder {
	return b.addNested(asn1.TagOctetString, fn)
}

// AddBitStringFunc appends a BIT STRING child whose contents are composed by
// fn on a nested builder. The child is emitted in primitive form with zero
// unused bits.
func (b *Builder) AddBitStringFunc(fn func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	nested, err := runNested(fn)
	if err != nil {
		return b.fail(err)
	}
	return b.AddBitString(nested.buf, 0)
}

func (b *Builder) addNested(tag asn1.Tag, fn func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	nested, err := runNested(fn)
	if err != nil {
		return b.fail(err)
	}
	return b.add(tag, nested.buf)
}

func runNested(fn func(*Builder)) (*Builder, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nested builder func", asn1.ErrNilArgument)
	}
	nested := NewBuilder()
	fn(nested)
	return nested, nested.err
}

//endregion

//region Tagged and raw children

// AddImplicit appends an IMPLICIT context-specific child with the given tag
// number. With encode set, raw is treated as bare contents and wrapped under
// the tag 0x80|n. Without encode, raw must be an already-encoded data value
// whose identifier octet is replaced by 0x80|n, preserving length and
// contents.
func (b *Builder) AddImplicit(n uint8, raw []byte, encode bool) *Builder {
	return b.addTagged(0x80, n, raw, encode)
}

// AddExplicit appends an EXPLICIT context-specific child with the given tag
// number. It follows the same pattern as [Builder.AddImplicit] with the
// constructed tag base 0xA0|n.
func (b *Builder) AddExplicit(n uint8, raw []byte, encode bool) *Builder {
	return b.addTagged(0xA0, n, raw, encode)
}

func (b *Builder) addTagged(base asn1.Tag, n uint8, raw []byte, encode bool) *Builder {
	if b.err != nil {
		return b
	}
	if n > 30 {
		return b.fail(fmt.Errorf("%w: tag number %d", asn1.ErrInvalidData, n))
	}
	tag := base | asn1.Tag(n)
	if encode {
		return b.add(tag, raw)
	}
	if err := validateOne(raw); err != nil {
		return b.fail(err)
	}
	child := slices.Clone(raw)
	child[0] = byte(tag)
	b.buf = append(b.buf, child...)
	return b
}

// AddRaw appends an already-encoded data value after validating that it parses
// as exactly one TLV.
func (b *Builder) AddRaw(raw []byte) *Builder {
	if b.err != nil {
		return b
	}
	if raw == nil {
		return b.fail(fmt.Errorf("%w: raw value", asn1.ErrNilArgument))
	}
	if err := validateOne(raw); err != nil {
		return b.fail(err)
	}
	b.buf = append(b.buf, raw...)
	return b
}

// AddTagged appends a child wrapping payload under an arbitrary outer tag. The
// payload is written as-is without validation.
func (b *Builder) AddTagged(outer asn1.Tag, payload []byte) *Builder {
	return b.add(outer, payload)
}

//endregion

// Encoded returns the accumulated children wrapped in the outer tag, SEQUENCE
// by default. The builder state is left untouched; Encoded may be called
// multiple times, also between Add calls.
func (b *Builder) Encoded(outer ...asn1.Tag) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	tag := asn1.TagSequence
	if len(outer) > 0 {
		tag = outer[0]
	}
	return tlv.Append(nil, tag, b.buf), nil
}

// Encode replaces the accumulated state with its form wrapped in the outer tag
// and returns an independent snapshot of the result. Further Add calls append
// after the wrapped value.
func (b *Builder) Encode(outer asn1.Tag) *Builder {
	if b.err != nil {
		return &Builder{err: b.err}
	}
	b.buf = tlv.Append(nil, outer, b.buf)
	return &Builder{buf: slices.Clone(b.buf)}
}

// validateOne verifies that raw holds exactly one well-formed data value.
func validateOne(raw []byte) error {
	h, err := tlv.DecodeHeader(raw, 0)
	if err != nil {
		return err
	}
	if h.FullLen() != len(raw) {
		return fmt.Errorf("%w: %d trailing bytes after data value", asn1.ErrInvalidData, len(raw)-h.FullLen())
	}
	return nil
}
