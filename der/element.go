// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/Killers2/asn1"
	"github.com/Killers2/asn1/tlv"
)

// Encoding selects the textual rendering used by [Element.Format].
type Encoding int

const (
	// Base64 renders the full encoding in standard base64.
	Base64 Encoding = iota
	// Hex renders the full encoding as lower-case hexadecimal.
	Hex
)

// Element is an immutable typed view of one encoded data value, header
// included. An Element is created from a reader position, from raw bytes or
// from a semantic value and is read-only thereafter.
type Element struct {
	raw       []byte
	headerLen int
	container bool
}

// ParseElement parses raw as a single DER data value. Bytes past the end of
// the value are ignored.
func ParseElement(raw []byte) (Element, error) {
	r, err := tlv.NewReader(raw)
	if err != nil {
		return Element{}, err
	}
	return FromReader(r), nil
}

// NewElement parses raw like [ParseElement] and additionally verifies the tag.
func NewElement(want asn1.Tag, raw []byte) (Element, error) {
	e, err := ParseElement(raw)
	if err != nil {
		return Element{}, err
	}
	if e.Tag() != want {
		return Element{}, fmt.Errorf("%w: %s, want %s", asn1.ErrInvalidTag, e.Tag().Name(), want.Name())
	}
	return e, nil
}

// FromReader wraps the node under the cursor of r. The element borrows the
// reader's backing buffer.
func FromReader(r *tlv.Reader) Element {
	return Element{raw: r.Raw(), headerLen: r.HeaderLen(), container: r.Constructed()}
}

// ExpectFromReader wraps the node under the cursor of r after verifying that
// its tag is one of the expected tags.
func ExpectFromReader(r *tlv.Reader, tags ...asn1.Tag) (Element, error) {
	if err := r.Expect(tags...); err != nil {
		return Element{}, err
	}
	return FromReader(r), nil
}

//region Constructors from semantic values

// wrap builds an element holding tag ‖ length ‖ payload.
func wrap(tag asn1.Tag, payload []byte) Element {
	raw := tlv.Append(nil, tag, payload)
	return Element{
		raw:       raw,
		headerLen: len(raw) - len(payload),
		container: tag.Constructed(),
	}
}

// NewBoolean builds a BOOLEAN element.
func NewBoolean(v bool) Element {
	if v {
		return wrap(asn1.TagBoolean, []byte{0xff})
	}
	return wrap(asn1.TagBoolean, []byte{0x00})
}

// NewInteger builds an INTEGER element holding v in minimal two's-complement
// form.
func NewInteger(v int64) Element {
	return wrap(asn1.TagInteger, appendInt(nil, v))
}

// NewEnumerated builds an ENUMERATED element.
func NewEnumerated(v int64) Element {
	return wrap(asn1.TagEnumerated, appendInt(nil, v))
}

// NewNull builds a NULL element.
func NewNull() Element {
	return wrap(asn1.TagNull, nil)
}

// NewOctetString builds an OCTET STRING element.
func NewOctetString(p []byte) Element {
	return wrap(asn1.TagOctetString, p)
}

// NewBitString builds a BIT STRING element.
func NewBitString(s asn1.BitString) (Element, error) {
	if !s.IsValid() {
		return Element{}, fmt.Errorf("%w: %d unused bits", asn1.ErrInvalidData, s.UnusedBits)
	}
	payload := make([]byte, 0, len(s.Bytes)+1)
	payload = append(payload, s.UnusedBits)
	payload = append(payload, s.Bytes...)
	return wrap(asn1.TagBitString, payload), nil
}

// NewOID builds an OBJECT IDENTIFIER element from dotted notation.
func NewOID(dotted string) (Element, error) {
	oid, err := asn1.ParseOID(dotted)
	if err != nil {
		return Element{}, err
	}
	payload, err := AppendOID(nil, oid)
	if err != nil {
		return Element{}, err
	}
	return wrap(asn1.TagOID, payload), nil
}

// NewString builds a string element with the given tag. The tag must be one of
// the string-valued universal tags; the string contents are written as-is.
func NewString(tag asn1.Tag, s string) (Element, error) {
	if !stringTags[tag.Number()] || tag.Class() != asn1.ClassUniversal {
		return Element{}, fmt.Errorf("%w: %s is not a string tag", asn1.ErrInvalidTag, tag.Name())
	}
	return wrap(tag, []byte(s)), nil
}

// NewUTF8String builds a UTF8String element.
func NewUTF8String(s string) Element {
	return wrap(asn1.TagUTF8String, []byte(s))
}

// NewPrintableString builds a PrintableString element. The contents are not
// checked against the PrintableString alphabet.
func NewPrintableString(s string) Element {
	return wrap(asn1.TagPrintableString, []byte(s))
}

// NewIA5String builds an IA5String element.
func NewIA5String(s string) Element {
	return wrap(asn1.TagIA5String, []byte(s))
}

// NewUTCTime builds a UTCTime element. See [AppendUTCTime] for zone and
// precision handling.
func NewUTCTime(t time.Time, zone *ZoneOffset, precise bool) (Element, error) {
	payload, err := AppendUTCTime(nil, t, zone, precise)
	if err != nil {
		return Element{}, err
	}
	return wrap(asn1.TagUTCTime, payload), nil
}

// NewGeneralizedTime builds a GeneralizedTime element. See
// [AppendGeneralizedTime] for zone and precision handling.
func NewGeneralizedTime(t time.Time, zone *ZoneOffset, precise bool) (Element, error) {
	payload, err := AppendGeneralizedTime(nil, t, zone, precise)
	if err != nil {
		return Element{}, err
	}
	return wrap(asn1.TagGeneralizedTime, payload), nil
}

// NewRFC5280Time builds a UTCTime or GeneralizedTime element following the
// RFC 5280 year rule.
func NewRFC5280Time(t time.Time) (Element, error) {
	payload, tag, err := AppendRFC5280Time(nil, t)
	if err != nil {
		return Element{}, err
	}
	return wrap(tag, payload), nil
}

// NewSequence builds a SEQUENCE element after validating that payload is a
// concatenation of well-formed data values.
func NewSequence(payload []byte) (Element, error) {
	if err := validateChildren(payload); err != nil {
		return Element{}, err
	}
	return wrap(asn1.TagSequence, payload), nil
}

// NewSet builds a SET element after validating that payload is a concatenation
// of well-formed data values. Canonical SET-OF ordering is the caller's
// responsibility.
func NewSet(payload []byte) (Element, error) {
	if err := validateChildren(payload); err != nil {
		return Element{}, err
	}
	return wrap(asn1.TagSet, payload), nil
}

//endregion

// stringTags marks the universal tag numbers holding character strings.
var stringTags = map[uint8]bool{
	0x0C: true, // UTF8String
	0x12: true, // NumericString
	0x13: true, // PrintableString
	0x14: true, // TeletexString
	0x15: true, // VideotexString
	0x16: true, // IA5String
	0x19: true, // GraphicString
	0x1A: true, // VisibleString
	0x1B: true, // GeneralString
	0x1C: true, // UniversalString
	0x1D: true, // CHARACTER STRING
	0x1E: true, // BMPString
}

// Tag returns the identifier octet of e.
func (e Element) Tag() asn1.Tag {
	if len(e.raw) == 0 {
		return 0
	}
	return asn1.Tag(e.raw[0])
}

// TagName returns the human-readable label of the element's tag.
func (e Element) TagName() string { return e.Tag().Name() }

// Raw returns the full encoding of e, header included.
func (e Element) Raw() []byte { return e.raw }

// Payload returns the content octets of e.
func (e Element) Payload() []byte { return e.raw[e.headerLen:] }

// IsContainer reports whether e holds nested data values.
func (e Element) IsContainer() bool { return e.container }

//region Semantic accessors

// Bool decodes a BOOLEAN payload.
func (e Element) Bool() (bool, error) {
	if err := e.expect(asn1.TagBoolean); err != nil {
		return false, err
	}
	p := e.Payload()
	if len(p) != 1 {
		return false, fmt.Errorf("%w: BOOLEAN of length %d", asn1.ErrInvalidData, len(p))
	}
	return p[0] != 0, nil
}

// Int decodes an INTEGER or ENUMERATED payload into an int64.
func (e Element) Int() (int64, error) {
	if err := e.expect(asn1.TagInteger, asn1.TagEnumerated); err != nil {
		return 0, err
	}
	p := e.Payload()
	if len(p) == 0 {
		return 0, fmt.Errorf("%w: empty INTEGER", asn1.ErrInvalidData)
	}
	if len(p) > 8 {
		return 0, fmt.Errorf("%w: INTEGER of length %d", asn1.ErrOverflow, len(p))
	}
	v := int64(int8(p[0])) // sign extend
	for _, b := range p[1:] {
		v = v<<8 | int64(b)
	}
	return v, nil
}

// OID decodes an OBJECT IDENTIFIER payload into dotted notation.
func (e Element) OID() (string, error) {
	if err := e.expect(asn1.TagOID); err != nil {
		return "", err
	}
	oid, err := DecodeOID(e.Payload())
	if err != nil {
		return "", err
	}
	return oid.String(), nil
}

// BitString decodes a BIT STRING payload.
func (e Element) BitString() (asn1.BitString, error) {
	if err := e.expect(asn1.TagBitString); err != nil {
		return asn1.BitString{}, err
	}
	p := e.Payload()
	if len(p) == 0 {
		return asn1.BitString{}, fmt.Errorf("%w: empty BIT STRING", asn1.ErrInvalidData)
	}
	s := asn1.BitString{Bytes: p[1:], UnusedBits: p[0]}
	if !s.IsValid() {
		return asn1.BitString{}, fmt.Errorf("%w: %d unused bits", asn1.ErrInvalidData, p[0])
	}
	return s, nil
}

// Time decodes a UTCTime or GeneralizedTime payload.
func (e Element) Time() (time.Time, error) {
	if err := e.expect(asn1.TagUTCTime, asn1.TagGeneralizedTime); err != nil {
		return time.Time{}, err
	}
	return ParseTime(e.Payload())
}

// Text returns the contents of a string-valued element. The contents are
// returned as-is without alphabet validation.
func (e Element) Text() (string, error) {
	if !stringTags[e.Tag().Number()] || e.Tag().Class() != asn1.ClassUniversal {
		return "", fmt.Errorf("%w: %s is not a string tag", asn1.ErrInvalidTag, e.TagName())
	}
	return string(e.Payload()), nil
}

// expect verifies the tag of e against the given alternatives.
func (e Element) expect(tags ...asn1.Tag) error {
	for _, t := range tags {
		if e.Tag() == t {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", asn1.ErrInvalidTag, e.TagName())
}

//endregion

// Display returns a human-readable representation of the element's value.
// Object identifiers render as "name (dotted)" when a friendly name is known,
// values that do not decode render as hexadecimal content octets.
func (e Element) Display() string {
	switch e.Tag() {
	case asn1.TagBoolean:
		if v, err := e.Bool(); err == nil {
			return strconv.FormatBool(v)
		}
	case asn1.TagInteger, asn1.TagEnumerated:
		if v, err := e.Int(); err == nil {
			return strconv.FormatInt(v, 10)
		}
	case asn1.TagNull:
		return "NULL"
	case asn1.TagOID:
		if dotted, err := e.OID(); err == nil {
			if name, ok := FriendlyName(dotted); ok {
				return name + " (" + dotted + ")"
			}
			return dotted
		}
	case asn1.TagUTCTime, asn1.TagGeneralizedTime:
		if t, err := e.Time(); err == nil {
			return t.Format("2006-01-02T15:04:05.999Z07:00")
		}
	default:
		if s, err := e.Text(); err == nil {
			return s
		}
	}
	return hex.EncodeToString(e.Payload())
}

// Format renders the full encoding of e in the given textual encoding.
// [Base64] is the default.
func (e Element) Format(enc Encoding) string {
	if enc == Hex {
		return hex.EncodeToString(e.raw)
	}
	return base64.StdEncoding.EncodeToString(e.raw)
}

// appendInt appends the minimal two's-complement encoding of v.
func appendInt(dst []byte, v int64) []byte {
	n := 1
	for x := v; x > 0x7f; x >>= 8 {
		n++
	}
	for x := v; x < -0x80; x >>= 8 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>uint(i*8)))
	}
	return dst
}

// validateChildren verifies that p is a concatenation of well-formed data
// values. An empty p is valid.
func validateChildren(p []byte) error {
	for pos := 0; pos < len(p); {
		h, err := tlv.DecodeHeader(p, pos)
		if err != nil {
			return err
		}
		pos += h.FullLen()
	}
	return nil
}
