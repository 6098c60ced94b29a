package tlv

import (
	"fmt"

	"github.com/Killers2/asn1"
)

// level records the byte boundaries of a sibling chain. Every node whose
// offset maps to a level lies in [start, end) together with all its siblings.
type level struct {
	start, end int
}

// restricted lists the universal tag numbers that are never subject to
// opportunistic descent. These are the scalar types whose payloads can easily
// resemble nested TLVs, all string-valued types and the two time types.
var restricted = map[uint8]bool{
	0x01: true, // BOOLEAN
	0x02: true, // INTEGER
	0x05: true, // NULL
	0x06: true, // OBJECT IDENTIFIER
	0x07: true, // ObjectDescriptor
	0x09: true, // REAL
	0x0A: true, // ENUMERATED
	0x0C: true, // UTF8String
	0x0D: true, // RELATIVE-OID
	0x12: true, // NumericString
	0x13: true, // PrintableString
	0x14: true, // TeletexString
	0x15: true, // VideotexString
	0x16: true, // IA5String
	0x17: true, // UTCTime
	0x18: true, // GeneralizedTime
	0x19: true, // GraphicString
	0x1A: true, // VisibleString
	0x1B: true, // GeneralString
	0x1C: true, // UniversalString
	0x1D: true, // CHARACTER STRING
	0x1E: true, // BMPString
}

// Reader is a stateful cursor over a fully buffered DER encoding. It exposes
// the data value under the cursor as an immutable set of node attributes and
// navigates the encoding as a tree: constructed values are descended into,
// primitive values are stepped past.
//
// The reader owns its backing buffer logically; the buffer must outlive the
// reader and must not be mutated while the reader is in use. Accessor methods
// return subslices of the backing buffer without copying.
//
// A Reader maintains an offset map recording, for every position it has
// discovered, the byte boundaries of the enclosing sibling chain. The map
// grows monotonically as nodes are visited and enables [Reader.Seek] to jump
// to any previously discovered position. A Reader is not safe for concurrent
// use; callers that need concurrent traversal must create independent readers.
type Reader struct {
	buf     []byte
	offsets map[int]level

	// attributes of the node under the cursor
	off         int
	tag         asn1.Tag
	headerLen   int
	payloadLen  int
	constructed bool
	nextOff     int
	nextSibling int
}

// NewReader creates a Reader over buf and positions the cursor on the node at
// offset 0. If buf is longer than the root node's encoding, the reader
// truncates its view of buf to exactly that encoding. Construction fails if
// buf holds no well-formed node at offset 0.
func NewReader(buf []byte) (*Reader, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: buffer", asn1.ErrNilArgument)
	}
	if len(buf) < 2 {
		return nil, &SyntaxError{Err: fmt.Errorf("%w: buffer too short", asn1.ErrInvalidData)}
	}
	r := &Reader{
		buf:     buf,
		offsets: map[int]level{0: {0, len(buf)}},
	}
	if err := r.decodeAt(0); err != nil {
		return nil, err
	}
	return r, nil
}

// decodeAt positions the cursor on the node starting at off and populates the
// node attributes. off must be present in the offset map.
func (r *Reader) decodeAt(off int) error {
	lvl, ok := r.offsets[off]
	if !ok {
		return fmt.Errorf("%w: offset %d was never visited", asn1.ErrInvalidData, off)
	}
	h, err := DecodeHeader(r.buf, off)
	if err != nil {
		return &SyntaxError{Err: err, ByteOffset: off}
	}

	if off == 0 && h.FullLen() < len(r.buf) {
		// The supplied buffer extends past the root node. Truncate the
		// backing buffer so that offsets beyond the root are unreachable.
		r.buf = r.buf[:h.FullLen()]
		lvl = level{0, len(r.buf)}
		r.offsets[0] = lvl
	}

	r.off = off
	r.tag = h.Tag
	r.headerLen = h.HeaderLen
	r.payloadLen = h.Length
	r.constructed = h.Tag.Constructed()

	payloadOff := off + h.HeaderLen
	end := off + h.FullLen()

	if h.Length > 0 {
		if r.constructed {
			r.descend(payloadOff, h.Length, h.Tag)
		} else if h.Tag.Class() == asn1.ClassUniversal && !restricted[h.Tag.Number()] {
			// Opportunistic descent: certain primitive tags, notably
			// OCTET STRING and BIT STRING, commonly wrap another DER
			// value. Only a payload that decodes as exactly one
			// well-formed child is treated as constructed.
			start, n := contentRange(payloadOff, h.Length, h.Tag)
			if n > 0 && coversAsSingleNode(r.buf, start, n) {
				r.constructed = true
				r.descend(payloadOff, h.Length, h.Tag)
			}
		}
	}

	r.nextOff = 0
	if start, n := contentRange(payloadOff, h.Length, h.Tag); r.constructed && n > 0 {
		r.nextOff = start
	} else if end < len(r.buf) {
		r.nextOff = end
	}

	if end < lvl.end {
		r.nextSibling = end
		r.offsets[end] = lvl
	} else {
		r.nextSibling = 0
	}
	return nil
}

// descend records the level boundaries for the children of the constructed
// node whose payload starts at payloadOff.
func (r *Reader) descend(payloadOff, payloadLen int, tag asn1.Tag) {
	start, n := contentRange(payloadOff, payloadLen, tag)
	if n <= 0 {
		return
	}
	r.offsets[start] = level{start, payloadOff + payloadLen}
}

// contentRange returns the range of payload bytes holding nested nodes. For a
// universal BIT STRING the first payload octet carries the unused-bit count
// and is skipped. The check includes the class: a context-specific [3] tag
// shares the tag number but carries no unused-bits octet.
func contentRange(payloadOff, payloadLen int, tag asn1.Tag) (start, n int) {
	if tag.Class() == asn1.ClassUniversal && tag.Number() == asn1.TagBitString.Number() {
		return payloadOff + 1, payloadLen - 1
	}
	return payloadOff, payloadLen
}

// coversAsSingleNode reports whether buf[start:start+n] decodes as exactly one
// well-formed TLV node. Candidate headers are walked forward, each one subject
// to the reserved-tag and length-octet rules, until their accumulated size
// reaches or exceeds n.
func coversAsSingleNode(buf []byte, start, n int) bool {
	bound := buf[:start+n]
	sum, count := 0, 0
	for sum < n {
		h, err := DecodeHeader(bound, start+sum)
		if err != nil {
			return false
		}
		sum += h.FullLen()
		count++
	}
	return sum == n && count == 1
}

// Next advances the cursor in tree-walk order: it descends into the payload of
// a constructed node and steps past a primitive one. It returns false when the
// walk is exhausted. A non-nil error indicates malformed bytes at the next
// position; the cursor is left unchanged in that case.
func (r *Reader) Next() (bool, error) {
	if r.nextOff == 0 {
		return false, nil
	}
	if err := r.decodeAt(r.nextOff); err != nil {
		return false, err
	}
	return true, nil
}

// NextSibling advances the cursor to the next node of the current sibling
// chain. It returns false at the end of the level.
func (r *Reader) NextSibling() (bool, error) {
	if r.nextSibling == 0 {
		return false, nil
	}
	if err := r.decodeAt(r.nextSibling); err != nil {
		return false, err
	}
	return true, nil
}

// Seek positions the cursor on the node at the given offset. The offset must
// have been discovered by a previous traversal.
func (r *Reader) Seek(offset int) error {
	if _, ok := r.offsets[offset]; !ok {
		return fmt.Errorf("%w: offset %d was never visited", asn1.ErrInvalidData, offset)
	}
	return r.decodeAt(offset)
}

// Reset positions the cursor back on the root node.
func (r *Reader) Reset() {
	if err := r.decodeAt(0); err != nil {
		// offset 0 was decoded during construction and the buffer is
		// immutable, so this cannot happen
		panic("tlv: " + err.Error())
	}
}

// BuildOffsetMap exhaustively walks the tree, populating the offset map for
// every reachable node, and returns the total node count. It is idempotent and
// leaves the cursor on the root node.
func (r *Reader) BuildOffsetMap() (int, error) {
	r.Reset()
	n := 1
	for {
		ok, err := r.Next()
		if err != nil {
			return n, err
		}
		if !ok {
			break
		}
		n++
	}
	r.Reset()
	return n, nil
}

// Expect verifies that the tag under the cursor is one of the expected tags.
func (r *Reader) Expect(tags ...asn1.Tag) error {
	for _, t := range tags {
		if r.tag == t {
			return nil
		}
	}
	return fmt.Errorf("%w: %s at offset %d", asn1.ErrInvalidTag, r.tag.Name(), r.off)
}

// Tag returns the identifier octet of the current node.
func (r *Reader) Tag() asn1.Tag { return r.tag }

// TagName returns the human-readable label of the current node's tag.
func (r *Reader) TagName() string { return r.tag.Name() }

// Offset returns the start of the current node within the backing buffer.
func (r *Reader) Offset() int { return r.off }

// HeaderLen returns the number of identifier and length octets of the current
// node.
func (r *Reader) HeaderLen() int { return r.headerLen }

// PayloadOffset returns the offset of the first content octet of the current
// node.
func (r *Reader) PayloadOffset() int { return r.off + r.headerLen }

// PayloadLen returns the number of content octets of the current node.
func (r *Reader) PayloadLen() int { return r.payloadLen }

// FullLen returns the total encoded size of the current node.
func (r *Reader) FullLen() int { return r.headerLen + r.payloadLen }

// Constructed reports whether the current node holds nested nodes, either
// structurally or by opportunistic descent.
func (r *Reader) Constructed() bool { return r.constructed }

// NextOffset returns the offset of the next node in tree-walk order, 0 at the
// end of the walk.
func (r *Reader) NextOffset() int { return r.nextOff }

// NextSiblingOffset returns the offset of the next node of the current sibling
// chain, 0 at the end of the level.
func (r *Reader) NextSiblingOffset() int { return r.nextSibling }

// Len returns the size of the backing buffer as seen by the reader. This may
// be smaller than the supplied buffer if the root node did not span it
// entirely.
func (r *Reader) Len() int { return len(r.buf) }

// Header returns the identifier and length octets of the current node. The
// returned slice borrows from the backing buffer.
func (r *Reader) Header() []byte {
	return r.buf[r.off : r.off+r.headerLen : r.off+r.headerLen]
}

// Payload returns the content octets of the current node. The returned slice
// borrows from the backing buffer.
func (r *Reader) Payload() []byte {
	off := r.off + r.headerLen
	return r.buf[off : off+r.payloadLen : off+r.payloadLen]
}

// Raw returns the full encoding of the current node, header included. The
// returned slice borrows from the backing buffer.
func (r *Reader) Raw() []byte {
	return r.buf[r.off : r.off+r.FullLen() : r.off+r.FullLen()]
}
