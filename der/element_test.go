// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Killers2/asn1"
	"github.com/Killers2/asn1/tlv"
)

func TestElement_constructors(t *testing.T) {
	tests := map[string]struct {
		el   func(t *testing.T) Element
		want []byte
	}{
		"Boolean": {
			func(t *testing.T) Element { return NewBoolean(true) },
			[]byte{0x01, 0x01, 0xff},
		},
		"Integer": {
			func(t *testing.T) Element { return NewInteger(-1) },
			[]byte{0x02, 0x01, 0xff},
		},
		"Enumerated": {
			func(t *testing.T) Element { return NewEnumerated(2) },
			[]byte{0x0a, 0x01, 0x02},
		},
		"Null": {
			func(t *testing.T) Element { return NewNull() },
			[]byte{0x05, 0x00},
		},
		"OctetString": {
			func(t *testing.T) Element { return NewOctetString([]byte{0xca, 0xfe}) },
			[]byte{0x04, 0x02, 0xca, 0xfe},
		},
		"UTF8String": {
			func(t *testing.T) Element { return NewUTF8String("hi") },
			[]byte{0x0c, 0x02, 0x68, 0x69},
		},
		"OID": {
			func(t *testing.T) Element {
				e, err := NewOID("1.2.840.113549.1.1.11")
				require.NoError(t, err)
				return e
			},
			[]byte{0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x0b},
		},
		"UTCTime": {
			func(t *testing.T) Element {
				e, err := NewUTCTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), nil, false)
				require.NoError(t, err)
				return e
			},
			append([]byte{0x17, 0x0d}, "240102030405Z"...),
		},
		"GeneralizedTime": {
			func(t *testing.T) Element {
				e, err := NewGeneralizedTime(time.Date(2050, 6, 15, 12, 0, 0, 250*int(time.Millisecond), time.UTC), nil, true)
				require.NoError(t, err)
				return e
			},
			append([]byte{0x18, 0x13}, "20500615120000.250Z"...),
		},
		"BitString": {
			func(t *testing.T) Element {
				e, err := NewBitString(asn1.BitString{Bytes: []byte{0xb0}, UnusedBits: 4})
				require.NoError(t, err)
				return e
			},
			[]byte{0x03, 0x02, 0x04, 0xb0},
		},
		"Sequence": {
			func(t *testing.T) Element {
				e, err := NewSequence([]byte{0x02, 0x01, 0x05})
				require.NoError(t, err)
				return e
			},
			[]byte{0x30, 0x03, 0x02, 0x01, 0x05},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := tt.el(t)
			assert.Equal(t, tt.want, e.Raw())
		})
	}
}

func TestElement_accessors(t *testing.T) {
	v, err := NewBoolean(true).Bool()
	require.NoError(t, err)
	assert.True(t, v)

	i, err := NewInteger(-32768).Int()
	require.NoError(t, err)
	assert.Equal(t, int64(-32768), i)

	i, err = NewEnumerated(300).Int()
	require.NoError(t, err)
	assert.Equal(t, int64(300), i)

	e, err := NewOID("2.5.4.3")
	require.NoError(t, err)
	dotted, err := e.OID()
	require.NoError(t, err)
	assert.Equal(t, "2.5.4.3", dotted)

	bs, err := NewOctetString(nil).BitString()
	require.ErrorIs(t, err, asn1.ErrInvalidTag)
	_ = bs

	e, err = NewBitString(asn1.BitString{Bytes: []byte{0xff}, UnusedBits: 1})
	require.NoError(t, err)
	got, err := e.BitString()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), got.UnusedBits)
	assert.Equal(t, []byte{0xff}, got.Bytes)

	e, err = NewUTCTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), nil, false)
	require.NoError(t, err)
	ts, err := e.Time()
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	s, err := NewUTF8String("héllo").Text()
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = NewInteger(1).Text()
	require.ErrorIs(t, err, asn1.ErrInvalidTag)
	_, err = NewUTF8String("x").Int()
	require.ErrorIs(t, err, asn1.ErrInvalidTag)
}

func TestElement_fromBytes(t *testing.T) {
	e, err := NewElement(asn1.TagInteger, []byte{0x02, 0x01, 0x2a})
	require.NoError(t, err)
	v, err := e.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = NewElement(asn1.TagOID, []byte{0x02, 0x01, 0x2a})
	require.ErrorIs(t, err, asn1.ErrInvalidTag)

	_, err = ParseElement([]byte{0x02, 0x05, 0x01})
	require.ErrorIs(t, err, asn1.ErrInvalidData)
}

func TestElement_fromReader(t *testing.T) {
	enc, err := NewBuilder().AddInteger(5).AddUTF8String("hi").Encoded()
	require.NoError(t, err)
	r, err := tlv.NewReader(enc)
	require.NoError(t, err)

	root := FromReader(r)
	assert.True(t, root.IsContainer())
	assert.Equal(t, asn1.TagSequence, root.Tag())

	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	e, err := ExpectFromReader(r, asn1.TagInteger)
	require.NoError(t, err)
	v, err := e.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
	assert.False(t, e.IsContainer())

	_, err = ExpectFromReader(r, asn1.TagBoolean)
	require.ErrorIs(t, err, asn1.ErrInvalidTag)
}

func TestElement_display(t *testing.T) {
	e, err := NewOID("2.5.4.3")
	require.NoError(t, err)
	assert.Equal(t, "commonName (2.5.4.3)", e.Display())

	e, err = NewOID("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", e.Display())

	assert.Equal(t, "true", NewBoolean(true).Display())
	assert.Equal(t, "-17", NewInteger(-17).Display())
	assert.Equal(t, "NULL", NewNull().Display())
	assert.Equal(t, "hello", NewUTF8String("hello").Display())
	assert.Equal(t, "cafe", NewOctetString([]byte{0xca, 0xfe}).Display())

	e, err = NewUTCTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), nil, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T03:04:05Z", e.Display())
}

func TestElement_format(t *testing.T) {
	e, err := NewElement(asn1.TagInteger, []byte{0x02, 0x01, 0x2a})
	require.NoError(t, err)
	assert.Equal(t, "AgEq", e.Format(Base64))
	assert.Equal(t, "02012a", e.Format(Hex))
}

func TestNewString(t *testing.T) {
	e, err := NewString(asn1.TagPrintableString, "ok")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x13, 0x02, 0x6f, 0x6b}, e.Raw())

	_, err = NewString(asn1.TagInteger, "nope")
	require.ErrorIs(t, err, asn1.ErrInvalidTag)
}
