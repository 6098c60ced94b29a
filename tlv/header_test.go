package tlv

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Killers2/asn1"
)

func TestAppendLength(t *testing.T) {
	tests := map[string]struct {
		length int
		want   []byte
	}{
		"Zero":       {0, []byte{0x00}},
		"ShortMax":   {127, []byte{0x7f}},
		"LongMin":    {128, []byte{0x81, 0x80}},
		"OneByte":    {201, []byte{0x81, 0xc9}},
		"TwoBytes":   {746, []byte{0x82, 0x02, 0xea}},
		"ThreeBytes": {1 << 16, []byte{0x83, 0x01, 0x00, 0x00}},
		"FourBytes":  {1 << 24, []byte{0x84, 0x01, 0x00, 0x00, 0x00}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := AppendLength(nil, tt.length)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), LengthSize(tt.length))
		})
	}
}

func Test_decodeLength(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    int
		wantN   int
		wantErr error
	}{
		"Short":         {[]byte{0x05}, 5, 1, nil},
		"LongOneZero":   {[]byte{0x81, 0x00}, 0, 2, nil},
		"LongOne":       {[]byte{0x81, 0xff}, 255, 2, nil},
		"LongTwo":       {[]byte{0x82, 0x02, 0xea}, 746, 3, nil},
		"LongFourMax":   {[]byte{0x84, 0xff, 0xff, 0xff, 0xff}, 0xffffffff, 5, nil},
		"FiveOctets":    {[]byte{0x85, 0x01, 0x00, 0x00, 0x00, 0x00}, 0, 0, asn1.ErrOverflow},
		"Indefinite":    {[]byte{0x80}, 0, 0, asn1.ErrInvalidData},
		"Missing":       {nil, 0, 0, asn1.ErrInvalidData},
		"TruncatedLong": {[]byte{0x82, 0x02}, 0, 0, asn1.ErrInvalidData},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, n, err := decodeLength(tt.data, 0)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    Header
		wantErr error
	}{
		"Integer":     {[]byte{0x02, 0x01, 0x05}, Header{asn1.TagInteger, 1, 2}, nil},
		"Sequence":    {[]byte{0x30, 0x03, 0x02, 0x01, 0x05}, Header{asn1.TagSequence, 3, 2}, nil},
		"LongForm":    {append([]byte{0x04, 0x81, 0x80}, make([]byte, 128)...), Header{asn1.TagOctetString, 128, 3}, nil},
		"ReservedTag": {[]byte{0x00, 0x00}, Header{}, asn1.ErrInvalidTag},
		"HighTagForm": {[]byte{0x1f, 0x81, 0x2d, 0x00}, Header{}, asn1.ErrInvalidData},
		"TooShort":    {[]byte{0x02}, Header{}, asn1.ErrInvalidData},
		"PastBuffer":  {[]byte{0x02, 0x05, 0x01}, Header{}, asn1.ErrInvalidData},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeHeader(tt.data, 0)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Length+tt.want.HeaderLen, got.FullLen())
		})
	}
}

func TestAppend(t *testing.T) {
	got := Append(nil, asn1.TagInteger, []byte{0x05})
	assert.Equal(t, []byte{0x02, 0x01, 0x05}, got)

	// header round trip for a payload needing the long form
	payload := bytes.Repeat([]byte{0xab}, 300)
	enc := Append(nil, asn1.TagOctetString, payload)
	h, err := DecodeHeader(enc, 0)
	require.NoError(t, err)
	assert.Equal(t, asn1.TagOctetString, h.Tag)
	assert.Equal(t, 300, h.Length)
	assert.Equal(t, len(enc), h.FullLen())
	assert.Equal(t, payload, enc[h.HeaderLen:])
}
