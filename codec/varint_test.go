package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jam-duna/jampvm/jamerrors"
)

func TestE(t *testing.T) {
	cases := []struct {
		x   uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x80}},
		{0x3fff, []byte{0xbf, 0xff}},
		{0x4000, []byte{0xc0, 0x00, 0x40}},
		{math.MaxUint32, []byte{0xf0, 0xff, 0xff, 0xff, 0xff}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tc := range cases {
		enc := E(tc.x)
		assert.Equal(t, tc.enc, enc, "E(%d)", tc.x)
		assert.Equal(t, len(enc), EncodedLength(enc[0]))

		x, n, err := DecodeE(append(enc, 0xAA))
		require.NoError(t, err)
		assert.Equal(t, tc.x, x)
		assert.Equal(t, len(enc), n)
	}
}

func TestDecodeETruncated(t *testing.T) {
	_, _, err := DecodeE(nil)
	assert.ErrorIs(t, err, jamerrors.ErrCodecTruncated)

	_, _, err = DecodeE([]byte{0xc0, 0x00})
	assert.ErrorIs(t, err, jamerrors.ErrCodecTruncated)
}

func TestDecodeU32(t *testing.T) {
	v, n, err := DecodeU32(E(math.MaxUint32))
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), v)
	assert.Equal(t, 5, n)

	_, _, err = DecodeU32(E(math.MaxUint32 + 1))
	assert.ErrorIs(t, err, jamerrors.ErrCodecOverflow)
}

func TestE_l(t *testing.T) {
	assert.Equal(t, []byte{0x34, 0x12, 0x00}, E_l(0x1234, 3))
	assert.Equal(t, []byte{0x34}, E_l(0x1234, 1))
	assert.Equal(t, uint64(0x1234), DecodeE_l([]byte{0x34, 0x12, 0x00}))
	assert.Equal(t, uint64(0), DecodeE_l(nil))
}
