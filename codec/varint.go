package codec

import (
	"fmt"

	"github.com/jam-duna/jampvm/jamerrors"
)

// E_l encodes x as l little-endian bytes. Bits above 8*l are dropped.
func E_l(x uint64, l uint32) []byte {
	encoded := make([]byte, l)
	for i := uint32(0); i < l && i < 8; i++ {
		encoded[i] = byte(x >> (8 * i))
	}
	return encoded
}

// DecodeE_l decodes a little-endian integer of len(encoded) bytes (at most 8 are significant).
func DecodeE_l(encoded []byte) uint64 {
	var x uint64
	for i := len(encoded) - 1; i >= 0; i-- {
		x = x<<8 | uint64(encoded[i])
	}
	return x
}

// E is the general natural number serialization for values up to 2^64.
// The count of leading one bits in the first byte gives the number of
// little-endian bytes that follow.
func E(x uint64) []byte {
	for l := uint32(0); l < 8; l++ {
		if x < uint64(1)<<(7*(l+1)) {
			prefix := byte(256 - (1 << (8 - l)) + int(x>>(8*l)))
			return append([]byte{prefix}, E_l(x, l)...)
		}
	}
	return append([]byte{0xff}, E_l(x, 8)...)
}

// EncodedLength returns the total byte length of an E-encoded value given its first byte.
func EncodedLength(firstByte byte) int {
	l := 0
	for l < 8 && firstByte&(0x80>>l) != 0 {
		l++
	}
	return l + 1
}

// DecodeE decodes an E-encoded natural and returns the value and the number of bytes consumed.
func DecodeE(encoded []byte) (uint64, int, error) {
	if len(encoded) == 0 {
		return 0, 0, fmt.Errorf("%w: empty varint", jamerrors.ErrCodecTruncated)
	}
	firstByte := encoded[0]
	n := EncodedLength(firstByte)
	if len(encoded) < n {
		return 0, 0, fmt.Errorf("%w: varint needs %d bytes, have %d", jamerrors.ErrCodecTruncated, n, len(encoded))
	}
	l := uint32(n - 1)
	if l == 8 {
		return DecodeE_l(encoded[1:9]), 9, nil
	}
	high := uint64(firstByte) & (uint64(1)<<(7-l) - 1)
	return high<<(8*l) | DecodeE_l(encoded[1:n]), n, nil
}

// DecodeU32 decodes an E-encoded value that must fit in 32 bits.
func DecodeU32(encoded []byte) (uint32, int, error) {
	x, n, err := DecodeE(encoded)
	if err != nil {
		return 0, 0, err
	}
	if x > 0xFFFFFFFF {
		return 0, 0, fmt.Errorf("%w: %d does not fit in 32 bits", jamerrors.ErrCodecOverflow, x)
	}
	return uint32(x), n, nil
}
