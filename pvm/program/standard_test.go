package program

import (
	"testing"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardRoundTrip(t *testing.T) {
	code, mask := sampleCode()
	inner := Encode(code, mask, []uint32{6})

	blob := EncodeStandard([]byte{1, 2, 3}, []byte{4}, 2, 0x1000, inner)
	std, err := DecodeStandard(blob)
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3}, std.ROData)
	assert.Equal(t, []byte{4}, std.RWData)
	assert.Equal(t, uint16(2), std.HeapPages)
	assert.Equal(t, uint32(0x1000), std.StackSize)
	assert.Equal(t, inner, std.Blob)
	require.NotNil(t, std.Program)
	assert.Equal(t, code, std.Program.Code())
	assert.Equal(t, []uint32{6}, std.Program.JumpTable().Entries())
}

func TestStandardErrors(t *testing.T) {
	code, mask := sampleCode()
	blob := EncodeStandard(nil, nil, 0, 0, Encode(code, mask, nil))

	_, err := DecodeStandard(blob[:5])
	assert.ErrorIs(t, err, jamerrors.ErrProgramTruncated)

	_, err = DecodeStandard(blob[:len(blob)-1])
	assert.ErrorIs(t, err, jamerrors.ErrProgramTruncated)

	_, err = DecodeStandard(append(append([]byte{}, blob...), 0))
	assert.ErrorIs(t, err, jamerrors.ErrProgramTrailingBytes)

	huge := &StandardProgram{StackSize: 0xFFFFFF}
	assert.ErrorIs(t, huge.CheckLayout(1<<32), jamerrors.ErrStandardLayout)
	assert.NoError(t, (&StandardProgram{}).CheckLayout(1<<24))
}
