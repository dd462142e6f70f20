package programstore

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/pvm/program"
)

func testBlob(op byte) []byte {
	code, mask := program.BuildCode([]byte{program.LOAD_IMM, 0x00, op}, []byte{program.TRAP})
	return program.Encode(code, mask, nil)
}

func TestPutGet(t *testing.T) {
	s, err := Open("", 4)
	require.NoError(t, err)
	defer s.Close()

	blob := testBlob(1)
	h, err := s.Put(blob)
	require.NoError(t, err)
	assert.Equal(t, Hash(blob), h)

	ok, err := s.Has(h)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Get(h)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	_, err = s.Get(common.Hash{})
	assert.ErrorIs(t, err, jamerrors.ErrProgramNotFound)
}

func TestProgramIsShared(t *testing.T) {
	s, err := Open("", 4)
	require.NoError(t, err)
	defer s.Close()

	h, err := s.Put(testBlob(2))
	require.NoError(t, err)
	p1, err := s.Program(h)
	require.NoError(t, err)
	p2, err := s.Program(h)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, 1, s.Cached())
	assert.True(t, p1.IsInstruction(3))

	require.NoError(t, s.Delete(h))
	assert.Equal(t, 0, s.Cached())
	_, err = s.Program(h)
	assert.ErrorIs(t, err, jamerrors.ErrProgramNotFound)
}

func TestProgramDecodeError(t *testing.T) {
	s, err := Open("", 4)
	require.NoError(t, err)
	defer s.Close()

	h, err := s.Put([]byte{0x00, 0x00, 0x05, 0x01})
	require.NoError(t, err)
	_, err = s.Program(h)
	assert.ErrorIs(t, err, jamerrors.ErrProgramTruncated)
	assert.Equal(t, 0, s.Cached())
}

func TestStandard(t *testing.T) {
	s, err := Open("", 4)
	require.NoError(t, err)
	defer s.Close()

	blob := program.EncodeStandard([]byte{1, 2}, []byte{3}, 1, 4096, testBlob(3))
	h, err := s.Put(blob)
	require.NoError(t, err)
	std, err := s.Standard(h)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, std.ROData)
	assert.Equal(t, uint16(1), std.HeapPages)

	again, err := s.Standard(h)
	require.NoError(t, err)
	assert.Same(t, std, again)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 4)
	require.NoError(t, err)
	a, err := s.Put(testBlob(4))
	require.NoError(t, err)
	b, err := s.Put(testBlob(5))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(a)
	assert.ErrorIs(t, err, jamerrors.ErrStoreClosed)

	s, err = Open(dir, 4)
	require.NoError(t, err)
	defer s.Close()
	hashes, err := s.Hashes()
	require.NoError(t, err)
	assert.ElementsMatch(t, []common.Hash{a, b}, hashes)

	p, err := s.Program(b)
	require.NoError(t, err)
	assert.Equal(t, byte(5), p.Code()[2])
}

func TestCacheEviction(t *testing.T) {
	s, err := Open("", 2)
	require.NoError(t, err)
	defer s.Close()

	for i := byte(0); i < 5; i++ {
		h, err := s.Put(testBlob(i))
		require.NoError(t, err)
		_, err = s.Program(h)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.Cached())
}
