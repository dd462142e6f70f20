package memory

import (
	"errors"
	"testing"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func faultOf(t *testing.T, err error) *pvmtypes.PageFault {
	t.Helper()
	var fault *pvmtypes.PageFault
	require.True(t, errors.As(err, &fault), "expected page fault, got %v", err)
	return fault
}

func TestLoadStore(t *testing.T) {
	mem := NewBuilder().
		SetReadablePages(0x10000, 0x11000, []byte{1, 2, 3}).
		SetWriteablePages(0x20000, 0x22000, nil).
		Finalize(0x22000, 0x30000)

	buf := make([]byte, 4)
	require.NoError(t, mem.LoadInto(buf, 0x10000))
	assert.Equal(t, []byte{1, 2, 3, 0}, buf)

	// sparse writable page reads as zero
	require.NoError(t, mem.LoadInto(buf, 0x21ffc))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)

	// write across the page boundary of two writable pages
	require.NoError(t, mem.StoreFrom(0x20ffe, []byte{9, 8, 7, 6}))
	require.NoError(t, mem.LoadInto(buf, 0x20ffe))
	assert.Equal(t, []byte{9, 8, 7, 6}, buf)

	v, err := mem.LoadUint(0x20ffe, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0809), v)

	require.NoError(t, mem.StoreUint(0x20010, 8, 0x1122334455667788))
	v, err = mem.LoadUint(0x20010, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x55667788), v)

	require.NoError(t, mem.StoreFrom(0x50000, nil))
}

func TestFaults(t *testing.T) {
	mem := NewBuilder().
		SetReadablePages(0x10000, 0x11000, nil).
		SetWriteablePages(0x11000, 0x12000, nil).
		Finalize(0x12000, 0x20000)

	fault := faultOf(t, mem.StoreFrom(0x10010, []byte{1}))
	assert.Equal(t, uint32(0x10010), fault.Address)
	assert.True(t, fault.IsWrite)

	fault = faultOf(t, mem.LoadInto(make([]byte, 1), 0x5000))
	assert.Equal(t, uint32(0x5000), fault.Address)
	assert.False(t, fault.IsWrite)

	// read running off the end of mapped memory faults at the next page start
	fault = faultOf(t, mem.LoadInto(make([]byte, 8), 0x11ffc))
	assert.Equal(t, uint32(0x12000), fault.Address)
}

func TestStoreIsAllOrNothing(t *testing.T) {
	mem := NewBuilder().
		SetWriteablePages(0x10000, 0x11000, nil).
		SetReadablePages(0x11000, 0x12000, nil).
		Finalize(0x12000, 0x20000)

	fault := faultOf(t, mem.StoreFrom(0x10ffe, []byte{1, 2, 3, 4}))
	assert.Equal(t, uint32(0x11000), fault.Address)

	buf := make([]byte, 2)
	require.NoError(t, mem.LoadInto(buf, 0x10ffe))
	assert.Equal(t, []byte{0, 0}, buf)
}

func TestAddressWraps(t *testing.T) {
	mem := New()
	require.NoError(t, mem.SetPageState(TotalPages-1, 1, Writable))
	require.NoError(t, mem.SetPageState(0, 1, Writable))

	require.NoError(t, mem.StoreFrom(0xFFFFFFFE, []byte{1, 2, 3, 4}))
	buf := make([]byte, 2)
	require.NoError(t, mem.LoadInto(buf, 0))
	assert.Equal(t, []byte{3, 4}, buf)

	require.NoError(t, mem.SetPageState(0, 1, Unmapped))
	fault := faultOf(t, mem.StoreFrom(0xFFFFFFFE, []byte{1, 2, 3, 4}))
	assert.Equal(t, uint32(0), fault.Address)
}

func TestSbrk(t *testing.T) {
	mem := NewBuilder().
		SetWriteablePages(0x10000, 0x11000, nil).
		Finalize(0x11000, 0x20000)

	prev, err := mem.Sbrk(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11000), prev)
	assert.Equal(t, Unmapped, mem.PageState(0x11))

	prev, err = mem.Sbrk(PageSize)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11000), prev)
	assert.Equal(t, uint32(0x12000), mem.HeapPointer())
	assert.Equal(t, Writable, mem.PageState(0x11))

	require.NoError(t, mem.StoreFrom(0x11000, []byte{1, 2, 3, 4}))
	fault := faultOf(t, mem.StoreFrom(0x12000, []byte{1, 2, 3, 4}))
	assert.Equal(t, uint32(0x12000), fault.Address)

	// unaligned growth maps the partially covered page
	prev, err = mem.Sbrk(10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12000), prev)
	assert.Equal(t, uint32(0x1200a), mem.HeapPointer())
	assert.Equal(t, Writable, mem.PageState(0x12))

	_, err = mem.Sbrk(0x10000)
	assert.ErrorIs(t, err, jamerrors.ErrHeapExhausted)
	assert.Equal(t, uint32(0x1200a), mem.HeapPointer())
}

func TestGetMemoryPage(t *testing.T) {
	mem := NewBuilder().
		SetWriteablePages(0x10000, 0x12000, []byte{0xAA}).
		Finalize(0x12000, 0x20000)

	assert.Nil(t, mem.GetMemoryPage(0x30))
	pg := mem.GetMemoryPage(0x10)
	require.Len(t, pg, PageSize)
	assert.Equal(t, byte(0xAA), pg[0])
	assert.Equal(t, make([]byte, PageSize), mem.GetMemoryPage(0x11))
	assert.Equal(t, []uint32{0x10, 0x11}, mem.MappedPages())

	// the dump is a copy
	pg[0] = 0
	assert.Equal(t, byte(0xAA), mem.GetMemoryPage(0x10)[0])
}

func TestSetPageState(t *testing.T) {
	mem := New()
	require.NoError(t, mem.SetPageState(0x10, 2, Writable))
	require.NoError(t, mem.StoreFrom(0x10000, []byte{1}))
	require.NoError(t, mem.SetPageState(0x10, 1, Readable))
	assert.Error(t, mem.StoreFrom(0x10000, []byte{1}))

	require.NoError(t, mem.SetPageState(0x10, 1, Unmapped))
	assert.Nil(t, mem.GetMemoryPage(0x10))
	assert.Error(t, mem.SetPageState(TotalPages-1, 2, Writable))
}

func TestClone(t *testing.T) {
	mem := NewBuilder().SetWriteablePages(0x10000, 0x11000, []byte{1}).Finalize(0x11000, 0x20000)
	c := mem.Clone()
	require.NoError(t, c.StoreFrom(0x10000, []byte{2}))
	assert.Equal(t, byte(1), mem.GetMemoryPage(0x10)[0])
	assert.Equal(t, byte(2), c.GetMemoryPage(0x10)[0])
	assert.Equal(t, mem.HeapPointer(), c.HeapPointer())
}

func TestBuilderRejectsUnalignedRanges(t *testing.T) {
	assert.Panics(t, func() { NewBuilder().SetReadablePages(0x10001, 0x11000, nil) })
	assert.Panics(t, func() { NewBuilder().SetWriteablePages(0x10000, 0x11000, make([]byte, PageSize+1)) })
	assert.Panics(t, func() { NewBuilder().Finalize(0x2000, 0x1000) })
}

func TestNewStandard(t *testing.T) {
	code, mask := program.BuildCode([]byte{program.TRAP})
	inner := program.Encode(code, mask, nil)
	std, err := program.DecodeStandard(program.EncodeStandard([]byte{1, 2}, []byte{3}, 1, 0x2000, inner))
	require.NoError(t, err)

	mem, regs, err := NewStandard(std, []byte{7, 7, 7})
	require.NoError(t, err)

	assert.Equal(t, uint64(0xFFFF0000), regs[0])
	assert.Equal(t, uint64(StackTop), regs[1])
	assert.Equal(t, uint64(ArgsStart), regs[7])
	assert.Equal(t, uint64(3), regs[8])

	assert.Equal(t, Readable, mem.PageState(ROStart/PageSize))
	ro := make([]byte, 2)
	require.NoError(t, mem.LoadInto(ro, ROStart))
	assert.Equal(t, []byte{1, 2}, ro)

	rwStart := uint32(2*pvmtypes.Z_Z + pvmtypes.Z_Z)
	assert.Equal(t, Writable, mem.PageState(rwStart/PageSize))
	assert.Equal(t, Writable, mem.PageState(rwStart/PageSize+1))
	assert.Equal(t, rwStart+2*PageSize, mem.HeapPointer())

	assert.Equal(t, Writable, mem.PageState(StackTop/PageSize-1))
	assert.Equal(t, Writable, mem.PageState(StackTop/PageSize-2))
	assert.Equal(t, Unmapped, mem.PageState(StackTop/PageSize-3))
	assert.Equal(t, Unmapped, mem.PageState(StackTop/PageSize))

	args := make([]byte, 3)
	require.NoError(t, mem.LoadInto(args, ArgsStart))
	assert.Equal(t, []byte{7, 7, 7}, args)
	assert.Error(t, mem.StoreFrom(ArgsStart, []byte{0}))
}
