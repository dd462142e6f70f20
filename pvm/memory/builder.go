package memory

import (
	"fmt"

	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// Builder assembles the initial page map of a Memory.
type Builder struct {
	mem *Memory
}

func NewBuilder() *Builder {
	return &Builder{mem: New()}
}

// SetReadablePages maps [start, end) read-only and copies data to start.
// Both bounds must be page aligned and data must fit in the range.
func (b *Builder) SetReadablePages(start, end uint32, data []byte) *Builder {
	b.setPages(start, end, data, Readable)
	return b
}

// SetWriteablePages maps [start, end) writable and copies data to start.
func (b *Builder) SetWriteablePages(start, end uint32, data []byte) *Builder {
	b.setPages(start, end, data, Writable)
	return b
}

func (b *Builder) setPages(start, end uint32, data []byte, state PageState) {
	if start%PageSize != 0 || end%PageSize != 0 {
		panic(fmt.Sprintf("memory: range [0x%x, 0x%x) is not page aligned", start, end))
	}
	if end < start || uint64(len(data)) > uint64(end-start) {
		panic(fmt.Sprintf("memory: %d bytes do not fit in [0x%x, 0x%x)", len(data), start, end))
	}
	for idx := pageIndex(start); idx < pageIndex(end); idx++ {
		p := &page{state: state}
		off := uint64(idx-pageIndex(start)) * PageSize
		if off < uint64(len(data)) {
			p.data = make([]byte, PageSize)
			copy(p.data, data[off:])
		}
		b.mem.pages[idx] = p
	}
}

// Finalize sets the heap pointer and limit and returns the memory. The
// builder must not be used afterwards.
func (b *Builder) Finalize(heapStart, heapEnd uint32) *Memory {
	if heapEnd < heapStart {
		panic(fmt.Sprintf("memory: heap end 0x%x below start 0x%x", heapEnd, heapStart))
	}
	m := b.mem
	m.heapPointer = heapStart
	m.heapEnd = heapEnd
	b.mem = nil
	return m
}

// Standard layout addresses.
const (
	ROStart   = pvmtypes.Z_Z
	StackTop  = uint32(AddressSpace - 2*pvmtypes.Z_Z - pvmtypes.Z_I)
	ArgsStart = uint32(AddressSpace - pvmtypes.Z_Z - pvmtypes.Z_I)
)

// NewStandard lays out a standard program's memory: read-only data at Z_Z,
// read-write data and heap pages one zone after it, the stack below the
// argument zone and the arguments at the top. It returns the memory and
// the initial register values.
func NewStandard(std *program.StandardProgram, args []byte) (*Memory, [pvmtypes.NumRegisters]uint64, error) {
	var regs [pvmtypes.NumRegisters]uint64
	if err := std.CheckLayout(pvmtypes.Z_I); err != nil {
		return nil, regs, err
	}
	if uint64(len(args)) > pvmtypes.Z_I {
		return nil, regs, fmt.Errorf("argument data of %d bytes exceeds %d", len(args), pvmtypes.Z_I)
	}

	oLen := uint64(len(std.ROData))
	wLen := uint64(len(std.RWData))
	rwStart := 2*pvmtypes.Z_Z + pvmtypes.ZFunc(oLen)
	heapStart := rwStart + pvmtypes.PFunc(wLen) + uint64(std.HeapPages)*PageSize
	stackBottom := uint64(StackTop) - pvmtypes.PFunc(uint64(std.StackSize))

	b := NewBuilder()
	if oLen > 0 {
		b.SetReadablePages(ROStart, uint32(ROStart+pvmtypes.PFunc(oLen)), std.ROData)
	}
	if heapStart > rwStart {
		b.SetWriteablePages(uint32(rwStart), uint32(heapStart), std.RWData)
	}
	if stackBottom < uint64(StackTop) {
		b.SetWriteablePages(uint32(stackBottom), StackTop, nil)
	}
	if len(args) > 0 {
		b.SetReadablePages(ArgsStart, uint32(uint64(ArgsStart)+pvmtypes.PFunc(uint64(len(args)))), args)
	}
	// the heap may grow up to one zone below the stack
	mem := b.Finalize(uint32(heapStart), uint32(stackBottom-pvmtypes.Z_Z))

	regs[0] = pvmtypes.HaltAddress
	regs[1] = uint64(StackTop)
	regs[7] = uint64(ArgsStart)
	regs[8] = uint64(len(args))
	return mem, regs, nil
}
