// Package memory implements the PVM's paged 32-bit address space.
package memory

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

const (
	PageSize     = pvmtypes.Z_P
	AddressSpace = uint64(1) << 32
	TotalPages   = uint32(AddressSpace / PageSize)

	// MaxHeapEnd is the default heap limit for memories built without a
	// standard layout.
	MaxHeapEnd = uint32(pvmtypes.HaltAddress)
)

// PageState is the access mode of one page.
type PageState uint8

const (
	Unmapped PageState = iota
	Readable
	Writable
)

func (s PageState) String() string {
	switch s {
	case Readable:
		return "readable"
	case Writable:
		return "writable"
	default:
		return "unmapped"
	}
}

type page struct {
	state PageState
	data  []byte // nil until first written
}

func (p *page) ensureData() []byte {
	if p.data == nil {
		p.data = make([]byte, PageSize)
	}
	return p.data
}

// Memory is the address space of one machine. Pages absent from the table
// are unmapped.
type Memory struct {
	pages       map[uint32]*page
	heapPointer uint32
	heapEnd     uint32
}

// New returns an empty memory with every page unmapped.
func New() *Memory {
	return &Memory{pages: make(map[uint32]*page), heapEnd: MaxHeapEnd}
}

func pageIndex(addr uint32) uint32 { return addr / PageSize }

// PageState returns the access mode of page n.
func (m *Memory) PageState(n uint32) PageState {
	if p, ok := m.pages[n]; ok {
		return p.state
	}
	return Unmapped
}

// HeapPointer is the current sbrk boundary.
func (m *Memory) HeapPointer() uint32 { return m.heapPointer }

// HeapEnd is the address the heap may not grow past.
func (m *Memory) HeapEnd() uint32 { return m.heapEnd }

// check walks the pages covered by [addr, addr+n) in address order, wrapping
// at 2^32, and returns a fault for the first page that does not allow the access.
func (m *Memory) check(addr uint32, n int, write bool) error {
	if n == 0 {
		return nil
	}
	cur := addr
	remaining := uint64(n)
	for remaining > 0 {
		p := m.pages[pageIndex(cur)]
		if p == nil || p.state == Unmapped || (write && p.state != Writable) {
			return &pvmtypes.PageFault{Address: cur, IsWrite: write}
		}
		step := uint64(PageSize - cur%PageSize)
		if step > remaining {
			step = remaining
		}
		cur += uint32(step)
		remaining -= step
	}
	return nil
}

// StoreFrom writes data at addr. The whole range is validated before any
// byte is written; on failure the error is a *pvmtypes.PageFault.
func (m *Memory) StoreFrom(addr uint32, data []byte) error {
	if err := m.check(addr, len(data), true); err != nil {
		log.Trace(log.MemoryModule, "store fault", "addr", fmt.Sprintf("0x%x", addr), "len", len(data))
		return err
	}
	cur := addr
	for len(data) > 0 {
		buf := m.pages[pageIndex(cur)].ensureData()
		off := cur % PageSize
		k := copy(buf[off:], data)
		data = data[k:]
		cur += uint32(k)
	}
	return nil
}

// LoadInto fills buf from addr. Mapped pages that were never written read
// as zero. On failure buf is left untouched and the error is a *pvmtypes.PageFault.
func (m *Memory) LoadInto(buf []byte, addr uint32) error {
	if err := m.check(addr, len(buf), false); err != nil {
		log.Trace(log.MemoryModule, "load fault", "addr", fmt.Sprintf("0x%x", addr), "len", len(buf))
		return err
	}
	cur := addr
	for len(buf) > 0 {
		p := m.pages[pageIndex(cur)]
		off := cur % PageSize
		var k int
		if p.data == nil {
			k = min(len(buf), int(PageSize-off))
			clear(buf[:k])
		} else {
			k = copy(buf, p.data[off:])
		}
		buf = buf[k:]
		cur += uint32(k)
	}
	return nil
}

// LoadUint reads a little-endian value of size 1, 2, 4 or 8 bytes.
func (m *Memory) LoadUint(addr uint32, size int) (uint64, error) {
	var raw [8]byte
	if err := m.LoadInto(raw[:size], addr); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw[:]), nil
}

// StoreUint writes the low size bytes of v little-endian.
func (m *Memory) StoreUint(addr uint32, size int, v uint64) error {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], v)
	return m.StoreFrom(addr, raw[:size])
}

// Sbrk advances the heap pointer by n bytes and returns its previous value.
// Pages up to the page-aligned new pointer become writable.
func (m *Memory) Sbrk(n uint32) (uint32, error) {
	prev := m.heapPointer
	if n == 0 {
		return prev, nil
	}
	next := uint64(prev) + uint64(n)
	if next > uint64(m.heapEnd) {
		log.Debug(log.MemoryModule, "sbrk exhausted", "heap", prev, "grow", n, "limit", m.heapEnd)
		return 0, fmt.Errorf("%w: 0x%x + %d exceeds 0x%x", jamerrors.ErrHeapExhausted, prev, n, m.heapEnd)
	}
	first := pageIndex(prev)
	last := uint32(pvmtypes.CeilingDivide(next, PageSize))
	for idx := first; idx < last; idx++ {
		m.mapPage(idx, Writable)
	}
	m.heapPointer = uint32(next)
	log.Debug(log.MemoryModule, "sbrk", "prev", prev, "next", m.heapPointer)
	return prev, nil
}

func (m *Memory) mapPage(idx uint32, state PageState) {
	p, ok := m.pages[idx]
	if !ok {
		m.pages[idx] = &page{state: state}
		return
	}
	if state > p.state {
		p.state = state
	}
}

// SetPageState changes the access mode of count pages starting at page
// start. Unmapping a page discards its contents.
func (m *Memory) SetPageState(start, count uint32, state PageState) error {
	if uint64(start)+uint64(count) > uint64(TotalPages) {
		return &pvmtypes.PageFault{Address: start * PageSize}
	}
	for idx := start; idx < start+count; idx++ {
		if state == Unmapped {
			delete(m.pages, idx)
			continue
		}
		if p, ok := m.pages[idx]; ok {
			p.state = state
		} else {
			m.pages[idx] = &page{state: state}
		}
	}
	return nil
}

// GetMemoryPage returns a copy of page n, or nil when the page is unmapped.
// Mapped pages that were never written come back zeroed.
func (m *Memory) GetMemoryPage(n uint32) []byte {
	p, ok := m.pages[n]
	if !ok {
		return nil
	}
	out := make([]byte, PageSize)
	copy(out, p.data)
	return out
}

// MappedPages lists the mapped page numbers in ascending order.
func (m *Memory) MappedPages() []uint32 {
	out := make([]uint32, 0, len(m.pages))
	for idx := range m.pages {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a deep copy.
func (m *Memory) Clone() *Memory {
	c := &Memory{
		pages:       make(map[uint32]*page, len(m.pages)),
		heapPointer: m.heapPointer,
		heapEnd:     m.heapEnd,
	}
	for idx, p := range m.pages {
		np := &page{state: p.state}
		if p.data != nil {
			np.data = append([]byte(nil), p.data...)
		}
		c.pages[idx] = np
	}
	return c
}
