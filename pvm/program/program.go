package program

import (
	"errors"
	"fmt"
	"math"

	"github.com/jam-duna/jampvm/codec"
	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// Program is a decoded program blob. It is immutable after construction and
// may be shared read-only between any number of machines.
type Program struct {
	code      []byte
	mask      Mask
	jumpTable JumpTable

	// derived at construction
	skips       []uint8
	blockStarts []bool
}

// NewProgram builds a Program from its parts. The mask is truncated or
// zero-extended to len(code).
func NewProgram(code []byte, mask Mask, jumpTable []uint32) *Program {
	p := &Program{
		code:      code,
		mask:      mask.resize(uint32(len(code))),
		jumpTable: JumpTable{entries: jumpTable},
	}
	p.analyze()
	return p
}

func (p *Program) Code() []byte         { return p.code }
func (p *Program) Mask() Mask           { return p.mask }
func (p *Program) JumpTable() JumpTable { return p.jumpTable }

// IsInstruction reports whether pc is an instruction boundary.
func (p *Program) IsInstruction(pc uint32) bool {
	return p.mask.IsInstruction(pc)
}

// Skip returns the number of operand bytes of the instruction at pc.
func (p *Program) Skip(pc uint32) uint32 {
	if pc >= uint32(len(p.skips)) {
		return 0
	}
	return uint32(p.skips[pc])
}

// Opcode returns the opcode byte at pc, or TRAP when pc is past the code.
func (p *Program) Opcode(pc uint32) byte {
	if pc >= uint32(len(p.code)) {
		return TRAP
	}
	return p.code[pc]
}

// IsBeginningOfBasicBlock reports whether pc is a valid static or dynamic jump target.
func (p *Program) IsBeginningOfBasicBlock(pc uint32) bool {
	return pc < uint32(len(p.blockStarts)) && p.blockStarts[pc]
}

func (p *Program) analyze() {
	n := uint32(len(p.code))
	p.skips = make([]uint8, n)
	// Bits past the end of the code count as set.
	next := n
	for i := int64(n) - 1; i >= 0; i-- {
		d := next - uint32(i) - 1
		if d > pvmtypes.MaxSkip {
			d = pvmtypes.MaxSkip
		}
		p.skips[i] = uint8(d)
		if p.mask.IsInstruction(uint32(i)) {
			next = uint32(i)
		}
	}

	p.blockStarts = make([]bool, n)
	if n == 0 {
		return
	}
	p.blockStarts[0] = true
	for pc := uint32(0); pc < n; pc++ {
		if !p.mask.IsInstruction(pc) || !IsBasicBlockTerminator(p.code[pc]) {
			continue
		}
		if target := pc + 1 + uint32(p.skips[pc]); target < n && p.mask.IsInstruction(target) {
			p.blockStarts[target] = true
		}
	}
}

// Decode parses `E(|j|) ++ u8(z) ++ E(|c|) ++ j ++ c ++ k`. The whole blob
// must be consumed.
func Decode(blob []byte) (*Program, error) {
	jumpTableLen, n, err := codec.DecodeU32(blob)
	if err != nil {
		return nil, decodeErr("jump table length", err)
	}
	pos := uint64(n)
	if pos >= uint64(len(blob)) {
		return nil, fmt.Errorf("%w: missing jump table item width", jamerrors.ErrProgramTruncated)
	}
	itemWidth := blob[pos]
	pos++
	if itemWidth > 8 {
		return nil, fmt.Errorf("%w: width %d", jamerrors.ErrProgramItemWidth, itemWidth)
	}
	codeLen, n, err := codec.DecodeU32(blob[pos:])
	if err != nil {
		return nil, decodeErr("code length", err)
	}
	pos += uint64(n)

	jumpTableBytes := uint64(jumpTableLen) * uint64(itemWidth)
	maskLen := (uint64(codeLen) + 7) / 8
	end := pos + jumpTableBytes + uint64(codeLen) + maskLen
	if end > uint64(len(blob)) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", jamerrors.ErrProgramTruncated, end, len(blob))
	}
	if end < uint64(len(blob)) {
		return nil, fmt.Errorf("%w: %d extra bytes", jamerrors.ErrProgramTrailingBytes, uint64(len(blob))-end)
	}

	var entries []uint32
	if itemWidth > 0 {
		entries = make([]uint32, jumpTableLen)
		for i := range entries {
			v := codec.DecodeE_l(blob[pos : pos+uint64(itemWidth)])
			if v > math.MaxUint32 {
				v = math.MaxUint32
			}
			entries[i] = uint32(v)
			pos += uint64(itemWidth)
		}
	}

	code := blob[pos : pos+uint64(codeLen)]
	pos += uint64(codeLen)
	mask := MaskFromBytes(blob[pos:pos+maskLen], codeLen)

	return NewProgram(code, mask, entries), nil
}

func decodeErr(field string, err error) error {
	if errors.Is(err, jamerrors.ErrCodecOverflow) {
		return fmt.Errorf("%w: %s: %v", jamerrors.ErrProgramTooLarge, field, err)
	}
	return fmt.Errorf("%w: %s: %v", jamerrors.ErrProgramTruncated, field, err)
}

// Encode serializes code, mask and jump table into the blob format read by
// Decode, using the narrowest item width that holds every entry.
func Encode(code []byte, mask Mask, jumpTable []uint32) []byte {
	width := uint32(0)
	if len(jumpTable) > 0 {
		width = 1
	}
	for _, e := range jumpTable {
		for width < 4 && uint64(e) >= uint64(1)<<(8*width) {
			width++
		}
	}

	mask = mask.resize(uint32(len(code)))
	blob := make([]byte, 0, 16+len(jumpTable)*int(width)+len(code)+len(mask.bits))
	blob = append(blob, codec.E(uint64(len(jumpTable)))...)
	blob = append(blob, byte(width))
	blob = append(blob, codec.E(uint64(len(code)))...)
	for _, e := range jumpTable {
		blob = append(blob, codec.E_l(uint64(e), width)...)
	}
	blob = append(blob, code...)
	blob = append(blob, mask.bits...)
	return blob
}

// BuildCode concatenates encoded instructions, each starting with its opcode,
// and returns the code with its instruction mask.
func BuildCode(instructions ...[]byte) ([]byte, Mask) {
	var code []byte
	var starts []uint32
	for _, inst := range instructions {
		starts = append(starts, uint32(len(code)))
		code = append(code, inst...)
	}
	mask := NewMask(uint32(len(code)))
	for _, s := range starts {
		mask.Set(s)
	}
	return code, mask
}

// Mask marks instruction boundaries, one bit per code byte, LSB first.
type Mask struct {
	bits []byte
	n    uint32
}

// NewMask returns an all-zero mask of n bits.
func NewMask(n uint32) Mask {
	return Mask{bits: make([]byte, (uint64(n)+7)/8), n: n}
}

// MaskFromBytes wraps a packed bitmask of n bits.
func MaskFromBytes(packed []byte, n uint32) Mask {
	bits := make([]byte, (uint64(n)+7)/8)
	copy(bits, packed)
	return Mask{bits: bits, n: n}
}

// MaskFromBits packs one 0/1 byte per position, the layout used by test vectors and traces.
func MaskFromBits(unpacked []byte) Mask {
	m := NewMask(uint32(len(unpacked)))
	for i, b := range unpacked {
		if b != 0 {
			m.Set(uint32(i))
		}
	}
	return m
}

func (m Mask) Len() uint32 { return m.n }

// Bytes returns the packed representation.
func (m Mask) Bytes() []byte { return m.bits }

func (m Mask) IsInstruction(pc uint32) bool {
	return pc < m.n && m.bits[pc/8]&(1<<(pc%8)) != 0
}

func (m Mask) Set(pc uint32) {
	if pc < m.n {
		m.bits[pc/8] |= 1 << (pc % 8)
	}
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	c := 0
	for pc := uint32(0); pc < m.n; pc++ {
		if m.IsInstruction(pc) {
			c++
		}
	}
	return c
}

// Skip is the distance from pc to the next set bit minus one, capped at 24.
// Positions past the end count as set.
func (m Mask) Skip(pc uint32) uint32 {
	for j := uint32(0); j < pvmtypes.MaxSkip; j++ {
		next := pc + 1 + j
		if next >= m.n || m.IsInstruction(next) {
			return j
		}
	}
	return pvmtypes.MaxSkip
}

func (m Mask) resize(n uint32) Mask {
	if n == m.n {
		return m
	}
	out := NewMask(n)
	copy(out.bits, m.bits)
	if rem := n % 8; rem != 0 && len(out.bits) > 0 {
		out.bits[len(out.bits)-1] &= byte(1<<rem) - 1
	}
	return out
}

// JumpTable holds the absolute targets reachable by dynamic jumps.
type JumpTable struct {
	entries []uint32
}

func (j JumpTable) Len() int { return len(j.entries) }

// HasIndex must be checked before Destination is trusted.
func (j JumpTable) HasIndex(i uint32) bool {
	return uint64(i) < uint64(len(j.entries))
}

func (j JumpTable) Destination(i uint32) uint32 {
	return j.entries[i]
}

// Entries returns a copy of the table.
func (j JumpTable) Entries() []uint32 {
	return append([]uint32(nil), j.entries...)
}
