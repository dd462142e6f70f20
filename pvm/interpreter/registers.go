package interpreter

import (
	"encoding/binary"

	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

const registerBytes = pvmtypes.NumRegisters * 8

// Registers holds the 13 general purpose registers in one little-endian
// buffer, the layout host call bridges read and write directly.
type Registers struct {
	buf [registerBytes]byte
}

// NewRegisters returns registers initialized from values.
func NewRegisters(values [pvmtypes.NumRegisters]uint64) *Registers {
	r := &Registers{}
	r.SetAllU64(values)
	return r
}

func (r *Registers) Get(idx int) uint64 {
	return binary.LittleEndian.Uint64(r.buf[idx*8:])
}

func (r *Registers) Set(idx int, value uint64) {
	binary.LittleEndian.PutUint64(r.buf[idx*8:], value)
}

// GetU32 reads the low half of a register.
func (r *Registers) GetU32(idx int) uint32 {
	return binary.LittleEndian.Uint32(r.buf[idx*8:])
}

// SetU32 writes the low half of a register and leaves the high half alone.
func (r *Registers) SetU32(idx int, value uint32) {
	binary.LittleEndian.PutUint32(r.buf[idx*8:], value)
}

func (r *Registers) CopyFrom(other *Registers) {
	r.buf = other.buf
}

func (r *Registers) GetAllU64() [pvmtypes.NumRegisters]uint64 {
	var out [pvmtypes.NumRegisters]uint64
	for i := range out {
		out[i] = r.Get(i)
	}
	return out
}

func (r *Registers) SetAllU64(values [pvmtypes.NumRegisters]uint64) {
	for i, v := range values {
		r.Set(i, v)
	}
}

// Bytes exposes the backing buffer. Writes through it are visible to the machine.
func (r *Registers) Bytes() []byte {
	return r.buf[:]
}

var _ pvmtypes.IHostCallRegisters = (*Registers)(nil)
