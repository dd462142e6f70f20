package program

import (
	"fmt"

	"github.com/jam-duna/jampvm/codec"
	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// StandardProgram is the service code container of A.37:
// E3(|o|) E3(|w|) E2(z) E3(s) o w E4(|c|) c.
type StandardProgram struct {
	ROData    []byte // o, mapped read-only at Z_Z
	RWData    []byte // w, mapped writable after the read-only zone
	HeapPages uint16 // z, extra zeroed writable pages after w
	StackSize uint32 // s
	Blob      []byte // c, the inner program blob
	Program   *Program
}

const standardHeaderLen = 3 + 3 + 2 + 3

// DecodeStandard parses a standard program container and its inner program.
func DecodeStandard(blob []byte) (*StandardProgram, error) {
	if len(blob) < standardHeaderLen {
		return nil, fmt.Errorf("%w: standard header needs %d bytes, have %d", jamerrors.ErrProgramTruncated, standardHeaderLen, len(blob))
	}
	oLen := codec.DecodeE_l(blob[0:3])
	wLen := codec.DecodeE_l(blob[3:6])
	z := codec.DecodeE_l(blob[6:8])
	s := codec.DecodeE_l(blob[8:11])

	pos := uint64(standardHeaderLen)
	if pos+oLen+wLen+4 > uint64(len(blob)) {
		return nil, fmt.Errorf("%w: data sections overrun blob", jamerrors.ErrProgramTruncated)
	}
	ro := blob[pos : pos+oLen]
	pos += oLen
	rw := blob[pos : pos+wLen]
	pos += wLen
	cLen := codec.DecodeE_l(blob[pos : pos+4])
	pos += 4
	if pos+cLen > uint64(len(blob)) {
		return nil, fmt.Errorf("%w: code section needs %d bytes, have %d", jamerrors.ErrProgramTruncated, cLen, uint64(len(blob))-pos)
	}
	if pos+cLen < uint64(len(blob)) {
		return nil, fmt.Errorf("%w: %d bytes after code section", jamerrors.ErrProgramTrailingBytes, uint64(len(blob))-pos-cLen)
	}
	inner := blob[pos : pos+cLen]

	std := &StandardProgram{
		ROData:    ro,
		RWData:    rw,
		HeapPages: uint16(z),
		StackSize: uint32(s),
		Blob:      inner,
	}
	if err := std.CheckLayout(pvmtypes.Z_I); err != nil {
		return nil, err
	}
	p, err := Decode(inner)
	if err != nil {
		return nil, fmt.Errorf("inner program: %w", err)
	}
	std.Program = p
	return std, nil
}

// CheckLayout verifies 5*Z_Z + Z(|o|) + Z(|w| + z*Z_P) + Z(s) + argLimit <= 2^32.
func (s *StandardProgram) CheckLayout(argLimit uint64) error {
	required := 5*uint64(pvmtypes.Z_Z) +
		pvmtypes.ZFunc(uint64(len(s.ROData))) +
		pvmtypes.ZFunc(uint64(len(s.RWData))+uint64(s.HeapPages)*pvmtypes.Z_P) +
		pvmtypes.ZFunc(uint64(s.StackSize)) +
		argLimit
	if required > 1<<32 {
		return fmt.Errorf("%w: layout needs %d bytes", jamerrors.ErrStandardLayout, required)
	}
	return nil
}

// EncodeStandard is the inverse of DecodeStandard.
func EncodeStandard(ro, rw []byte, heapPages uint16, stackSize uint32, inner []byte) []byte {
	out := make([]byte, 0, standardHeaderLen+len(ro)+len(rw)+4+len(inner))
	out = append(out, codec.E_l(uint64(len(ro)), 3)...)
	out = append(out, codec.E_l(uint64(len(rw)), 3)...)
	out = append(out, codec.E_l(uint64(heapPages), 2)...)
	out = append(out, codec.E_l(uint64(stackSize), 3)...)
	out = append(out, ro...)
	out = append(out, rw...)
	out = append(out, codec.E_l(uint64(len(inner)), 4)...)
	out = append(out, inner...)
	return out
}
