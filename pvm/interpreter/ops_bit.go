package interpreter

import (
	"math/bits"

	"github.com/jam-duna/jampvm/pvm/program"
)

// sext32 sign-extends the low 32 bits of x.
func sext32(x uint64) uint64 {
	return uint64(int64(int32(uint32(x))))
}

// unary applies f to RegA and writes RegD.
func unary(f func(uint64) uint64) Handler {
	return func(m *Machine, a *program.Args) {
		m.setReg(a.RegD, f(m.reg(a.RegA)))
	}
}

func countSetBits64(x uint64) uint64     { return uint64(bits.OnesCount64(x)) }
func countSetBits32(x uint64) uint64     { return uint64(bits.OnesCount32(uint32(x))) }
func leadingZeroBits64(x uint64) uint64  { return uint64(bits.LeadingZeros64(x)) }
func leadingZeroBits32(x uint64) uint64  { return uint64(bits.LeadingZeros32(uint32(x))) }
func trailingZeroBits64(x uint64) uint64 { return uint64(bits.TrailingZeros64(x)) }
func trailingZeroBits32(x uint64) uint64 { return uint64(bits.TrailingZeros32(uint32(x))) }
func signExtend8(x uint64) uint64        { return uint64(int64(int8(x))) }
func signExtend16(x uint64) uint64       { return uint64(int64(int16(x))) }
func zeroExtend16(x uint64) uint64       { return uint64(uint16(x)) }
func reverseBytes(x uint64) uint64       { return bits.ReverseBytes64(x) }

func and(x, y uint64) uint64    { return x & y }
func xor(x, y uint64) uint64    { return x ^ y }
func or(x, y uint64) uint64     { return x | y }
func andInv(x, y uint64) uint64 { return x &^ y }
func orInv(x, y uint64) uint64  { return x | ^y }
func xnor(x, y uint64) uint64   { return ^(x ^ y) }

func shloL32(x, s uint64) uint64 { return sext32(uint64(uint32(x) << (s % 32))) }
func shloR32(x, s uint64) uint64 { return sext32(uint64(uint32(x) >> (s % 32))) }
func sharR32(x, s uint64) uint64 { return uint64(int64(int32(uint32(x)) >> (s % 32))) }
func shloL64(x, s uint64) uint64 { return x << (s % 64) }
func shloR64(x, s uint64) uint64 { return x >> (s % 64) }
func sharR64(x, s uint64) uint64 { return uint64(int64(x) >> (s % 64)) }
