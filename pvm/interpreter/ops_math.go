package interpreter

import (
	"math"
	"math/bits"

	"github.com/jam-duna/jampvm/pvm/program"
)

// binaryRegs computes RegD = f(RegA, RegB).
func binaryRegs(f func(x, y uint64) uint64) Handler {
	return func(m *Machine, a *program.Args) {
		m.setReg(a.RegD, f(m.reg(a.RegA), m.reg(a.RegB)))
	}
}

// binaryImm computes RegA = f(RegB, ImmX).
func binaryImm(f func(x, y uint64) uint64) Handler {
	return func(m *Machine, a *program.Args) {
		m.setReg(a.RegA, f(m.reg(a.RegB), a.ImmX))
	}
}

// binaryImmAlt computes RegA = f(ImmX, RegB), the swapped operand forms.
func binaryImmAlt(f func(x, y uint64) uint64) Handler {
	return func(m *Machine, a *program.Args) {
		m.setReg(a.RegA, f(a.ImmX, m.reg(a.RegB)))
	}
}

func add32(x, y uint64) uint64 { return sext32(x + y) }
func sub32(x, y uint64) uint64 { return sext32(x - y) }
func mul32(x, y uint64) uint64 { return sext32(x * y) }
func add64(x, y uint64) uint64 { return x + y }
func sub64(x, y uint64) uint64 { return x - y }
func mul64(x, y uint64) uint64 { return x * y }

func divU32(x, y uint64) uint64 {
	if uint32(y) == 0 {
		return math.MaxUint64
	}
	return sext32(uint64(uint32(x) / uint32(y)))
}

func divS32(x, y uint64) uint64 {
	a, b := int32(uint32(x)), int32(uint32(y))
	switch {
	case b == 0:
		return math.MaxUint64
	case a == math.MinInt32 && b == -1:
		return uint64(int64(a))
	}
	return uint64(int64(a / b))
}

func remU32(x, y uint64) uint64 {
	if uint32(y) == 0 {
		return sext32(x)
	}
	return sext32(uint64(uint32(x) % uint32(y)))
}

func remS32(x, y uint64) uint64 {
	a, b := int32(uint32(x)), int32(uint32(y))
	switch {
	case b == 0:
		return uint64(int64(a))
	case a == math.MinInt32 && b == -1:
		return 0
	}
	return uint64(int64(a % b))
}

func divU64(x, y uint64) uint64 {
	if y == 0 {
		return math.MaxUint64
	}
	return x / y
}

func divS64(x, y uint64) uint64 {
	a, b := int64(x), int64(y)
	switch {
	case b == 0:
		return math.MaxUint64
	case a == math.MinInt64 && b == -1:
		return x
	}
	return uint64(a / b)
}

func remU64(x, y uint64) uint64 {
	if y == 0 {
		return x
	}
	return x % y
}

func remS64(x, y uint64) uint64 {
	a, b := int64(x), int64(y)
	switch {
	case b == 0:
		return x
	case a == math.MinInt64 && b == -1:
		return 0
	}
	return uint64(a % b)
}

// mulUpperSS is the high half of the signed 128-bit product.
func mulUpperSS(x, y uint64) uint64 {
	hi, _ := bits.Mul64(x, y)
	if int64(x) < 0 {
		hi -= y
	}
	if int64(y) < 0 {
		hi -= x
	}
	return hi
}

func mulUpperUU(x, y uint64) uint64 {
	hi, _ := bits.Mul64(x, y)
	return hi
}

// mulUpperSU treats x as signed and y as unsigned.
func mulUpperSU(x, y uint64) uint64 {
	hi, _ := bits.Mul64(x, y)
	if int64(x) < 0 {
		hi -= y
	}
	return hi
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func setLtU(x, y uint64) uint64 { return boolToUint(x < y) }
func setLtS(x, y uint64) uint64 { return boolToUint(int64(x) < int64(y)) }
func setGtU(x, y uint64) uint64 { return boolToUint(x > y) }
func setGtS(x, y uint64) uint64 { return boolToUint(int64(x) > int64(y)) }

func maxS(x, y uint64) uint64 {
	if int64(x) > int64(y) {
		return x
	}
	return y
}

func minS(x, y uint64) uint64 {
	if int64(x) < int64(y) {
		return x
	}
	return y
}

func maxU(x, y uint64) uint64 { return max(x, y) }
func minU(x, y uint64) uint64 { return min(x, y) }
