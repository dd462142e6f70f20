package interpreter

import "github.com/jam-duna/jampvm/pvm/program"

func opJump(m *Machine, a *program.Args) {
	m.branch(a.Target, true)
}

func opJumpInd(m *Machine, a *program.Args) {
	m.djump(uint32(m.reg(a.RegA) + a.ImmX))
}

func opLoadImmJump(m *Machine, a *program.Args) {
	m.setReg(a.RegA, a.ImmX)
	m.branch(a.Target, true)
}

// opLoadImmJumpInd reads the base register before writing the destination,
// which may be the same register.
func opLoadImmJumpInd(m *Machine, a *program.Args) {
	dest := uint32(m.reg(a.RegB) + a.ImmY)
	m.setReg(a.RegA, a.ImmX)
	m.djump(dest)
}

func branchImm(cond func(reg, imm uint64) bool) Handler {
	return func(m *Machine, a *program.Args) {
		m.branch(a.Target, cond(m.reg(a.RegA), a.ImmX))
	}
}

func branchRegs(cond func(x, y uint64) bool) Handler {
	return func(m *Machine, a *program.Args) {
		m.branch(a.Target, cond(m.reg(a.RegA), m.reg(a.RegB)))
	}
}

func eq(x, y uint64) bool  { return x == y }
func ne(x, y uint64) bool  { return x != y }
func ltU(x, y uint64) bool { return x < y }
func leU(x, y uint64) bool { return x <= y }
func geU(x, y uint64) bool { return x >= y }
func gtU(x, y uint64) bool { return x > y }
func ltS(x, y uint64) bool { return int64(x) < int64(y) }
func leS(x, y uint64) bool { return int64(x) <= int64(y) }
func geS(x, y uint64) bool { return int64(x) >= int64(y) }
func gtS(x, y uint64) bool { return int64(x) > int64(y) }
