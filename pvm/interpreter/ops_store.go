package interpreter

import "github.com/jam-duna/jampvm/pvm/program"

// storeImm writes ImmY to the absolute address ImmX.
func storeImm(size int) Handler {
	return func(m *Machine, a *program.Args) {
		m.store(uint32(a.ImmX), size, a.ImmY)
	}
}

// storeDirect writes RegA to the absolute address ImmX.
func storeDirect(size int) Handler {
	return func(m *Machine, a *program.Args) {
		m.store(uint32(a.ImmX), size, m.reg(a.RegA))
	}
}

// storeImmIndirect writes ImmY to RegA + ImmX.
func storeImmIndirect(size int) Handler {
	return func(m *Machine, a *program.Args) {
		m.store(uint32(m.reg(a.RegA))+uint32(a.ImmX), size, a.ImmY)
	}
}

// storeIndirect writes RegA to RegB + ImmX.
func storeIndirect(size int) Handler {
	return func(m *Machine, a *program.Args) {
		m.store(uint32(m.reg(a.RegB))+uint32(a.ImmX), size, m.reg(a.RegA))
	}
}
