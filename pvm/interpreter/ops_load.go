package interpreter

import "github.com/jam-duna/jampvm/pvm/program"

// loadDirect reads from the absolute address in ImmX.
func loadDirect(size int, signed bool) Handler {
	return func(m *Machine, a *program.Args) {
		m.load(a.RegA, uint32(a.ImmX), size, signed)
	}
}

// loadIndirect reads from RegB + ImmX, wrapping at 2^32.
func loadIndirect(size int, signed bool) Handler {
	return func(m *Machine, a *program.Args) {
		m.load(a.RegA, uint32(m.reg(a.RegB))+uint32(a.ImmX), size, signed)
	}
}
