package interpreter

import "github.com/jam-duna/jampvm/pvm/program"

func opLoadImm64(m *Machine, a *program.Args) { m.setReg(a.RegA, a.ImmX) }
func opLoadImm(m *Machine, a *program.Args)   { m.setReg(a.RegA, a.ImmX) }
func opMoveReg(m *Machine, a *program.Args)   { m.setReg(a.RegD, m.reg(a.RegA)) }

func opCmovIzImm(m *Machine, a *program.Args) {
	if m.reg(a.RegB) == 0 {
		m.setReg(a.RegA, a.ImmX)
	}
}

func opCmovNzImm(m *Machine, a *program.Args) {
	if m.reg(a.RegB) != 0 {
		m.setReg(a.RegA, a.ImmX)
	}
}

func opCmovIz(m *Machine, a *program.Args) {
	if m.reg(a.RegB) == 0 {
		m.setReg(a.RegD, m.reg(a.RegA))
	}
}

func opCmovNz(m *Machine, a *program.Args) {
	if m.reg(a.RegB) != 0 {
		m.setReg(a.RegD, m.reg(a.RegA))
	}
}
