package interpreter

import "github.com/jam-duna/jampvm/pvm/program"

func opTrap(m *Machine, _ *program.Args) {
	m.trap()
}

func opFallthrough(*Machine, *program.Args) {}
