package interpreter

import (
	"math"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/program"
)

// opSbrk grows the heap by RegA bytes and writes the previous heap pointer
// to RegD, or zero when the heap cannot grow.
func opSbrk(m *Machine, a *program.Args) {
	n := m.reg(a.RegA)
	if n > math.MaxUint32 {
		m.setReg(a.RegD, 0)
		return
	}
	prev, err := m.Mem.Sbrk(uint32(n))
	if err != nil {
		log.Debug(log.PvmModule, "sbrk failed", "pc", m.PC, "grow", n, "err", err)
		m.setReg(a.RegD, 0)
		return
	}
	m.setReg(a.RegD, uint64(prev))
}
