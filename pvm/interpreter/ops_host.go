package interpreter

import (
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// opEcalli suspends with the host call index. The pc has already moved past
// the instruction, so resuming continues with the next one.
func opEcalli(m *Machine, a *program.Args) {
	m.Result.Status = pvmtypes.HOST
	m.Result.ExitParam = uint32(a.ImmX)
}
