// Package pvm runs PVM programs on pluggable backends: pooled instances,
// the inner-machine registry and the host call driver.
package pvm

import (
	"fmt"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/pvm/compiler"
	"github.com/jam-duna/jampvm/pvm/interpreter"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/jam-duna/jampvm/pvm/trace"
)

const (
	BackendInterpreter = "interpreter" // one instruction per dispatch
	BackendCompiler    = "compiler"    // pre-decoded basic blocks
)

// Backends lists the accepted backend names.
var Backends = []string{BackendInterpreter, BackendCompiler}

type Program = program.Program

// Backend is a resettable PVM. Both implementations produce identical
// statuses, registers, memory, gas and step counts for the same input.
type Backend interface {
	Reset(p *program.Program, pc uint32, regs [pvmtypes.NumRegisters]uint64, mem *memory.Memory, gas pvmtypes.Gas)
	ResetGeneric(blob []byte, pc uint32, regs [pvmtypes.NumRegisters]uint64, gas pvmtypes.Gas) error
	ResetStandard(blob []byte, args []byte, pc uint32, gas pvmtypes.Gas) error

	NextStep() pvmtypes.Status
	RunProgram() pvmtypes.Status
	Terminate(status pvmtypes.Status)

	Status() pvmtypes.Status
	ExitParam() uint32
	PC() uint32
	SetPC(pc uint32)
	Registers() *interpreter.Registers
	Memory() *memory.Memory
	Program() *program.Program
	Gas() pvmtypes.Gas
	GasUsed() pvmtypes.Gas
	SetGas(g pvmtypes.Gas)
	Steps() uint64
	SetTracer(t trace.Tracer)

	GetPageDump(n uint32) []byte
	Disassemble() []program.Instruction
	CalculateBlockGasCost() map[uint32]pvmtypes.Gas
}

var (
	_ Backend = (*interpreter.Interpreter)(nil)
	_ Backend = (*compiler.VM)(nil)
)

// NewBackend returns an idle backend of the given kind.
func NewBackend(kind string) (Backend, error) {
	return newBackend(kind, nil)
}

// newBackend shares cache between compiler instances when it is set.
func newBackend(kind string, cache *compiler.Cache) (Backend, error) {
	switch kind {
	case BackendInterpreter:
		return interpreter.New(), nil
	case BackendCompiler:
		if cache == nil {
			return compiler.New(), nil
		}
		return compiler.NewWithCache(cache), nil
	}
	return nil, fmt.Errorf("%w: %q", jamerrors.ErrUnknownBackend, kind)
}
