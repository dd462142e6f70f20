package interpreter

import (
	"fmt"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/jam-duna/jampvm/pvm/trace"
)

// Interpreter executes a program one instruction at a time. It is not safe
// for concurrent use; run one Interpreter per goroutine and reuse it through
// the Reset methods.
type Interpreter struct {
	m         Machine
	gas       GasCounter
	status    pvmtypes.Status
	exitParam uint32
	args      program.Args
	steps     uint64
	tracer    trace.Tracer
}

// New returns an interpreter with no program loaded. NextStep panics the
// machine until one of the Reset methods is called.
func New() *Interpreter {
	return &Interpreter{status: pvmtypes.PANIC, gas: NewGasCounter(0), m: Machine{Mem: memory.New()}}
}

// Reset loads p with the given initial state.
func (i *Interpreter) Reset(p *program.Program, pc uint32, regs [pvmtypes.NumRegisters]uint64, mem *memory.Memory, gas pvmtypes.Gas) {
	if mem == nil {
		mem = memory.New()
	}
	i.m.Prog = p
	i.m.Mem = mem
	i.m.PC = pc
	i.m.Result = InstructionResult{}
	i.m.Regs.SetAllU64(regs)
	i.gas = NewGasCounter(gas)
	i.status = pvmtypes.OK
	i.exitParam = 0
	i.steps = 0
	log.Trace(log.PvmModule, "reset", "pc", pc, "gas", gas)
}

// ResetGeneric decodes blob and starts with empty memory.
func (i *Interpreter) ResetGeneric(blob []byte, pc uint32, regs [pvmtypes.NumRegisters]uint64, gas pvmtypes.Gas) error {
	p, err := program.Decode(blob)
	if err != nil {
		return err
	}
	i.Reset(p, pc, regs, memory.New(), gas)
	return nil
}

// ResetStandard decodes a standard program blob and lays out its memory and
// registers for args.
func (i *Interpreter) ResetStandard(blob []byte, args []byte, pc uint32, gas pvmtypes.Gas) error {
	std, err := program.DecodeStandard(blob)
	if err != nil {
		return err
	}
	mem, regs, err := memory.NewStandard(std, args)
	if err != nil {
		return fmt.Errorf("standard layout: %w", err)
	}
	i.Reset(std.Program, pc, regs, mem, gas)
	return nil
}

// NextStep executes one instruction. Terminal statuses are returned
// unchanged; HOST resumes with the instruction after ECALLI.
func (i *Interpreter) NextStep() pvmtypes.Status {
	switch i.status {
	case pvmtypes.OK:
	case pvmtypes.HOST:
		i.status = pvmtypes.OK
		i.exitParam = 0
	default:
		return i.status
	}

	p := i.m.Prog
	pc := i.m.PC
	if p == nil || !p.IsInstruction(pc) {
		log.Debug(log.PvmModule, "pc is not an instruction boundary", "pc", pc)
		i.status = pvmtypes.PANIC
		return i.status
	}

	skip := p.Skip(pc)
	program.DecodeArgs(p.Code(), pc, skip, &i.args)
	if i.gas.Sub(program.Lookup(i.args.Opcode).Gas) {
		i.status = pvmtypes.OOG
		return i.status
	}

	i.status = i.m.Exec(HandlerFor(i.args.Opcode), &i.args, pc+1+skip)
	switch i.status {
	case pvmtypes.HOST, pvmtypes.FAULT:
		i.exitParam = i.m.Result.ExitParam
	}
	i.steps++
	if i.tracer != nil {
		i.emit(pc)
	}
	return i.status
}

func (i *Interpreter) emit(pc uint32) {
	step := i.m.TraceStep(i.steps, pc, &i.args, i.gas.Get(), i.status)
	if err := i.tracer.WriteStep(step); err != nil {
		log.Warn(log.PvmModule, "trace write failed, tracing disabled", "err", err)
		i.tracer = nil
	}
}

// RunProgram steps until the status leaves OK.
func (i *Interpreter) RunProgram() pvmtypes.Status {
	for i.NextStep() == pvmtypes.OK {
	}
	log.Debug(log.PvmModule, "run stopped", "status", i.status, "pc", i.m.PC, "steps", i.steps, "gas", i.gas.Get())
	return i.status
}

// Terminate ends the run with status, typically after a failed host call.
// OK and HOST are ignored.
func (i *Interpreter) Terminate(status pvmtypes.Status) {
	if status.Terminal() {
		i.status = status
	}
}

func (i *Interpreter) Status() pvmtypes.Status { return i.status }
func (i *Interpreter) ExitParam() uint32 { return i.exitParam }
func (i *Interpreter) PC() uint32 { return i.m.PC }
func (i *Interpreter) Registers() *Registers { return &i.m.Regs }
func (i *Interpreter) Memory() *memory.Memory { return i.m.Mem }
func (i *Interpreter) Program() *program.Program { return i.m.Prog }
func (i *Interpreter) Gas() pvmtypes.Gas { return i.gas.Get() }
func (i *Interpreter) GasUsed() pvmtypes.Gas { return i.gas.Used() }
func (i *Interpreter) Steps() uint64 { return i.steps }
func (i *Interpreter) SetTracer(t trace.Tracer) { i.tracer = t }
func (i *Interpreter) SetGas(g pvmtypes.Gas) { i.gas = SetGas(i.gas, g) }
func (i *Interpreter) GasCounter() GasCounter { return i.gas }
func (i *Interpreter) GetPageDump(n uint32) []byte { return i.m.Mem.GetMemoryPage(n) }

// SetPC moves the program counter, for embedders that redirect execution
// while suspended.
func (i *Interpreter) SetPC(pc uint32) { i.m.PC = pc }

func (i *Interpreter) Disassemble() []program.Instruction {
	if i.m.Prog == nil {
		return nil
	}
	return i.m.Prog.Disassemble()
}

func (i *Interpreter) CalculateBlockGasCost() map[uint32]pvmtypes.Gas {
	if i.m.Prog == nil {
		return nil
	}
	return i.m.Prog.CalculateBlockGasCost()
}
