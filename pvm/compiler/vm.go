package compiler

import (
	"fmt"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/interpreter"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/jam-duna/jampvm/pvm/trace"
)

const defaultCacheSize = 16

// VM runs compiled blocks. Its observable behaviour, including gas and
// step counts, matches interpreter.Interpreter exactly.
type VM struct {
	m         interpreter.Machine
	gas       interpreter.GasCounter
	status    pvmtypes.Status
	exitParam uint32
	steps     uint64
	tracer    trace.Tracer

	cache    *Cache
	compiled *compiledProgram

	// block counters for profiling
	fastBlocks    uint64
	checkedBlocks uint64
}

// New returns a VM with a private block cache.
func New() *VM {
	return NewWithCache(nil)
}

// NewWithCache returns a VM that shares compiled blocks through cache.
// A nil cache gives the VM a private one.
func NewWithCache(cache *Cache) *VM {
	if cache == nil {
		var err error
		if cache, err = NewCache(defaultCacheSize); err != nil {
			panic(err)
		}
	}
	return &VM{
		m:      interpreter.Machine{Mem: memory.New()},
		gas:    interpreter.NewGasCounter(0),
		status: pvmtypes.PANIC,
		cache:  cache,
	}
}

func (vm *VM) Reset(p *program.Program, pc uint32, regs [pvmtypes.NumRegisters]uint64, mem *memory.Memory, gas pvmtypes.Gas) {
	if mem == nil {
		mem = memory.New()
	}
	vm.m.Prog = p
	vm.m.Mem = mem
	vm.m.PC = pc
	vm.m.Result = interpreter.InstructionResult{}
	vm.m.Regs.SetAllU64(regs)
	vm.gas = interpreter.NewGasCounter(gas)
	vm.status = pvmtypes.OK
	vm.exitParam = 0
	vm.steps = 0
	vm.fastBlocks, vm.checkedBlocks = 0, 0
	vm.compiled = nil
	if p != nil {
		vm.compiled = vm.cache.get(p)
	}
	log.Trace(log.PvmModule, "compiler reset", "pc", pc, "gas", gas)
}

func (vm *VM) ResetGeneric(blob []byte, pc uint32, regs [pvmtypes.NumRegisters]uint64, gas pvmtypes.Gas) error {
	p, err := program.Decode(blob)
	if err != nil {
		return err
	}
	vm.Reset(p, pc, regs, memory.New(), gas)
	return nil
}

func (vm *VM) ResetStandard(blob []byte, args []byte, pc uint32, gas pvmtypes.Gas) error {
	std, err := program.DecodeStandard(blob)
	if err != nil {
		return err
	}
	mem, regs, err := memory.NewStandard(std, args)
	if err != nil {
		return fmt.Errorf("standard layout: %w", err)
	}
	vm.Reset(std.Program, pc, regs, mem, gas)
	return nil
}

// resume clears a HOST suspension and reports whether the VM may run.
func (vm *VM) resume() bool {
	switch vm.status {
	case pvmtypes.OK:
		return true
	case pvmtypes.HOST:
		vm.status = pvmtypes.OK
		vm.exitParam = 0
		return true
	}
	return false
}

// blockAt returns the compiled block entered at the current pc, or panics
// the machine when pc is not an instruction boundary.
func (vm *VM) blockAt() *BasicBlock {
	var bb *BasicBlock
	if vm.compiled != nil {
		bb = vm.compiled.block(vm.m.PC)
	}
	if bb == nil {
		log.Debug(log.PvmModule, "pc is not an instruction boundary", "pc", vm.m.PC)
		vm.status = pvmtypes.PANIC
	}
	return bb
}

// exec runs inst after its gas has been charged.
func (vm *VM) exec(inst *Instruction) pvmtypes.Status {
	vm.status = vm.m.Exec(inst.Handler, &inst.Args, inst.Next)
	switch vm.status {
	case pvmtypes.HOST, pvmtypes.FAULT:
		vm.exitParam = vm.m.Result.ExitParam
	}
	vm.steps++
	if vm.tracer != nil {
		step := vm.m.TraceStep(vm.steps, inst.Pc, &inst.Args, vm.gas.Get(), vm.status)
		if err := vm.tracer.WriteStep(step); err != nil {
			log.Warn(log.PvmModule, "trace write failed, tracing disabled", "err", err)
			vm.tracer = nil
		}
	}
	return vm.status
}

// NextStep executes a single instruction.
func (vm *VM) NextStep() pvmtypes.Status {
	if !vm.resume() {
		return vm.status
	}
	bb := vm.blockAt()
	if bb == nil {
		return vm.status
	}
	inst := &bb.Instructions[0]
	if vm.gas.Sub(inst.Gas) {
		vm.status = pvmtypes.OOG
		return vm.status
	}
	return vm.exec(inst)
}

// RunProgram executes block by block until the status leaves OK.
func (vm *VM) RunProgram() pvmtypes.Status {
	if !vm.resume() {
		return vm.status
	}
	for vm.status == pvmtypes.OK {
		bb := vm.blockAt()
		if bb == nil {
			break
		}
		if vm.gas.Get() >= bb.GasUsage {
			vm.fastBlocks++
			vm.runFast(bb)
		} else {
			vm.checkedBlocks++
			vm.runChecked(bb)
		}
	}
	log.Debug(log.PvmModule, "compiled run stopped", "status", vm.status, "pc", vm.m.PC, "steps", vm.steps,
		"gas", vm.gas.Get(), "fast", vm.fastBlocks, "checked", vm.checkedBlocks)
	return vm.status
}

// runFast runs a block whose whole static cost is covered by the balance.
func (vm *VM) runFast(bb *BasicBlock) {
	for i := range bb.Instructions {
		inst := &bb.Instructions[i]
		vm.gas.Sub(inst.Gas)
		if vm.exec(inst) != pvmtypes.OK || vm.m.PC != inst.Next {
			return
		}
	}
}

func (vm *VM) runChecked(bb *BasicBlock) {
	for i := range bb.Instructions {
		inst := &bb.Instructions[i]
		if vm.gas.Sub(inst.Gas) {
			vm.status = pvmtypes.OOG
			return
		}
		if vm.exec(inst) != pvmtypes.OK || vm.m.PC != inst.Next {
			return
		}
	}
}

func (vm *VM) Terminate(status pvmtypes.Status) {
	if status.Terminal() {
		vm.status = status
	}
}

func (vm *VM) Status() pvmtypes.Status { return vm.status }
func (vm *VM) ExitParam() uint32 { return vm.exitParam }
func (vm *VM) PC() uint32 { return vm.m.PC }
func (vm *VM) Registers() *interpreter.Registers { return &vm.m.Regs }
func (vm *VM) Memory() *memory.Memory { return vm.m.Mem }
func (vm *VM) Program() *program.Program { return vm.m.Prog }
func (vm *VM) Gas() pvmtypes.Gas { return vm.gas.Get() }
func (vm *VM) GasUsed() pvmtypes.Gas { return vm.gas.Used() }
func (vm *VM) Steps() uint64 { return vm.steps }
func (vm *VM) SetTracer(t trace.Tracer) { vm.tracer = t }
func (vm *VM) SetGas(g pvmtypes.Gas) { vm.gas = interpreter.SetGas(vm.gas, g) }
func (vm *VM) SetPC(pc uint32) { vm.m.PC = pc }
func (vm *VM) GetPageDump(n uint32) []byte { return vm.m.Mem.GetMemoryPage(n) }

// BlockCounts reports how many blocks ran on the fast path and how many
// needed per-instruction gas checks since the last reset.
func (vm *VM) BlockCounts() (fast, checked uint64) {
	return vm.fastBlocks, vm.checkedBlocks
}

// CompiledBlock returns the block the VM would run from pc.
func (vm *VM) CompiledBlock(pc uint32) *BasicBlock {
	if vm.compiled == nil {
		return nil
	}
	return vm.compiled.block(pc)
}

func (vm *VM) Disassemble() []program.Instruction {
	if vm.m.Prog == nil {
		return nil
	}
	return vm.m.Prog.Disassemble()
}

func (vm *VM) CalculateBlockGasCost() map[uint32]pvmtypes.Gas {
	if vm.m.Prog == nil {
		return nil
	}
	return vm.m.Prog.CalculateBlockGasCost()
}
