package interpreter

import (
	"errors"
	"strings"

	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/jam-duna/jampvm/pvm/trace"
)

// InstructionResult is the outcome of one instruction.
type InstructionResult struct {
	Status    pvmtypes.Status
	NextPC    uint32
	ExitParam uint32 // host call index on HOST, faulting address on FAULT
}

// Machine is the state every backend executes instructions against.
type Machine struct {
	Regs   Registers
	Mem    *memory.Memory
	Prog   *program.Program
	PC     uint32
	Result InstructionResult

	// last successful store, for tracing
	writeAddr uint32
	writeLen  int
}

// Handler executes one decoded instruction against m.
type Handler func(m *Machine, a *program.Args)

// Exec runs h for the instruction at m.PC and commits the program counter.
// PC advances on OK and HOST and stays on the instruction otherwise.
func (m *Machine) Exec(h Handler, a *program.Args, nextPC uint32) pvmtypes.Status {
	m.Result = InstructionResult{Status: pvmtypes.OK, NextPC: nextPC}
	m.writeLen = 0
	h(m, a)
	switch m.Result.Status {
	case pvmtypes.OK, pvmtypes.HOST:
		m.PC = m.Result.NextPC
	}
	return m.Result.Status
}

func (m *Machine) reg(idx uint8) uint64 {
	return m.Regs.Get(int(idx))
}

func (m *Machine) setReg(idx uint8, v uint64) {
	m.Regs.Set(int(idx), v)
}

func (m *Machine) trap() {
	m.Result.Status = pvmtypes.PANIC
}

// memFault turns a memory error into FAULT, or PANIC for anything that is
// not a page fault.
func (m *Machine) memFault(err error) {
	var fault *pvmtypes.PageFault
	if errors.As(err, &fault) {
		m.Result.Status = pvmtypes.FAULT
		m.Result.ExitParam = fault.Address
		return
	}
	m.Result.Status = pvmtypes.PANIC
}

// branch jumps to target when cond holds. A target that is not the start of
// a basic block panics.
func (m *Machine) branch(target uint32, cond bool) {
	if !cond {
		return
	}
	if !m.Prog.IsBeginningOfBasicBlock(target) {
		m.Result.Status = pvmtypes.PANIC
		return
	}
	m.Result.NextPC = target
}

// djump jumps through the jump table.
func (m *Machine) djump(a uint32) {
	if a == pvmtypes.HaltAddress {
		m.Result.Status = pvmtypes.HALT
		return
	}
	jt := m.Prog.JumpTable()
	if a == 0 || uint64(a) > uint64(jt.Len())*pvmtypes.Z_A || a%pvmtypes.Z_A != 0 {
		m.Result.Status = pvmtypes.PANIC
		return
	}
	idx := a/pvmtypes.Z_A - 1
	if !jt.HasIndex(idx) {
		m.Result.Status = pvmtypes.PANIC
		return
	}
	target := jt.Destination(idx)
	if !m.Prog.IsBeginningOfBasicBlock(target) {
		m.Result.Status = pvmtypes.PANIC
		return
	}
	m.Result.NextPC = target
}

func (m *Machine) load(dst uint8, addr uint32, size int, signed bool) {
	v, err := m.Mem.LoadUint(addr, size)
	if err != nil {
		m.memFault(err)
		return
	}
	if signed {
		shift := 64 - 8*size
		v = uint64(int64(v<<shift) >> shift)
	}
	m.setReg(dst, v)
}

func (m *Machine) store(addr uint32, size int, v uint64) {
	if err := m.Mem.StoreUint(addr, size, v); err != nil {
		m.memFault(err)
		return
	}
	m.writeAddr, m.writeLen = addr, size
}

// TraceStep describes the instruction that just ran.
func (m *Machine) TraceStep(step uint64, pc uint32, a *program.Args, gas pvmtypes.Gas, status pvmtypes.Status) *trace.Step {
	s := &trace.Step{
		Step:      step,
		PC:        pc,
		Opcode:    a.Opcode,
		Name:      strings.ToLower(program.OpcodeToString(a.Opcode)),
		Gas:       uint64(gas),
		Status:    status.String(),
		Registers: m.Regs.GetAllU64(),
	}
	if status == pvmtypes.FAULT {
		s.FaultAddress = m.Result.ExitParam
	}
	if m.writeLen > 0 {
		data := make([]byte, m.writeLen)
		if err := m.Mem.LoadInto(data, m.writeAddr); err == nil {
			s.SetWrite(m.writeAddr, data)
		}
	}
	return s
}
