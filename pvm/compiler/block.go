// Package compiler is a PVM backend that translates each basic block once
// into pre-decoded handlers and runs whole blocks per gas check.
package compiler

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jam-duna/jampvm/pvm/interpreter"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// Instruction is one pre-decoded instruction of a block.
type Instruction struct {
	Pc      uint32
	Next    uint32
	Handler interpreter.Handler
	Args    program.Args
	Gas     pvmtypes.Gas
}

func (i *Instruction) String() string {
	return fmt.Sprintf("%d: %s %s", i.Pc, strings.ToLower(program.OpcodeToString(i.Args.Opcode)), program.FormatArgs(&i.Args))
}

// BasicBlock is a straight run of instructions compiled from an entry pc.
// Entries need not be block starts: a run resumed after a host call
// compiles from the instruction after ECALLI.
type BasicBlock struct {
	Instructions []Instruction
	GasUsage     pvmtypes.Gas
	PVMNextPC    uint32 // pc after the last instruction
}

func (bb *BasicBlock) String() string {
	var sb strings.Builder
	for i := range bb.Instructions {
		sb.WriteString(bb.Instructions[i].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// compileBlock translates the instructions from pc up to and including the
// next terminator. It stops early at another block start or at a position
// that is not an instruction boundary. It returns nil when pc itself is not
// an instruction.
func compileBlock(p *program.Program, pc uint32) *BasicBlock {
	if !p.IsInstruction(pc) {
		return nil
	}
	code := p.Code()
	bb := &BasicBlock{Instructions: make([]Instruction, 0, 8)}
	start := pc
	for pc < uint32(len(code)) && p.IsInstruction(pc) {
		if pc != start && p.IsBeginningOfBasicBlock(pc) {
			break
		}
		skip := p.Skip(pc)
		inst := Instruction{Pc: pc, Next: pc + 1 + skip}
		program.DecodeArgs(code, pc, skip, &inst.Args)
		info := program.Lookup(inst.Args.Opcode)
		inst.Handler = interpreter.HandlerFor(inst.Args.Opcode)
		inst.Gas = info.Gas
		bb.Instructions = append(bb.Instructions, inst)
		bb.GasUsage += inst.Gas
		pc = inst.Next
		if info.Terminator {
			break
		}
	}
	bb.PVMNextPC = pc
	return bb
}

// compiledProgram holds the blocks compiled so far for one program.
type compiledProgram struct {
	prog   *program.Program
	mu     sync.RWMutex
	blocks map[uint32]*BasicBlock
}

func (c *compiledProgram) block(pc uint32) *BasicBlock {
	c.mu.RLock()
	bb, ok := c.blocks[pc]
	c.mu.RUnlock()
	if ok {
		return bb
	}
	bb = compileBlock(c.prog, pc)
	c.mu.Lock()
	c.blocks[pc] = bb
	c.mu.Unlock()
	return bb
}

// Cache shares compiled blocks between VMs running the same decoded
// program. It is safe for concurrent use.
type Cache struct {
	programs *lru.Cache[*program.Program, *compiledProgram]
}

// NewCache keeps the compiled blocks of up to size programs.
func NewCache(size int) (*Cache, error) {
	programs, err := lru.New[*program.Program, *compiledProgram](size)
	if err != nil {
		return nil, err
	}
	return &Cache{programs: programs}, nil
}

func (c *Cache) get(p *program.Program) *compiledProgram {
	if cp, ok := c.programs.Get(p); ok {
		return cp
	}
	cp := &compiledProgram{prog: p, blocks: make(map[uint32]*BasicBlock)}
	if prev, ok, _ := c.programs.PeekOrAdd(p, cp); ok {
		return prev
	}
	return cp
}

// Len is the number of programs with compiled blocks.
func (c *Cache) Len() int {
	return c.programs.Len()
}
