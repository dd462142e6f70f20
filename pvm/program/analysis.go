package program

import (
	"sort"

	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// BasicBlock is a maximal run of instructions entered only at Start.
type BasicBlock struct {
	Start        uint32
	End          uint32   // pc just past the last instruction
	Instructions []uint32 // pc of each instruction
	Gas          pvmtypes.Gas
}

// BasicBlocks splits the program at every basic-block start. A block ends
// at its terminator, at the next block start, or at the first position that
// is not an instruction boundary.
func (p *Program) BasicBlocks() []BasicBlock {
	var blocks []BasicBlock
	n := uint32(len(p.code))
	for start := uint32(0); start < n; start++ {
		if !p.blockStarts[start] {
			continue
		}
		blocks = append(blocks, p.blockAt(start))
	}
	return blocks
}

// BlockAt returns the block starting at pc. pc must be a block start.
func (p *Program) BlockAt(pc uint32) (BasicBlock, bool) {
	if !p.IsBeginningOfBasicBlock(pc) {
		return BasicBlock{}, false
	}
	return p.blockAt(pc), true
}

func (p *Program) blockAt(start uint32) BasicBlock {
	n := uint32(len(p.code))
	b := BasicBlock{Start: start}
	pc := start
	for pc < n && p.mask.IsInstruction(pc) {
		if pc != start && p.blockStarts[pc] {
			break
		}
		info := Lookup(p.code[pc])
		b.Instructions = append(b.Instructions, pc)
		b.Gas += info.Gas
		pc += 1 + p.Skip(pc)
		if info.Terminator {
			break
		}
	}
	b.End = pc
	return b
}

// CalculateBlockGasCost maps every block start to the sum of the static
// costs of its instructions.
func (p *Program) CalculateBlockGasCost() map[uint32]pvmtypes.Gas {
	costs := make(map[uint32]pvmtypes.Gas)
	for _, b := range p.BasicBlocks() {
		costs[b.Start] = b.Gas
	}
	return costs
}

// ProgramStats contains statistics about a PVM program
type ProgramStats struct {
	InstructionCount   int
	BasicBlockCount    int
	UnknownOpcodes     int
	OpcodeDistribution map[byte]int
	CategoryCounts     map[InstructionCategory]int
}

// Stats counts instructions, blocks and opcode usage.
func (p *Program) Stats() *ProgramStats {
	stats := &ProgramStats{
		OpcodeDistribution: make(map[byte]int),
		CategoryCounts:     make(map[InstructionCategory]int),
	}
	for pc := uint32(0); pc < uint32(len(p.code)); pc++ {
		if !p.mask.IsInstruction(pc) {
			continue
		}
		op := p.code[pc]
		stats.InstructionCount++
		stats.OpcodeDistribution[op]++
		stats.CategoryCounts[GetInstructionCategory(op)]++
		if !IsDefined(op) {
			stats.UnknownOpcodes++
		}
		if p.blockStarts[pc] {
			stats.BasicBlockCount++
		}
	}
	return stats
}

// CountInstructions returns the total number of PVM instructions in the program
func (p *Program) CountInstructions() int {
	return p.mask.Count()
}

// GetBasicBlockBoundaries returns the sorted block start positions.
func (p *Program) GetBasicBlockBoundaries() []uint32 {
	var starts []uint32
	for pc, ok := range p.blockStarts {
		if ok {
			starts = append(starts, uint32(pc))
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	return starts
}
