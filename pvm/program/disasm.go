package program

import (
	"fmt"
	"strings"
)

// RegisterNames maps register indices to their ABI names.
var RegisterNames = []string{
	"ra", "sp", "t0", "t1", "t2", "s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5",
}

func regName(idx uint8) string {
	if int(idx) < len(RegisterNames) {
		return RegisterNames[idx]
	}
	return fmt.Sprintf("r%d", idx)
}

// Instruction is one disassembled instruction.
type Instruction struct {
	PC         uint32
	Opcode     byte
	Name       string
	Operands   string
	Length     uint32
	BlockStart bool
	Args       Args
}

func (i Instruction) String() string {
	marker := " "
	if i.BlockStart {
		marker = "@"
	}
	if i.Operands == "" {
		return fmt.Sprintf("%s%6d: %s", marker, i.PC, i.Name)
	}
	return fmt.Sprintf("%s%6d: %-20s %s", marker, i.PC, i.Name, i.Operands)
}

// Disassemble decodes every instruction boundary of the program in order.
func (p *Program) Disassemble() []Instruction {
	out := make([]Instruction, 0, len(p.code)/2)
	var args Args
	for pc := uint32(0); pc < uint32(len(p.code)); pc++ {
		if !p.mask.IsInstruction(pc) {
			continue
		}
		skip := p.Skip(pc)
		DecodeArgs(p.code, pc, skip, &args)
		name := "unknown"
		if IsDefined(args.Opcode) {
			name = strings.ToLower(OpcodeToString(args.Opcode))
		}
		out = append(out, Instruction{
			PC:         pc,
			Opcode:     args.Opcode,
			Name:       name,
			Operands:   FormatArgs(&args),
			Length:     1 + skip,
			BlockStart: p.IsBeginningOfBasicBlock(pc),
			Args:       args,
		})
	}
	return out
}

// DisassembleToString renders the program as text, one instruction per line.
func (p *Program) DisassembleToString() string {
	instructions := p.Disassemble()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("; %d bytes of code, %d instructions, %d jump table entries\n",
		len(p.code), len(instructions), p.jumpTable.Len()))
	for _, inst := range instructions {
		sb.WriteString(inst.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatArgs renders decoded operands in assembler order.
func FormatArgs(a *Args) string {
	switch a.Shape {
	case ShapeOneImm:
		return fmt.Sprintf("%d", uint32(a.ImmX))
	case ShapeOneRegOneExtImm:
		return fmt.Sprintf("%s, 0x%x", regName(a.RegA), a.ImmX)
	case ShapeTwoImm:
		return fmt.Sprintf("[0x%x], 0x%x", uint32(a.ImmX), a.ImmY)
	case ShapeOneOffset:
		return fmt.Sprintf("@%d", a.Target)
	case ShapeOneRegOneImm:
		return fmt.Sprintf("%s, 0x%x", regName(a.RegA), a.ImmX)
	case ShapeOneRegTwoImm:
		return fmt.Sprintf("[%s + 0x%x], 0x%x", regName(a.RegA), uint32(a.ImmX), a.ImmY)
	case ShapeOneRegOneImmOneOffset:
		return fmt.Sprintf("%s, 0x%x, @%d", regName(a.RegA), a.ImmX, a.Target)
	case ShapeTwoRegs:
		return fmt.Sprintf("%s, %s", regName(a.RegD), regName(a.RegA))
	case ShapeTwoRegsOneImm:
		return fmt.Sprintf("%s, %s, 0x%x", regName(a.RegA), regName(a.RegB), a.ImmX)
	case ShapeTwoRegsOneOffset:
		return fmt.Sprintf("%s, %s, @%d", regName(a.RegA), regName(a.RegB), a.Target)
	case ShapeTwoRegsTwoImm:
		return fmt.Sprintf("%s, %s, 0x%x, 0x%x", regName(a.RegA), regName(a.RegB), a.ImmX, a.ImmY)
	case ShapeThreeRegs:
		return fmt.Sprintf("%s, %s, %s", regName(a.RegD), regName(a.RegA), regName(a.RegB))
	}
	return ""
}
