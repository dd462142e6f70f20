package program

// Args holds the decoded operands of one instruction. Register fields follow
// the A/B/D naming of Appendix A; fields a shape does not use are zero.
type Args struct {
	Opcode byte
	Shape  Shape
	RegA   uint8
	RegB   uint8
	RegD   uint8
	ImmX   uint64
	ImmY   uint64
	Target uint32 // absolute branch target for offset shapes
	Skip   uint32 // operand byte count
}

// NextPC is the pc of the instruction that follows this one.
func (a *Args) NextPC(pc uint32) uint32 {
	return pc + 1 + a.Skip
}

// DecodeArgs decodes the operands of the instruction at pc. skip is the
// operand length from the mask. Bytes past the end of code read as zero.
func DecodeArgs(code []byte, pc uint32, skip uint32, args *Args) {
	opcode := byte(TRAP)
	if pc < uint32(len(code)) {
		opcode = code[pc]
	}
	info := Lookup(opcode)
	*args = Args{Opcode: opcode, Shape: info.Shape, Skip: skip}

	at := func(i uint32) byte {
		if i < uint32(len(code)) {
			return code[i]
		}
		return 0
	}
	imm := func(start, n uint32) uint64 {
		var x uint64
		for i := int(n) - 1; i >= 0; i-- {
			x = x<<8 | uint64(at(start+uint32(i)))
		}
		return x
	}
	offset := func(start, n uint32) uint32 {
		return pc + uint32(ZEncode(imm(start, n), n))
	}
	reg := func(nibble byte) uint8 {
		return min(12, nibble)
	}

	switch info.Shape {
	case ShapeNoArgs:
	case ShapeOneImm:
		lx := min(4, skip)
		args.ImmX = XEncode(imm(pc+1, lx), lx)
	case ShapeOneRegOneExtImm:
		args.RegA = reg(at(pc+1) % 16)
		args.ImmX = imm(pc+2, 8)
	case ShapeTwoImm:
		lx := min(4, uint32(at(pc+1)%8))
		ly := min(4, sub0(skip, lx+1))
		args.ImmX = XEncode(imm(pc+2, lx), lx)
		args.ImmY = XEncode(imm(pc+2+lx, ly), ly)
	case ShapeOneOffset:
		lx := min(4, skip)
		args.Target = offset(pc+1, lx)
	case ShapeOneRegOneImm:
		args.RegA = reg(at(pc+1) % 16)
		lx := min(4, sub0(skip, 1))
		args.ImmX = XEncode(imm(pc+2, lx), lx)
	case ShapeOneRegTwoImm:
		b := at(pc + 1)
		args.RegA = reg(b % 16)
		lx := min(4, uint32(b/16%8))
		ly := min(4, sub0(skip, lx+1))
		args.ImmX = XEncode(imm(pc+2, lx), lx)
		args.ImmY = XEncode(imm(pc+2+lx, ly), ly)
	case ShapeOneRegOneImmOneOffset:
		b := at(pc + 1)
		args.RegA = reg(b % 16)
		lx := min(4, uint32(b/16%8))
		ly := min(4, sub0(skip, lx+1))
		args.ImmX = XEncode(imm(pc+2, lx), lx)
		args.Target = offset(pc+2+lx, ly)
	case ShapeTwoRegs:
		b := at(pc + 1)
		args.RegD = reg(b % 16)
		args.RegA = reg(b / 16)
	case ShapeTwoRegsOneImm:
		b := at(pc + 1)
		args.RegA = reg(b % 16)
		args.RegB = reg(b / 16)
		lx := min(4, sub0(skip, 1))
		args.ImmX = XEncode(imm(pc+2, lx), lx)
	case ShapeTwoRegsOneOffset:
		b := at(pc + 1)
		args.RegA = reg(b % 16)
		args.RegB = reg(b / 16)
		lx := min(4, sub0(skip, 1))
		args.Target = offset(pc+2, lx)
	case ShapeTwoRegsTwoImm:
		b := at(pc + 1)
		args.RegA = reg(b % 16)
		args.RegB = reg(b / 16)
		lx := min(4, uint32(at(pc+2)%8))
		ly := min(4, sub0(skip, lx+2))
		args.ImmX = XEncode(imm(pc+3, lx), lx)
		args.ImmY = XEncode(imm(pc+3+lx, ly), ly)
	case ShapeThreeRegs:
		b := at(pc + 1)
		args.RegA = reg(b % 16)
		args.RegB = reg(b / 16)
		args.RegD = reg(at(pc + 2))
	}
}

// sub0 is a - b clamped at zero.
func sub0(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}

// XEncode sign-extends the n-byte value x to 64 bits.
func XEncode(x uint64, n uint32) uint64 {
	if n == 0 || n > 8 {
		return 0
	}
	if n == 8 {
		return x
	}
	shift := 64 - 8*n
	return uint64(int64(x<<shift) >> shift)
}

// ZEncode interprets the n-byte value a as two's complement.
func ZEncode(a uint64, n uint32) int64 {
	if n == 0 || n > 8 {
		return 0
	}
	shift := 64 - 8*n
	return int64(a<<shift) >> shift
}
