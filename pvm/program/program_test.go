package program

import (
	"testing"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleCode is LOAD_IMM ra 5; JUMP @0; TRAP; FALLTHROUGH.
func sampleCode() ([]byte, Mask) {
	return BuildCode(
		[]byte{LOAD_IMM, 0x00, 0x05},
		[]byte{JUMP, 0xFD},
		[]byte{TRAP},
		[]byte{FALLTHROUGH},
	)
}

func TestDecodeRoundTrip(t *testing.T) {
	code, mask := sampleCode()
	jumpTable := []uint32{0, 5, 300}

	blob := Encode(code, mask, jumpTable)
	p, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, code, p.Code())
	assert.Equal(t, mask.Bytes(), p.Mask().Bytes())
	assert.Equal(t, jumpTable, p.JumpTable().Entries())
	// 300 needs a two byte item width
	assert.Equal(t, byte(2), blob[1])
}

func TestDecodeEmptyJumpTable(t *testing.T) {
	code, mask := sampleCode()
	p, err := Decode(Encode(code, mask, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, p.JumpTable().Len())
	assert.False(t, p.JumpTable().HasIndex(0))
}

func TestDecodeErrors(t *testing.T) {
	code, mask := sampleCode()
	blob := Encode(code, mask, []uint32{3})

	tests := []struct {
		name string
		blob []byte
		want error
	}{
		{"empty", nil, jamerrors.ErrProgramTruncated},
		{"no width", []byte{0x00}, jamerrors.ErrProgramTruncated},
		{"truncated", blob[:len(blob)-1], jamerrors.ErrProgramTruncated},
		{"trailing", append(append([]byte{}, blob...), 0x00), jamerrors.ErrProgramTrailingBytes},
		{"item width", []byte{0x00, 9, 0x00}, jamerrors.ErrProgramItemWidth},
		{"code length overflow", []byte{0x00, 0x00, 0xff, 0, 0, 0, 0, 1, 0, 0, 0}, jamerrors.ErrProgramTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.blob)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecodeClampsWideJumpTableEntries(t *testing.T) {
	blob := []byte{
		0x01,                   // one entry
		0x05,                   // five byte items
		0x01,                   // one byte of code
		0x00, 0x00, 0x00, 0x00, // 2^32
		0x01,
		TRAP,
		0x01, // mask
	}
	p, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), p.JumpTable().Destination(0))
}

func TestSkip(t *testing.T) {
	mask := MaskFromBits([]byte{1, 0, 0, 1, 0})
	p := NewProgram(make([]byte, 5), mask, nil)
	assert.Equal(t, uint32(2), p.Skip(0))
	assert.Equal(t, uint32(1), p.Skip(3))
	assert.Equal(t, uint32(2), mask.Skip(0))
	assert.Equal(t, uint32(1), mask.Skip(3))

	long := NewMask(40)
	long.Set(0)
	assert.Equal(t, uint32(24), long.Skip(0))
	assert.Equal(t, uint32(24), NewProgram(make([]byte, 40), long, nil).Skip(0))
}

func TestMaskResize(t *testing.T) {
	mask := MaskFromBits([]byte{1, 1, 1, 1, 1, 1, 1, 1, 1})
	p := NewProgram(make([]byte, 4), mask, nil)
	assert.Equal(t, uint32(4), p.Mask().Len())
	assert.Equal(t, 4, p.Mask().Count())
	assert.False(t, p.IsInstruction(4))
}

func TestBasicBlockStarts(t *testing.T) {
	code, mask := sampleCode()
	p := NewProgram(code, mask, nil)

	assert.Equal(t, []uint32{0, 5, 6}, p.GetBasicBlockBoundaries())
	assert.True(t, p.IsBeginningOfBasicBlock(0))
	assert.False(t, p.IsBeginningOfBasicBlock(3))
	assert.False(t, p.IsBeginningOfBasicBlock(1))
	assert.False(t, p.IsBeginningOfBasicBlock(100))

	blocks := p.BasicBlocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, BasicBlock{Start: 0, End: 5, Instructions: []uint32{0, 3}, Gas: 2}, blocks[0])
	assert.Equal(t, BasicBlock{Start: 5, End: 6, Instructions: []uint32{5}, Gas: 1}, blocks[1])
	assert.Equal(t, BasicBlock{Start: 6, End: 7, Instructions: []uint32{6}, Gas: 1}, blocks[2])

	_, ok := p.BlockAt(3)
	assert.False(t, ok)
}

func TestCalculateBlockGasCost(t *testing.T) {
	code, mask := sampleCode()
	p := NewProgram(code, mask, nil)
	costs := p.CalculateBlockGasCost()
	assert.Len(t, costs, 3)
	assert.EqualValues(t, 2, costs[0])
	assert.EqualValues(t, 1, costs[5])
	assert.EqualValues(t, 1, costs[6])
}

func TestUndefinedOpcodeTerminatesBlock(t *testing.T) {
	code, mask := BuildCode([]byte{0xFF}, []byte{FALLTHROUGH})
	p := NewProgram(code, mask, nil)
	assert.True(t, p.IsBeginningOfBasicBlock(1))
	assert.False(t, IsDefined(0xFF))
	assert.Equal(t, "UNKNOWN", OpcodeToString(0xFF))
	assert.Equal(t, ShapeNoArgs, Lookup(0xFF).Shape)
}

func TestDisassembleCountsInstructions(t *testing.T) {
	code, mask := sampleCode()
	p := NewProgram(code, mask, nil)

	instructions := p.Disassemble()
	require.Len(t, instructions, mask.Count())
	assert.Equal(t, p.CountInstructions(), len(instructions))

	assert.Equal(t, "load_imm", instructions[0].Name)
	assert.Equal(t, "ra, 0x5", instructions[0].Operands)
	assert.Equal(t, uint32(3), instructions[0].Length)
	assert.True(t, instructions[0].BlockStart)

	assert.Equal(t, "jump", instructions[1].Name)
	assert.Equal(t, "@0", instructions[1].Operands)
	assert.False(t, instructions[1].BlockStart)

	assert.Equal(t, "trap", instructions[2].Name)
	assert.Equal(t, "fallthrough", instructions[3].Name)

	text := p.DisassembleToString()
	assert.Contains(t, text, "4 instructions")
	assert.Contains(t, text, "jump")
}

func TestStats(t *testing.T) {
	code, mask := BuildCode(
		[]byte{STORE_IMM_U64, 0x00, 0x00, 0x00},
		[]byte{JUMP, 0x00},
		[]byte{0xFF},
	)
	stats := NewProgram(code, mask, nil).Stats()
	assert.Equal(t, 3, stats.InstructionCount)
	assert.Equal(t, 2, stats.BasicBlockCount)
	assert.Equal(t, 1, stats.UnknownOpcodes)
	assert.Equal(t, 1, stats.OpcodeDistribution[STORE_IMM_U64])
	assert.Equal(t, 1, stats.CategoryCounts[CategoryMemory])
	assert.Equal(t, 1, stats.CategoryCounts[CategoryControlFlow])
}

func TestOpcodeTable(t *testing.T) {
	defined := DefinedOpcodes()
	assert.Len(t, defined, 139)
	for _, op := range defined {
		info := Lookup(op)
		assert.NotEmpty(t, info.Name)
		assert.Equal(t, DefaultGasCost, info.Gas, info.Name)
	}
	for _, op := range []byte{TRAP, FALLTHROUGH, JUMP, JUMP_IND, LOAD_IMM_JUMP, LOAD_IMM_JUMP_IND, BRANCH_EQ, BRANCH_GT_S_IMM} {
		assert.True(t, IsBasicBlockTerminator(op), OpcodeToString(op))
	}
	assert.False(t, IsBasicBlockTerminator(ECALLI))
	assert.False(t, IsBasicBlockTerminator(ADD_64))
}
