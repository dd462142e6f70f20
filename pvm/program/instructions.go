package program

import "github.com/jam-duna/jampvm/pvm/pvmtypes"

// Opcodes, grouped by argument shape as in Appendix A.5 of the Gray Paper.

// A.5.1. Instructions without Arguments.
const (
	TRAP        = 0
	FALLTHROUGH = 1
)

// A.5.2. Instructions with Arguments of One Immediate.
const (
	ECALLI = 10
)

// A.5.3. Instructions with Arguments of One Register and One Extended Width Immediate.
const (
	LOAD_IMM_64 = 20
)

// A.5.4. Instructions with Arguments of Two Immediates.
const (
	STORE_IMM_U8  = 30
	STORE_IMM_U16 = 31
	STORE_IMM_U32 = 32
	STORE_IMM_U64 = 33
)

// A.5.5. Instructions with Arguments of One Offset.
const (
	JUMP = 40
)

// A.5.6. Instructions with Arguments of One Register & One Immediate.
const (
	JUMP_IND  = 50
	LOAD_IMM  = 51
	LOAD_U8   = 52
	LOAD_I8   = 53
	LOAD_U16  = 54
	LOAD_I16  = 55
	LOAD_U32  = 56
	LOAD_I32  = 57
	LOAD_U64  = 58
	STORE_U8  = 59
	STORE_U16 = 60
	STORE_U32 = 61
	STORE_U64 = 62
)

// A.5.7. Instructions with Arguments of One Register & Two Immediates.
const (
	STORE_IMM_IND_U8  = 70
	STORE_IMM_IND_U16 = 71
	STORE_IMM_IND_U32 = 72
	STORE_IMM_IND_U64 = 73
)

// A.5.8. Instructions with Arguments of One Register, One Immediate and One Offset.
const (
	LOAD_IMM_JUMP   = 80
	BRANCH_EQ_IMM   = 81
	BRANCH_NE_IMM   = 82
	BRANCH_LT_U_IMM = 83
	BRANCH_LE_U_IMM = 84
	BRANCH_GE_U_IMM = 85
	BRANCH_GT_U_IMM = 86
	BRANCH_LT_S_IMM = 87
	BRANCH_LE_S_IMM = 88
	BRANCH_GE_S_IMM = 89
	BRANCH_GT_S_IMM = 90
)

// A.5.9. Instructions with Arguments of Two Registers.
const (
	MOVE_REG              = 100
	SBRK                  = 101
	COUNT_SET_BITS_64     = 102
	COUNT_SET_BITS_32     = 103
	LEADING_ZERO_BITS_64  = 104
	LEADING_ZERO_BITS_32  = 105
	TRAILING_ZERO_BITS_64 = 106
	TRAILING_ZERO_BITS_32 = 107
	SIGN_EXTEND_8         = 108
	SIGN_EXTEND_16        = 109
	ZERO_EXTEND_16        = 110
	REVERSE_BYTES         = 111
)

// A.5.10. Instructions with Arguments of Two Registers & One Immediate.
const (
	STORE_IND_U8      = 120
	STORE_IND_U16     = 121
	STORE_IND_U32     = 122
	STORE_IND_U64     = 123
	LOAD_IND_U8       = 124
	LOAD_IND_I8       = 125
	LOAD_IND_U16      = 126
	LOAD_IND_I16      = 127
	LOAD_IND_U32      = 128
	LOAD_IND_I32      = 129
	LOAD_IND_U64      = 130
	ADD_IMM_32        = 131
	AND_IMM           = 132
	XOR_IMM           = 133
	OR_IMM            = 134
	MUL_IMM_32        = 135
	SET_LT_U_IMM      = 136
	SET_LT_S_IMM      = 137
	SHLO_L_IMM_32     = 138
	SHLO_R_IMM_32     = 139
	SHAR_R_IMM_32     = 140
	NEG_ADD_IMM_32    = 141
	SET_GT_U_IMM      = 142
	SET_GT_S_IMM      = 143
	SHLO_L_IMM_ALT_32 = 144
	SHLO_R_IMM_ALT_32 = 145
	SHAR_R_IMM_ALT_32 = 146
	CMOV_IZ_IMM       = 147
	CMOV_NZ_IMM       = 148
	ADD_IMM_64        = 149
	MUL_IMM_64        = 150
	SHLO_L_IMM_64     = 151
	SHLO_R_IMM_64     = 152
	SHAR_R_IMM_64     = 153
	NEG_ADD_IMM_64    = 154
	SHLO_L_IMM_ALT_64 = 155
	SHLO_R_IMM_ALT_64 = 156
	SHAR_R_IMM_ALT_64 = 157
	ROT_R_64_IMM      = 158
	ROT_R_64_IMM_ALT  = 159
	ROT_R_32_IMM      = 160
	ROT_R_32_IMM_ALT  = 161
)

// A.5.11. Instructions with Arguments of Two Registers & One Offset.
const (
	BRANCH_EQ   = 170
	BRANCH_NE   = 171
	BRANCH_LT_U = 172
	BRANCH_LT_S = 173
	BRANCH_GE_U = 174
	BRANCH_GE_S = 175
)

// A.5.12. Instruction with Arguments of Two Registers and Two Immediates.
const (
	LOAD_IMM_JUMP_IND = 180
)

// A.5.13. Instructions with Arguments of Three Registers.
const (
	ADD_32        = 190
	SUB_32        = 191
	MUL_32        = 192
	DIV_U_32      = 193
	DIV_S_32      = 194
	REM_U_32      = 195
	REM_S_32      = 196
	SHLO_L_32     = 197
	SHLO_R_32     = 198
	SHAR_R_32     = 199
	ADD_64        = 200
	SUB_64        = 201
	MUL_64        = 202
	DIV_U_64      = 203
	DIV_S_64      = 204
	REM_U_64      = 205
	REM_S_64      = 206
	SHLO_L_64     = 207
	SHLO_R_64     = 208
	SHAR_R_64     = 209
	AND           = 210
	XOR           = 211
	OR            = 212
	MUL_UPPER_S_S = 213
	MUL_UPPER_U_U = 214
	MUL_UPPER_S_U = 215
	SET_LT_U      = 216
	SET_LT_S      = 217
	CMOV_IZ       = 218
	CMOV_NZ       = 219
	ROT_L_64      = 220
	ROT_L_32      = 221
	ROT_R_64      = 222
	ROT_R_32      = 223
	AND_INV       = 224
	OR_INV        = 225
	XNOR          = 226
	MAX           = 227
	MAX_U         = 228
	MIN           = 229
	MIN_U         = 230
)

// Shape is the argument layout of an instruction.
type Shape uint8

const (
	ShapeNoArgs Shape = iota
	ShapeOneImm
	ShapeOneRegOneExtImm
	ShapeTwoImm
	ShapeOneOffset
	ShapeOneRegOneImm
	ShapeOneRegTwoImm
	ShapeOneRegOneImmOneOffset
	ShapeTwoRegs
	ShapeTwoRegsOneImm
	ShapeTwoRegsOneOffset
	ShapeTwoRegsTwoImm
	ShapeThreeRegs
)

var shapeNames = [...]string{
	ShapeNoArgs:                "NoArgs",
	ShapeOneImm:                "OneImm",
	ShapeOneRegOneExtImm:       "OneRegOneExtImm",
	ShapeTwoImm:                "TwoImm",
	ShapeOneOffset:             "OneOffset",
	ShapeOneRegOneImm:          "OneRegOneImm",
	ShapeOneRegTwoImm:          "OneRegTwoImm",
	ShapeOneRegOneImmOneOffset: "OneRegOneImmOneOffset",
	ShapeTwoRegs:               "TwoRegs",
	ShapeTwoRegsOneImm:         "TwoRegsOneImm",
	ShapeTwoRegsOneOffset:      "TwoRegsOneOffset",
	ShapeTwoRegsTwoImm:         "TwoRegsTwoImm",
	ShapeThreeRegs:             "ThreeRegs",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "Unknown"
}

// InstructionCategory represents the category of an instruction
type InstructionCategory int

const (
	CategoryUnknown InstructionCategory = iota
	CategoryArithmetic
	CategoryMemory
	CategoryControlFlow
)

// GetCategoryName returns the string name of an instruction category
func GetCategoryName(cat InstructionCategory) string {
	switch cat {
	case CategoryArithmetic:
		return "Arithmetic"
	case CategoryMemory:
		return "Memory"
	case CategoryControlFlow:
		return "ControlFlow"
	default:
		return "Unknown"
	}
}

// DefaultGasCost is the static cost charged for every instruction.
const DefaultGasCost pvmtypes.Gas = 1

// OpcodeInfo is one row of the static opcode table.
type OpcodeInfo struct {
	Name       string
	Shape      Shape
	Gas        pvmtypes.Gas
	Terminator bool
	Category   InstructionCategory
}

// Defined reports whether the row describes a real opcode.
func (o *OpcodeInfo) Defined() bool {
	return o.Name != ""
}

// opcodes is indexed by opcode byte. Zero rows are undefined opcodes.
var opcodes = [256]OpcodeInfo{
	TRAP:                  {Name: "TRAP", Shape: ShapeNoArgs, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	FALLTHROUGH:           {Name: "FALLTHROUGH", Shape: ShapeNoArgs, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	ECALLI:                {Name: "ECALLI", Shape: ShapeOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryControlFlow},
	LOAD_IMM_64:           {Name: "LOAD_IMM_64", Shape: ShapeOneRegOneExtImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_U8:          {Name: "STORE_IMM_U8", Shape: ShapeTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_U16:         {Name: "STORE_IMM_U16", Shape: ShapeTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_U32:         {Name: "STORE_IMM_U32", Shape: ShapeTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_U64:         {Name: "STORE_IMM_U64", Shape: ShapeTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	JUMP:                  {Name: "JUMP", Shape: ShapeOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	JUMP_IND:              {Name: "JUMP_IND", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	LOAD_IMM:              {Name: "LOAD_IMM", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_U8:               {Name: "LOAD_U8", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_I8:               {Name: "LOAD_I8", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_U16:              {Name: "LOAD_U16", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_I16:              {Name: "LOAD_I16", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_U32:              {Name: "LOAD_U32", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_I32:              {Name: "LOAD_I32", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_U64:              {Name: "LOAD_U64", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_U8:              {Name: "STORE_U8", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_U16:             {Name: "STORE_U16", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_U32:             {Name: "STORE_U32", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_U64:             {Name: "STORE_U64", Shape: ShapeOneRegOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_IND_U8:      {Name: "STORE_IMM_IND_U8", Shape: ShapeOneRegTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_IND_U16:     {Name: "STORE_IMM_IND_U16", Shape: ShapeOneRegTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_IND_U32:     {Name: "STORE_IMM_IND_U32", Shape: ShapeOneRegTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IMM_IND_U64:     {Name: "STORE_IMM_IND_U64", Shape: ShapeOneRegTwoImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IMM_JUMP:         {Name: "LOAD_IMM_JUMP", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_EQ_IMM:         {Name: "BRANCH_EQ_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_NE_IMM:         {Name: "BRANCH_NE_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_LT_U_IMM:       {Name: "BRANCH_LT_U_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_LE_U_IMM:       {Name: "BRANCH_LE_U_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_GE_U_IMM:       {Name: "BRANCH_GE_U_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_GT_U_IMM:       {Name: "BRANCH_GT_U_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_LT_S_IMM:       {Name: "BRANCH_LT_S_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_LE_S_IMM:       {Name: "BRANCH_LE_S_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_GE_S_IMM:       {Name: "BRANCH_GE_S_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_GT_S_IMM:       {Name: "BRANCH_GT_S_IMM", Shape: ShapeOneRegOneImmOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	MOVE_REG:              {Name: "MOVE_REG", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SBRK:                  {Name: "SBRK", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	COUNT_SET_BITS_64:     {Name: "COUNT_SET_BITS_64", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	COUNT_SET_BITS_32:     {Name: "COUNT_SET_BITS_32", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	LEADING_ZERO_BITS_64:  {Name: "LEADING_ZERO_BITS_64", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	LEADING_ZERO_BITS_32:  {Name: "LEADING_ZERO_BITS_32", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	TRAILING_ZERO_BITS_64: {Name: "TRAILING_ZERO_BITS_64", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	TRAILING_ZERO_BITS_32: {Name: "TRAILING_ZERO_BITS_32", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SIGN_EXTEND_8:         {Name: "SIGN_EXTEND_8", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SIGN_EXTEND_16:        {Name: "SIGN_EXTEND_16", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ZERO_EXTEND_16:        {Name: "ZERO_EXTEND_16", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	REVERSE_BYTES:         {Name: "REVERSE_BYTES", Shape: ShapeTwoRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	STORE_IND_U8:          {Name: "STORE_IND_U8", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IND_U16:         {Name: "STORE_IND_U16", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IND_U32:         {Name: "STORE_IND_U32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	STORE_IND_U64:         {Name: "STORE_IND_U64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IND_U8:           {Name: "LOAD_IND_U8", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IND_I8:           {Name: "LOAD_IND_I8", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IND_U16:          {Name: "LOAD_IND_U16", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IND_I16:          {Name: "LOAD_IND_I16", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IND_U32:          {Name: "LOAD_IND_U32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IND_I32:          {Name: "LOAD_IND_I32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	LOAD_IND_U64:          {Name: "LOAD_IND_U64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryMemory},
	ADD_IMM_32:            {Name: "ADD_IMM_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	AND_IMM:               {Name: "AND_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	XOR_IMM:               {Name: "XOR_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	OR_IMM:                {Name: "OR_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MUL_IMM_32:            {Name: "MUL_IMM_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SET_LT_U_IMM:          {Name: "SET_LT_U_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SET_LT_S_IMM:          {Name: "SET_LT_S_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_L_IMM_32:         {Name: "SHLO_L_IMM_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_R_IMM_32:         {Name: "SHLO_R_IMM_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHAR_R_IMM_32:         {Name: "SHAR_R_IMM_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	NEG_ADD_IMM_32:        {Name: "NEG_ADD_IMM_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SET_GT_U_IMM:          {Name: "SET_GT_U_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SET_GT_S_IMM:          {Name: "SET_GT_S_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_L_IMM_ALT_32:     {Name: "SHLO_L_IMM_ALT_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_R_IMM_ALT_32:     {Name: "SHLO_R_IMM_ALT_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHAR_R_IMM_ALT_32:     {Name: "SHAR_R_IMM_ALT_32", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	CMOV_IZ_IMM:           {Name: "CMOV_IZ_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	CMOV_NZ_IMM:           {Name: "CMOV_NZ_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ADD_IMM_64:            {Name: "ADD_IMM_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MUL_IMM_64:            {Name: "MUL_IMM_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_L_IMM_64:         {Name: "SHLO_L_IMM_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_R_IMM_64:         {Name: "SHLO_R_IMM_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHAR_R_IMM_64:         {Name: "SHAR_R_IMM_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	NEG_ADD_IMM_64:        {Name: "NEG_ADD_IMM_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_L_IMM_ALT_64:     {Name: "SHLO_L_IMM_ALT_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_R_IMM_ALT_64:     {Name: "SHLO_R_IMM_ALT_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHAR_R_IMM_ALT_64:     {Name: "SHAR_R_IMM_ALT_64", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_R_64_IMM:          {Name: "ROT_R_64_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_R_64_IMM_ALT:      {Name: "ROT_R_64_IMM_ALT", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_R_32_IMM:          {Name: "ROT_R_32_IMM", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_R_32_IMM_ALT:      {Name: "ROT_R_32_IMM_ALT", Shape: ShapeTwoRegsOneImm, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	BRANCH_EQ:             {Name: "BRANCH_EQ", Shape: ShapeTwoRegsOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_NE:             {Name: "BRANCH_NE", Shape: ShapeTwoRegsOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_LT_U:           {Name: "BRANCH_LT_U", Shape: ShapeTwoRegsOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_LT_S:           {Name: "BRANCH_LT_S", Shape: ShapeTwoRegsOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_GE_U:           {Name: "BRANCH_GE_U", Shape: ShapeTwoRegsOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	BRANCH_GE_S:           {Name: "BRANCH_GE_S", Shape: ShapeTwoRegsOneOffset, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	LOAD_IMM_JUMP_IND:     {Name: "LOAD_IMM_JUMP_IND", Shape: ShapeTwoRegsTwoImm, Gas: DefaultGasCost, Terminator: true, Category: CategoryControlFlow},
	ADD_32:                {Name: "ADD_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SUB_32:                {Name: "SUB_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MUL_32:                {Name: "MUL_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	DIV_U_32:              {Name: "DIV_U_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	DIV_S_32:              {Name: "DIV_S_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	REM_U_32:              {Name: "REM_U_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	REM_S_32:              {Name: "REM_S_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_L_32:             {Name: "SHLO_L_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_R_32:             {Name: "SHLO_R_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHAR_R_32:             {Name: "SHAR_R_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ADD_64:                {Name: "ADD_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SUB_64:                {Name: "SUB_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MUL_64:                {Name: "MUL_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	DIV_U_64:              {Name: "DIV_U_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	DIV_S_64:              {Name: "DIV_S_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	REM_U_64:              {Name: "REM_U_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	REM_S_64:              {Name: "REM_S_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_L_64:             {Name: "SHLO_L_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHLO_R_64:             {Name: "SHLO_R_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SHAR_R_64:             {Name: "SHAR_R_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	AND:                   {Name: "AND", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	XOR:                   {Name: "XOR", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	OR:                    {Name: "OR", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MUL_UPPER_S_S:         {Name: "MUL_UPPER_S_S", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MUL_UPPER_U_U:         {Name: "MUL_UPPER_U_U", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MUL_UPPER_S_U:         {Name: "MUL_UPPER_S_U", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SET_LT_U:              {Name: "SET_LT_U", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	SET_LT_S:              {Name: "SET_LT_S", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	CMOV_IZ:               {Name: "CMOV_IZ", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	CMOV_NZ:               {Name: "CMOV_NZ", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_L_64:              {Name: "ROT_L_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_L_32:              {Name: "ROT_L_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_R_64:              {Name: "ROT_R_64", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	ROT_R_32:              {Name: "ROT_R_32", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	AND_INV:               {Name: "AND_INV", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	OR_INV:                {Name: "OR_INV", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	XNOR:                  {Name: "XNOR", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MAX:                   {Name: "MAX", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MAX_U:                 {Name: "MAX_U", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MIN:                   {Name: "MIN", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
	MIN_U:                 {Name: "MIN_U", Shape: ShapeThreeRegs, Gas: DefaultGasCost, Terminator: false, Category: CategoryArithmetic},
}

// Lookup returns the table row for opcode. Undefined opcodes get the TRAP row,
// so they decode without arguments and execute as TRAP.
func Lookup(opcode byte) *OpcodeInfo {
	if info := &opcodes[opcode]; info.Defined() {
		return info
	}
	return &opcodes[TRAP]
}

// IsDefined reports whether opcode is part of the instruction set.
func IsDefined(opcode byte) bool {
	return opcodes[opcode].Defined()
}

// DefinedOpcodes lists every defined opcode in ascending order.
func DefinedOpcodes() []byte {
	out := make([]byte, 0, 160)
	for op := range opcodes {
		if opcodes[op].Defined() {
			out = append(out, byte(op))
		}
	}
	return out
}

// OpcodeToString returns the string representation of an opcode
func OpcodeToString(opcode byte) string {
	if !opcodes[opcode].Defined() {
		return "UNKNOWN"
	}
	return opcodes[opcode].Name
}

// IsBasicBlockTerminator returns true if the opcode terminates a basic block
func IsBasicBlockTerminator(opcode byte) bool {
	return Lookup(opcode).Terminator
}

// GetInstructionCategory returns the category of an instruction
func GetInstructionCategory(opcode byte) InstructionCategory {
	return opcodes[opcode].Category
}
