package interpreter

import "github.com/jam-duna/jampvm/pvm/program"

// dispatch maps every defined opcode to its handler. Undefined opcodes have
// no entry and execute as TRAP.
var dispatch = [256]Handler{
	// A.5.1
	program.TRAP:        opTrap,
	program.FALLTHROUGH: opFallthrough,

	// A.5.2
	program.ECALLI: opEcalli,

	// A.5.3
	program.LOAD_IMM_64: opLoadImm64,

	// A.5.4
	program.STORE_IMM_U8:  storeImm(1),
	program.STORE_IMM_U16: storeImm(2),
	program.STORE_IMM_U32: storeImm(4),
	program.STORE_IMM_U64: storeImm(8),

	// A.5.5
	program.JUMP: opJump,

	// A.5.6
	program.JUMP_IND:  opJumpInd,
	program.LOAD_IMM:  opLoadImm,
	program.LOAD_U8:   loadDirect(1, false),
	program.LOAD_I8:   loadDirect(1, true),
	program.LOAD_U16:  loadDirect(2, false),
	program.LOAD_I16:  loadDirect(2, true),
	program.LOAD_U32:  loadDirect(4, false),
	program.LOAD_I32:  loadDirect(4, true),
	program.LOAD_U64:  loadDirect(8, false),
	program.STORE_U8:  storeDirect(1),
	program.STORE_U16: storeDirect(2),
	program.STORE_U32: storeDirect(4),
	program.STORE_U64: storeDirect(8),

	// A.5.7
	program.STORE_IMM_IND_U8:  storeImmIndirect(1),
	program.STORE_IMM_IND_U16: storeImmIndirect(2),
	program.STORE_IMM_IND_U32: storeImmIndirect(4),
	program.STORE_IMM_IND_U64: storeImmIndirect(8),

	// A.5.8
	program.LOAD_IMM_JUMP:   opLoadImmJump,
	program.BRANCH_EQ_IMM:   branchImm(eq),
	program.BRANCH_NE_IMM:   branchImm(ne),
	program.BRANCH_LT_U_IMM: branchImm(ltU),
	program.BRANCH_LE_U_IMM: branchImm(leU),
	program.BRANCH_GE_U_IMM: branchImm(geU),
	program.BRANCH_GT_U_IMM: branchImm(gtU),
	program.BRANCH_LT_S_IMM: branchImm(ltS),
	program.BRANCH_LE_S_IMM: branchImm(leS),
	program.BRANCH_GE_S_IMM: branchImm(geS),
	program.BRANCH_GT_S_IMM: branchImm(gtS),

	// A.5.9
	program.MOVE_REG:              opMoveReg,
	program.SBRK:                  opSbrk,
	program.COUNT_SET_BITS_64:     unary(countSetBits64),
	program.COUNT_SET_BITS_32:     unary(countSetBits32),
	program.LEADING_ZERO_BITS_64:  unary(leadingZeroBits64),
	program.LEADING_ZERO_BITS_32:  unary(leadingZeroBits32),
	program.TRAILING_ZERO_BITS_64: unary(trailingZeroBits64),
	program.TRAILING_ZERO_BITS_32: unary(trailingZeroBits32),
	program.SIGN_EXTEND_8:         unary(signExtend8),
	program.SIGN_EXTEND_16:        unary(signExtend16),
	program.ZERO_EXTEND_16:        unary(zeroExtend16),
	program.REVERSE_BYTES:         unary(reverseBytes),

	// A.5.10
	program.STORE_IND_U8:      storeIndirect(1),
	program.STORE_IND_U16:     storeIndirect(2),
	program.STORE_IND_U32:     storeIndirect(4),
	program.STORE_IND_U64:     storeIndirect(8),
	program.LOAD_IND_U8:       loadIndirect(1, false),
	program.LOAD_IND_I8:       loadIndirect(1, true),
	program.LOAD_IND_U16:      loadIndirect(2, false),
	program.LOAD_IND_I16:      loadIndirect(2, true),
	program.LOAD_IND_U32:      loadIndirect(4, false),
	program.LOAD_IND_I32:      loadIndirect(4, true),
	program.LOAD_IND_U64:      loadIndirect(8, false),
	program.ADD_IMM_32:        binaryImm(add32),
	program.AND_IMM:           binaryImm(and),
	program.XOR_IMM:           binaryImm(xor),
	program.OR_IMM:            binaryImm(or),
	program.MUL_IMM_32:        binaryImm(mul32),
	program.SET_LT_U_IMM:      binaryImm(setLtU),
	program.SET_LT_S_IMM:      binaryImm(setLtS),
	program.SHLO_L_IMM_32:     binaryImm(shloL32),
	program.SHLO_R_IMM_32:     binaryImm(shloR32),
	program.SHAR_R_IMM_32:     binaryImm(sharR32),
	program.NEG_ADD_IMM_32:    binaryImmAlt(sub32),
	program.SET_GT_U_IMM:      binaryImm(setGtU),
	program.SET_GT_S_IMM:      binaryImm(setGtS),
	program.SHLO_L_IMM_ALT_32: binaryImmAlt(shloL32),
	program.SHLO_R_IMM_ALT_32: binaryImmAlt(shloR32),
	program.SHAR_R_IMM_ALT_32: binaryImmAlt(sharR32),
	program.CMOV_IZ_IMM:       opCmovIzImm,
	program.CMOV_NZ_IMM:       opCmovNzImm,
	program.ADD_IMM_64:        binaryImm(add64),
	program.MUL_IMM_64:        binaryImm(mul64),
	program.SHLO_L_IMM_64:     binaryImm(shloL64),
	program.SHLO_R_IMM_64:     binaryImm(shloR64),
	program.SHAR_R_IMM_64:     binaryImm(sharR64),
	program.NEG_ADD_IMM_64:    binaryImmAlt(sub64),
	program.SHLO_L_IMM_ALT_64: binaryImmAlt(shloL64),
	program.SHLO_R_IMM_ALT_64: binaryImmAlt(shloR64),
	program.SHAR_R_IMM_ALT_64: binaryImmAlt(sharR64),
	program.ROT_R_64_IMM:      binaryImm(rotR64),
	program.ROT_R_64_IMM_ALT:  binaryImmAlt(rotR64),
	program.ROT_R_32_IMM:      binaryImm(rotR32),
	program.ROT_R_32_IMM_ALT:  binaryImmAlt(rotR32),

	// A.5.11
	program.BRANCH_EQ:   branchRegs(eq),
	program.BRANCH_NE:   branchRegs(ne),
	program.BRANCH_LT_U: branchRegs(ltU),
	program.BRANCH_LT_S: branchRegs(ltS),
	program.BRANCH_GE_U: branchRegs(geU),
	program.BRANCH_GE_S: branchRegs(geS),

	// A.5.12
	program.LOAD_IMM_JUMP_IND: opLoadImmJumpInd,

	// A.5.13
	program.ADD_32:        binaryRegs(add32),
	program.SUB_32:        binaryRegs(sub32),
	program.MUL_32:        binaryRegs(mul32),
	program.DIV_U_32:      binaryRegs(divU32),
	program.DIV_S_32:      binaryRegs(divS32),
	program.REM_U_32:      binaryRegs(remU32),
	program.REM_S_32:      binaryRegs(remS32),
	program.SHLO_L_32:     binaryRegs(shloL32),
	program.SHLO_R_32:     binaryRegs(shloR32),
	program.SHAR_R_32:     binaryRegs(sharR32),
	program.ADD_64:        binaryRegs(add64),
	program.SUB_64:        binaryRegs(sub64),
	program.MUL_64:        binaryRegs(mul64),
	program.DIV_U_64:      binaryRegs(divU64),
	program.DIV_S_64:      binaryRegs(divS64),
	program.REM_U_64:      binaryRegs(remU64),
	program.REM_S_64:      binaryRegs(remS64),
	program.SHLO_L_64:     binaryRegs(shloL64),
	program.SHLO_R_64:     binaryRegs(shloR64),
	program.SHAR_R_64:     binaryRegs(sharR64),
	program.AND:           binaryRegs(and),
	program.XOR:           binaryRegs(xor),
	program.OR:            binaryRegs(or),
	program.MUL_UPPER_S_S: binaryRegs(mulUpperSS),
	program.MUL_UPPER_U_U: binaryRegs(mulUpperUU),
	program.MUL_UPPER_S_U: binaryRegs(mulUpperSU),
	program.SET_LT_U:      binaryRegs(setLtU),
	program.SET_LT_S:      binaryRegs(setLtS),
	program.CMOV_IZ:       opCmovIz,
	program.CMOV_NZ:       opCmovNz,
	program.ROT_L_64:      binaryRegs(rotL64),
	program.ROT_L_32:      binaryRegs(rotL32),
	program.ROT_R_64:      binaryRegs(rotR64),
	program.ROT_R_32:      binaryRegs(rotR32),
	program.AND_INV:       binaryRegs(andInv),
	program.OR_INV:        binaryRegs(orInv),
	program.XNOR:          binaryRegs(xnor),
	program.MAX:           binaryRegs(maxS),
	program.MAX_U:         binaryRegs(maxU),
	program.MIN:           binaryRegs(minS),
	program.MIN_U:         binaryRegs(minU),
}

// HandlerFor returns the handler of opcode, TRAP for undefined opcodes.
func HandlerFor(opcode byte) Handler {
	if h := dispatch[opcode]; h != nil {
		return h
	}
	return opTrap
}
