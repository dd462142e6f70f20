package compiler

import (
	"bytes"
	"testing"

	"github.com/jam-duna/jampvm/pvm/interpreter"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/jam-duna/jampvm/pvm/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sumProgram adds 10 down to 1 into r1, makes host call 7, stores r1 at
// [r2], reads it back into r3 and returns through r4.
func sumProgram() *program.Program {
	code, mask := program.BuildCode(
		[]byte{program.LOAD_IMM, 0x00, 10},              // 0: r0 = 10
		[]byte{program.FALLTHROUGH},                     // 3
		[]byte{program.ADD_64, 0x01, 0x01},              // 4: r1 = r1 + r0
		[]byte{program.ADD_IMM_64, 0x00, 0xFF},          // 7: r0 = r0 - 1
		[]byte{program.BRANCH_NE_IMM, 0x10, 0x00, 0xFA}, // 10: if r0 != 0 goto @4
		[]byte{program.ECALLI, 7},                       // 14
		[]byte{program.STORE_IND_U64, 0x21},             // 16: [r2] = r1
		[]byte{program.LOAD_IND_U32, 0x23},              // 18: r3 = [r2]
		[]byte{program.JUMP_IND, 0x04},                  // 20: jump r4
	)
	return program.NewProgram(code, mask, nil)
}

type backend interface {
	Reset(p *program.Program, pc uint32, regs [pvmtypes.NumRegisters]uint64, mem *memory.Memory, gas pvmtypes.Gas)
	RunProgram() pvmtypes.Status
	NextStep() pvmtypes.Status
	Status() pvmtypes.Status
	ExitParam() uint32
	PC() uint32
	Registers() *interpreter.Registers
	Memory() *memory.Memory
	Gas() pvmtypes.Gas
	GasUsed() pvmtypes.Gas
	Steps() uint64
	SetTracer(trace.Tracer)
}

type outcome struct {
	Status pvmtypes.Status
	PC     uint32
	Regs   [pvmtypes.NumRegisters]uint64
	Gas    pvmtypes.Gas
	Used   pvmtypes.Gas
	Steps  uint64
	Page   []byte
	Hosts  []uint32
}

func runSum(t *testing.T, vm backend, gas pvmtypes.Gas, single bool, tracer trace.Tracer) outcome {
	t.Helper()
	var regs [pvmtypes.NumRegisters]uint64
	regs[2] = 0x10000
	regs[4] = pvmtypes.HaltAddress
	mem := memory.NewBuilder().SetWriteablePages(0x10000, 0x11000, nil).Finalize(0x11000, 0x20000)
	vm.Reset(sumProgram(), 0, regs, mem, gas)
	if tracer != nil {
		vm.SetTracer(tracer)
	}

	var out outcome
	for {
		var status pvmtypes.Status
		if single {
			status = vm.NextStep()
		} else {
			status = vm.RunProgram()
		}
		if status == pvmtypes.HOST {
			out.Hosts = append(out.Hosts, vm.ExitParam())
			vm.Registers().Set(7, 100)
			continue
		}
		if status != pvmtypes.OK {
			break
		}
	}
	out.Status = vm.Status()
	out.PC = vm.PC()
	out.Regs = vm.Registers().GetAllU64()
	out.Gas = vm.Gas()
	out.Used = vm.GasUsed()
	out.Steps = vm.Steps()
	out.Page = vm.Memory().GetMemoryPage(0x10)
	return out
}

func TestSumProgram(t *testing.T) {
	out := runSum(t, New(), 1000, false, nil)
	assert.Equal(t, pvmtypes.HALT, out.Status)
	assert.Equal(t, uint64(55), out.Regs[1])
	assert.Equal(t, uint64(55), out.Regs[3])
	assert.Equal(t, uint64(100), out.Regs[7])
	assert.Equal(t, []uint32{7}, out.Hosts)
	assert.Equal(t, uint64(36), out.Steps)
	assert.Equal(t, pvmtypes.Gas(36), out.Used)
	assert.Equal(t, uint32(20), out.PC)
}

func TestMatchesInterpreter(t *testing.T) {
	for gas := pvmtypes.Gas(0); gas <= 40; gas++ {
		want := runSum(t, interpreter.New(), gas, false, nil)
		assert.Equal(t, want, runSum(t, New(), gas, false, nil), "run with gas %d", gas)
		assert.Equal(t, want, runSum(t, New(), gas, true, nil), "single step with gas %d", gas)
	}
}

func TestTracesMatchInterpreter(t *testing.T) {
	var left, right bytes.Buffer
	lw, rw := trace.NewJSONLWriter(&left), trace.NewJSONLWriter(&right)
	runSum(t, interpreter.New(), 30, false, lw)
	runSum(t, New(), 30, false, rw)
	require.NoError(t, lw.Close())
	require.NoError(t, rw.Close())

	steps, err := trace.ReadSteps(bytes.NewReader(left.Bytes()))
	require.NoError(t, err)
	assert.Len(t, steps, 30)

	d, err := trace.Compare(&left, &right)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestFastAndCheckedPaths(t *testing.T) {
	vm := New()
	runSum(t, vm, 1000, false, nil)
	fast, checked := vm.BlockCounts()
	assert.Equal(t, uint64(0), checked)
	assert.NotZero(t, fast)

	runSum(t, vm, 20, false, nil)
	_, checked = vm.BlockCounts()
	assert.Equal(t, uint64(1), checked)
	assert.Equal(t, pvmtypes.OOG, vm.Status())
}

func TestCompiledBlock(t *testing.T) {
	vm := New()
	runSum(t, vm, 1000, false, nil)

	bb := vm.CompiledBlock(4)
	require.NotNil(t, bb)
	require.Len(t, bb.Instructions, 3)
	assert.Equal(t, pvmtypes.Gas(3), bb.GasUsage)
	assert.Equal(t, uint32(14), bb.PVMNextPC)
	assert.Equal(t, uint32(10), bb.Instructions[2].Pc)
	assert.Contains(t, bb.String(), "branch_ne_imm")

	// entered after the host call, the block runs to the final jump
	bb = vm.CompiledBlock(16)
	require.NotNil(t, bb)
	assert.Len(t, bb.Instructions, 3)

	assert.Nil(t, vm.CompiledBlock(5))
}

func TestSharedCache(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)
	p := sumProgram()

	a, b := NewWithCache(cache), NewWithCache(cache)
	a.Reset(p, 0, [pvmtypes.NumRegisters]uint64{}, nil, 10)
	b.Reset(p, 0, [pvmtypes.NumRegisters]uint64{}, nil, 10)
	assert.Equal(t, 1, cache.Len())
	assert.Same(t, a.CompiledBlock(4), b.CompiledBlock(4))
}

func TestNilCacheFallsBackToPrivate(t *testing.T) {
	out := runSum(t, NewWithCache(nil), 1000, false, nil)
	assert.Equal(t, pvmtypes.HALT, out.Status)
	assert.Equal(t, uint64(55), out.Regs[1])
}

func TestNotAnInstruction(t *testing.T) {
	vm := New()
	assert.Equal(t, pvmtypes.PANIC, vm.RunProgram())

	code, mask := program.BuildCode([]byte{program.LOAD_IMM, 0x00, 0x05})
	vm.Reset(program.NewProgram(code, mask, nil), 1, [pvmtypes.NumRegisters]uint64{}, nil, 10)
	assert.Equal(t, pvmtypes.PANIC, vm.RunProgram())
	assert.Equal(t, pvmtypes.Gas(0), vm.GasUsed())

	// running off the end of the code
	vm.Reset(program.NewProgram(code, mask, nil), 0, [pvmtypes.NumRegisters]uint64{}, nil, 10)
	assert.Equal(t, pvmtypes.PANIC, vm.RunProgram())
	assert.Equal(t, uint64(5), vm.Registers().Get(0))
	assert.Equal(t, uint32(3), vm.PC())
}
