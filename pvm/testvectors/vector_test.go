package testvectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jam-duna/jampvm/pvm"
	"github.com/jam-duna/jampvm/pvm/memory"
)

func TestBuiltinVectors(t *testing.T) {
	cases, err := Builtin()
	require.NoError(t, err)
	require.Len(t, cases, 7)

	for _, kind := range pvm.Backends {
		vm, err := pvm.NewBackend(kind)
		require.NoError(t, err)
		for _, tc := range cases {
			t.Run(kind+"/"+tc.Name, func(t *testing.T) {
				out, err := Run(tc, vm)
				require.NoError(t, err)
				ok, diff, err := Check(tc, out)
				require.NoError(t, err)
				assert.True(t, ok, diff)
			})
		}
	}
}

func TestCheckReportsDifference(t *testing.T) {
	cases, err := Builtin()
	require.NoError(t, err)
	tc := cases[0]

	vm, err := pvm.NewBackend(pvm.BackendInterpreter)
	require.NoError(t, err)
	out, err := Run(tc, vm)
	require.NoError(t, err)

	out.Gas++
	ok, diff, err := Check(tc, out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, diff, "expected-gas")
}

func TestRunAll(t *testing.T) {
	cases, err := Builtin()
	require.NoError(t, err)
	pool, err := pvm.NewInstanceManager(pvm.BackendCompiler, 2)
	require.NoError(t, err)

	reports := RunAll(context.Background(), cases, pool)
	require.Len(t, reports, len(cases))
	for i, r := range reports {
		assert.Equal(t, cases[i].Name, r.Name)
		assert.NoError(t, r.Err)
		assert.True(t, r.Passed, "%s: %s", r.Name, r.Diff)
	}
	assert.Equal(t, 2, pool.Available())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", "inst_jump_ind_halt.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"program":[0,0,1,0,1],"expected-status":"panic"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	cases, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "a", cases[0].Name)
	assert.Equal(t, Bytes{0, 0, 1, 0, 1}, cases[0].Program)
	assert.Equal(t, "inst_jump_ind_halt", cases[1].Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.json"), []byte(`{"program":`), 0o644))
	_, err = LoadDir(dir)
	assert.Error(t, err)
}

func TestInitialMemory(t *testing.T) {
	tc := &TestCase{
		InitialPageMap: []PageMap{{Address: 0x10000, Length: 2 * memory.PageSize}},
		InitialMemory:  []MemoryChunk{{Address: 0x10ffe, Contents: Bytes{1, 2, 3, 4}}},
	}
	mem, err := tc.Memory()
	require.NoError(t, err)
	assert.Equal(t, memory.Readable, mem.PageState(0x10))
	assert.Equal(t, memory.Readable, mem.PageState(0x11))

	buf := make([]byte, 4)
	require.NoError(t, mem.LoadInto(buf, 0x10ffe))
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
	assert.Error(t, mem.StoreFrom(0x10000, []byte{1}))
	assert.Equal(t, uint32(0x12000), mem.HeapPointer())

	tc.InitialPageMap = []PageMap{{Address: 0x10001, Length: memory.PageSize}}
	_, err = tc.Memory()
	assert.Error(t, err)
}

func TestBytesJSON(t *testing.T) {
	b, err := Bytes{0, 255}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[0,255]", string(b))

	tc, err := Parse([]byte(`{"name":"x","program":[7,8],"initial-regs":[1],"expected-status":"halt"}`))
	require.NoError(t, err)
	assert.Equal(t, Bytes{7, 8}, tc.Program)
	regs, err := tc.Registers()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), regs[0])

	tc.InitialRegs = make([]uint64, 14)
	_, err = tc.Registers()
	assert.Error(t, err)
}

func TestParseRejectsStatus(t *testing.T) {
	_, err := Parse([]byte(`{"name":"x","program":[0],"expected-status":"trap"}`))
	assert.ErrorContains(t, err, "expected-status")

	_, err = Parse([]byte(`{"name":"x","program":[0]}`))
	assert.Error(t, err)

	tc, err := Parse([]byte(`{"name":"x","program":[0],"expected-status":"page-fault"}`))
	require.NoError(t, err)
	assert.Equal(t, "page-fault", tc.ExpectedStatus)
}
