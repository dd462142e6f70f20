package testvectors

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nsf/jsondiff"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// Registers returns the initial register file. Missing registers are zero.
func (tc *TestCase) Registers() ([pvmtypes.NumRegisters]uint64, error) {
	var regs [pvmtypes.NumRegisters]uint64
	if len(tc.InitialRegs) > len(regs) {
		return regs, fmt.Errorf("%d initial registers, at most %d", len(tc.InitialRegs), len(regs))
	}
	copy(regs[:], tc.InitialRegs)
	return regs, nil
}

// Memory builds the initial memory: the page map first, then the initial
// contents written regardless of page access. The heap starts after the
// highest mapped page.
func (tc *TestCase) Memory() (*memory.Memory, error) {
	b := memory.NewBuilder()
	heap := uint32(0)
	for _, pm := range tc.InitialPageMap {
		if pm.Address%memory.PageSize != 0 || pm.Length%memory.PageSize != 0 {
			return nil, fmt.Errorf("page map entry 0x%x+%d is not page aligned", pm.Address, pm.Length)
		}
		end := uint64(pm.Address) + uint64(pm.Length)
		if end >= memory.AddressSpace {
			return nil, fmt.Errorf("page map entry 0x%x+%d exceeds the address space", pm.Address, pm.Length)
		}
		if pm.IsWritable {
			b.SetWriteablePages(pm.Address, uint32(end), nil)
		} else {
			b.SetReadablePages(pm.Address, uint32(end), nil)
		}
		if uint32(end) > heap {
			heap = uint32(end)
		}
	}
	mem := b.Finalize(heap, memory.MaxHeapEnd)

	for _, chunk := range tc.InitialMemory {
		if len(chunk.Contents) == 0 {
			continue
		}
		first := chunk.Address / memory.PageSize
		last := uint32((uint64(chunk.Address) + uint64(len(chunk.Contents)) - 1) / memory.PageSize)
		states := make([]memory.PageState, 0, last-first+1)
		for n := first; n <= last; n++ {
			states = append(states, mem.PageState(n))
		}
		if err := mem.SetPageState(first, last-first+1, memory.Writable); err != nil {
			return nil, err
		}
		if err := mem.StoreFrom(chunk.Address, chunk.Contents); err != nil {
			return nil, err
		}
		for i, st := range states {
			if st == memory.Unmapped {
				// written without a page map entry; leave it readable
				st = memory.Readable
			}
			if err := mem.SetPageState(first+uint32(i), 1, st); err != nil {
				return nil, err
			}
		}
	}
	return mem, nil
}

// Run loads tc into vm and executes it until the status leaves OK. A host
// call ends the run like any other status.
func Run(tc *TestCase, vm pvm.Backend) (*Outcome, error) {
	p, err := program.Decode(tc.Program)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tc.Name, err)
	}
	regs, err := tc.Registers()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tc.Name, err)
	}
	mem, err := tc.Memory()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tc.Name, err)
	}
	gas := pvmtypes.Gas(0)
	if tc.InitialGas > 0 {
		gas = pvmtypes.Gas(tc.InitialGas)
	}

	vm.Reset(p, tc.InitialPC, regs, mem, gas)
	status := vm.RunProgram()

	all := vm.Registers().GetAllU64()
	out := &Outcome{
		Status: status.String(),
		Regs:   all[:],
		PC:     vm.PC(),
		Memory: make([]MemoryChunk, 0, len(tc.ExpectedMemory)),
		Gas:    int64(vm.Gas()),
	}
	if status == pvmtypes.FAULT {
		addr := vm.ExitParam()
		out.PageFaultAddress = &addr
	}
	for _, want := range tc.ExpectedMemory {
		got := make([]byte, len(want.Contents))
		if err := vm.Memory().LoadInto(got, want.Address); err != nil {
			got = nil
		}
		out.Memory = append(out.Memory, MemoryChunk{Address: want.Address, Contents: got})
	}
	if tc.BlockGasCosts != nil {
		costs := vm.CalculateBlockGasCost()
		out.BlockGasCosts = make(map[uint32]uint64, len(tc.BlockGasCosts))
		for pc := range tc.BlockGasCosts {
			if g, ok := costs[pc]; ok {
				out.BlockGasCosts[pc] = uint64(g)
			}
		}
	}
	log.Debug(log.VectorsModule, "vector run", "name", tc.Name, "status", out.Status, "pc", out.PC, "gas", out.Gas)
	return out, nil
}

func normalize(o *Outcome) *Outcome {
	n := *o
	if n.Regs == nil {
		n.Regs = []uint64{}
	}
	if n.Memory == nil {
		n.Memory = []MemoryChunk{}
	}
	return &n
}

// Check compares got against the vector. The returned text is a console
// JSON diff of the two outcomes.
func Check(tc *TestCase, got *Outcome) (bool, string, error) {
	want, err := json.Marshal(normalize(tc.Expected()))
	if err != nil {
		return false, "", err
	}
	have, err := json.Marshal(normalize(got))
	if err != nil {
		return false, "", err
	}
	opts := jsondiff.DefaultConsoleOptions()
	diff, text := jsondiff.Compare(want, have, &opts)
	return diff == jsondiff.FullMatch, text, nil
}

// Report is the result of one vector.
type Report struct {
	Name   string
	Passed bool
	Diff   string
	Err    error
}

// RunAll runs every case on instances acquired from pool and returns the
// reports in the order of cases.
func RunAll(ctx context.Context, cases []*TestCase, pool *pvm.InstanceManager) []Report {
	reports := make([]Report, len(cases))
	var wg sync.WaitGroup
	for i, tc := range cases {
		wg.Add(1)
		go func(i int, tc *TestCase) {
			defer wg.Done()
			vm := pool.Acquire(ctx)
			defer pool.Release(vm)

			r := Report{Name: tc.Name}
			out, err := Run(tc, vm)
			if err == nil {
				r.Passed, r.Diff, err = Check(tc, out)
			}
			r.Err = err
			reports[i] = r
		}(i, tc)
	}
	wg.Wait()
	return reports
}
