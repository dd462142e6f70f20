package performance

import (
	"fmt"
	"time"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/programstore"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

const (
	DefaultRuns = 3
	DefaultGas  = 1_000_000_000
)

// ProgramStats describes the static shape of a program.
type ProgramStats struct {
	CodeSize         int           `json:"code_size"`
	InstructionCount int           `json:"instruction_count"`
	BasicBlockCount  int           `json:"basic_block_count"`
	JumpTableSize    int           `json:"jump_table_size"`
	StaticGas        uint64        `json:"static_gas"`
	DecodeTime       time.Duration `json:"decode_time"`
}

// Analyze decodes blob and counts its instructions and blocks.
func Analyze(blob []byte, standard bool) (*ProgramStats, error) {
	start := time.Now()
	var (
		p   *program.Program
		err error
	)
	if standard {
		var std *program.StandardProgram
		if std, err = program.DecodeStandard(blob); err == nil {
			p = std.Program
		}
	} else {
		p, err = program.Decode(blob)
	}
	if err != nil {
		return nil, err
	}
	stats := &ProgramStats{
		CodeSize:         len(p.Code()),
		InstructionCount: len(p.Disassemble()),
		BasicBlockCount:  len(p.BasicBlocks()),
		JumpTableSize:    p.JumpTable().Len(),
		DecodeTime:       time.Since(start),
	}
	for _, g := range p.CalculateBlockGasCost() {
		stats.StaticGas += uint64(g)
	}
	return stats, nil
}

// Options controls RunBackends.
type Options struct {
	Gas      uint64
	Runs     int
	Backends []string
	Standard bool
	Args     []byte
}

func (o *Options) defaults() {
	if o.Gas == 0 {
		o.Gas = DefaultGas
	}
	if o.Runs < 1 {
		o.Runs = DefaultRuns
	}
	if len(o.Backends) == 0 {
		o.Backends = pvm.Backends
	}
}

// RunBackends executes blob o.Runs times on every backend, timing each
// RunProgram. All backends must stop with the same status, steps and gas.
func RunBackends(blob []byte, o Options) (*BackendBenchReport, error) {
	o.defaults()
	stats, err := Analyze(blob, o.Standard)
	if err != nil {
		return nil, err
	}
	report := &BackendBenchReport{
		Program:     programstore.Hash(blob).Hex(),
		Stats:       stats,
		InitialGas:  o.Gas,
		Runs:        o.Runs,
		Backends:    o.Backends,
		GeneratedAt: time.Now().UTC(),
	}

	for _, backend := range o.Backends {
		vm, err := pvm.NewBackend(backend)
		if err != nil {
			return nil, err
		}
		res := BackendBenchResult{Backend: backend, RunDurationsNs: make([]int64, 0, o.Runs)}
		for i := 0; i < o.Runs; i++ {
			if o.Standard {
				err = vm.ResetStandard(blob, o.Args, 0, pvmtypes.Gas(o.Gas))
			} else {
				err = vm.ResetGeneric(blob, 0, [pvmtypes.NumRegisters]uint64{}, pvmtypes.Gas(o.Gas))
			}
			if err != nil {
				return nil, err
			}
			start := time.Now()
			vm.RunProgram()
			res.RunDurationsNs = append(res.RunDurationsNs, time.Since(start).Nanoseconds())
		}
		res.Status = vm.Status().String()
		res.Steps = vm.Steps()
		res.GasUsed = uint64(vm.GasUsed())
		res.AvgNs, res.MinNs, res.MaxNs = summarizeDurations(res.RunDurationsNs)

		if len(report.Results) > 0 {
			first := report.Results[0]
			if first.Status != res.Status || first.Steps != res.Steps || first.GasUsed != res.GasUsed {
				return nil, fmt.Errorf("backends disagree: %s stopped %s after %d steps (gas %d), %s stopped %s after %d steps (gas %d)",
					first.Backend, first.Status, first.Steps, first.GasUsed, backend, res.Status, res.Steps, res.GasUsed)
			}
		}
		log.Debug(log.PvmModule, "benchmark", "backend", backend, "avg", time.Duration(res.AvgNs), "min", time.Duration(res.MinNs),
			"max", time.Duration(res.MaxNs), "steps", res.Steps)
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func summarizeDurations(durations []int64) (avg int64, min int64, max int64) {
	if len(durations) == 0 {
		return 0, 0, 0
	}
	min = durations[0]
	max = durations[0]
	var sum int64
	for _, d := range durations {
		sum += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	avg = sum / int64(len(durations))
	return avg, min, max
}
