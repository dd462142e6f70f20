package performance

import "time"

// BackendBenchResult captures timing stats for one backend.
type BackendBenchResult struct {
	Backend        string  `json:"backend"`
	Status         string  `json:"status"`
	Steps          uint64  `json:"steps"`
	GasUsed        uint64  `json:"gas_used"`
	RunDurationsNs []int64 `json:"run_durations_ns"`
	AvgNs          int64   `json:"avg_ns"`
	MinNs          int64   `json:"min_ns"`
	MaxNs          int64   `json:"max_ns"`
}

// BackendBenchReport stores the full benchmark run for interpreter vs compiler.
type BackendBenchReport struct {
	Program     string               `json:"program"`
	Stats       *ProgramStats        `json:"stats"`
	InitialGas  uint64               `json:"initial_gas"`
	Runs        int                  `json:"runs"`
	Backends    []string             `json:"backends"`
	Results     []BackendBenchResult `json:"results"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Result returns the entry for backend, or nil.
func (r *BackendBenchReport) Result(backend string) *BackendBenchResult {
	for i := range r.Results {
		if r.Results[i].Backend == backend {
			return &r.Results[i]
		}
	}
	return nil
}

// Speedup is the ratio of base's average run time to other's.
func (r *BackendBenchReport) Speedup(base, other string) float64 {
	b, o := r.Result(base), r.Result(other)
	if b == nil || o == nil || o.AvgNs == 0 {
		return 0
	}
	return float64(b.AvgNs) / float64(o.AvgNs)
}
