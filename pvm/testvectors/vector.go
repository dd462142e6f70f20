// Package testvectors loads and runs PVM conformance vectors: a program
// blob plus its initial registers, page map, memory and gas, and the state
// the machine must end in.
package testvectors

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

//go:embed testdata/*.json
var builtin embed.FS

// Bytes is a byte string written as a JSON array of numbers.
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

type MemoryChunk struct {
	Address  uint32 `json:"address"`
	Contents Bytes  `json:"contents"`
}

type PageMap struct {
	Address    uint32 `json:"address"`
	Length     uint32 `json:"length"`
	IsWritable bool   `json:"is-writable"`
}

// TestCase is one vector in the community JSON format.
type TestCase struct {
	Name           string        `json:"name"`
	InitialRegs    []uint64      `json:"initial-regs"`
	InitialPC      uint32        `json:"initial-pc"`
	InitialPageMap []PageMap     `json:"initial-page-map"`
	InitialMemory  []MemoryChunk `json:"initial-memory"`
	InitialGas     int64         `json:"initial-gas"`
	Program        Bytes         `json:"program"`

	ExpectedStatus           string            `json:"expected-status"`
	ExpectedRegs             []uint64          `json:"expected-regs"`
	ExpectedPC               uint32            `json:"expected-pc"`
	ExpectedMemory           []MemoryChunk     `json:"expected-memory"`
	ExpectedGas              int64             `json:"expected-gas"`
	ExpectedPageFaultAddress *uint32           `json:"expected-page-fault-address,omitempty"`
	BlockGasCosts            map[uint32]uint64 `json:"block-gas-costs,omitempty"`
}

// Outcome is the comparable end state of a run. Its JSON form uses the
// expected-* keys so it can be diffed against the vector directly.
type Outcome struct {
	Status           string            `json:"expected-status"`
	Regs             []uint64          `json:"expected-regs"`
	PC               uint32            `json:"expected-pc"`
	Memory           []MemoryChunk     `json:"expected-memory"`
	Gas              int64             `json:"expected-gas"`
	PageFaultAddress *uint32           `json:"expected-page-fault-address,omitempty"`
	BlockGasCosts    map[uint32]uint64 `json:"block-gas-costs,omitempty"`
}

// Expected is the outcome the vector asks for.
func (tc *TestCase) Expected() *Outcome {
	return &Outcome{
		Status:           tc.ExpectedStatus,
		Regs:             tc.ExpectedRegs,
		PC:               tc.ExpectedPC,
		Memory:           tc.ExpectedMemory,
		Gas:              tc.ExpectedGas,
		PageFaultAddress: tc.ExpectedPageFaultAddress,
		BlockGasCosts:    tc.BlockGasCosts,
	}
}

// Parse decodes a single vector.
func Parse(data []byte) (*TestCase, error) {
	var tc TestCase
	if err := json.Unmarshal(data, &tc); err != nil {
		return nil, err
	}
	if _, err := pvmtypes.ParseStatus(tc.ExpectedStatus); err != nil {
		return nil, fmt.Errorf("expected-status: %w", err)
	}
	return &tc, nil
}

func loadFS(fsys fs.FS, dir string) ([]*TestCase, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var cases []*TestCase
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		tc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", e.Name(), err)
		}
		if tc.Name == "" {
			tc.Name = strings.TrimSuffix(e.Name(), ".json")
		}
		cases = append(cases, tc)
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

// LoadDir reads every *.json vector in dir, sorted by name.
func LoadDir(dir string) ([]*TestCase, error) {
	return loadFS(os.DirFS(dir), ".")
}

// Builtin returns the vectors shipped with the package.
func Builtin() ([]*TestCase, error) {
	return loadFS(builtin, "testdata")
}
