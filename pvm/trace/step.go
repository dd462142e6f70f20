// Package trace records executed PVM instructions as JSON Lines.
package trace

import (
	"golang.org/x/crypto/blake2b"

	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// maxInlineBytes is the largest write stored verbatim; longer ones are hashed.
const maxInlineBytes = 32

// Step is the machine state after one instruction.
type Step struct {
	Step         uint64                        `json:"step"`
	PC           uint32                        `json:"pc"`
	Opcode       uint8                         `json:"opcode"`
	Name         string                        `json:"name"`
	Gas          uint64                        `json:"gas"`
	Status       string                        `json:"status"`
	Registers    [pvmtypes.NumRegisters]uint64 `json:"registers"`
	FaultAddress uint32                        `json:"faultAddress,omitempty"`
	WriteAddr    *uint32                       `json:"writeAddr,omitempty"`
	WriteLength  int                           `json:"writeLength,omitempty"`
	WriteBytes   []byte                        `json:"writeBytes,omitempty"`
}

// SetWrite records the bytes an instruction stored.
func (s *Step) SetWrite(addr uint32, data []byte) {
	s.WriteAddr = &addr
	s.WriteLength = len(data)
	switch {
	case len(data) == 0:
		s.WriteBytes = nil
	case len(data) > maxInlineBytes:
		sum := blake2b.Sum256(data)
		s.WriteBytes = sum[:]
	default:
		s.WriteBytes = append([]byte(nil), data...)
	}
}

// Tracer receives one Step per executed instruction.
type Tracer interface {
	WriteStep(step *Step) error
}
