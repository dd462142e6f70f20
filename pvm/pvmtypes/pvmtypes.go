// Package pvmtypes consolidates shared types, interfaces, and constants for the PVM.
package pvmtypes

import "fmt"

// ============================================================================
// Machine Status
// ============================================================================

// Status is the externally visible machine state. The numeric values are
// shared with every other PVM implementation.
type Status uint8

const (
	HALT  Status = 0   // regular halt
	PANIC Status = 1   // panic
	FAULT Status = 2   // page-fault
	HOST  Status = 3   // host-call
	OOG   Status = 4   // out-of-gas
	OK    Status = 255 // still running
)

var statusNames = map[Status]string{
	HALT:  "halt",
	PANIC: "panic",
	FAULT: "page-fault",
	HOST:  "host",
	OOG:   "out-of-gas",
	OK:    "ok",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Terminal reports whether no further instruction can run without a reset.
func (s Status) Terminal() bool {
	return s != OK && s != HOST
}

// Gas is a remaining or consumed gas amount.
type Gas uint64

// ============================================================================
// Host Function Result Codes
// ============================================================================

const (
	HostOK uint64 = 0
	NONE   uint64 = (1 << 64) - 1
	WHAT   uint64 = (1 << 64) - 2
	OOB    uint64 = (1 << 64) - 3
	WHO    uint64 = (1 << 64) - 4
	FULL   uint64 = (1 << 64) - 5
	CORE   uint64 = (1 << 64) - 6
	CASH   uint64 = (1 << 64) - 7
	LOW    uint64 = (1 << 64) - 8
	HUH    uint64 = (1 << 64) - 9
)

var hostResultNames = map[uint64]string{
	HostOK: "OK",
	NONE:   "NONE",
	WHAT:   "WHAT",
	OOB:    "OOB",
	WHO:    "WHO",
	FULL:   "FULL",
	CORE:   "CORE",
	CASH:   "CASH",
	LOW:    "LOW",
	HUH:    "HUH",
}

// HostResultName names a host call result placed in r7. Values that are
// not result codes are returned as decimal.
func HostResultName(v uint64) string {
	if name, ok := hostResultNames[v]; ok {
		return name
	}
	return fmt.Sprintf("%d", v)
}

// ============================================================================
// ABI Constants
// ============================================================================

const (
	NumRegisters = 13

	Z_A = 2 // dynamic jump alignment

	Z_P = (1 << 12) // page size
	Z_I = (1 << 24) // input data size
	Z_Z = (1 << 16) // standard zone size

	// HaltAddress is the dynamic jump target that halts the machine.
	HaltAddress = (1 << 32) - (1 << 16)

	MaxSkip = 24
)

func CeilingDivide(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// PFunc rounds x up to a page boundary.
func PFunc(x uint64) uint64 {
	return Z_P * CeilingDivide(x, Z_P)
}

// ZFunc rounds x up to a zone boundary.
func ZFunc(x uint64) uint64 {
	return Z_Z * CeilingDivide(x, Z_Z)
}

// ============================================================================
// Host Call Boundary
// ============================================================================

// PageFault is the only error memory accesses produce.
type PageFault struct {
	Address uint32
	IsWrite bool
}

func (f *PageFault) Error() string {
	if f.IsWrite {
		return fmt.Sprintf("page fault writing 0x%x", f.Address)
	}
	return fmt.Sprintf("page fault reading 0x%x", f.Address)
}

// IHostCallRegisters is the register view handed to host call handlers.
type IHostCallRegisters interface {
	Get(idx int) uint64
	Set(idx int, value uint64)
}

// IHostCallMemory is the memory view handed to host call handlers. Errors are *PageFault.
type IHostCallMemory interface {
	StoreFrom(addr uint32, data []byte) error
	LoadInto(buf []byte, addr uint32) error
}

// JAM Protocol Host Function IDs
const (
	GAS               = 0
	FETCH             = 1
	LOOKUP            = 2
	READ              = 3
	WRITE             = 4
	INFO              = 5
	HISTORICAL_LOOKUP = 6
	EXPORT            = 7
	MACHINE           = 8
	PEEK              = 9
	POKE              = 10
	PAGES             = 11
	INVOKE            = 12
	EXPUNGE           = 13
	LOG               = 100
)

var hostFnNames = map[uint32]string{
	GAS:               "GAS",
	FETCH:             "FETCH",
	LOOKUP:            "LOOKUP",
	READ:              "READ",
	WRITE:             "WRITE",
	INFO:              "INFO",
	HISTORICAL_LOOKUP: "HISTORICAL_LOOKUP",
	EXPORT:            "EXPORT",
	MACHINE:           "MACHINE",
	PEEK:              "PEEK",
	POKE:              "POKE",
	PAGES:             "PAGES",
	INVOKE:            "INVOKE",
	EXPUNGE:           "EXPUNGE",
	LOG:               "LOG",
}

// HostFnToName returns the human-readable name for a host function ID
func HostFnToName(hostFn uint32) string {
	if name, ok := hostFnNames[hostFn]; ok {
		return name
	}
	return "UNKNOWN"
}
