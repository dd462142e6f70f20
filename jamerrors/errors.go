package jamerrors

import (
	"errors"
	"strings"
)

// Codec (C) Errors
var (
	ErrCodecTruncated = errors.New("C1|Truncated: Input ends before the encoded value is complete.")
	ErrCodecOverflow  = errors.New("C2|Overflow: Encoded value does not fit in the target width.")
)

// Program (P) Errors
var (
	ErrProgramTruncated     = errors.New("P1|ProgramTruncated: Program blob ends before all declared sections are read.")
	ErrProgramTrailingBytes = errors.New("P2|ProgramTrailingBytes: Program blob has bytes after the instruction mask.")
	ErrProgramItemWidth     = errors.New("P3|ProgramItemWidth: Jump table item width is larger than 8 bytes.")
	ErrProgramTooLarge      = errors.New("P4|ProgramTooLarge: Code length does not fit the 32-bit address space.")
	ErrStandardLayout       = errors.New("P5|StandardLayout: Standard program sections do not fit the address space.")
)

// Memory (M) Errors
var (
	ErrHeapExhausted = errors.New("M1|HeapExhausted: Heap growth would exceed the address space.")
)

// Machine (V) Errors
var (
	ErrUnknownMachine  = errors.New("V1|UnknownMachine: No machine is registered under this handle.")
	ErrRegistryFull    = errors.New("V2|RegistryFull: Every machine handle is in use.")
	ErrUnknownBackend  = errors.New("V3|UnknownBackend: Backend name is not recognised.")
	ErrStepLimit       = errors.New("V4|StepLimit: Execution stopped after the configured step limit.")
	ErrHostUnsupported = errors.New("V5|HostUnsupported: No host call handler is installed.")
)

// Store (S) Errors
var (
	ErrProgramNotFound = errors.New("S1|ProgramNotFound: No program is stored under this hash.")
	ErrStoreClosed     = errors.New("S2|StoreClosed: Program store has been closed.")
)

var known = []error{
	ErrCodecTruncated, ErrCodecOverflow,
	ErrProgramTruncated, ErrProgramTrailingBytes, ErrProgramItemWidth, ErrProgramTooLarge, ErrStandardLayout,
	ErrHeapExhausted,
	ErrUnknownMachine, ErrRegistryFull, ErrUnknownBackend, ErrStepLimit, ErrHostUnsupported,
	ErrProgramNotFound, ErrStoreClosed,
}

// sentinel returns the first known error in err's chain, or err itself.
func sentinel(err error) error {
	for _, k := range known {
		if errors.Is(err, k) {
			return k
		}
	}
	return err
}

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := sentinel(err).Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	nameParts := strings.SplitN(parts[1], ":", 2)
	return strings.TrimSpace(nameParts[0])
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	errStr := sentinel(err).Error()
	if !strings.Contains(errStr, "|") {
		return ""
	}
	parts := strings.SplitN(errStr, "|", 2)
	return strings.TrimSpace(parts[0])
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}
