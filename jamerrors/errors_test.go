package jamerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorParts(t *testing.T) {
	tests := []struct {
		err  error
		code string
		name string
	}{
		{ErrCodecTruncated, "C1", "Truncated"},
		{ErrProgramItemWidth, "P3", "ProgramItemWidth"},
		{ErrHeapExhausted, "M1", "HeapExhausted"},
		{ErrStepLimit, "V4", "StepLimit"},
		{ErrStoreClosed, "S2", "StoreClosed"},
		{fmt.Errorf("get 0xab: %w", ErrProgramNotFound), "S1", "ProgramNotFound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetErrorCode(tt.err))
			assert.Equal(t, tt.name, GetErrorName(tt.err))
			assert.Equal(t, tt.code+"_"+tt.name, GetErrorCodeWithName(tt.err))
		})
	}
}

func TestUnknownErrors(t *testing.T) {
	assert.Equal(t, "No Error", GetErrorName(nil))
	assert.Equal(t, "", GetErrorCode(nil))

	plain := errors.New("something else")
	assert.Equal(t, "something else", GetErrorName(plain))
	assert.Equal(t, "", GetErrorCode(plain))
	assert.Equal(t, "", GetErrorCodeWithName(plain))
}

func TestCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, err := range known {
		code := GetErrorCode(err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
