package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestSetWrite(t *testing.T) {
	var s Step
	s.SetWrite(0x20000, []byte{1, 2, 3})
	require.NotNil(t, s.WriteAddr)
	assert.Equal(t, uint32(0x20000), *s.WriteAddr)
	assert.Equal(t, 3, s.WriteLength)
	assert.Equal(t, []byte{1, 2, 3}, s.WriteBytes)

	long := bytes.Repeat([]byte{0xEE}, maxInlineBytes+1)
	s.SetWrite(0x20000, long)
	sum := blake2b.Sum256(long)
	assert.Equal(t, maxInlineBytes+1, s.WriteLength)
	assert.Equal(t, sum[:], s.WriteBytes)
}

func TestJSONLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)
	for i := uint64(1); i <= 3; i++ {
		s := &Step{Step: i, PC: uint32(i * 2), Name: "fallthrough", Gas: 10 - i, Status: "OK"}
		if i == 2 {
			s.SetWrite(0x10, []byte{0xAA})
		}
		require.NoError(t, w.WriteStep(s))
	}
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.WriteStep(&Step{}), ErrTraceWriterClosed)
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))

	steps, err := ReadSteps(&buf)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Nil(t, steps[0].WriteAddr)
	require.NotNil(t, steps[1].WriteAddr)
	assert.Equal(t, uint32(0x10), *steps[1].WriteAddr)
	assert.Equal(t, []byte{0xAA}, steps[1].WriteBytes)
	assert.Equal(t, uint64(7), steps[2].Gas)
}

func TestJSONLWriterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	w, err := NewJSONLWriterFile(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteStep(&Step{Step: 1, Status: "HALT"}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	steps, err := ReadSteps(f)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "HALT", steps[0].Status)
}

func TestReadStepsBadLine(t *testing.T) {
	steps, err := ReadSteps(strings.NewReader(`{"step":1}` + "\n" + `{"step":`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "trace line 2")
	assert.Len(t, steps, 1)
}

func TestCompare(t *testing.T) {
	a := `{"step":1,"pc":0,"gas":9}` + "\n" + `{"step":2,"pc":2,"gas":8}` + "\n"

	d, err := Compare(strings.NewReader(a), strings.NewReader(a))
	require.NoError(t, err)
	assert.Nil(t, d)

	// key order is not a difference
	reordered := `{"pc":0,"step":1,"gas":9}` + "\n" + `{"step":2,"pc":2,"gas":8}` + "\n"
	d, err = Compare(strings.NewReader(a), strings.NewReader(reordered))
	require.NoError(t, err)
	assert.Nil(t, d)

	changed := `{"step":1,"pc":0,"gas":9}` + "\n" + `{"step":2,"pc":3,"gas":8}` + "\n"
	d, err = Compare(strings.NewReader(a), strings.NewReader(changed))
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2, d.Line)
	assert.Contains(t, d.Delta, "pc")
	assert.Contains(t, d.String(), "line 2 differs")

	short := `{"step":1,"pc":0,"gas":9}` + "\n"
	d, err = Compare(strings.NewReader(a), strings.NewReader(short))
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2, d.Line)
	assert.Nil(t, d.Right)
	assert.Contains(t, d.String(), "right trace ended")
}

func TestCollector(t *testing.T) {
	var c Collector
	require.NoError(t, c.WriteStep(&Step{Step: 1}))
	require.NoError(t, c.WriteStep(&Step{Step: 2}))
	assert.Len(t, c.Steps, 2)
}
