package pvmtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, st := range []Status{HALT, PANIC, FAULT, HOST, OOG, OK} {
		got, err := ParseStatus(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseStatus("trap")
	assert.Error(t, err)
	assert.Equal(t, "status(9)", Status(9).String())
}

func TestHostResultName(t *testing.T) {
	assert.Equal(t, "OK", HostResultName(HostOK))
	assert.Equal(t, "NONE", HostResultName(NONE))
	assert.Equal(t, "WHAT", HostResultName(WHAT))
	assert.Equal(t, "HUH", HostResultName(HUH))
	assert.Equal(t, "42", HostResultName(42))
	assert.Equal(t, uint64(0xfffffffffffffffe), WHAT)
}
