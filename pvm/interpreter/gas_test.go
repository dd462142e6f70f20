package interpreter

import (
	"math"
	"testing"

	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/stretchr/testify/assert"
)

func TestGasCounterWidth(t *testing.T) {
	assert.Equal(t, 32, NewGasCounter(math.MaxUint32).Bits())
	assert.Equal(t, 64, NewGasCounter(math.MaxUint32+1).Bits())
}

func TestGasCounterSub(t *testing.T) {
	for _, g := range []pvmtypes.Gas{10, 1 << 40} {
		c := NewGasCounter(g)
		assert.False(t, c.Sub(4))
		assert.Equal(t, g-4, c.Get())
		assert.Equal(t, pvmtypes.Gas(4), c.Used())

		// reaching exactly zero is not an underflow
		assert.False(t, c.Sub(g-4))
		assert.Equal(t, pvmtypes.Gas(0), c.Get())

		assert.True(t, c.Sub(1))
		assert.Equal(t, pvmtypes.Gas(0), c.Get())
		assert.Equal(t, g, c.Used())
	}
}

func TestGasCounterSet(t *testing.T) {
	c := NewGasCounter(100)
	c.Sub(30)
	c.Set(50)
	assert.Equal(t, pvmtypes.Gas(50), c.Get())
	assert.Equal(t, pvmtypes.Gas(50), c.Used())

	// raising the balance keeps Used
	c.Set(80)
	assert.Equal(t, pvmtypes.Gas(80), c.Get())
	assert.Equal(t, pvmtypes.Gas(50), c.Used())

	// the 32-bit counter saturates
	c.Set(math.MaxUint64)
	assert.Equal(t, pvmtypes.Gas(math.MaxUint32), c.Get())
}

func TestSetGasUpgrades(t *testing.T) {
	c := NewGasCounter(100)
	c.Sub(40)

	c = SetGas(c, 200)
	assert.Equal(t, 32, c.Bits())
	assert.Equal(t, pvmtypes.Gas(40), c.Used())

	c = SetGas(c, math.MaxUint32)
	assert.Equal(t, 64, c.Bits())
	assert.Equal(t, pvmtypes.Gas(math.MaxUint32), c.Get())
	assert.Equal(t, pvmtypes.Gas(40), c.Used())

	c = SetGas(nil, 5)
	assert.Equal(t, pvmtypes.Gas(5), c.Get())
	assert.Equal(t, pvmtypes.Gas(0), c.Used())
}
