package interpreter

import (
	"math"

	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"golang.org/x/exp/constraints"
)

// GasCounter tracks remaining gas. Sub never leaves a negative balance: an
// underflow clamps the remainder to zero and reports true.
type GasCounter interface {
	Get() pvmtypes.Gas
	Set(g pvmtypes.Gas)
	Sub(g pvmtypes.Gas) bool
	Used() pvmtypes.Gas
	Bits() int
}

type gasCounter[T constraints.Unsigned] struct {
	initial   T
	remaining T
}

// NewGasCounter picks the 32-bit counter when g fits in it.
func NewGasCounter(g pvmtypes.Gas) GasCounter {
	if g <= math.MaxUint32 {
		return &gasCounter[uint32]{initial: uint32(g), remaining: uint32(g)}
	}
	return &gasCounter[uint64]{initial: uint64(g), remaining: uint64(g)}
}

func (c *gasCounter[T]) Get() pvmtypes.Gas { return pvmtypes.Gas(c.remaining) }

// Set replaces the remaining balance. Raising it above the current balance
// raises the initial allotment by the same amount, so Used is unchanged.
// The 32-bit counter saturates; use SetGas to upgrade it instead.
func (c *gasCounter[T]) Set(g pvmtypes.Gas) {
	limit := pvmtypes.Gas(^T(0))
	if g > limit {
		g = limit
	}
	if v := T(g); v > c.remaining {
		grow := v - c.remaining
		if c.initial > ^T(0)-grow {
			c.initial = ^T(0)
		} else {
			c.initial += grow
		}
		c.remaining = v
	} else {
		c.remaining = v
	}
}

func (c *gasCounter[T]) Sub(g pvmtypes.Gas) bool {
	if pvmtypes.Gas(c.remaining) < g {
		c.remaining = 0
		return true
	}
	c.remaining -= T(g)
	return false
}

func (c *gasCounter[T]) Used() pvmtypes.Gas {
	return pvmtypes.Gas(c.initial - c.remaining)
}

func (c *gasCounter[T]) Bits() int {
	if pvmtypes.Gas(^T(0)) == math.MaxUint32 {
		return 32
	}
	return 64
}

// SetGas sets the balance of c, moving to a 64-bit counter when the new
// allotment no longer fits in 32 bits.
func SetGas(c GasCounter, g pvmtypes.Gas) GasCounter {
	if c == nil {
		return NewGasCounter(g)
	}
	if c.Bits() == 32 && (g > math.MaxUint32 || (g > c.Get() && c.Used()+g > math.MaxUint32)) {
		used := c.Used()
		return &gasCounter[uint64]{initial: uint64(used + g), remaining: uint64(g)}
	}
	c.Set(g)
	return c
}
