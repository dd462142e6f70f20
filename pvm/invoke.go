package pvm

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// HostCallHandler services the host call a backend is suspended on. It
// reads arguments from and writes results to vm's registers and memory.
// To end the run instead of resuming, it calls vm.Terminate. A returned
// error aborts Invoke and leaves vm suspended.
type HostCallHandler interface {
	HostCall(ctx context.Context, index uint32, vm Backend) error
}

// HostCallFunc adapts a function to HostCallHandler.
type HostCallFunc func(ctx context.Context, index uint32, vm Backend) error

func (f HostCallFunc) HostCall(ctx context.Context, index uint32, vm Backend) error {
	return f(ctx, index, vm)
}

// Invoke runs vm until it halts, panics, faults or runs out of gas,
// servicing every host call through handler. maxSteps bounds the number of
// executed instructions; zero means no bound. Reaching the bound returns
// jamerrors.ErrStepLimit with the machine still runnable.
func Invoke(ctx context.Context, vm Backend, handler HostCallHandler, maxSteps uint64) (pvmtypes.Status, error) {
	ctx, span := tracer().Start(ctx, "pvm.Invoke")
	defer span.End()

	startUsed := vm.GasUsed()
	hostCalls := 0
	defer func() {
		span.SetAttributes(
			attribute.String("status", vm.Status().String()),
			attribute.Int64("steps", int64(vm.Steps())),
			attribute.Int64("gas.used", int64(vm.GasUsed()-startUsed)),
			attribute.Int("host_calls", hostCalls),
		)
	}()

	for {
		status, limited := run(vm, maxSteps)
		if limited {
			err := fmt.Errorf("%w: %d steps", jamerrors.ErrStepLimit, maxSteps)
			span.SetStatus(codes.Error, err.Error())
			return status, err
		}
		switch status {
		case pvmtypes.HOST:
			index := vm.ExitParam()
			if handler == nil {
				err := fmt.Errorf("%w: host call %d", jamerrors.ErrHostUnsupported, index)
				span.SetStatus(codes.Error, err.Error())
				return status, err
			}
			hostCalls++
			log.Trace(log.PvmModule, "host call", "index", index, "pc", vm.PC(), "gas", vm.Gas())
			if err := handler.HostCall(ctx, index, vm); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "host call failed")
				return vm.Status(), fmt.Errorf("host call %d: %w", index, err)
			}
		default:
			log.Debug(log.PvmModule, "invoke finished", "status", status, "pc", vm.PC(), "steps", vm.Steps(), "host_calls", hostCalls)
			return status, nil
		}
	}
}

// run executes until the status leaves OK or vm has executed maxSteps
// instructions in total. limited is set in the second case; the status is
// then OK, or HOST when the last step was a host call already serviced.
func run(vm Backend, maxSteps uint64) (status pvmtypes.Status, limited bool) {
	if maxSteps == 0 {
		return vm.RunProgram(), false
	}
	if vm.Status().Terminal() {
		return vm.Status(), false
	}
	for vm.Steps() < maxSteps {
		if status := vm.NextStep(); status != pvmtypes.OK {
			return status, false
		}
	}
	return vm.Status(), true
}
