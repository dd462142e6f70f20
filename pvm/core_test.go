package pvm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hostProgram makes host calls 1 and 2 and returns through r0.
func hostProgram() *program.Program {
	code, mask := program.BuildCode(
		[]byte{program.ECALLI, 1},
		[]byte{program.ECALLI, 2},
		[]byte{program.JUMP_IND, 0x00},
	)
	return program.NewProgram(code, mask, nil)
}

func haltRegs() [pvmtypes.NumRegisters]uint64 {
	var regs [pvmtypes.NumRegisters]uint64
	regs[0] = pvmtypes.HaltAddress
	return regs
}

func TestNewBackend(t *testing.T) {
	for _, kind := range Backends {
		b, err := NewBackend(kind)
		require.NoError(t, err)
		b.Reset(hostProgram(), 0, haltRegs(), nil, 10)
		assert.Equal(t, pvmtypes.HOST, b.RunProgram(), kind)
	}
	_, err := NewBackend("x86")
	assert.ErrorIs(t, err, jamerrors.ErrUnknownBackend)
}

func TestInvokeServicesHostCalls(t *testing.T) {
	for _, kind := range Backends {
		t.Run(kind, func(t *testing.T) {
			vm, err := NewBackend(kind)
			require.NoError(t, err)
			vm.Reset(hostProgram(), 0, haltRegs(), nil, 10)

			var calls []uint32
			handler := HostCallFunc(func(_ context.Context, index uint32, vm Backend) error {
				calls = append(calls, index)
				vm.Registers().Set(7, uint64(index)*10)
				return nil
			})
			status, err := Invoke(context.Background(), vm, handler, 0)
			require.NoError(t, err)
			assert.Equal(t, pvmtypes.HALT, status)
			assert.Equal(t, []uint32{1, 2}, calls)
			assert.Equal(t, uint64(20), vm.Registers().Get(7))
			assert.Equal(t, pvmtypes.Gas(3), vm.GasUsed())
		})
	}
}

func TestInvokeStepLimit(t *testing.T) {
	vm, err := NewBackend(BackendInterpreter)
	require.NoError(t, err)
	vm.Reset(hostProgram(), 0, haltRegs(), nil, 10)

	calls := 0
	handler := HostCallFunc(func(context.Context, uint32, Backend) error {
		calls++
		return nil
	})
	status, err := Invoke(context.Background(), vm, handler, 2)
	assert.ErrorIs(t, err, jamerrors.ErrStepLimit)
	assert.Equal(t, 2, calls)
	assert.Equal(t, uint64(2), vm.Steps())
	assert.Equal(t, pvmtypes.HOST, status)
	assert.Equal(t, vm.Status(), status)

	// a limit that is already reached reports the same state without
	// servicing the call again
	status, err = Invoke(context.Background(), vm, handler, 2)
	assert.ErrorIs(t, err, jamerrors.ErrStepLimit)
	assert.Equal(t, pvmtypes.HOST, status)
	assert.Equal(t, 2, calls)

	// the machine can carry on
	status, err = Invoke(context.Background(), vm, handler, 0)
	require.NoError(t, err)
	assert.Equal(t, pvmtypes.HALT, status)
}

func TestInvokeSpanGasWithRefill(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	vm, err := NewBackend(BackendInterpreter)
	require.NoError(t, err)
	vm.Reset(hostProgram(), 0, haltRegs(), nil, 10)
	status, err := Invoke(context.Background(), vm, HostCallFunc(func(_ context.Context, _ uint32, vm Backend) error {
		vm.SetGas(vm.Gas() + 100)
		return nil
	}), 0)
	require.NoError(t, err)
	assert.Equal(t, pvmtypes.HALT, status)
	assert.Equal(t, pvmtypes.Gas(207), vm.Gas())

	var gasUsed int64 = -1
	for _, span := range recorder.Ended() {
		if span.Name() != "pvm.Invoke" {
			continue
		}
		for _, kv := range span.Attributes() {
			if kv.Key == "gas.used" {
				gasUsed = kv.Value.AsInt64()
			}
		}
	}
	assert.Equal(t, int64(3), gasUsed)
}

func TestInvokeHostErrors(t *testing.T) {
	vm, err := NewBackend(BackendCompiler)
	require.NoError(t, err)

	vm.Reset(hostProgram(), 0, haltRegs(), nil, 10)
	status, err := Invoke(context.Background(), vm, nil, 0)
	assert.ErrorIs(t, err, jamerrors.ErrHostUnsupported)
	assert.Equal(t, pvmtypes.HOST, status)

	boom := errors.New("boom")
	vm.Reset(hostProgram(), 0, haltRegs(), nil, 10)
	_, err = Invoke(context.Background(), vm, HostCallFunc(func(context.Context, uint32, Backend) error {
		return boom
	}), 0)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, pvmtypes.HOST, vm.Status())

	vm.Reset(hostProgram(), 0, haltRegs(), nil, 10)
	status, err = Invoke(context.Background(), vm, HostCallFunc(func(_ context.Context, _ uint32, vm Backend) error {
		vm.Terminate(pvmtypes.PANIC)
		return nil
	}), 0)
	require.NoError(t, err)
	assert.Equal(t, pvmtypes.PANIC, status)
	assert.Equal(t, uint64(1), vm.Steps())
}

func TestInstanceManagerFIFO(t *testing.T) {
	m, err := NewInstanceManager(BackendCompiler, 1)
	require.NoError(t, err)
	ctx := context.Background()

	first := m.Acquire(ctx)
	assert.Equal(t, 0, m.Available())

	order := make(chan int, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := m.Acquire(ctx)
			order <- i
			m.Release(b)
		}(i)
		require.Eventually(t, func() bool { return m.Waiting() == i+1 }, time.Second, time.Millisecond)
	}

	m.Release(first)
	wg.Wait()
	close(order)

	var got []int
	for i := range order {
		got = append(got, i)
	}
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 1, m.Available())
	assert.Equal(t, 0, m.Waiting())
}

func TestInstanceManagerReuse(t *testing.T) {
	m, err := NewInstanceManager(BackendInterpreter, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Size())
	assert.Equal(t, BackendInterpreter, m.Kind())

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		vm := m.Acquire(ctx)
		vm.Reset(hostProgram(), 0, haltRegs(), memory.New(), 10)
		_, err := Invoke(ctx, vm, HostCallFunc(func(context.Context, uint32, Backend) error { return nil }), 0)
		require.NoError(t, err)
		assert.Equal(t, pvmtypes.HALT, vm.Status())
		m.Release(vm)
	}
	assert.Equal(t, 2, m.Available())

	_, err = NewInstanceManager("wasm", 1)
	assert.ErrorIs(t, err, jamerrors.ErrUnknownBackend)
}
