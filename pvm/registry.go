package pvm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/program"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

// MachineID is the handle of an inner machine.
type MachineID uint32

// InnerMachine is a machine created by a running program: its code, its
// own memory and the pc it resumes from.
type InnerMachine struct {
	Blob    []byte
	Program *program.Program
	Memory  *memory.Memory
	PC      uint32
}

// MachineRegistry owns the inner machines of one parent invocation. It is
// passed explicitly to whatever services the machine host calls.
type MachineRegistry struct {
	mu       sync.Mutex
	machines map[MachineID]*InnerMachine
	capacity int
}

// NewMachineRegistry holds up to capacity machines; zero means no limit.
func NewMachineRegistry(capacity int) *MachineRegistry {
	return &MachineRegistry{machines: make(map[MachineID]*InnerMachine), capacity: capacity}
}

// Create decodes blob and registers a machine with empty memory under the
// smallest unused id.
func (r *MachineRegistry) Create(blob []byte, pc uint32) (MachineID, error) {
	p, err := program.Decode(blob)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.capacity > 0 && len(r.machines) >= r.capacity {
		return 0, jamerrors.ErrRegistryFull
	}
	id := MachineID(0)
	for {
		if _, ok := r.machines[id]; !ok {
			break
		}
		id++
	}
	r.machines[id] = &InnerMachine{Blob: blob, Program: p, Memory: memory.New(), PC: pc}
	log.Debug(log.PoolModule, "machine created", "id", id, "pc", pc, "code", len(p.Code()))
	return id, nil
}

func (r *MachineRegistry) get(id MachineID) (*InnerMachine, error) {
	m, ok := r.machines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", jamerrors.ErrUnknownMachine, id)
	}
	return m, nil
}

// Get returns the machine registered under id.
func (r *MachineRegistry) Get(id MachineID) (*InnerMachine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

// Peek copies len(buf) bytes at addr out of machine id's memory.
func (r *MachineRegistry) Peek(id MachineID, buf []byte, addr uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.get(id)
	if err != nil {
		return err
	}
	return m.Memory.LoadInto(buf, addr)
}

// Poke writes data at addr into machine id's memory.
func (r *MachineRegistry) Poke(id MachineID, addr uint32, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.get(id)
	if err != nil {
		return err
	}
	return m.Memory.StoreFrom(addr, data)
}

// Pages sets the access mode of count pages of machine id starting at page
// start.
func (r *MachineRegistry) Pages(id MachineID, start, count uint32, state memory.PageState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.get(id)
	if err != nil {
		return err
	}
	return m.Memory.SetPageState(start, count, state)
}

// InvokeResult is the state of an inner machine after Invoke.
type InvokeResult struct {
	Status    pvmtypes.Status
	ExitParam uint32
	Gas       pvmtypes.Gas
	Registers [pvmtypes.NumRegisters]uint64
}

// Invoke runs machine id on vm with the given gas and registers and stores
// the resulting pc back into the machine. A HOST status is returned to the
// caller rather than serviced; resuming calls Invoke again.
func (r *MachineRegistry) Invoke(ctx context.Context, id MachineID, vm Backend, gas pvmtypes.Gas, regs [pvmtypes.NumRegisters]uint64) (InvokeResult, error) {
	r.mu.Lock()
	m, err := r.get(id)
	r.mu.Unlock()
	if err != nil {
		return InvokeResult{}, err
	}

	_, span := tracer().Start(ctx, "pvm.MachineRegistry.Invoke")
	defer span.End()
	span.SetAttributes(attribute.Int64("machine", int64(id)))

	vm.Reset(m.Program, m.PC, regs, m.Memory, gas)
	vm.RunProgram()
	res := InvokeResult{
		Status:    vm.Status(),
		ExitParam: vm.ExitParam(),
		Gas:       vm.Gas(),
		Registers: vm.Registers().GetAllU64(),
	}
	span.SetAttributes(attribute.String("status", res.Status.String()))

	r.mu.Lock()
	// HOST resumes after the ECALLI; terminal statuses leave pc on the instruction
	m.PC = vm.PC()
	r.mu.Unlock()
	log.Debug(log.PoolModule, "machine invoked", "id", id, "status", res.Status, "pc", vm.PC(), "gas", res.Gas)
	return res, nil
}

// Expunge removes machine id and returns its pc.
func (r *MachineRegistry) Expunge(id MachineID) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.get(id)
	if err != nil {
		return 0, err
	}
	delete(r.machines, id)
	log.Debug(log.PoolModule, "machine expunged", "id", id, "pc", m.PC)
	return m.PC, nil
}

// Len is the number of registered machines.
func (r *MachineRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.machines)
}

// IDs lists the registered handles in ascending order.
func (r *MachineRegistry) IDs() []MachineID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]MachineID, 0, len(r.machines))
	for id := range r.machines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
