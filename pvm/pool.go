package pvm

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/compiler"
)

const tracerName = "github.com/jam-duna/jampvm/pvm"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InstanceManager hands out a fixed set of backends. When all are in use,
// Acquire blocks and callers are served in arrival order as instances are
// released.
type InstanceManager struct {
	kind string
	size int

	mu      sync.Mutex
	free    []Backend
	waiters []chan Backend
}

// NewInstanceManager creates size backends of the given kind up front.
// Compiler instances share one block cache.
func NewInstanceManager(kind string, size int) (*InstanceManager, error) {
	if size < 1 {
		size = 1
	}
	var cache *compiler.Cache
	if kind == BackendCompiler {
		c, err := compiler.NewCache(size * 4)
		if err != nil {
			return nil, err
		}
		cache = c
	}
	m := &InstanceManager{kind: kind, size: size, free: make([]Backend, 0, size)}
	for i := 0; i < size; i++ {
		b, err := newBackend(kind, cache)
		if err != nil {
			return nil, err
		}
		m.free = append(m.free, b)
	}
	log.Debug(log.PoolModule, "instance manager ready", "backend", kind, "size", size)
	return m, nil
}

// Acquire returns an idle backend, waiting for a Release when none is
// free. ctx carries the tracing span only; acquisition is not cancellable.
func (m *InstanceManager) Acquire(ctx context.Context) Backend {
	_, span := tracer().Start(ctx, "pvm.InstanceManager.Acquire")
	defer span.End()

	m.mu.Lock()
	if n := len(m.free); n > 0 {
		b := m.free[n-1]
		m.free = m.free[:n-1]
		m.mu.Unlock()
		span.SetAttributes(attribute.Bool("waited", false))
		return b
	}
	ch := make(chan Backend, 1)
	m.waiters = append(m.waiters, ch)
	waiting := len(m.waiters)
	m.mu.Unlock()

	log.Trace(log.PoolModule, "waiting for instance", "queue", waiting)
	span.SetAttributes(attribute.Bool("waited", true), attribute.Int("queue", waiting))
	return <-ch
}

// Release returns b to the pool, handing it straight to the oldest waiter
// if there is one.
func (m *InstanceManager) Release(b Backend) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.waiters) > 0 {
		ch := m.waiters[0]
		m.waiters[0] = nil
		m.waiters = m.waiters[1:]
		ch <- b
		return
	}
	m.free = append(m.free, b)
}

// Kind is the backend name the pool was created with.
func (m *InstanceManager) Kind() string { return m.kind }

// Size is the number of instances owned by the pool.
func (m *InstanceManager) Size() int { return m.size }

// Available is the number of idle instances.
func (m *InstanceManager) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.free)
}

// Waiting is the number of callers blocked in Acquire.
func (m *InstanceManager) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}
