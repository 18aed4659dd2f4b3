// Package packet provides reusable message-object pools keyed by concrete
// type, avoiding per-message allocation in receive loops.
package packet

import "sync"

// Resetter is implemented by packets that need their fields cleared before
// reuse. Recycle calls it when present.
type Resetter interface {
	Reset()
}

// Pool is a fixed-type free list for *T instances. The zero value is not
// usable; construct with NewPool.
type Pool[T any] struct {
	mu      sync.Mutex
	factory func() *T
	free    []*T
}

// NewPool returns a pool that constructs instances with factory, or with
// new(T) when factory is nil.
func NewPool[T any](factory func() *T) *Pool[T] {
	if factory == nil {
		factory = func() *T { return new(T) }
	}
	return &Pool[T]{factory: factory}
}

// Get returns an available instance, constructing a new one when the free
// list is empty. The second return reports whether the instance was pooled.
func (p *Pool[T]) Get() (*T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		pkt := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return pkt, true
	}
	return p.factory(), false
}

// Put returns an instance to the free list. Callers must not put the same
// instance twice without an intervening Get.
func (p *Pool[T]) Put(pkt *T) error {
	if pkt == nil {
		return ErrNilPacket
	}
	if r, ok := any(pkt).(Resetter); ok {
		r.Reset()
	}
	p.mu.Lock()
	p.free = append(p.free, pkt)
	p.mu.Unlock()
	return nil
}

// Seed pre-populates the free list with n fresh instances.
func (p *Pool[T]) Seed(n int) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	for i := 0; i < n; i++ {
		p.free = append(p.free, p.factory())
	}
	p.mu.Unlock()
}

// Available reports the current free-list depth.
func (p *Pool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
