package packet

import (
	"log/slog"
	"reflect"
	"sync"
)

// Manager is the registry mapping packet types (and optional numeric packet
// ids) to their pools. All methods are safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	pools map[reflect.Type]any // *Pool[T], asserted back in the generic funcs
	byID  map[uint16]reflect.Type
	ids   map[reflect.Type]uint16

	logger  *slog.Logger
	metrics *poolMetrics
}

// NewManager returns an empty packet registry. A nil logger falls back to
// slog.Default.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:   make(map[reflect.Type]any),
		byID:    make(map[uint16]reflect.Type),
		ids:     make(map[reflect.Type]uint16),
		logger:  logger.With(slog.String("component", "packet_manager")),
		metrics: newPoolMetrics(),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// poolFor returns the pool for T, creating it when absent. Callers must hold
// m.mu.
func poolForLocked[T any](m *Manager) *Pool[T] {
	t := typeOf[T]()
	if existing, ok := m.pools[t]; ok {
		return existing.(*Pool[T])
	}
	pool := NewPool[T](nil)
	m.pools[t] = pool
	return pool
}

// Register creates a pool for T if one does not exist yet. Idempotent.
func Register[T any](m *Manager) {
	m.mu.Lock()
	poolForLocked[T](m)
	m.mu.Unlock()
}

// RegisterID creates a pool for T and maps the numeric packet id to it.
// Fails with ErrIDInUse or ErrTypeRegistered when either side of the mapping
// is already taken; the pool itself is still ensured so a later Get does not
// allocate a duplicate pool.
func RegisterID[T any](m *Manager, id uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := typeOf[T]()
	if _, taken := m.byID[id]; taken {
		return ErrIDInUse
	}
	if _, taken := m.ids[t]; taken {
		return ErrTypeRegistered
	}
	poolForLocked[T](m)
	m.byID[id] = t
	m.ids[t] = id
	return nil
}

// RegisterSized registers T under id and pre-seeds its pool with size
// instances.
func RegisterSized[T any](m *Manager, id uint16, size int) error {
	if err := RegisterID[T](m, id); err != nil {
		return err
	}
	m.mu.Lock()
	pool := poolForLocked[T](m)
	m.mu.Unlock()
	pool.Seed(size)
	return nil
}

// Get returns a pooled or freshly constructed instance of T, registering the
// type on first use.
func Get[T any](m *Manager) *T {
	m.mu.Lock()
	pool := poolForLocked[T](m)
	m.mu.Unlock()

	pkt, pooled := pool.Get()
	m.metrics.recordGet(typeOf[T]().String(), pooled)
	return pkt
}

// Recycle returns an instance to its type's pool. Recycling a type that was
// never registered is a programming error and reports ErrUnregisteredType.
func Recycle[T any](m *Manager, pkt *T) error {
	if pkt == nil {
		return ErrNilPacket
	}
	t := typeOf[T]()
	m.mu.Lock()
	raw, ok := m.pools[t]
	m.mu.Unlock()
	if !ok {
		m.logger.Warn("recycle for unregistered packet type",
			slog.String("type", t.String()))
		return ErrUnregisteredType
	}
	pool := raw.(*Pool[T])
	if err := pool.Put(pkt); err != nil {
		return err
	}
	m.metrics.recordRecycle(t.String())
	return nil
}

// IDOf returns the numeric id mapped to T, if any.
func IDOf[T any](m *Manager) (uint16, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[typeOf[T]()]
	return id, ok
}

// TypeByID returns the packet type mapped to id, if any.
func (m *Manager) TypeByID(id uint16) (reflect.Type, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	return t, ok
}

// Registered reports how many packet types currently have pools.
func (m *Manager) Registered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pools)
}
