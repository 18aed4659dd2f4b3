package peer

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// Manager is a keyed registry of named peers, clients and servers kept in
// separate collections. Every operation validates in the same order: blank
// identifier, then existence, then peer state. Structural mutation
// (add/remove) requires the peer to be Stopped.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Peer
	servers map[string]*Peer
	logger  *slog.Logger
}

// NewManager returns an empty registry. A nil logger falls back to
// slog.Default.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		clients: make(map[string]*Peer),
		servers: make(map[string]*Peer),
		logger:  logger.With(slog.String("component", "peer_manager")),
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (m *Manager) add(coll map[string]*Peer, exists Result, identifier, appID string, addr net.IP, port int, role Role) Result {
	if blank(identifier) {
		return DeniedIdentifierEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := coll[identifier]; ok {
		return exists
	}

	cfg := NewConfig(appID, role)
	switch {
	case addr != nil:
		if !cfg.SetLocalAddress(addr, port) {
			m.logger.Warn("Rejected peer endpoint",
				slog.String("identifier", identifier),
				slog.Int("port", port))
			return Failure
		}
	case port != 0:
		// Port without an address: bind all interfaces on that port.
		if !cfg.SetLocalPort(port) {
			m.logger.Warn("Rejected peer port",
				slog.String("identifier", identifier),
				slog.Int("port", port))
			return Failure
		}
	}
	coll[identifier] = NewPeer(cfg, m.logger)
	return Success
}

func (m *Manager) get(coll map[string]*Peer, notFound Result, identifier string) (*Peer, Result) {
	if blank(identifier) {
		return nil, DeniedIdentifierEmpty
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := coll[identifier]
	if !ok {
		return nil, notFound
	}
	return p, Success
}

func (m *Manager) start(ctx context.Context, coll map[string]*Peer, notFound Result, identifier, message string) Result {
	p, res := m.get(coll, notFound, identifier)
	if res != Success {
		return res
	}
	if p.Status() != StatusStopped {
		return DeniedPeerNotStopped
	}
	if err := p.Start(ctx, message); err != nil {
		m.logger.Error("Peer start failed",
			slog.String("identifier", identifier),
			slog.Any("error", err))
		return Failure
	}
	return Success
}

func (m *Manager) shutdown(ctx context.Context, coll map[string]*Peer, notFound Result, identifier, message string) Result {
	p, res := m.get(coll, notFound, identifier)
	if res != Success {
		return res
	}
	if p.Status() != StatusRunning {
		return DeniedPeerNotRunning
	}
	if err := p.Shutdown(ctx, message); err != nil {
		m.logger.Error("Peer shutdown failed",
			slog.String("identifier", identifier),
			slog.Any("error", err))
		return Failure
	}
	return Success
}

func (m *Manager) remove(coll map[string]*Peer, notFound Result, identifier string) Result {
	if blank(identifier) {
		return DeniedIdentifierEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := coll[identifier]
	if !ok {
		return notFound
	}
	if p.Status() != StatusStopped {
		return DeniedPeerNotStopped
	}
	delete(coll, identifier)
	return Success
}

// AddClient registers a new client peer under identifier.
func (m *Manager) AddClient(identifier, appID string, addr net.IP, port int) Result {
	return m.add(m.clients, DeniedClientExists, identifier, appID, addr, port, RoleClient)
}

// Client looks up a client peer. The peer is non-nil iff the result is
// Success.
func (m *Manager) Client(identifier string) (*Peer, Result) {
	return m.get(m.clients, DeniedClientNotFound, identifier)
}

// StartClient starts a stopped client peer.
func (m *Manager) StartClient(ctx context.Context, identifier, message string) Result {
	return m.start(ctx, m.clients, DeniedClientNotFound, identifier, message)
}

// ShutdownClient stops a running client peer.
func (m *Manager) ShutdownClient(ctx context.Context, identifier, message string) Result {
	return m.shutdown(ctx, m.clients, DeniedClientNotFound, identifier, message)
}

// RemoveClient removes a stopped client peer from the registry.
func (m *Manager) RemoveClient(identifier string) Result {
	return m.remove(m.clients, DeniedClientNotFound, identifier)
}

// AddServer registers a new server peer under identifier.
func (m *Manager) AddServer(identifier, appID string, addr net.IP, port int) Result {
	return m.add(m.servers, DeniedServerExists, identifier, appID, addr, port, RoleServer)
}

// Server looks up a server peer. The peer is non-nil iff the result is
// Success.
func (m *Manager) Server(identifier string) (*Peer, Result) {
	return m.get(m.servers, DeniedServerNotFound, identifier)
}

// StartServer starts a stopped server peer.
func (m *Manager) StartServer(ctx context.Context, identifier, message string) Result {
	return m.start(ctx, m.servers, DeniedServerNotFound, identifier, message)
}

// ShutdownServer stops a running server peer.
func (m *Manager) ShutdownServer(ctx context.Context, identifier, message string) Result {
	return m.shutdown(ctx, m.servers, DeniedServerNotFound, identifier, message)
}

// RemoveServer removes a stopped server peer from the registry.
func (m *Manager) RemoveServer(identifier string) Result {
	return m.remove(m.servers, DeniedServerNotFound, identifier)
}

// ClientCount reports the number of registered clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// ServerCount reports the number of registered servers.
func (m *Manager) ServerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.servers)
}
