// Package peer manages network endpoint lifecycles: a lockable
// configuration, a Stopped/Starting/Running/Stopping state machine and a
// keyed registry of named client and server peers.
package peer

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"
)

// Peer owns exactly one Config and a lifecycle status. Created Stopped;
// Start and Shutdown are the only transitions out of and back into Stopped.
// Both guard against re-entrant calls by checking status first.
type Peer struct {
	cfg    *Config
	logger *slog.Logger

	mu       sync.Mutex
	status   Status
	cancel   context.CancelFunc
	done     chan struct{}
	listener net.Listener
	conns    int
}

// NewPeer wraps cfg in a stopped peer and binds the config's lock gate to
// this peer's loop state. A nil logger falls back to slog.Default.
func NewPeer(cfg *Config, logger *slog.Logger) *Peer {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Peer{
		cfg: cfg,
		logger: logger.With(
			slog.String("component", "peer"),
			slog.String("role", cfg.Role().String()),
		),
		status: StatusStopped,
	}
	cfg.bind(p.loopActive)
	return p
}

// Config returns the peer's configuration.
func (p *Peer) Config() *Config { return p.cfg }

// Status returns the current lifecycle state.
func (p *Peer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Peer) loopActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status != StatusStopped
}

// Start brings the peer up. The message is diagnostic only. The call sets
// up the listening socket (server role) and returns once the loop is
// spawned; it never blocks on the loop itself. Setup failures restore the
// Stopped state and are reported as errors, not panics.
func (p *Peer) Start(ctx context.Context, message string) error {
	p.mu.Lock()
	if p.status != StatusStopped {
		p.mu.Unlock()
		return ErrNotStopped
	}
	p.status = StatusStarting
	p.mu.Unlock()

	p.logger.Info("Starting peer",
		slog.String("app", p.cfg.ApplicationID()),
		slog.String("reason", message))

	var ln net.Listener
	if p.cfg.Role() == RoleServer && p.cfg.AcceptIncomingConnections() {
		host := ""
		if addr := p.cfg.LocalAddress(); addr != nil {
			host = addr.String()
		}
		var lc net.ListenConfig
		listener, err := lc.Listen(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(p.cfg.Port())))
		if err != nil {
			p.mu.Lock()
			p.status = StatusStopped
			p.mu.Unlock()
			return fmt.Errorf("listen: %w", err)
		}
		ln = listener
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.listener = ln
	p.cancel = cancel
	p.done = done
	p.status = StatusRunning
	p.mu.Unlock()

	go p.run(runCtx, ln, done)
	return nil
}

// Shutdown stops the peer. The message is diagnostic only. Waits for the
// loop to drain, bounded by ctx; the peer lands in Stopped either way.
func (p *Peer) Shutdown(ctx context.Context, message string) error {
	p.mu.Lock()
	if p.status != StatusRunning {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.status = StatusStopping
	cancel := p.cancel
	ln := p.listener
	done := p.done
	p.mu.Unlock()

	p.logger.Info("Stopping peer",
		slog.String("app", p.cfg.ApplicationID()),
		slog.String("reason", message))

	cancel()
	if ln != nil {
		_ = ln.Close()
	}

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	p.mu.Lock()
	p.status = StatusStopped
	p.cancel = nil
	p.listener = nil
	p.done = nil
	p.mu.Unlock()
	return err
}

func (p *Peer) run(ctx context.Context, ln net.Listener, done chan struct{}) {
	defer close(done)
	if ln != nil {
		p.acceptLoop(ctx, ln)
		return
	}

	ticker := time.NewTicker(p.cfg.PingInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.logger.Debug("Peer heartbeat")
		}
	}
}

func (p *Peer) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
			default:
				p.logger.Warn("Accept failed", slog.Any("error", err))
			}
			return
		}

		p.mu.Lock()
		if p.conns >= p.cfg.MaxConnections() {
			p.mu.Unlock()
			p.logger.Warn("Connection limit reached, rejecting",
				slog.String("remote", conn.RemoteAddr().String()))
			_ = conn.Close()
			continue
		}
		p.conns++
		p.mu.Unlock()

		go p.serveConn(ctx, conn)
	}
}

// serveConn drains line-delimited frames until the connection goes silent
// past the configured timeout or the peer shuts down. Framing beyond lines
// is open scope for a real transport.
func (p *Peer) serveConn(ctx context.Context, conn net.Conn) {
	defer func() {
		_ = conn.Close()
		p.mu.Lock()
		p.conns--
		p.mu.Unlock()
	}()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	reader := bufio.NewReaderSize(conn, p.cfg.ReceiveBufferSize())
	for {
		if err := conn.SetReadDeadline(time.Now().Add(p.cfg.ConnectionTimeout())); err != nil {
			return
		}
		if _, err := reader.ReadBytes('\n'); err != nil {
			return
		}
	}
}

// Connections reports the number of live inbound connections.
func (p *Peer) Connections() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conns
}
