package peer

import (
	"net"
	"sync"
	"time"

	"lobbynet/netutil"
)

// Defaults applied by NewConfig. MTU matches the conservative UDP payload
// bound used by most game transports.
const (
	DefaultMTU               = 1408
	DefaultBufferSize        = 1 << 16
	DefaultMaxConnections    = 32
	DefaultPingInterval      = 6 * time.Second
	DefaultConnectionTimeout = 25 * time.Second
	DefaultReconnectInterval = 5 * time.Second
	DefaultReconnectAttempts = 5
	DefaultMTUExpandInterval = 2 * time.Second
	DefaultMTUExpandAttempts = 3
)

// Config is the builder-style configuration for a peer. Setters mutate
// freely until Lock succeeds; from then on every setter returns false
// without effect until Unlock. Lock and Unlock both refuse while the owning
// peer's loop is active, so a live connection loop never sees its buffer
// sizes, addresses or timeouts change underneath it.
type Config struct {
	mu      sync.Mutex
	locked  bool
	running func() bool // bound by the owning Peer

	appID             string
	localAddr         net.IP
	port              int
	broadcast         net.IP
	sendBufferSize    int
	recvBufferSize    int
	maxConnections    int
	pingInterval      time.Duration
	connectionTimeout time.Duration
	reconnectInterval time.Duration
	reconnectAttempts int
	mtu               int
	mtuAutoExpand     bool
	mtuExpandInterval time.Duration
	mtuExpandAttempts int
	acceptIncoming    bool
	role              Role
}

// NewConfig returns a config with defaults for the given application
// identifier and role. The identifier must match between communicating
// peers.
func NewConfig(appID string, role Role) *Config {
	return &Config{
		appID:             appID,
		sendBufferSize:    DefaultBufferSize,
		recvBufferSize:    DefaultBufferSize,
		maxConnections:    DefaultMaxConnections,
		pingInterval:      DefaultPingInterval,
		connectionTimeout: DefaultConnectionTimeout,
		reconnectInterval: DefaultReconnectInterval,
		reconnectAttempts: DefaultReconnectAttempts,
		mtu:               DefaultMTU,
		mtuExpandInterval: DefaultMTUExpandInterval,
		mtuExpandAttempts: DefaultMTUExpandAttempts,
		acceptIncoming:    role == RoleServer,
		role:              role,
	}
}

// bind attaches the running probe of the owning peer. Overwrites any
// previous binding.
func (c *Config) bind(running func() bool) {
	c.mu.Lock()
	c.running = running
	c.mu.Unlock()
}

func (c *Config) loopActiveLocked() bool {
	return c.running != nil && c.running()
}

// Lock freezes the config. Succeeds only while the bound peer loop is
// absent or not running.
func (c *Config) Lock() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loopActiveLocked() {
		return false
	}
	c.locked = true
	return true
}

// Unlock re-enables setters, under the same loop-state condition as Lock.
func (c *Config) Unlock() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loopActiveLocked() {
		return false
	}
	c.locked = false
	return true
}

// IsLocked reports whether the config is currently frozen.
func (c *Config) IsLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked
}

func (c *Config) set(fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked {
		return false
	}
	fn()
	return true
}

// SetApplicationID replaces the shared application identifier.
func (c *Config) SetApplicationID(id string) bool {
	if id == "" {
		return false
	}
	return c.set(func() { c.appID = id })
}

// SetLocalAddress records the local endpoint and caches the IPv4 broadcast
// address derived from the owning interface's subnet mask. Broadcast lookup
// failures leave the broadcast address nil rather than failing the call.
func (c *Config) SetLocalAddress(ip net.IP, port int) bool {
	if ip == nil || !netutil.ValidPort(port) {
		return false
	}
	return c.set(func() {
		c.localAddr = ip
		c.port = port
		bcast, err := netutil.BroadcastAddress(ip)
		if err != nil {
			bcast = nil
		}
		c.broadcast = bcast
	})
}

// SetLocalPort records the listen port without binding to a specific
// address, leaving the broadcast address untouched.
func (c *Config) SetLocalPort(port int) bool {
	if !netutil.ValidPort(port) {
		return false
	}
	return c.set(func() { c.port = port })
}

// SetSendBufferSize sets the socket send buffer in bytes.
func (c *Config) SetSendBufferSize(n int) bool {
	if n <= 0 {
		return false
	}
	return c.set(func() { c.sendBufferSize = n })
}

// SetReceiveBufferSize sets the socket receive buffer in bytes.
func (c *Config) SetReceiveBufferSize(n int) bool {
	if n <= 0 {
		return false
	}
	return c.set(func() { c.recvBufferSize = n })
}

// SetMaxConnections bounds concurrent inbound connections.
func (c *Config) SetMaxConnections(n int) bool {
	if n <= 0 {
		return false
	}
	return c.set(func() { c.maxConnections = n })
}

// SetPingInterval sets the keepalive cadence.
func (c *Config) SetPingInterval(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	return c.set(func() { c.pingInterval = d })
}

// SetConnectionTimeout sets how long a silent connection stays alive.
func (c *Config) SetConnectionTimeout(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	return c.set(func() { c.connectionTimeout = d })
}

// SetReconnection sets the retry interval and attempt cap used after a lost
// connection.
func (c *Config) SetReconnection(interval time.Duration, attempts int) bool {
	if interval <= 0 || attempts < 0 {
		return false
	}
	return c.set(func() {
		c.reconnectInterval = interval
		c.reconnectAttempts = attempts
	})
}

// SetMTU sets the maximum transmission unit in bytes.
func (c *Config) SetMTU(n int) bool {
	if n <= 0 {
		return false
	}
	return c.set(func() { c.mtu = n })
}

// SetMTUAutoExpand enables MTU discovery with the given probe interval and
// attempt cap.
func (c *Config) SetMTUAutoExpand(enabled bool, interval time.Duration, attempts int) bool {
	if enabled && (interval <= 0 || attempts <= 0) {
		return false
	}
	return c.set(func() {
		c.mtuAutoExpand = enabled
		if enabled {
			c.mtuExpandInterval = interval
			c.mtuExpandAttempts = attempts
		}
	})
}

// SetAcceptIncomingConnections toggles whether inbound connections are
// accepted.
func (c *Config) SetAcceptIncomingConnections(accept bool) bool {
	return c.set(func() { c.acceptIncoming = accept })
}

func (c *Config) ApplicationID() string { c.mu.Lock(); defer c.mu.Unlock(); return c.appID }
func (c *Config) LocalAddress() net.IP  { c.mu.Lock(); defer c.mu.Unlock(); return c.localAddr }
func (c *Config) Port() int             { c.mu.Lock(); defer c.mu.Unlock(); return c.port }

// BroadcastAddress returns the cached IPv4 broadcast address, or nil when no
// matching interface was found at SetLocalAddress time.
func (c *Config) BroadcastAddress() net.IP { c.mu.Lock(); defer c.mu.Unlock(); return c.broadcast }

func (c *Config) SendBufferSize() int    { c.mu.Lock(); defer c.mu.Unlock(); return c.sendBufferSize }
func (c *Config) ReceiveBufferSize() int { c.mu.Lock(); defer c.mu.Unlock(); return c.recvBufferSize }
func (c *Config) MaxConnections() int    { c.mu.Lock(); defer c.mu.Unlock(); return c.maxConnections }

func (c *Config) PingInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pingInterval
}

func (c *Config) ConnectionTimeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectionTimeout
}

func (c *Config) ReconnectInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnectInterval
}

func (c *Config) ReconnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnectAttempts
}

func (c *Config) MTU() int { c.mu.Lock(); defer c.mu.Unlock(); return c.mtu }

func (c *Config) MTUAutoExpand() (bool, time.Duration, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mtuAutoExpand, c.mtuExpandInterval, c.mtuExpandAttempts
}

func (c *Config) AcceptIncomingConnections() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acceptIncoming
}

func (c *Config) Role() Role { c.mu.Lock(); defer c.mu.Unlock(); return c.role }
