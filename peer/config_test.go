package peer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig("lobbynet-test", RoleServer)
	require.Equal(t, "lobbynet-test", cfg.ApplicationID())
	require.Equal(t, DefaultMTU, cfg.MTU())
	require.Equal(t, DefaultBufferSize, cfg.SendBufferSize())
	require.Equal(t, DefaultBufferSize, cfg.ReceiveBufferSize())
	require.True(t, cfg.AcceptIncomingConnections())
	require.Equal(t, RoleServer, cfg.Role())

	client := NewConfig("lobbynet-test", RoleClient)
	require.False(t, client.AcceptIncomingConnections())
}

func TestConfigLockFreezesSetters(t *testing.T) {
	cfg := NewConfig("app", RolePeer)
	require.True(t, cfg.SetMTU(1200))
	require.True(t, cfg.Lock())
	require.True(t, cfg.IsLocked())

	require.False(t, cfg.SetMTU(900))
	require.False(t, cfg.SetSendBufferSize(1))
	require.False(t, cfg.SetReceiveBufferSize(1))
	require.False(t, cfg.SetMaxConnections(1))
	require.False(t, cfg.SetPingInterval(time.Second))
	require.False(t, cfg.SetConnectionTimeout(time.Second))
	require.False(t, cfg.SetReconnection(time.Second, 1))
	require.False(t, cfg.SetApplicationID("other"))
	require.False(t, cfg.SetAcceptIncomingConnections(true))

	// Nothing moved.
	require.Equal(t, 1200, cfg.MTU())
	require.Equal(t, "app", cfg.ApplicationID())
	require.Equal(t, DefaultBufferSize, cfg.SendBufferSize())

	require.True(t, cfg.Unlock())
	require.True(t, cfg.SetMTU(900))
	require.Equal(t, 900, cfg.MTU())
}

func TestConfigLockRefusedWhileRunning(t *testing.T) {
	cfg := NewConfig("app", RolePeer)
	running := false
	cfg.bind(func() bool { return running })

	require.True(t, cfg.Lock())
	require.True(t, cfg.Unlock())

	running = true
	require.False(t, cfg.Lock())
	require.False(t, cfg.Unlock())

	running = false
	require.True(t, cfg.Lock())
}

func TestConfigSetterValidation(t *testing.T) {
	cfg := NewConfig("app", RolePeer)
	require.False(t, cfg.SetMTU(0))
	require.False(t, cfg.SetPingInterval(0))
	require.False(t, cfg.SetLocalAddress(nil, 4000))
	require.False(t, cfg.SetMTUAutoExpand(true, 0, 0))
	require.True(t, cfg.SetMTUAutoExpand(true, time.Second, 2))

	enabled, interval, attempts := cfg.MTUAutoExpand()
	require.True(t, enabled)
	require.Equal(t, time.Second, interval)
	require.Equal(t, 2, attempts)
}
