package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pingPacket struct {
	Seq     uint32
	Payload []byte
}

func (p *pingPacket) Reset() {
	p.Seq = 0
	p.Payload = p.Payload[:0]
}

type pongPacket struct {
	Seq uint32
}

func TestRegisterIdempotent(t *testing.T) {
	m := NewManager(nil)
	Register[pingPacket](m)
	Register[pingPacket](m)
	require.Equal(t, 1, m.Registered())
}

func TestRegisterIDConflicts(t *testing.T) {
	m := NewManager(nil)
	require.NoError(t, RegisterID[pingPacket](m, 1))

	// Same id, different type.
	require.ErrorIs(t, RegisterID[pongPacket](m, 1), ErrIDInUse)
	// Same type, different id.
	require.ErrorIs(t, RegisterID[pingPacket](m, 2), ErrTypeRegistered)

	typ, ok := m.TypeByID(1)
	require.True(t, ok)
	require.Equal(t, "packet.pingPacket", typ.String())
}

func TestRegisterSizedSeedsPool(t *testing.T) {
	m := NewManager(nil)
	require.NoError(t, RegisterSized[pongPacket](m, 7, 4))

	// Seeded instances come back from the pool without allocation.
	first := Get[pongPacket](m)
	require.NotNil(t, first)
}

func TestGetAutoRegisters(t *testing.T) {
	m := NewManager(nil)
	pkt := Get[pingPacket](m)
	require.NotNil(t, pkt)
	require.Equal(t, 1, m.Registered())
	require.NoError(t, Recycle(m, pkt))
}

func TestRoundTripReusesInstance(t *testing.T) {
	m := NewManager(nil)
	Register[pingPacket](m)

	pkt := Get[pingPacket](m)
	pkt.Seq = 42
	pkt.Payload = append(pkt.Payload, 0x01, 0x02)
	require.NoError(t, Recycle(m, pkt))

	again := Get[pingPacket](m)
	require.Same(t, pkt, again)
	// Reset ran on recycle.
	require.Zero(t, again.Seq)
	require.Empty(t, again.Payload)
}

func TestRecycleUnregisteredType(t *testing.T) {
	m := NewManager(nil)
	err := Recycle(m, &pongPacket{})
	require.ErrorIs(t, err, ErrUnregisteredType)
}

func TestRecycleNil(t *testing.T) {
	m := NewManager(nil)
	Register[pingPacket](m)
	require.ErrorIs(t, Recycle[pingPacket](m, nil), ErrNilPacket)
}

func TestPoolAvailable(t *testing.T) {
	p := NewPool[pongPacket](nil)
	require.Zero(t, p.Available())
	p.Seed(3)
	require.Equal(t, 3, p.Available())

	pkt, pooled := p.Get()
	require.True(t, pooled)
	require.Equal(t, 2, p.Available())
	require.NoError(t, p.Put(pkt))
	require.Equal(t, 3, p.Available())
}
