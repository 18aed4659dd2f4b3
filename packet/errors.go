package packet

import "errors"

var (
	// ErrUnregisteredType indicates a recycle for a type that has no pool.
	ErrUnregisteredType = errors.New("packet: type not registered")

	// ErrIDInUse indicates the numeric packet id is already mapped.
	ErrIDInUse = errors.New("packet: id already in use")

	// ErrTypeRegistered indicates the packet type already has an id mapping.
	ErrTypeRegistered = errors.New("packet: type already registered")

	// ErrNilPacket indicates a nil instance was handed back to a pool.
	ErrNilPacket = errors.New("packet: nil packet")
)
