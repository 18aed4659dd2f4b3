package peer

import "errors"

var (
	// ErrNotStopped indicates Start was called on a peer that is not settled
	// in the Stopped state.
	ErrNotStopped = errors.New("peer: not in stopped state")

	// ErrNotRunning indicates Shutdown was called on a peer that is not in
	// the Running state.
	ErrNotRunning = errors.New("peer: not in running state")
)
