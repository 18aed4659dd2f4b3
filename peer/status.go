package peer

// Status tracks where a peer sits in its lifecycle. Starting and Stopping
// mark an async transition in flight; structural operations in the Manager
// reject peers that are not settled in Stopped or Running.
type Status int32

const (
	StatusStopped Status = iota
	StatusStarting
	StatusRunning
	StatusStopping
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusStarting:
		return "Starting"
	case StatusRunning:
		return "Running"
	case StatusStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// Role marks which side of a connection a peer plays.
type Role int

const (
	RolePeer Role = iota
	RoleClient
	RoleServer
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "Client"
	case RoleServer:
		return "Server"
	default:
		return "Peer"
	}
}
