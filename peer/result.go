package peer

// Result is the closed outcome code returned by every Manager operation.
// Denied values name the violated precondition; Failure is the catch-all for
// unexpected faults.
type Result int

const (
	Failure Result = iota
	Success
	DeniedIdentifierEmpty
	DeniedClientExists
	DeniedClientNotFound
	DeniedServerExists
	DeniedServerNotFound
	DeniedPeerNotStopped
	DeniedPeerNotRunning
)

func (r Result) String() string {
	switch r {
	case Failure:
		return "Failure"
	case Success:
		return "Success"
	case DeniedIdentifierEmpty:
		return "DeniedIdentifierEmpty"
	case DeniedClientExists:
		return "DeniedClientExists"
	case DeniedClientNotFound:
		return "DeniedClientNotFound"
	case DeniedServerExists:
		return "DeniedServerExists"
	case DeniedServerNotFound:
		return "DeniedServerNotFound"
	case DeniedPeerNotStopped:
		return "DeniedPeerNotStopped"
	case DeniedPeerNotRunning:
		return "DeniedPeerNotRunning"
	default:
		return "Unknown"
	}
}
