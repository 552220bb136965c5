package stream

// State is the lifecycle state of the streaming channel.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateLive
	StateDisconnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateLive:
		return "live"
	case StateDisconnected:
		return "disconnected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the current session's channel.
// The client never reconnects from a terminal state.
func (s State) Terminal() bool {
	return s == StateDisconnected || s == StateFailed
}

// Status is the client's view of channel health. Reason is set for
// Disconnected (close reason, possibly empty) and Failed (generic message).
type Status struct {
	State  State
	Reason string
	Err    error
}
