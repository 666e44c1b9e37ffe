package core

// State is the bridge lifecycle state. Exactly one State is live per
// Bridge; transitions follow the table in bridge.go and every public
// entry point is defined (possibly as an error) in every state.
type State int

const (
	StateUninitialized State = iota
	StateEnvironmentNegotiated
	StateContentLoaded
	StateRunning
	StateSuspended
	StateErrored
	StateTornDown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateEnvironmentNegotiated:
		return "environment-negotiated"
	case StateContentLoaded:
		return "content-loaded"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateErrored:
		return "errored"
	case StateTornDown:
		return "torn-down"
	}
	return "unknown"
}
