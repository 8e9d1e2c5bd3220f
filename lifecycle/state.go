package lifecycle

// State per-component lifecycle state
type State int

const (
	// StateUnregistered the manager has never seen the identifier
	StateUnregistered State = iota
	// StateRegistered descriptor recorded, dependencies resolved
	StateRegistered
	// StateResolving initialization in progress
	StateResolving
	// StateInitialized handle materialized
	StateInitialized
	// StateTornDown handle destroyed by shutdown; initialization may run again
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "UNREGISTERED"
	case StateRegistered:
		return "REGISTERED"
	case StateResolving:
		return "RESOLVING"
	case StateInitialized:
		return "INITIALIZED"
	case StateTornDown:
		return "TORN_DOWN"
	default:
		return "UNKNOWN"
	}
}
