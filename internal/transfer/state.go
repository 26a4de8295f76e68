package transfer

// State is the lifecycle state of a Session.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateSyncing
	StateSending
	StateDone
	StateFailed
	StateCancelled
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpening:
		return "Opening"
	case StateSyncing:
		return "Syncing"
	case StateSending:
		return "Sending"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateCancelled
}

// next lists the forward step of each non-terminal state. Failed and
// Cancelled are reachable from every non-terminal state.
var next = map[State]State{
	StateClosed:  StateOpening,
	StateOpening: StateSyncing,
	StateSyncing: StateSending,
	StateSending: StateDone,
}

// canTransition validates a state change.
func canTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed || to == StateCancelled {
		return true
	}
	return next[from] == to
}

// StateObserver is notified after every state change.
type StateObserver interface {
	OnStateChange(previous, current State, reason string)
}

// StateObserverFunc adapts a function to StateObserver.
type StateObserverFunc func(previous, current State, reason string)

// OnStateChange calls f.
func (f StateObserverFunc) OnStateChange(previous, current State, reason string) {
	f(previous, current, reason)
}
