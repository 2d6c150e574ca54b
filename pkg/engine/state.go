package engine

// State is the phase a run is in.
type State int

const (
	StateNotStarted State = iota
	StateInitializing
	StateStreaming
	StateFinalizing
	StateCleanup
	StateDone
	StateCancelled
)

var stateNames = [...]string{
	StateNotStarted:   "not_started",
	StateInitializing: "initializing",
	StateStreaming:    "streaming",
	StateFinalizing:   "finalizing",
	StateCleanup:      "cleanup",
	StateDone:         "done",
	StateCancelled:    "cancelled",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Stats counts what a run has seen so far.
type Stats struct {
	Tested  int
	Matched int
	Skipped int
	Errors  int
}
