package coordinator

// State is a step in the life of a job.
type State int

const (
	Admitted State = iota
	Dispatched
	Awaiting
	Reducing
	Released
	Done
	// Rejected is terminal: the ledger denied admission.
	Rejected
	// Failed is terminal: the simulator reported an error, the handoff broke or the result could not be recorded.
	Failed
)

func (s State) String() string {
	switch s {
	case Admitted:
		return "Admitted"
	case Dispatched:
		return "Dispatched"
	case Awaiting:
		return "Awaiting"
	case Reducing:
		return "Reducing"
	case Released:
		return "Released"
	case Done:
		return "Done"
	case Rejected:
		return "Rejected"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Done || s == Rejected || s == Failed
}

// TransitionFunc observes every state change of every job.
type TransitionFunc func(jobId string, from, to State)
