package recovery

// State is a step of the submission lifecycle:
// Idle -> Submitting -> Success | Failed. Failed may be submitted again.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
