package engine

// State is the engine's position in the regeneration cycle. Transitions run
// Idle → Resolving → Diffing → Emitting → Idle; any stage may fall into
// Failed, after which the next notification starts a fresh cycle from Idle.
type State int

const (
	// StateIdle means no cycle is in flight.
	StateIdle State = iota
	// StateResolving means the schema is being acquired and resolved.
	StateResolving
	// StateDiffing means the new model is being compared against the last
	// emission snapshot.
	StateDiffing
	// StateEmitting means scheduled artifacts are being rendered and staged.
	StateEmitting
	// StateFailed means the last cycle aborted; the previous on-disk output
	// is untouched.
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateDiffing:
		return "diffing"
	case StateEmitting:
		return "emitting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
