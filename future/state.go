package future

// State is the coarse, observable state of a [Future]. The transient
// "Resolving" sentinel used internally during the resolve CAS is never
// observable from outside the package: [Future.State] reports it as
// Executing until the resolve publishes Resolved.
type State int32

const (
	Waiting State = iota
	Executing
	resolving // internal-only transient state; never returned by State()
	Resolved
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case Executing:
		return "Executing"
	case resolving:
		return "Resolving"
	case Resolved:
		return "Resolved"
	default:
		return "State(invalid)"
	}
}
