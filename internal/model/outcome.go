package model

// Outcome is the three-valued result of an exit-node lookup.
//
// DNSEL distinguishes a positive answer (the sentinel address), a
// negative answer (NXDOMAIN), and the absence of an answer (timeout or
// unreachable network). The last case carries no information about the
// queried address, so it must stay distinct from the negative answer.
//
// Design decision: We model the result as a typed enum rather than a
// bool plus error because "not an exit node" is an expected, frequent
// outcome, not a failure. Callers switch over the three values and the
// compiler-visible type keeps "unknown" from collapsing into "false".
type Outcome int

const (
	// OutcomeIndeterminate means the lookup produced no answer:
	// the resolver timed out or the host/network was unreachable.
	// A DNS timeout is not evidence of absence.
	OutcomeIndeterminate Outcome = iota

	// OutcomeExitNode means the resolver returned the DNSEL sentinel
	// address 127.0.0.2: the queried address is a Tor exit node.
	OutcomeExitNode

	// OutcomeNotExitNode means the resolver reported that the query
	// name does not exist (NXDOMAIN): not an exit node.
	OutcomeNotExitNode
)

// String returns a human-readable description of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeExitNode:
		return "exit node"
	case OutcomeNotExitNode:
		return "not an exit node"
	case OutcomeIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// IsKnown reports whether the outcome is a definite answer.
func (o Outcome) IsKnown() bool {
	return o == OutcomeExitNode || o == OutcomeNotExitNode
}

// ParseOutcome converts the String() form back to an Outcome. Unknown
// text maps to OutcomeIndeterminate, the only honest fallback.
func ParseOutcome(s string) Outcome {
	switch s {
	case "exit node":
		return OutcomeExitNode
	case "not an exit node":
		return OutcomeNotExitNode
	default:
		return OutcomeIndeterminate
	}
}
