package model

import "time"

// CheckResult records one exit-node check: which address was queried,
// against which rendezvous target, and what DNSEL answered.
type CheckResult struct {
	// Source is the IPv4 address or hostname that was checked.
	Source string `json:"source"`

	// Target is the rendezvous point in "host:port" form. Empty when
	// the single-parameter query schema was used.
	Target string `json:"target,omitempty"`

	// Schema is the query-name schema that was in effect
	// ("ip-port" or "dnsel").
	Schema string `json:"schema"`

	// Outcome is the three-valued classification of the answer.
	Outcome Outcome `json:"-"`

	// OutcomeText is the string form of Outcome, kept separately so
	// JSON reports stay readable without a custom marshaler.
	OutcomeText string `json:"outcome"`

	// Answer is the raw address the resolver returned, if any.
	Answer string `json:"answer,omitempty"`

	// Err holds the resolver failure text for indeterminate results.
	Err string `json:"error,omitempty"`

	// CheckedAt is when the lookup completed.
	CheckedAt time.Time `json:"checked_at"`
}

// NewCheckResult creates a CheckResult for the given source address
// with the timestamp set to now. The outcome fields are filled in by
// the checker once the lookup completes.
func NewCheckResult(source string) *CheckResult {
	return &CheckResult{
		Source:    source,
		Outcome:   OutcomeIndeterminate,
		CheckedAt: time.Now(),
	}
}

// SetOutcome records the outcome and keeps the textual mirror in sync.
func (r *CheckResult) SetOutcome(o Outcome) {
	r.Outcome = o
	r.OutcomeText = o.String()
}
