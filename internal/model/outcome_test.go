package model

import (
	"testing"
	"time"
)

// TestOutcomeString tests the Outcome String method.
func TestOutcomeString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		outcome  Outcome
		expected string
	}{
		{"exit node", OutcomeExitNode, "exit node"},
		{"not exit node", OutcomeNotExitNode, "not an exit node"},
		{"indeterminate", OutcomeIndeterminate, "indeterminate"},
		{"out of range", Outcome(99), "unknown"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.outcome.String(); got != tc.expected {
				t.Errorf("Outcome(%d).String() = %q, expected %q", tc.outcome, got, tc.expected)
			}
		})
	}
}

// TestParseOutcome tests the String round trip and the fallback.
func TestParseOutcome(t *testing.T) {
	t.Parallel()

	for _, outcome := range []Outcome{OutcomeExitNode, OutcomeNotExitNode, OutcomeIndeterminate} {
		if got := ParseOutcome(outcome.String()); got != outcome {
			t.Errorf("ParseOutcome(%q) = %v, expected %v", outcome.String(), got, outcome)
		}
	}
	if got := ParseOutcome("garbage"); got != OutcomeIndeterminate {
		t.Errorf("ParseOutcome(%q) = %v, expected OutcomeIndeterminate", "garbage", got)
	}
}

// TestOutcomeIsKnown tests that only definite answers are known.
func TestOutcomeIsKnown(t *testing.T) {
	t.Parallel()

	if !OutcomeExitNode.IsKnown() {
		t.Error("OutcomeExitNode should be known")
	}
	if !OutcomeNotExitNode.IsKnown() {
		t.Error("OutcomeNotExitNode should be known")
	}
	if OutcomeIndeterminate.IsKnown() {
		t.Error("OutcomeIndeterminate should not be known")
	}
}

// TestNewCheckResult tests CheckResult construction.
func TestNewCheckResult(t *testing.T) {
	t.Parallel()

	before := time.Now()
	result := NewCheckResult("1.2.3.4")

	if result.Source != "1.2.3.4" {
		t.Errorf("Source = %q, expected %q", result.Source, "1.2.3.4")
	}
	if result.Outcome != OutcomeIndeterminate {
		t.Errorf("Outcome = %v, expected OutcomeIndeterminate", result.Outcome)
	}
	if result.CheckedAt.Before(before) {
		t.Error("CheckedAt should not be before construction time")
	}
}

// TestSetOutcome tests that SetOutcome keeps the text mirror in sync.
func TestSetOutcome(t *testing.T) {
	t.Parallel()

	result := NewCheckResult("1.2.3.4")
	result.SetOutcome(OutcomeExitNode)

	if result.Outcome != OutcomeExitNode {
		t.Errorf("Outcome = %v, expected OutcomeExitNode", result.Outcome)
	}
	if result.OutcomeText != "exit node" {
		t.Errorf("OutcomeText = %q, expected %q", result.OutcomeText, "exit node")
	}
}
