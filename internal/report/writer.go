package report

import (
	"io"
	"time"

	"github.com/nao1215/torlook/internal/model"
)

// Writer defines the interface for report output.
// Implementations write check results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the results to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(results []*model.CheckResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write check results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the results to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(results []*model.CheckResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Summary aggregates a result set by outcome for quick display.
type Summary struct {
	// Total is the number of addresses checked.
	Total int `json:"total"`

	// ExitCount is how many addresses were confirmed exit nodes.
	ExitCount int `json:"exit_nodes"`

	// NotExitCount is how many addresses were confirmed non-exits.
	NotExitCount int `json:"not_exit_nodes"`

	// IndeterminateCount is how many lookups could not be resolved
	// either way.
	IndeterminateCount int `json:"indeterminate"`

	// GeneratedAt is when the summary was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewSummary tallies the given results by outcome.
func NewSummary(results []*model.CheckResult) *Summary {
	s := &Summary{
		Total:       len(results),
		GeneratedAt: time.Now(),
	}
	for _, r := range results {
		switch r.Outcome {
		case model.OutcomeExitNode:
			s.ExitCount++
		case model.OutcomeNotExitNode:
			s.NotExitCount++
		default:
			s.IndeterminateCount++
		}
	}
	return s
}

// HasExitNodes reports whether at least one address is a confirmed exit.
func (s *Summary) HasExitNodes() bool {
	return s.ExitCount > 0
}

// resultsWithOutcome filters results down to one outcome, keeping order.
func resultsWithOutcome(results []*model.CheckResult, outcome model.Outcome) []*model.CheckResult {
	var filtered []*model.CheckResult
	for _, r := range results {
		if r.Outcome == outcome {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
