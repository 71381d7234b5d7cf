package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/torlook/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether outcome sections with no results are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the results in human-readable format.
func (w *SimpleWriter) Write(results []*model.CheckResult) (int, error) {
	var sb strings.Builder

	summary := NewSummary(results)

	w.writeHeader(&sb, summary)
	w.writeSummary(&sb, summary)
	w.writeResults(&sb, results)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      TOR EXIT NODE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Generated:          %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Addresses Checked:  %d\n", summary.Total))
	sb.WriteString("\n")
}

// writeSummary writes the outcome summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("OUTCOME SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  EXIT NODE:     %d\n", summary.ExitCount))
	sb.WriteString(fmt.Sprintf("  NOT EXIT:      %d\n", summary.NotExitCount))
	sb.WriteString(fmt.Sprintf("  INDETERMINATE: %d\n", summary.IndeterminateCount))
	sb.WriteString("\n")
}

// writeResults writes all results grouped by outcome, exits first.
func (w *SimpleWriter) writeResults(sb *strings.Builder, results []*model.CheckResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	outcomes := []model.Outcome{
		model.OutcomeExitNode,
		model.OutcomeNotExitNode,
		model.OutcomeIndeterminate,
	}

	for _, outcome := range outcomes {
		group := resultsWithOutcome(results, outcome)
		if len(group) == 0 && !w.showEmpty {
			continue
		}
		w.writeOutcomeGroup(sb, outcome, group)
	}
}

// writeOutcomeGroup writes the results sharing one outcome.
func (w *SimpleWriter) writeOutcomeGroup(sb *strings.Builder, outcome model.Outcome, results []*model.CheckResult) {
	indicator := w.getOutcomeIndicator(outcome)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, strings.ToUpper(outcome.String())))

	if len(results) == 0 {
		sb.WriteString("  No results\n\n")
		return
	}

	for _, result := range results {
		sb.WriteString(fmt.Sprintf("  * %s\n", result.Source))
		if w.verbose {
			if result.Target != "" {
				sb.WriteString(fmt.Sprintf("    Target: %s (%s)\n", result.Target, result.Schema))
			}
			if result.Answer != "" {
				sb.WriteString(fmt.Sprintf("    Answer: %s\n", result.Answer))
			}
		}
		if result.Err != "" {
			sb.WriteString(fmt.Sprintf("    Error: %s\n", result.Err))
		}
	}
	sb.WriteString("\n")
}

// getOutcomeIndicator returns a visual indicator for the outcome.
func (w *SimpleWriter) getOutcomeIndicator(outcome model.Outcome) string {
	switch outcome {
	case model.OutcomeExitNode:
		return "!"
	case model.OutcomeNotExitNode:
		return "-"
	case model.OutcomeIndeterminate:
		return "?"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by torlook\n")
	sb.WriteString("https://github.com/nao1215/torlook\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
