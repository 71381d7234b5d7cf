package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/torlook/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// titleCaser converts outcome labels into heading form
	// ("exit node" becomes "Exit Node").
	titleCaser cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titleCaser: cases.Title(language.English),
	}
}

// Write outputs the results in Markdown format.
func (w *MarkdownWriter) Write(results []*model.CheckResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := NewSummary(results)

	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writeResults(md, results)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Tor Exit Node Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Addresses Checked", strconv.Itoa(summary.Total)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the outcome summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *Summary) {
	md.H2("Outcome Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"🔴 Exit Node", strconv.Itoa(summary.ExitCount)},
			{"🟢 Not Exit", strconv.Itoa(summary.NotExitCount)},
			{"⚪ Indeterminate", strconv.Itoa(summary.IndeterminateCount)},
			{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if summary.ExitCount > 0 {
		chart.LabelAndIntValue("Exit Node", uint64(summary.ExitCount))
	}
	if summary.NotExitCount > 0 {
		chart.LabelAndIntValue("Not Exit", uint64(summary.NotExitCount))
	}
	if summary.IndeterminateCount > 0 {
		chart.LabelAndIntValue("Indeterminate", uint64(summary.IndeterminateCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on outcome counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *Summary) {
	switch {
	case summary.HasExitNodes():
		md.Warningf(
			"Tor exit traffic detected. %d address(es) are confirmed exit nodes.",
			summary.ExitCount,
		)
	case summary.IndeterminateCount > 0:
		md.Importantf(
			"%d address(es) could not be classified. Re-run the check before drawing conclusions.",
			summary.IndeterminateCount,
		)
	case summary.Total > 0:
		md.Tip("No Tor exit traffic detected.")
	default:
		md.Note("No addresses were checked.")
	}
	md.PlainText("")
}

// writeResults writes all results grouped by outcome, exits first.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []*model.CheckResult) {
	md.H2("Results")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No addresses were checked.")
		md.PlainText("")
		return
	}

	outcomes := []model.Outcome{
		model.OutcomeExitNode,
		model.OutcomeNotExitNode,
		model.OutcomeIndeterminate,
	}

	for _, outcome := range outcomes {
		group := resultsWithOutcome(results, outcome)
		if len(group) == 0 {
			continue
		}

		md.PlainText("### " + w.titleCaser.String(outcome.String()))
		md.PlainText("")
		w.writeResultsTable(md, group)
	}
}

// writeResultsTable writes a table of results with details.
func (w *MarkdownWriter) writeResultsTable(md *markdown.Markdown, results []*model.CheckResult) {
	headers := []string{"Source", "Target", "Schema", "Answer", "Error"}

	rows := make([][]string, len(results))
	for i, r := range results {
		target := r.Target
		if target == "" {
			target = "-"
		}
		answer := r.Answer
		if answer == "" {
			answer = "-"
		}
		errText := r.Err
		if errText == "" {
			errText = "-"
		}

		rows[i] = []string{
			"`" + r.Source + "`",
			target,
			r.Schema,
			answer,
			truncateString(errText, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [torlook](https://github.com/nao1215/torlook)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
