// Package report formats exit-node check results for people and tools.
//
// Three output formats are supported:
//   - Simple: human-readable text for terminal display
//   - JSON: machine-readable for tool integration
//   - Markdown: documentation-friendly with tables and charts
//
// All writers implement the Writer interface, so callers can swap
// formats or fan out to several destinations via MultiWriter.
package report
