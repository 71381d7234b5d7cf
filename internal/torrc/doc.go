// Package torrc reads Tor's configuration-file format: one option per
// line, key and value separated by the first run of whitespace, with
// '#' starting a line or trailing comment.
//
// Duplicate keys are meaningful in a torrc (options like ExitPolicy
// accumulate), so the reader retains every occurrence in file order.
// Single-value lookup follows Tor's shadowing rule: the last occurrence
// wins. Key comparison is case-insensitive, as Tor's own parser treats
// "SocksPort" and "SOCKSPORT" alike.
package torrc
