// Package main provides the entry point for the torlook CLI.
//
// torlook answers one question about an IP address: is it a Tor exit
// node? It queries the Tor Project's DNS-based exit list (DNSEL) and
// can also talk to a local Tor daemon's control port for status,
// configuration, and signals.
//
// Usage:
//
//	torlook check <address>
//	torlook check --list <file>
//	torlook status
//
// See --help for all available options.
package main

// main is the entry point for torlook.
func main() {
	Execute()
}
