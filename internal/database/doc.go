// Package database provides SQLite-based storage for exit-node check
// history. Results accumulate across runs so operators can answer
// "when did this address last look like a Tor exit" without re-querying
// the exit list service.
package database
