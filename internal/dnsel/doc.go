// Package dnsel implements Tor's DNS-based exit-node lookup (DNSEL).
//
// DNSEL answers the question "is this address a Tor exit node?" through
// an ordinary DNS query: the address under test has its octets reversed
// and is embedded in a query name under a fixed torproject.org zone. The
// service replies with the sentinel address 127.0.0.2 for exit nodes and
// NXDOMAIN otherwise. Anything else, such as a timeout or an unreachable
// network, carries no information, and this package keeps that third
// case distinct: see model.OutcomeIndeterminate.
//
// Two query-name schemas exist because the service changed its scheme
// over time. The older ip-port schema also encodes the rendezvous point
// (the target address and port the exit's traffic is observed reaching);
// the newer dnsel schema takes only the source address. Both are
// supported and selected per Checker.
//
// The package is designed for dependency injection: a Resolver carries
// its lookup function as an explicit field, so tests substitute a stub
// without touching process-global resolver state, and a direct
// DNS-over-UDP lookup against a chosen nameserver is available via
// NewUDPLookupFunc.
package dnsel
