package dnsel

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// DNSEL protocol constants.
const (
	// ZoneIPPort is the DNS zone suffix for the older two-parameter
	// query schema that encodes the rendezvous target.
	ZoneIPPort = "ip-port.exitlist.torproject.org"

	// ZoneDNSEL is the DNS zone suffix for the simplified
	// single-parameter schema.
	ZoneDNSEL = "dnsel.torproject.org"

	// SentinelAddress is the fixed answer DNSEL returns for exit nodes.
	SentinelAddress = "127.0.0.2"

	// DefaultTargetAddr is the default rendezvous address: a well-known
	// public DNS resolver, reachable from essentially every exit policy.
	DefaultTargetAddr = "8.8.8.8"

	// DefaultTargetPort is the default rendezvous port (DNS).
	DefaultTargetPort = 53
)

// Schema selects which generation of the DNSEL query-name format is in
// effect. The service changed its scheme over its lifetime, so both
// remain supported and configurable.
type Schema int

const (
	// SchemaIPPort is the two-parameter form:
	// <src-reversed>.<port>.<target-reversed>.ip-port.exitlist.torproject.org
	SchemaIPPort Schema = iota

	// SchemaDNSEL is the simplified single-parameter form:
	// <src-reversed>.dnsel.torproject.org
	SchemaDNSEL
)

// String returns the schema name as used in reports and CLI flags.
func (s Schema) String() string {
	switch s {
	case SchemaIPPort:
		return "ip-port"
	case SchemaDNSEL:
		return "dnsel"
	default:
		return "unknown"
	}
}

// ParseSchema converts a schema name back to its Schema value.
func ParseSchema(name string) (Schema, error) {
	switch name {
	case "ip-port":
		return SchemaIPPort, nil
	case "dnsel":
		return SchemaDNSEL, nil
	default:
		return SchemaDNSEL, fmt.Errorf("unknown query schema %q (want %q or %q)", name, "ip-port", "dnsel")
	}
}

// Target is the rendezvous point a query asks about: the address and
// port the exit node's traffic is observed reaching. It is immutable
// once built and only lives for the duration of one query.
type Target struct {
	// Addr is the rendezvous IPv4 address or hostname.
	Addr string

	// Port is the rendezvous TCP port.
	Port int
}

// DefaultTarget returns the default rendezvous point (8.8.8.8:53).
func DefaultTarget() Target {
	return Target{Addr: DefaultTargetAddr, Port: DefaultTargetPort}
}

// String returns the target in "host:port" form.
func (t Target) String() string {
	return net.JoinHostPort(t.Addr, strconv.Itoa(t.Port))
}

// QueryName builds the DNSEL query name for sourceHost under the given
// schema. The source (and, for the ip-port schema, the target address)
// is resolved to IPv4 and octet-reversed; the port is appended verbatim.
// The target port must be positive; no other validation is performed.
func (r *Resolver) QueryName(ctx context.Context, sourceHost string, schema Schema, target Target) (string, error) {
	src, err := r.ResolveIPv4(ctx, sourceHost, true)
	if err != nil {
		return "", err
	}

	if schema == SchemaDNSEL {
		return src + "." + ZoneDNSEL, nil
	}

	if target.Port <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidTargetPort, target.Port)
	}
	dst, err := r.ResolveIPv4(ctx, target.Addr, true)
	if err != nil {
		return "", err
	}
	return src + "." + strconv.Itoa(target.Port) + "." + dst + "." + ZoneIPPort, nil
}
