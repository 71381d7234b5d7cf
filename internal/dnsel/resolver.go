package dnsel

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// LookupFunc resolves a hostname to its addresses. It matches the shape
// of net.Resolver.LookupHost so the system resolver slots in directly,
// and tests can substitute a stub that returns canned answers or errors.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

// Resolver performs the forward resolutions DNSEL needs: turning
// hostnames into IPv4 addresses and reversing their octet order for
// query-name construction.
//
// Design decision: The lookup function is an explicit field injected at
// construction rather than process-global mutable state. Each Resolver
// carries its own configuration, so concurrent checkers with different
// nameservers never interfere and tests never mutate shared state.
type Resolver struct {
	// lookup performs forward DNS resolution.
	lookup LookupFunc

	// logger is used for debug-level lookup logging.
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLookupFunc sets the lookup function used for forward resolution.
// The default is the system resolver (net.DefaultResolver.LookupHost).
func WithLookupFunc(fn LookupFunc) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.lookup = fn
		}
	}
}

// WithResolverLogger sets a custom logger for the resolver.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver. With no options it resolves through
// the system resolver and logs via slog.Default.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookup: net.DefaultResolver.LookupHost,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveIPv4 resolves host to an IPv4 address in dotted-quad form.
//
// An IPv4 literal is returned verbatim. An IPv6 literal fails with
// ErrUnsupportedAddress regardless of the reversed flag, because the
// DNSEL protocol has no IPv6 query form. A hostname is forward-resolved
// and the first IPv4 address among the results is returned; when the
// resolution yields no IPv4 address at all (including the case where
// the underlying facility reports an empty result through any
// mechanism), the call fails with ErrNameNotFound, the same outcome as
// NXDOMAIN.
//
// When reversed is true the returned address has its octet order
// flipped (a.b.c.d -> d.c.b.a), the form DNSEL query names are built
// from. The reversal is a pure string transform on the four octets.
func (r *Resolver) ResolveIPv4(ctx context.Context, host string, reversed bool) (string, error) {
	if host == "" {
		return "", fmt.Errorf("%w: empty host", ErrNameNotFound)
	}

	// Any host containing a colon is an IPv6 literal of some form, not a
	// bare IPv4 literal or a resolvable hostname. This covers bracketed
	// and zoned literals that net.ParseIP rejects, and IPv4-mapped forms
	// like ::ffff:1.2.3.4 that it would otherwise accept as IPv4.
	if strings.Contains(host, ":") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAddress, host)
	}

	// With colons ruled out, anything net.ParseIP accepts is dotted-quad.
	if net.ParseIP(host) != nil {
		return maybeReverse(host, reversed), nil
	}

	// Normalize internationalized hostnames before hitting the wire.
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		ascii = host
	}

	addrs, err := r.lookup(ctx, ascii)
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrNameNotFound, host)
		}
		return "", err
	}

	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil && !strings.Contains(addr, ":") {
			r.logger.Debug("resolved host", "host", host, "address", addr)
			return maybeReverse(addr, reversed), nil
		}
	}
	return "", fmt.Errorf("%w: no IPv4 address for %s", ErrNameNotFound, host)
}

// maybeReverse applies the octet reversal when requested.
func maybeReverse(addr string, reversed bool) string {
	if !reversed {
		return addr
	}
	return reverseOctets(addr)
}

// reverseOctets flips a dotted-quad address: "1.2.3.4" -> "4.3.2.1".
// Reversing twice yields the original string.
func reverseOctets(addr string) string {
	octets := strings.Split(addr, ".")
	for i, j := 0, len(octets)-1; i < j; i, j = i+1, j-1 {
		octets[i], octets[j] = octets[j], octets[i]
	}
	return strings.Join(octets, ".")
}
