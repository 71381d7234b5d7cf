package dnsel

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// DefaultUDPTimeout bounds a single direct UDP query. DNSEL answers are
// tiny and the exit-list servers are close to the torproject.org
// infrastructure, so five seconds comfortably covers a healthy exchange
// while keeping a dead nameserver from blocking a batch for long.
const DefaultUDPTimeout = 5 * time.Second

// NewUDPLookupFunc returns a LookupFunc that sends A queries directly
// to the given nameserver ("host:port") over UDP, bypassing the system
// resolver. This lets DNSEL queries target a specific exit-list server
// or a local caching resolver.
//
// The response code is mapped onto the package's error taxonomy so the
// three-way outcome classification works identically for both lookup
// paths: NXDOMAIN and empty answers become ErrNameNotFound, SERVFAIL
// and REFUSED become their sentinels, and transport timeouts pass
// through as net.Error timeouts.
func NewUDPLookupFunc(nameserver string, timeout time.Duration) LookupFunc {
	if timeout <= 0 {
		timeout = DefaultUDPTimeout
	}
	client := &dns.Client{
		Net:     "udp",
		Timeout: timeout,
	}

	return func(ctx context.Context, host string) ([]string, error) {
		query := new(dns.Msg)
		query.SetQuestion(dns.Fqdn(host), dns.TypeA)

		reply, _, err := client.ExchangeContext(ctx, query, nameserver)
		if err != nil {
			return nil, err
		}
		return addressesFromReply(reply, host)
	}
}

// addressesFromReply extracts A-record addresses from a reply,
// translating non-success response codes into sentinel errors.
func addressesFromReply(reply *dns.Msg, host string) ([]string, error) {
	switch reply.Rcode {
	case dns.RcodeSuccess:
		// fall through to answer extraction
	case dns.RcodeNameError:
		return nil, fmt.Errorf("%w: %s", ErrNameNotFound, host)
	case dns.RcodeServerFailure:
		return nil, fmt.Errorf("%w: %s", ErrServerFailure, host)
	case dns.RcodeRefused:
		return nil, fmt.Errorf("%w: %s", ErrServerRefused, host)
	default:
		return nil, fmt.Errorf("%w: rcode %d for %s", ErrServerMisbehaving, reply.Rcode, host)
	}

	var addrs []string
	for _, rr := range reply.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no A records for %s", ErrNameNotFound, host)
	}
	return addrs, nil
}
