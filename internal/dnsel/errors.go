package dnsel

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/nao1215/torlook/internal/model"
)

// DNSEL lookup errors.
//
// Design decision: We define sentinel errors rather than wrapping all
// failures generically because the three-way outcome classification
// depends on telling them apart. "Name not found" is an expected,
// meaningful negative for DNSEL and must never be lumped together with
// timeouts or unreachable networks.
var (
	// ErrUnsupportedAddress is returned when an IPv6 address is supplied
	// where only IPv4 is accepted. The DNSEL protocol has no IPv6 form,
	// so this is fatal to the call rather than retriable.
	ErrUnsupportedAddress = errors.New("unsupported address: DNSEL accepts IPv4 only")

	// ErrNameNotFound is returned when the DNS name does not exist
	// (NXDOMAIN). For DNSEL queries this is the expected signal for
	// "not an exit node", not a failure.
	ErrNameNotFound = errors.New("name not found")

	// ErrInvalidTargetPort is returned when the rendezvous target port
	// is zero or negative.
	ErrInvalidTargetPort = errors.New("invalid target port: must be positive")

	// ErrServerFailure is returned when the nameserver answered with
	// SERVFAIL. The query produced no usable answer.
	ErrServerFailure = errors.New("server failure")

	// ErrServerRefused is returned when the nameserver refused the query.
	ErrServerRefused = errors.New("query refused")

	// ErrServerMisbehaving is returned for any other non-success
	// response code from the nameserver.
	ErrServerMisbehaving = errors.New("server misbehaving")
)

// classifyLookupError maps a lookup failure onto one of the two
// non-positive outcomes. The second return value is false when the
// error is not one of the enumerated classifications (for example an
// IPv6 argument) and must propagate to the caller instead.
//
// The mapping is deliberate, documented, and exhaustive:
//   - name-not-found (NXDOMAIN, however reported) -> not an exit node
//   - timeout, unreachable host/network, server non-answers -> indeterminate
func classifyLookupError(err error) (model.Outcome, bool) {
	if isNotFound(err) {
		return model.OutcomeNotExitNode, true
	}
	if isIndeterminate(err) {
		return model.OutcomeIndeterminate, true
	}
	return model.OutcomeIndeterminate, false
}

// isNotFound reports whether err means the queried name does not exist.
// Both our own sentinel and the stdlib resolver's *net.DNSError form
// are recognized.
func isNotFound(err error) bool {
	if errors.Is(err, ErrNameNotFound) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

// isIndeterminate reports whether err is a network-level non-answer:
// a timeout, an unreachable host or network, or a nameserver that
// answered without answering. None of these say anything about the
// queried address.
func isIndeterminate(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EADDRNOTAVAIL) {
		return true
	}
	return errors.Is(err, ErrServerFailure) ||
		errors.Is(err, ErrServerRefused) ||
		errors.Is(err, ErrServerMisbehaving)
}
