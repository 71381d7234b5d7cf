package dnsel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"

	"github.com/nao1215/torlook/internal/model"
)

// stubLookup returns a lookup function that answers DNSEL query names
// with the given addresses or error, while still resolving plain
// hostnames is unnecessary because checker tests use literal sources.
func stubLookup(addrs []string, err error) LookupFunc {
	return func(_ context.Context, _ string) ([]string, error) {
		return addrs, err
	}
}

// TestIsExitNodeThreeBranches verifies all three outcome branches
// independently with a stub resolver.
func TestIsExitNodeThreeBranches(t *testing.T) {
	t.Parallel()

	t.Run("sentinel answer means exit node", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup([]string{SentinelAddress}, nil)))
		checker := NewChecker(resolver)

		outcome, err := checker.IsExitNode(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomeExitNode {
			t.Errorf("outcome = %v, expected OutcomeExitNode", outcome)
		}
	})

	t.Run("name not found means not an exit node", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup(nil,
			&net.DNSError{Err: "no such host", Name: "q", IsNotFound: true})))
		checker := NewChecker(resolver)

		outcome, err := checker.IsExitNode(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomeNotExitNode {
			t.Errorf("outcome = %v, expected OutcomeNotExitNode", outcome)
		}
	})

	t.Run("timeout means indeterminate", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup(nil,
			&net.DNSError{Err: "i/o timeout", Name: "q", IsTimeout: true})))
		checker := NewChecker(resolver)

		outcome, err := checker.IsExitNode(context.Background(), "1.2.3.4")
		if outcome != model.OutcomeIndeterminate {
			t.Errorf("outcome = %v, expected OutcomeIndeterminate", outcome)
		}
		if err == nil {
			t.Error("expected the underlying error alongside the indeterminate outcome")
		}
	})

	t.Run("unreachable network means indeterminate", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup(nil,
			fmt.Errorf("write udp: %w", syscall.ENETUNREACH))))
		checker := NewChecker(resolver)

		outcome, err := checker.IsExitNode(context.Background(), "1.2.3.4")
		if outcome != model.OutcomeIndeterminate {
			t.Errorf("outcome = %v, expected OutcomeIndeterminate", outcome)
		}
		if err == nil {
			t.Error("expected the underlying error alongside the indeterminate outcome")
		}
	})

	t.Run("unreachable host means indeterminate", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup(nil,
			fmt.Errorf("connect: %w", syscall.EHOSTUNREACH))))
		checker := NewChecker(resolver)

		outcome, _ := checker.IsExitNode(context.Background(), "1.2.3.4")
		if outcome != model.OutcomeIndeterminate {
			t.Errorf("outcome = %v, expected OutcomeIndeterminate", outcome)
		}
	})

	t.Run("non-sentinel answer means not an exit node", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup([]string{"127.0.0.1"}, nil)))
		checker := NewChecker(resolver)

		outcome, err := checker.IsExitNode(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomeNotExitNode {
			t.Errorf("outcome = %v, expected OutcomeNotExitNode", outcome)
		}
	})
}

// TestIsExitNodeInvalidSource tests that an IPv6 source is fatal rather
// than classified.
func TestIsExitNodeInvalidSource(t *testing.T) {
	t.Parallel()

	checker := NewChecker(NewResolver())

	outcome, err := checker.IsExitNode(context.Background(), "::1")
	if !errors.Is(err, ErrUnsupportedAddress) {
		t.Errorf("expected ErrUnsupportedAddress, got %v", err)
	}
	if outcome != model.OutcomeIndeterminate {
		t.Errorf("outcome = %v, expected OutcomeIndeterminate", outcome)
	}
}

// TestQueryBuildsExpectedName tests that Query looks up the constructed
// DNSEL name and propagates classified errors unmodified.
func TestQueryBuildsExpectedName(t *testing.T) {
	t.Parallel()

	t.Run("dnsel schema name reaches the lookup", func(t *testing.T) {
		t.Parallel()

		var seen string
		resolver := NewResolver(WithLookupFunc(func(_ context.Context, host string) ([]string, error) {
			seen = host
			return []string{SentinelAddress}, nil
		}))
		checker := NewChecker(resolver, WithSchema(SchemaDNSEL))

		answer, err := checker.Query(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if answer != SentinelAddress {
			t.Errorf("answer = %q, expected %q", answer, SentinelAddress)
		}
		if seen != "4.3.2.1.dnsel.torproject.org" {
			t.Errorf("lookup name = %q, expected %q", seen, "4.3.2.1.dnsel.torproject.org")
		}
	})

	t.Run("ip-port schema name reaches the lookup", func(t *testing.T) {
		t.Parallel()

		var seen string
		resolver := NewResolver(WithLookupFunc(func(_ context.Context, host string) ([]string, error) {
			seen = host
			return []string{SentinelAddress}, nil
		}))
		checker := NewChecker(resolver, WithSchema(SchemaIPPort), WithTarget(Target{Addr: "8.8.4.4", Port: 25}))

		if _, err := checker.Query(context.Background(), "1.2.3.4"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != "4.3.2.1.25.4.4.8.8.ip-port.exitlist.torproject.org" {
			t.Errorf("lookup name = %q, expected %q", seen, "4.3.2.1.25.4.4.8.8.ip-port.exitlist.torproject.org")
		}
	})

	t.Run("name not found propagates", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup(nil,
			&net.DNSError{Err: "no such host", Name: "q", IsNotFound: true})))
		checker := NewChecker(resolver)

		_, err := checker.Query(context.Background(), "1.2.3.4")
		if !errors.Is(err, ErrNameNotFound) {
			t.Errorf("expected ErrNameNotFound, got %v", err)
		}
	})
}

// TestCheckResult tests the CheckResult assembly around IsExitNode.
func TestCheckResult(t *testing.T) {
	t.Parallel()

	t.Run("exit node result", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup([]string{SentinelAddress}, nil)))
		checker := NewChecker(resolver, WithSchema(SchemaIPPort), WithTarget(Target{Addr: "8.8.4.4", Port: 25}))

		result := checker.Check(context.Background(), "1.2.3.4")
		if result.Outcome != model.OutcomeExitNode {
			t.Errorf("Outcome = %v, expected OutcomeExitNode", result.Outcome)
		}
		if result.Answer != SentinelAddress {
			t.Errorf("Answer = %q, expected %q", result.Answer, SentinelAddress)
		}
		if result.Schema != "ip-port" {
			t.Errorf("Schema = %q, expected %q", result.Schema, "ip-port")
		}
		if result.Target != "8.8.4.4:25" {
			t.Errorf("Target = %q, expected %q", result.Target, "8.8.4.4:25")
		}
	})

	t.Run("dnsel schema omits target", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup(nil,
			&net.DNSError{Err: "no such host", Name: "q", IsNotFound: true})))
		checker := NewChecker(resolver, WithSchema(SchemaDNSEL))

		result := checker.Check(context.Background(), "1.2.3.4")
		if result.Outcome != model.OutcomeNotExitNode {
			t.Errorf("Outcome = %v, expected OutcomeNotExitNode", result.Outcome)
		}
		if result.Target != "" {
			t.Errorf("Target = %q, expected empty for dnsel schema", result.Target)
		}
		if result.Err != "" {
			t.Errorf("Err = %q, expected empty for a definite negative", result.Err)
		}
	})

	t.Run("indeterminate result records the error", func(t *testing.T) {
		t.Parallel()

		resolver := NewResolver(WithLookupFunc(stubLookup(nil,
			&net.DNSError{Err: "i/o timeout", Name: "q", IsTimeout: true})))
		checker := NewChecker(resolver)

		result := checker.Check(context.Background(), "1.2.3.4")
		if result.Outcome != model.OutcomeIndeterminate {
			t.Errorf("Outcome = %v, expected OutcomeIndeterminate", result.Outcome)
		}
		if !strings.Contains(result.Err, "timeout") {
			t.Errorf("Err = %q, expected it to mention the timeout", result.Err)
		}
	})
}
