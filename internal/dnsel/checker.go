package dnsel

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/torlook/internal/model"
)

// Checker answers "is this address a Tor exit node?" by querying DNSEL
// and classifying the result. It is a thin composition of a Resolver,
// a query schema, and a rendezvous target.
//
// A Checker imposes no timeout of its own: it classifies whatever
// outcome the underlying lookup facility reports. Callers wanting a
// deadline apply it through the context or the lookup function.
type Checker struct {
	// resolver performs forward resolution and query-name building.
	resolver *Resolver

	// schema selects the query-name generation.
	schema Schema

	// target is the rendezvous point for the ip-port schema.
	target Target

	// logger is used for debug-level query logging.
	logger *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithSchema selects the query-name schema. Default is SchemaDNSEL,
// the schema the service currently serves.
func WithSchema(s Schema) CheckerOption {
	return func(c *Checker) {
		c.schema = s
	}
}

// WithTarget sets the rendezvous target for the ip-port schema.
func WithTarget(t Target) CheckerOption {
	return func(c *Checker) {
		c.target = t
	}
}

// WithCheckerLogger sets a custom logger for the checker.
func WithCheckerLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker on top of the given resolver.
// A nil resolver gets the default system-resolver-backed Resolver.
func NewChecker(resolver *Resolver, opts ...CheckerOption) *Checker {
	if resolver == nil {
		resolver = NewResolver()
	}
	c := &Checker{
		resolver: resolver,
		schema:   SchemaDNSEL,
		target:   DefaultTarget(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query performs the DNS lookup for the DNSEL query name built from
// sourceHost and returns the resolved address as a string. Name-not-found
// and timeout/unreachable conditions propagate unmodified; interpreting
// them is the caller's job (usually via IsExitNode).
func (c *Checker) Query(ctx context.Context, sourceHost string) (string, error) {
	name, err := c.resolver.QueryName(ctx, sourceHost, c.schema, c.target)
	if err != nil {
		return "", err
	}
	c.logger.Debug("querying DNSEL", "name", name, "schema", c.schema.String())

	return c.resolver.ResolveIPv4(ctx, name, false)
}

// IsExitNode classifies sourceHost with the three-valued DNSEL contract:
//
//   - model.OutcomeExitNode when the answer equals 127.0.0.2
//   - model.OutcomeNotExitNode when the query name does not exist
//   - model.OutcomeIndeterminate when the lookup timed out or the
//     host/network was unreachable
//
// The first two return a nil error: they are answers, not failures.
// Indeterminate outcomes return the underlying error alongside so the
// caller can report why no answer was obtained. Errors outside the
// three classifications (for example an IPv6 source address) also
// return OutcomeIndeterminate with the error, and should be treated as
// fatal to the call.
//
// Callers must never collapse OutcomeIndeterminate into "not an exit
// node": a DNS timeout is not evidence of absence.
func (c *Checker) IsExitNode(ctx context.Context, sourceHost string) (model.Outcome, error) {
	answer, err := c.Query(ctx, sourceHost)
	if err == nil {
		if answer == SentinelAddress {
			return model.OutcomeExitNode, nil
		}
		return model.OutcomeNotExitNode, nil
	}

	outcome, classified := classifyLookupError(err)
	if !classified {
		return model.OutcomeIndeterminate, err
	}
	if outcome == model.OutcomeNotExitNode {
		return model.OutcomeNotExitNode, nil
	}
	c.logger.Debug("lookup produced no answer", "source", sourceHost, "error", err)
	return model.OutcomeIndeterminate, err
}

// Check runs IsExitNode and records everything into a CheckResult,
// the form the database, batch, and report layers consume.
func (c *Checker) Check(ctx context.Context, sourceHost string) *model.CheckResult {
	result := model.NewCheckResult(sourceHost)
	result.Schema = c.schema.String()
	if c.schema == SchemaIPPort {
		result.Target = c.target.String()
	}

	answer, err := c.Query(ctx, sourceHost)
	result.CheckedAt = time.Now()
	if err == nil {
		result.Answer = answer
		if answer == SentinelAddress {
			result.SetOutcome(model.OutcomeExitNode)
		} else {
			result.SetOutcome(model.OutcomeNotExitNode)
		}
		return result
	}

	outcome, classified := classifyLookupError(err)
	if classified && outcome == model.OutcomeNotExitNode {
		result.SetOutcome(model.OutcomeNotExitNode)
		return result
	}
	result.SetOutcome(model.OutcomeIndeterminate)
	result.Err = err.Error()
	return result
}
