package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/torlook/internal/model"
	"golang.org/x/sync/errgroup"
)

// Checker performs an exit-node check for a single source address.
// *dnsel.Checker satisfies this interface.
type Checker interface {
	Check(ctx context.Context, source string) *model.CheckResult
}

// Processor runs exit-node checks for multiple addresses concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: The Processor takes one shared Checker rather than a
// factory. A checker holds no per-lookup state beyond its configuration,
// and the resolver underneath is safe for concurrent use, so a fresh
// instance per address would buy nothing.
type Processor struct {
	// checker performs the individual lookups.
	checker Checker

	// concurrency is the maximum number of in-flight checks.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed checks in input order.
	// Access is synchronized via mutex.
	results []*model.CheckResult
	mu      sync.Mutex
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a custom logger for batch processing.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent checks.
// Default is 10 if not specified.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProcessor creates a Processor that runs checks through the given
// checker.
func NewProcessor(checker Checker, opts ...Option) *Processor {
	p := &Processor{
		checker:     checker,
		concurrency: 10,
		results:     make([]*model.CheckResult, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Process checks multiple source addresses concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each address gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Results come back in the same order as the input addresses. A lookup
// failure does not abort the batch; the failure is recorded in that
// address's result and the remaining addresses are still checked. The
// error return reports cancellation only.
func (p *Processor) Process(ctx context.Context, sources []string) ([]*model.CheckResult, error) {
	p.logger.Info("starting batch check",
		"total_sources", len(sources),
		"concurrency", p.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	p.results = make([]*model.CheckResult, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			p.logger.Debug("checking address",
				"source", source,
				"index", i+1,
				"total", len(sources),
			)

			result := p.checker.Check(ctx, source)

			p.mu.Lock()
			p.results[i] = result
			p.mu.Unlock()

			if result.Err != "" {
				p.logger.Warn("check inconclusive",
					"source", source,
					"error", result.Err,
				)
			}

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	p.logger.Info("batch check complete",
		"total_sources", len(sources),
		"elapsed", elapsed,
	)

	return p.results, err
}

// ProcessWithCallback checks multiple addresses and calls a callback for
// each completed check. This is useful for streaming results.
//
// The callback receives the result and the index of the address in the
// original slice. The callback is called from the goroutine that
// completed the check, so it must be safe for concurrent use if it
// touches shared state.
func (p *Processor) ProcessWithCallback(
	ctx context.Context,
	sources []string,
	callback func(result *model.CheckResult, index int),
) error {
	p.logger.Info("starting batch check with callback",
		"total_sources", len(sources),
		"concurrency", p.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			callback(p.checker.Check(ctx, source), i)
			return nil
		})
	}

	return g.Wait()
}
