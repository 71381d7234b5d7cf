package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/torlook/internal/batch"
	"github.com/nao1215/torlook/internal/config"
	"github.com/nao1215/torlook/internal/database"
	"github.com/nao1215/torlook/internal/dnsel"
	"github.com/nao1215/torlook/internal/log"
	"github.com/nao1215/torlook/internal/model"
	"github.com/nao1215/torlook/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [address]...",
		Short: "Check whether addresses are Tor exit nodes",
		Long: `Check queries the Tor Project's DNS-based exit list (DNSEL) to
determine whether each address is a Tor exit node.

Each check has one of three outcomes:
- exit node: the exit list confirmed the address relays Tor traffic
- not an exit node: the exit list has no entry for the address
- indeterminate: the lookup failed, so no conclusion is possible

Examples:
  # Check a single address
  torlook check 203.0.113.7

  # Check several addresses concurrently
  torlook check 203.0.113.7 198.51.100.4 192.0.2.10

  # Read addresses from a file, one per line
  torlook check --list visitors.txt

  # Use the older ip-port schema with an explicit rendezvous point
  torlook check --schema ip-port --target 192.0.2.1 --port 443 203.0.113.7

  # Send queries directly to a nameserver instead of the system resolver
  torlook check --nameserver 1.1.1.1:53 203.0.113.7

  # Output a JSON report to a file
  torlook check --json --output report.json 203.0.113.7`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Lookup behavior flags
	cmd.Flags().StringP("schema", "s", config.DefaultSchema,
		`Query-name schema: "dnsel" or "ip-port"`)
	cmd.Flags().String("target", config.DefaultTargetAddr,
		"Rendezvous address for the ip-port schema")
	cmd.Flags().IntP("port", "p", config.DefaultTargetPort,
		"Rendezvous port for the ip-port schema")
	cmd.Flags().StringP("nameserver", "n", "",
		"Send queries to this nameserver (host:port) over UDP instead of the system resolver")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each lookup")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent checks")
	cmd.Flags().StringP("list", "l", "",
		"Read addresses from the specified file, one per line")

	// Profile file
	cmd.Flags().String("profile", "",
		"Named profile from the .torlook file (supplies nameserver settings)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Do not record results in the check-history database")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCheckConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCheckConfig creates a Config from cobra command flags.
func buildCheckConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Schema, err = cmd.Flags().GetString("schema")
	if err != nil {
		return nil, err
	}

	cfg.TargetAddr, err = cmd.Flags().GetString("target")
	if err != nil {
		return nil, err
	}

	cfg.TargetPort, err = cmd.Flags().GetInt("port")
	if err != nil {
		return nil, err
	}

	cfg.Nameserver, err = cmd.Flags().GetString("nameserver")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Profiles can supply a nameserver; an explicit flag wins.
	if err := applyCheckProfile(cmd, cfg); err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	if !noDB {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	// Addresses come from positional arguments, a list file, or both.
	cfg.Sources = args
	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		listed, err := readSourceList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Sources = append(cfg.Sources, listed...)
	}

	return cfg, nil
}

// applyCheckProfile merges the named profile's nameserver setting into
// the config unless the flag was given explicitly.
func applyCheckProfile(cmd *cobra.Command, cfg *config.Config) error {
	name, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}

	path := config.FindProfileFile("")
	if path == "" {
		return fmt.Errorf("profile %q requested but no %s file found", name, config.DefaultProfileFile)
	}

	profiles, err := config.LoadProfileFile(path)
	if err != nil {
		return fmt.Errorf("failed to load profile file %s: %w", path, err)
	}
	cfg.Profiles = profiles

	profile := profiles.GetProfile(name)
	if profile.Nameserver != "" && !cmd.Flags().Changed("nameserver") {
		cfg.Nameserver = profile.Nameserver
	}
	return nil
}

// readSourceList reads addresses from a file, one per line.
// Blank lines and lines starting with '#' are skipped.
func readSourceList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open address list: %w", err)
	}
	defer f.Close()

	var sources []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read address list: %w", err)
	}
	return sources, nil
}

// timeoutChecker bounds each check with its own deadline so one stalled
// lookup cannot consume the whole batch's patience.
type timeoutChecker struct {
	inner   *dnsel.Checker
	timeout time.Duration
}

// Check runs the underlying check under a per-lookup deadline.
func (t *timeoutChecker) Check(ctx context.Context, source string) *model.CheckResult {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.inner.Check(ctx, source)
}

// runCheck executes the exit-node checks.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Sources) == 0 {
		return errors.New("no addresses provided (specify addresses as arguments or via --list)")
	}

	logger.Info("starting checks",
		"sources", len(cfg.Sources),
		"schema", cfg.Schema,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.CheckDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	checker, err := buildChecker(cfg, logger)
	if err != nil {
		return err
	}

	startTime := time.Now()

	var results []*model.CheckResult
	if len(cfg.Sources) > 1 && cfg.BatchSize > 1 {
		processor := batch.NewProcessor(checker,
			batch.WithConcurrency(cfg.BatchSize),
			batch.WithLogger(logger),
		)
		results, err = processor.Process(ctx, cfg.Sources)
		if err != nil {
			return err
		}
	} else {
		for _, source := range cfg.Sources {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results = append(results, checker.Check(ctx, source))
		}
	}

	elapsed := time.Since(startTime)
	logger.Info("checks complete", "elapsed", elapsed)

	if err := outputReport(cfg, results); err != nil {
		return err
	}

	return saveResults(ctx, db, results, logger)
}

// buildChecker assembles the resolver and checker from the config.
func buildChecker(cfg *config.Config, logger *slog.Logger) (batch.Checker, error) {
	schema, err := dnsel.ParseSchema(cfg.Schema)
	if err != nil {
		return nil, err
	}

	resolverOpts := []dnsel.ResolverOption{
		dnsel.WithResolverLogger(logger),
	}
	if cfg.Nameserver != "" {
		resolverOpts = append(resolverOpts,
			dnsel.WithLookupFunc(dnsel.NewUDPLookupFunc(cfg.Nameserver, cfg.Timeout)))
	}
	resolver := dnsel.NewResolver(resolverOpts...)

	checker := dnsel.NewChecker(resolver,
		dnsel.WithSchema(schema),
		dnsel.WithTarget(dnsel.Target{Addr: cfg.TargetAddr, Port: cfg.TargetPort}),
		dnsel.WithCheckerLogger(logger),
	)

	return &timeoutChecker{inner: checker, timeout: cfg.Timeout}, nil
}

// outputReport writes the results in the requested format.
func outputReport(cfg *config.Config, results []*model.CheckResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports name the addresses that were checked, so keep them
		// readable by the owner only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(results)
	return err
}

// saveResults records the results in the history database.
// If db is nil, this function is a no-op.
func saveResults(ctx context.Context, db *database.CheckDB, results []*model.CheckResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	for _, result := range results {
		if _, err := db.SaveResult(ctx, result); err != nil {
			return fmt.Errorf("failed to save check result: %w", err)
		}
	}

	logger.Info("results saved to database", "count", len(results))
	return nil
}
