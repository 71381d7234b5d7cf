package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/torlook/internal/config"
	"github.com/nao1215/torlook/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [address]",
		Short: "Show past check results",
		Long: `History reads the check-history database that the check command
writes to. Without arguments it lists every address that has been
checked; with an address it shows that address's past results, newest
first.

Examples:
  # List all checked addresses
  torlook history

  # Show the last ten results for one address
  torlook history 203.0.113.7

  # Show the full history for one address
  torlook history --limit 0 203.0.113.7`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 10,
		"Maximum number of results to show (0 shows all)")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: the XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no check history yet (run 'torlook check' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		sources, err := db.ListCheckedSources(ctx)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Fprintln(out, "No addresses have been checked yet.")
			return nil
		}
		for _, source := range sources {
			fmt.Fprintln(out, source)
		}
		return nil
	}

	source := args[0]
	results, err := db.GetHistory(ctx, source, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No results recorded for %s.\n", source)
		return nil
	}

	for _, result := range results {
		line := fmt.Sprintf("%s  %-18s",
			result.CheckedAt.Format("2006-01-02 15:04:05"), result.OutcomeText)
		if result.Answer != "" {
			line += "  answer=" + result.Answer
		}
		if result.Err != "" {
			line += "  error=" + result.Err
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
