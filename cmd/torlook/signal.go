package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/torlook/internal/control"
)

// NewSignalCmd creates the signal command.
func NewSignalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal <name>",
		Short: "Send a signal to the Tor daemon",
		Long: `Signal sends a named signal to the Tor daemon over the control port
and prints the daemon's reply.

Common signals:
  NEWNYM    switch to clean circuits for new connections
  RELOAD    reload the configuration file
  DUMP      write statistics to the log
  DEBUG     switch the log to debug verbosity
  HALT      shut the daemon down

Examples:
  # Request fresh circuits
  torlook signal NEWNYM

  # Reload torrc on a password-protected controller
  torlook signal --cookie "secret" RELOAD`,
		Args: cobra.ExactArgs(1),
		RunE: runSignalCmd,
	}

	addControlFlags(cmd)
	return cmd
}

// runSignalCmd executes the signal command.
func runSignalCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildControlConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupControlLogger(cfg)

	session, err := connectSession(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	name := strings.ToUpper(args[0])
	reply, err := session.Signal(name)
	if err != nil {
		return fmt.Errorf("failed to send signal %s: %w", name, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	if replyErr := control.ReplyError(reply); replyErr != nil {
		return fmt.Errorf("signal %s rejected: %w", name, replyErr)
	}

	if _, err := session.Quit(); err != nil {
		logger.Warn("failed to close session cleanly", "error", err)
	}
	return nil
}
