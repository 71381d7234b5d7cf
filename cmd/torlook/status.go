package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the local Tor daemon's version and configuration file",
		Long: `Status connects to the Tor control port, authenticates, and reports
the daemon's version, configuration file path, and the authentication
method the daemon advertises.

Examples:
  # Query the default control port (127.0.0.1:9051)
  torlook status

  # Query a Tor Browser control port with a password
  torlook status --port 9151 --cookie "secret"

  # Use a named profile from .torlook
  torlook status --profile browser`,
		Args: cobra.NoArgs,
		RunE: runStatusCmd,
	}

	addControlFlags(cmd)
	return cmd
}

// runStatusCmd executes the status command.
func runStatusCmd(cmd *cobra.Command, _ []string) error {
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

	method, err := session.AuthenticationMethod()
	if err != nil {
		return fmt.Errorf("failed to query authentication methods: %w", err)
	}

	version, err := session.Version()
	if err != nil {
		return fmt.Errorf("failed to query version: %w", err)
	}

	configFile, err := session.ConfigFile()
	if err != nil {
		return fmt.Errorf("failed to query config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Control port:   %s\n", session.Addr())
	fmt.Fprintf(out, "Tor version:    %s\n", version)
	fmt.Fprintf(out, "Config file:    %s\n", configFile)
	fmt.Fprintf(out, "Auth method:    %s\n", method)

	if _, err := session.Quit(); err != nil {
		logger.Warn("failed to close session cleanly", "error", err)
	}
	return nil
}
