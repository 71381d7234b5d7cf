// Package main provides the entry point for the torlook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for torlook.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "torlook",
		Short: "Tor exit node lookup and control port client",
		Long: `torlook checks whether IP addresses are Tor exit nodes by querying
the Tor Project's DNS-based exit list (DNSEL).

It can also talk to a local Tor daemon's control port to report its
version and configuration, dump the running torrc, and send signals
such as NEWNYM.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewSignalCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
