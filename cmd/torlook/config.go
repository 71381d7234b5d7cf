package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/torlook/internal/torrc"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key]",
		Short: "Show the Tor daemon's configuration",
		Long: `Config dumps the running Tor configuration fetched from the control
port, or reads a torrc file directly with --file.

With a key argument, only the values of that option are printed. Keys
are matched case-insensitively, the way Tor itself reads torrc.

Examples:
  # Dump the running configuration
  torlook config

  # Show the values of one option
  torlook config SocksPort

  # Read a torrc file without a running daemon
  torlook config --file /etc/tor/torrc

  # Show one option from a torrc file
  torlook config --file /etc/tor/torrc ExitPolicy`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigCmd,
	}

	addControlFlags(cmd)
	cmd.Flags().StringP("file", "f", "",
		"Read the configuration from this torrc file instead of the control port")

	return cmd
}

// runConfigCmd executes the config command.
func runConfigCmd(cmd *cobra.Command, args []string) error {
	filePath, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	}

	if filePath != "" {
		return showTorrcFile(cmd.OutOrStdout(), filePath, key)
	}
	return showRunningConfig(cmd, key)
}

// showTorrcFile reads a torrc file and prints it, or one key's values.
func showTorrcFile(out io.Writer, path string, key string) error {
	options, err := torrc.Load(path)
	if err != nil {
		if errors.Is(err, torrc.ErrNotFound) {
			return fmt.Errorf("torrc file not found: %s", path)
		}
		return fmt.Errorf("failed to read torrc: %w", err)
	}
	return printOptions(out, options, key)
}

// showRunningConfig fetches config-text from the control port and
// prints it, or one key's values.
func showRunningConfig(cmd *cobra.Command, key string) error {
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

	text, err := session.ConfigText()
	if err != nil {
		return fmt.Errorf("failed to fetch running configuration: %w", err)
	}

	if _, err := session.Quit(); err != nil {
		logger.Warn("failed to close session cleanly", "error", err)
	}

	out := cmd.OutOrStdout()
	if key == "" {
		_, err := fmt.Fprint(out, text)
		return err
	}

	// The running config uses torrc syntax, so the torrc reader can
	// answer key queries against it.
	options, err := torrc.Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("failed to parse running configuration: %w", err)
	}
	return printOptions(out, options, key)
}

// printOptions prints all options, or the values of one key.
func printOptions(out io.Writer, options *torrc.Options, key string) error {
	if key == "" {
		for _, opt := range options.All() {
			if opt.Value == "" {
				fmt.Fprintln(out, opt.Key)
				continue
			}
			fmt.Fprintf(out, "%s %s\n", opt.Key, opt.Value)
		}
		return nil
	}

	values := options.GetAll(key)
	if len(values) == 0 {
		return fmt.Errorf("option %q not set", key)
	}
	for _, value := range values {
		fmt.Fprintln(out, value)
	}
	return nil
}
