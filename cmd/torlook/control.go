package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/torlook/internal/config"
	"github.com/nao1215/torlook/internal/control"
	"github.com/nao1215/torlook/internal/log"
)

// addControlFlags registers the flags shared by all commands that talk
// to the Tor control port.
func addControlFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", config.DefaultControlHost,
		"Tor control port address")
	cmd.Flags().IntP("port", "p", config.DefaultControlPort,
		"Tor control port")
	cmd.Flags().StringP("cookie", "c", "",
		"Control port authentication token (passed through verbatim)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each control port exchange")
	cmd.Flags().String("profile", "",
		"Named controller profile from the .torlook file")
}

// buildControlConfig creates a Config from the shared control flags.
// A named profile supplies defaults; explicit flags win over it.
func buildControlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.ControlHost, err = cmd.Flags().GetString("host")
	if err != nil {
		return nil, err
	}

	cfg.ControlPort, err = cmd.Flags().GetInt("port")
	if err != nil {
		return nil, err
	}

	cfg.Cookie, err = cmd.Flags().GetString("cookie")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	if err := applyControlProfile(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.ValidateControl(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyControlProfile merges the named profile's controller settings
// into the config unless the corresponding flag was given explicitly.
func applyControlProfile(cmd *cobra.Command, cfg *config.Config) error {
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
	if profile.Host != "" && !cmd.Flags().Changed("host") {
		cfg.ControlHost = profile.Host
	}
	if profile.Port != 0 && !cmd.Flags().Changed("port") {
		cfg.ControlPort = profile.Port
	}
	if profile.Cookie != "" && !cmd.Flags().Changed("cookie") {
		cfg.Cookie = profile.Cookie
	}
	return nil
}

// connectSession opens a control port session from the config.
// The caller owns the session and must Quit or Close it.
func connectSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*control.Session, error) {
	session := control.NewSession(cfg.ControlHost, cfg.ControlPort,
		control.WithCookie(cfg.Cookie),
		control.WithTimeout(cfg.Timeout),
		control.WithLogger(logger),
	)
	if err := session.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to control port at %s: %w", session.Addr(), err)
	}
	return session, nil
}

// setupControlLogger configures logging for control commands.
// Control traffic can carry credentials, so the sanitizing handler is
// not optional here.
func setupControlLogger(cfg *config.Config) *slog.Logger {
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}
