package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultControlHost is the address Tor's control port listens on
	// by default. We use 127.0.0.1 instead of localhost to avoid DNS
	// resolution and IPv6 surprises on systems that map localhost
	// to ::1.
	DefaultControlHost = "127.0.0.1"

	// DefaultControlPort is Tor's default ControlPort.
	DefaultControlPort = 9051

	// DefaultSchema is the query-name schema for exit checks. The
	// single-parameter dnsel schema is what the service serves today;
	// ip-port remains selectable for the older scheme.
	DefaultSchema = "dnsel"

	// DefaultTargetAddr is the default rendezvous address for the
	// ip-port schema: a well-known public resolver reachable from
	// essentially every exit policy.
	DefaultTargetAddr = "8.8.8.8"

	// DefaultTargetPort is the default rendezvous port (DNS).
	DefaultTargetPort = 53

	// DefaultTimeout bounds one DNSEL lookup or control-port exchange.
	// DNSEL answers are small and near; 10 seconds is generous without
	// letting a dead nameserver stall a batch.
	DefaultTimeout = 10 * time.Second

	// DefaultBatchSize is the number of concurrent exit checks.
	// Lookups are lightweight UDP exchanges, but hammering the
	// exit-list service is unfriendly; 10 balances throughput against
	// politeness.
	DefaultBatchSize = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "torlook"

	// DefaultProfileFile is the default profile file name.
	DefaultProfileFile = ".torlook"
)

// Config holds all configuration options for torlook. It is populated
// from CLI flags and passed through the application via dependency
// injection rather than global state.
type Config struct {
	// Sources is the list of IPv4 addresses or hostnames to check
	// against the exit list.
	Sources []string

	// Schema selects the DNSEL query-name generation, "dnsel" or
	// "ip-port".
	Schema string

	// TargetAddr and TargetPort describe the rendezvous point for the
	// ip-port schema.
	TargetAddr string
	TargetPort int

	// Nameserver, when set, sends DNSEL queries directly to this
	// "host:port" over UDP instead of the system resolver.
	Nameserver string

	// Timeout bounds each lookup and each control-port exchange.
	// Zero disables the transport deadline.
	Timeout time.Duration

	// BatchSize is the number of concurrent checks when processing
	// multiple sources.
	BatchSize int

	// ControlHost and ControlPort locate the Tor control port for the
	// status, config, and signal commands.
	ControlHost string
	ControlPort int

	// Cookie is the control-port authentication token, passed through
	// verbatim.
	Cookie string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport and MarkdownReport select the report format for
	// check results. Mutually exclusive; the default is a
	// human-readable simple report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile, when set, writes the report to this path instead of
	// stdout. Directories are created as needed.
	ReportFile string

	// DBDir is the directory for the check-history SQLite database.
	// Empty means results are not persisted.
	DBDir string

	// SaveToDB indicates whether to save check results. Set
	// automatically when DBDir is configured.
	SaveToDB bool

	// ProfilePath is the profile file path. Empty triggers the
	// default search (current directory, then home).
	ProfilePath string

	// Profiles holds named controller profiles loaded from the
	// profile file.
	Profiles *File
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so relying on zero values would misconfigure the tool;
// this constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		Schema:      DefaultSchema,
		TargetAddr:  DefaultTargetAddr,
		TargetPort:  DefaultTargetPort,
		Timeout:     DefaultTimeout,
		BatchSize:   DefaultBatchSize,
		ControlHost: DefaultControlHost,
		ControlPort: DefaultControlPort,
	}
}

// XDGDataDir returns the XDG data directory for torlook, the default
// home of the check-history database.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for torlook.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration for the check command and returns
// the first problem found; fixing one error often makes later ones
// irrelevant.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSource
	}
	if c.Schema != "dnsel" && c.Schema != "ip-port" {
		return ErrInvalidSchema
	}
	if c.TargetPort <= 0 {
		return ErrInvalidTargetPort
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ValidateControl checks the control-port settings used by the status,
// config, and signal commands.
func (c *Config) ValidateControl() error {
	if c.ControlPort < 1 || c.ControlPort > 65535 {
		return ErrInvalidControlPort
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}
