package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). Callers can use
// errors.Is() for programmatic handling while the messages stay
// human-readable.
var (
	// ErrNoSource is returned when no address to check was given,
	// either as a positional argument or via --list.
	ErrNoSource = errors.New("no address specified: provide an IPv4 address or use --list")

	// ErrInvalidTimeout is returned when the lookup timeout is negative.
	// Zero means "no deadline"; a negative duration is meaningless.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not
	// positive. Zero concurrent checks would process nothing.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidTargetPort is returned when the rendezvous target port
	// is not positive.
	ErrInvalidTargetPort = errors.New("invalid target port: must be positive")

	// ErrInvalidSchema is returned when the query schema is neither
	// "ip-port" nor "dnsel".
	ErrInvalidSchema = errors.New("invalid query schema: must be \"ip-port\" or \"dnsel\"")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidControlPort is returned when the control port is out
	// of the TCP port range.
	ErrInvalidControlPort = errors.New("invalid control port: must be between 1 and 65535")
)
