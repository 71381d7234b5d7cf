package control

import (
	"errors"
	"fmt"
	"strconv"
)

// Control connection errors.
var (
	// ErrNotConnected is returned when an operation requires an open
	// control connection and the session is disconnected.
	ErrNotConnected = errors.New("not connected to the control port")
)

// Control protocol error replies, keyed by the reply codes Tor sends.
// The subset here covers the codes the commands in this package can
// trigger; anything else maps to ErrUnknownReply.
var (
	// ErrAuthenticationRequired is returned for 514 replies: the
	// command needs an authenticated session.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrBadAuthentication is returned for 515 replies: the supplied
	// credentials were rejected.
	ErrBadAuthentication = errors.New("bad authentication")

	// ErrUnrecognizedCommand is returned for 510 replies.
	ErrUnrecognizedCommand = errors.New("unrecognized command")

	// ErrSyntaxError is returned for 500 and 512 replies.
	ErrSyntaxError = errors.New("syntax error")

	// ErrUnrecognizedEntity is returned for 552 replies, e.g. a
	// GETINFO key or SIGNAL name Tor does not know.
	ErrUnrecognizedEntity = errors.New("unrecognized entity")

	// ErrOperationFailed is returned for 550 and 551 replies.
	ErrOperationFailed = errors.New("operation failed")

	// ErrUnknownReply is returned when the reply code is not part of
	// the protocol subset this package understands.
	ErrUnknownReply = errors.New("unknown reply code")
)

// AuthenticationError reports a rejected AUTHENTICATE command. It
// carries the raw server reply so callers can inspect Tor's exact
// wording. The attempt is fatal, but the session stays connected and
// unauthenticated; retrying with different credentials is valid.
type AuthenticationError struct {
	// Reply is the raw reply line the server sent, e.g.
	// "515 Authentication failed: Wrong length on authentication cookie."
	Reply string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return "authentication rejected: " + e.Reply
}

// ReplyError maps a raw reply line onto the package's error taxonomy.
// Success codes (2xx) return nil. The reply text is preserved in the
// wrapped error for diagnostics.
func ReplyError(line string) error {
	code, ok := replyCode(line)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownReply, line)
	}
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == 514:
		return fmt.Errorf("%w: %s", ErrAuthenticationRequired, line)
	case code == 515:
		return fmt.Errorf("%w: %s", ErrBadAuthentication, line)
	case code == 510 || code == 511:
		return fmt.Errorf("%w: %s", ErrUnrecognizedCommand, line)
	case code == 500 || code == 512 || code == 513:
		return fmt.Errorf("%w: %s", ErrSyntaxError, line)
	case code == 552:
		return fmt.Errorf("%w: %s", ErrUnrecognizedEntity, line)
	case code == 550 || code == 551 || code == 553:
		return fmt.Errorf("%w: %s", ErrOperationFailed, line)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownReply, line)
	}
}

// replyCode extracts the leading three-digit reply code from a line.
func replyCode(line string) (int, bool) {
	if len(line) < 3 {
		return 0, false
	}
	code, err := strconv.Atoi(line[:3])
	if err != nil {
		return 0, false
	}
	if len(line) > 3 && line[3] != ' ' && line[3] != '-' && line[3] != '+' {
		return 0, false
	}
	return code, true
}
