package control

import (
	"fmt"
	"strings"
)

// GetInfo sends "GETINFO <key>" for a single-valued key and returns the
// value: the substring after the first "=" of the first reply line. The
// trailing "250 OK" line is read and discarded. The session
// authenticates automatically if it has not yet.
func (s *Session) GetInfo(key string) (string, error) {
	if err := s.ensureAuthenticated(); err != nil {
		return "", err
	}
	if err := s.sendCommand("getinfo", key); err != nil {
		return "", err
	}

	line, err := s.readLine()
	if err != nil {
		return "", err
	}
	if replyErr := ReplyError(line); replyErr != nil {
		return "", fmt.Errorf("GETINFO %s: %w", key, replyErr)
	}
	_, value, found := strings.Cut(line, "=")
	if !found {
		return "", fmt.Errorf("GETINFO %s: malformed reply %q", key, line)
	}

	// Trailing "250 OK".
	if _, err := s.readLine(); err != nil {
		return "", err
	}
	return value, nil
}

// Version returns the Tor version string, e.g. "0.4.8.12".
func (s *Session) Version() (string, error) {
	return s.GetInfo("version")
}

// ConfigFile returns the filesystem path of the configuration file the
// running Tor process loaded.
func (s *Session) ConfigFile() (string, error) {
	return s.GetInfo("config-file")
}

// ConfigText returns the running configuration as Tor would write it to
// disk. The reply is block-framed: a "250+config-text=" header, the
// content lines, a terminating line containing only ".", and a trailing
// "250 OK". The terminator is matched by exact equality, so a content
// line merely starting with "." does not end the block, and it is
// excluded from the returned text. Each content line is returned with a
// trailing newline.
func (s *Session) ConfigText() (string, error) {
	if err := s.ensureAuthenticated(); err != nil {
		return "", err
	}
	if err := s.sendCommand("getinfo", "config-text"); err != nil {
		return "", err
	}

	// "250+config-text=" header.
	header, err := s.readLine()
	if err != nil {
		return "", err
	}
	if replyErr := ReplyError(header); replyErr != nil {
		return "", fmt.Errorf("GETINFO config-text: %w", replyErr)
	}

	var text strings.Builder
	for {
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		if line == "." {
			break
		}
		text.WriteString(line)
		text.WriteString("\n")
	}

	// Trailing "250 OK".
	if _, err := s.readLine(); err != nil {
		return "", err
	}
	return text.String(), nil
}

// Signal sends "SIGNAL <name>" (e.g. RELOAD, NEWNYM, SHUTDOWN) and
// returns the single reply line unmodified. Interpreting the reply code
// is the caller's responsibility; ReplyError helps with that.
func (s *Session) Signal(name string) (string, error) {
	if err := s.ensureAuthenticated(); err != nil {
		return "", err
	}
	if err := s.sendCommand("signal", name); err != nil {
		return "", err
	}
	return s.readLine()
}
