package control

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// Control connection defaults.
const (
	// DefaultHost is the address Tor's ControlPort listens on by default.
	DefaultHost = "127.0.0.1"

	// DefaultPort is Tor's default ControlPort.
	DefaultPort = 9051
)

// Session is one connection to a Tor control port.
//
// The session owns its socket exclusively. It is not safe for
// concurrent use: the protocol is strictly request/reply, and two
// interleaved callers would corrupt each other's reply framing. No
// internal locking is provided; that constraint is the caller's.
//
// Design decision: NewSession does not connect. Separating construction
// from the network operation allows building a session before Tor is
// running and keeps tests free to point Connect at a mock server.
type Session struct {
	// host and port locate the control port.
	host string
	port int

	// cookie is the default authentication token, passed through
	// verbatim when Authenticate is called without an argument.
	cookie string

	// timeout, when positive, is applied as a transport deadline to
	// every send and every reply read. Zero means blocking I/O with
	// no deadline, matching the protocol's synchronous model.
	timeout time.Duration

	// logger is used for debug-level wire logging.
	logger *slog.Logger

	// conn is the socket, nil when disconnected. reader wraps it for
	// line-at-a-time reads and is replaced on every Connect.
	conn   net.Conn
	reader *bufio.Reader

	// authenticated tracks the state machine's authenticated flag.
	authenticated bool

	// authMethod memoizes the PROTOCOLINFO discovery for the
	// session's lifetime. authMethodKnown distinguishes "not yet
	// discovered" from an empty method.
	authMethod      AuthMethod
	authMethodKnown bool
}

// Option configures a Session.
type Option func(*Session)

// WithCookie sets the default authentication cookie, used when
// Authenticate is called with an empty argument.
func WithCookie(cookie string) Option {
	return func(s *Session) {
		s.cookie = cookie
	}
}

// WithTimeout applies a transport deadline to every send and reply
// read. Without it a wedged Tor process blocks the caller indefinitely.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a disconnected session for host:port. Empty host
// and non-positive port fall back to the defaults. Call Connect before
// issuing commands.
func NewSession(host string, port int, opts ...Option) *Session {
	if host == "" {
		host = DefaultHost
	}
	if port <= 0 {
		port = DefaultPort
	}
	s := &Session{
		host:   host,
		port:   port,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the control port address in "host:port" form.
func (s *Session) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// IsConnected reports whether the session holds an open socket.
func (s *Session) IsConnected() bool {
	return s.conn != nil
}

// IsAuthenticated reports whether AUTHENTICATE has succeeded on the
// current connection.
func (s *Session) IsAuthenticated() bool {
	return s.authenticated
}

// Connect opens a fresh socket to the control port, closing any prior
// socket first. The transition is idempotent: connecting an already
// connected session reconnects it, always landing in the connected,
// unauthenticated state. TCP keep-alive is enabled on the transport.
func (s *Session) Connect(ctx context.Context) error {
	if err := s.Close(); err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to connect to control port %s: %w", s.Addr(), err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable keep-alive: %w", err)
		}
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.authenticated = false
	s.logger.Debug("connected to control port", "addr", s.Addr())
	return nil
}

// Close closes the socket if one is open and resets the session to
// Disconnected. Closing an already-closed session is a no-op.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.reader = nil
	s.authenticated = false
	return err
}

// Quit sends the QUIT command, reads the single reply line, and closes
// the socket. QUIT is valid in any connected state and does not require
// authentication. The reply line is returned to the caller.
func (s *Session) Quit() (string, error) {
	if err := s.sendCommand("quit"); err != nil {
		s.Close()
		return "", err
	}
	reply, err := s.readLine()
	if closeErr := s.Close(); err == nil {
		err = closeErr
	}
	return reply, err
}

// sendCommand writes one command line: the name upper-cased, arguments
// space-joined, CRLF appended. The write goes to the socket immediately;
// nothing is buffered across calls.
func (s *Session) sendCommand(name string, args ...string) error {
	parts := append([]string{strings.ToUpper(name)}, args...)
	return s.sendLine(strings.Join(parts, " "))
}

// sendLine writes a raw line with the CRLF terminator.
func (s *Session) sendLine(line string) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	if err := s.setDeadline(); err != nil {
		return err
	}
	s.logger.Debug("control send", "line", line)
	if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("failed to send %q: %w", line, err)
	}
	return nil
}

// readLine reads exactly one reply line and strips its terminator. No
// reply-code interpretation happens here; each operation above knows
// the shape of its own reply.
func (s *Session) readLine() (string, error) {
	if s.conn == nil {
		return "", ErrNotConnected
	}
	if err := s.setDeadline(); err != nil {
		return "", err
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read reply: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	s.logger.Debug("control recv", "line", line)
	return line, nil
}

// setDeadline applies the configured transport deadline, if any.
func (s *Session) setDeadline() error {
	if s.timeout <= 0 {
		return nil
	}
	return s.conn.SetDeadline(time.Now().Add(s.timeout))
}
