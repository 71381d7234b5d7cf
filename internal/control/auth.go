package control

import "strings"

// AuthMethod is the authentication method a Tor process advertises in
// its PROTOCOLINFO reply, lower-cased.
type AuthMethod string

// Authentication methods Tor advertises. The protocol's literal "null"
// is normalized to AuthMethodNone: no authentication required.
const (
	// AuthMethodNone means AUTHENTICATE succeeds with no credentials.
	AuthMethodNone AuthMethod = "none"

	// AuthMethodCookie means the contents of a cookie file are the
	// expected credential.
	AuthMethodCookie AuthMethod = "cookie"

	// AuthMethodSafeCookie is the challenge/response variant of
	// cookie authentication.
	AuthMethodSafeCookie AuthMethod = "safecookie"

	// AuthMethodHashedPassword means a password matching Tor's
	// HashedControlPassword option is expected.
	AuthMethodHashedPassword AuthMethod = "hashedpassword"
)

// authMethodsPrefix introduces the PROTOCOLINFO line that names the
// accepted authentication methods.
const authMethodsPrefix = "250-AUTH METHODS="

// AuthenticationMethod discovers which authentication method the server
// expects by sending PROTOCOLINFO and scanning its reply. The result is
// memoized for the session's lifetime; only the first call touches the
// wire. Valid both before and after authentication.
//
// The reply is scanned permissively: the first "250-AUTH METHODS=" line
// is captured (later ones are skipped like any other continuation
// line), other "250-" lines are skipped, and the loop stops at "250 OK"
// or at any line without the "250-" prefix. The protocol subset covered
// here leaves other line shapes undefined, so they terminate the scan
// rather than raising an error.
func (s *Session) AuthenticationMethod() (AuthMethod, error) {
	if s.authMethodKnown {
		return s.authMethod, nil
	}
	if err := s.sendCommand("protocolinfo"); err != nil {
		return "", err
	}

	var method AuthMethod
	for {
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		if line == "250 OK" {
			break
		}
		if strings.HasPrefix(line, authMethodsPrefix) && method == "" {
			method = parseAuthMethod(strings.TrimPrefix(line, authMethodsPrefix))
			continue
		}
		if strings.HasPrefix(line, "250-") {
			continue
		}
		// Not part of the covered protocol subset; stop scanning.
		break
	}

	s.authMethod = method
	s.authMethodKnown = true
	return method, nil
}

// parseAuthMethod extracts the first advertised method name: the run of
// word characters before any separator, lower-cased, with the literal
// "null" normalized to AuthMethodNone.
func parseAuthMethod(value string) AuthMethod {
	if i := strings.IndexAny(value, ", \t"); i >= 0 {
		value = value[:i]
	}
	word := strings.ToLower(value)
	if word == "null" {
		return AuthMethodNone
	}
	return AuthMethod(word)
}

// Authenticate sends AUTHENTICATE with the cookie appended as a raw
// token, or bare AUTHENTICATE when neither the argument nor the
// session's configured cookie is set. Exactly one reply line is read:
// "250 OK" transitions the session to authenticated; any other reply
// leaves it unauthenticated and returns an *AuthenticationError
// carrying the raw reply text.
func (s *Session) Authenticate(cookie string) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	if cookie == "" {
		cookie = s.cookie
	}

	var err error
	if cookie == "" {
		err = s.sendCommand("authenticate")
	} else {
		err = s.sendCommand("authenticate", cookie)
	}
	if err != nil {
		return err
	}

	reply, err := s.readLine()
	if err != nil {
		return err
	}
	if reply != "250 OK" {
		s.authenticated = false
		return &AuthenticationError{Reply: reply}
	}
	s.authenticated = true
	return nil
}

// ensureAuthenticated performs the auto-authentication step data
// operations rely on: when the session is not yet authenticated,
// Authenticate is called with no explicit cookie.
func (s *Session) ensureAuthenticated() error {
	if s.conn == nil {
		return ErrNotConnected
	}
	if s.authenticated {
		return nil
	}
	return s.Authenticate("")
}
