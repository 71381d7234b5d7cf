package control

import (
	"errors"
	"testing"
)

// TestVersion tests the GETINFO version exchange, including the
// automatic authentication step.
func TestVersion(t *testing.T) {
	t.Parallel()

	session := connectedSession(t, []scriptStep{
		{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
		{expect: "GETINFO version", replies: []string{
			"250-version=0.4.8.12",
			"250 OK",
		}},
	})

	version, err := session.Version()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != "0.4.8.12" {
		t.Errorf("Version() = %q, expected %q", version, "0.4.8.12")
	}
	if !session.IsAuthenticated() {
		t.Error("expected auto-authentication to have run")
	}
}

// TestConfigFile tests the GETINFO config-file exchange.
func TestConfigFile(t *testing.T) {
	t.Parallel()

	session := connectedSession(t, []scriptStep{
		{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
		{expect: "GETINFO config-file", replies: []string{
			"250-config-file=/etc/tor/torrc",
			"250 OK",
		}},
	})

	path, err := session.ConfigFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/etc/tor/torrc" {
		t.Errorf("ConfigFile() = %q, expected %q", path, "/etc/tor/torrc")
	}
}

// TestGetInfoValueWithEquals tests that only the first "=" splits the
// reply; values containing "=" stay intact.
func TestGetInfoValueWithEquals(t *testing.T) {
	t.Parallel()

	session := connectedSession(t, []scriptStep{
		{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
		{expect: "GETINFO version", replies: []string{
			"250-version=0.4.8.12 (git-a=b)",
			"250 OK",
		}},
	})

	version, err := session.Version()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != "0.4.8.12 (git-a=b)" {
		t.Errorf("Version() = %q, expected the full value after the first =", version)
	}
}

// TestGetInfoErrorReply tests that error replies map onto the taxonomy.
func TestGetInfoErrorReply(t *testing.T) {
	t.Parallel()

	session := connectedSession(t, []scriptStep{
		{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
		{expect: "GETINFO no-such-key", replies: []string{
			"552 Unrecognized key \"no-such-key\"",
		}},
	})

	_, err := session.GetInfo("no-such-key")
	if !errors.Is(err, ErrUnrecognizedEntity) {
		t.Errorf("expected ErrUnrecognizedEntity, got %v", err)
	}
}

// TestConfigText tests the block-framed multi-line reply.
func TestConfigText(t *testing.T) {
	t.Parallel()

	t.Run("content lines joined with newlines", func(t *testing.T) {
		t.Parallel()

		session := connectedSession(t, []scriptStep{
			{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
			{expect: "GETINFO config-text", replies: []string{
				"250+config-text=",
				"A 1",
				"B 2",
				".",
				"250 OK",
			}},
		})

		text, err := session.ConfigText()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "A 1\nB 2\n" {
			t.Errorf("ConfigText() = %q, expected %q", text, "A 1\nB 2\n")
		}
	})

	t.Run("terminator must match by exact equality", func(t *testing.T) {
		t.Parallel()

		session := connectedSession(t, []scriptStep{
			{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
			{expect: "GETINFO config-text", replies: []string{
				"250+config-text=",
				".hidden option",
				"..",
				".",
				"250 OK",
			}},
		})

		text, err := session.ConfigText()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != ".hidden option\n..\n" {
			t.Errorf("ConfigText() = %q, expected lines starting with '.' to be kept", text)
		}
	})

	t.Run("empty configuration", func(t *testing.T) {
		t.Parallel()

		session := connectedSession(t, []scriptStep{
			{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
			{expect: "GETINFO config-text", replies: []string{
				"250+config-text=",
				".",
				"250 OK",
			}},
		})

		text, err := session.ConfigText()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "" {
			t.Errorf("ConfigText() = %q, expected empty", text)
		}
	})
}

// TestSignal tests that SIGNAL returns the reply line unmodified.
func TestSignal(t *testing.T) {
	t.Parallel()

	t.Run("success reply", func(t *testing.T) {
		t.Parallel()

		session := connectedSession(t, []scriptStep{
			{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
			{expect: "SIGNAL NEWNYM", replies: []string{"250 OK"}},
		})

		reply, err := session.Signal("NEWNYM")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply != "250 OK" {
			t.Errorf("Signal() = %q, expected %q", reply, "250 OK")
		}
	})

	t.Run("error reply is returned raw for the caller to interpret", func(t *testing.T) {
		t.Parallel()

		session := connectedSession(t, []scriptStep{
			{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
			{expect: "SIGNAL BOGUS", replies: []string{"552 Unrecognized signal code \"BOGUS\""}},
		})

		reply, err := session.Signal("BOGUS")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(ReplyError(reply), ErrUnrecognizedEntity) {
			t.Errorf("ReplyError(%q) should map to ErrUnrecognizedEntity", reply)
		}
	})

	t.Run("already authenticated session skips auto-auth", func(t *testing.T) {
		t.Parallel()

		session := connectedSession(t, []scriptStep{
			{expect: "AUTHENTICATE", replies: []string{"250 OK"}},
			{expect: "SIGNAL RELOAD", replies: []string{"250 OK"}},
		})

		if err := session.Authenticate(""); err != nil {
			t.Fatalf("unexpected authenticate error: %v", err)
		}
		if _, err := session.Signal("RELOAD"); err != nil {
			t.Fatalf("unexpected signal error: %v", err)
		}
	})
}
