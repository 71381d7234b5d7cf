// Package control implements a client for Tor's control protocol: the
// line-oriented text interface a running Tor process exposes, by
// default on 127.0.0.1:9051.
//
// A Session owns exactly one TCP connection. Every operation is
// synchronous: a command line goes out (CRLF-terminated, flushed
// immediately) and the expected number of reply lines is read back
// before the next operation may start. There is no pipelining, no
// internal locking, and no automatic reconnect; callers needing to talk
// to several Tor processes create one Session per connection and never
// share a Session across concurrent call sites.
//
// The session walks a small state machine: Disconnected, connected but
// unauthenticated, authenticated. Quit and AuthenticationMethod work in
// any connected state; data operations authenticate automatically on
// first use. Authentication passes the caller's cookie through
// verbatim; the package computes nothing over it.
//
// Blocking reads have no built-in timeout. A wedged Tor process blocks
// the calling goroutine indefinitely unless a deadline was configured
// with WithTimeout, which applies at the transport layer.
package control
