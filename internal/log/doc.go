// Package log provides logging with automatic sanitization of
// control-channel credentials, built on the standard slog package.
//
// torlook's control session logs every line it sends and receives at
// debug level, and two of those lines can carry secrets: the
// AUTHENTICATE command with its cookie or password argument, and any
// attribute explicitly holding a credential. The SecureHandler masks
// both before the record reaches the underlying handler, so verbose
// wire logs stay shareable.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
// The handler wraps any slog.Handler, so text and JSON output both get
// the same masking.
package log
