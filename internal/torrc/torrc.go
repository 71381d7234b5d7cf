package torrc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// ErrNotFound is returned by Load when the torrc file does not exist.
var ErrNotFound = errors.New("torrc file not found")

// Option is one key/value pair from a torrc, in file order.
type Option struct {
	// Key is the option name as written, original casing preserved.
	Key string

	// Value is everything after the first whitespace run, trimmed.
	// Flag-style options ("HiddenServiceDir" on a line of its own
	// would carry a value; "DisableDebuggerAttachment" may not) can
	// have an empty value.
	Value string
}

// Options holds the parsed contents of a torrc file. All occurrences of
// every key are retained so multi-valued options enumerate correctly.
type Options struct {
	options []Option
}

// Parse reads torrc-formatted text. Blank lines and comments are
// dropped; everything else becomes an Option.
func Parse(r io.Reader) (*Options, error) {
	opts := &Options{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value := splitOption(line)
		opts.options = append(opts.options, Option{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read torrc: %w", err)
	}
	return opts, nil
}

// Load parses the torrc at path. A missing file is reported as
// ErrNotFound so callers can tell it apart from unreadable files.
func Load(path string) (*Options, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided torrc path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// splitOption divides a trimmed, comment-free line at its first
// whitespace run.
func splitOption(line string) (string, string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// Get returns the value of key. When the file sets the key more than
// once, the last occurrence shadows the earlier ones. Lookup is
// case-insensitive.
func (o *Options) Get(key string) (string, bool) {
	for i := len(o.options) - 1; i >= 0; i-- {
		if strings.EqualFold(o.options[i].Key, key) {
			return o.options[i].Value, true
		}
	}
	return "", false
}

// GetAll returns every value set for key, in file order.
func (o *Options) GetAll(key string) []string {
	var values []string
	for _, opt := range o.options {
		if strings.EqualFold(opt.Key, key) {
			values = append(values, opt.Value)
		}
	}
	return values
}

// All returns every option in file order.
func (o *Options) All() []Option {
	out := make([]Option, len(o.options))
	copy(out, o.options)
	return out
}

// Len returns the number of options, duplicates included.
func (o *Options) Len() int {
	return len(o.options)
}
