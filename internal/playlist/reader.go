package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

const utf8BOM = "\ufeff"

// IOError reports a playlist that could not be opened or read.
// It aborts an analysis run.
type IOError struct {
	Op   string // "open", "read" or "decode"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s playlist: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s playlist %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is, or wraps, an *IOError
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// Open opens a playlist file for reading
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return f, nil
}

// ReaderOptions configures a LineReader
type ReaderOptions struct {
	Name         string // Used in error messages
	Encoding     string // Charset label; empty means utf-8
	MaxLineBytes int    // Longest accepted line; <= 0 means 1 MiB
}

// LineReader yields the lines of a playlist one at a time.
// It consumes its input once and cannot be restarted.
type LineReader struct {
	scanner *bufio.Scanner
	name    string
	maxLine int
	count   int
	err     error
}

// NewLineReader wraps r, transcoding it to UTF-8 when opts.Encoding names
// another charset.
func NewLineReader(r io.Reader, opts ReaderOptions) (*LineReader, error) {
	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, &IOError{Op: "decode", Path: opts.Name, Err: err}
	}

	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = 1 << 20
	}

	// Room for a BOM and a \r\n on top of the longest line; Next enforces
	// the exact limit
	bufCap := maxLine + len(utf8BOM) + 2
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, min(64*1024, bufCap)), bufCap)

	return &LineReader{
		scanner: scanner,
		name:    opts.Name,
		maxLine: maxLine,
	}, nil
}

// Next returns the next line with surrounding whitespace and the line
// terminator removed. It returns false at end of input or on a read error;
// check Err afterwards.
func (lr *LineReader) Next() (string, bool) {
	if lr.err != nil || !lr.scanner.Scan() {
		return "", false
	}

	line := lr.scanner.Text()
	if lr.count == 0 {
		line = strings.TrimPrefix(line, utf8BOM)
	}
	if len(line) > lr.maxLine {
		lr.err = bufio.ErrTooLong
		return "", false
	}
	lr.count++

	return strings.TrimSpace(line), true
}

// Err returns the first read error, or nil if input ended normally
func (lr *LineReader) Err() error {
	err := lr.err
	if err == nil {
		err = lr.scanner.Err()
	}
	if err != nil {
		return &IOError{Op: "read", Path: lr.name, Err: err}
	}
	return nil
}

// Count returns the number of lines yielded so far
func (lr *LineReader) Count() int {
	return lr.count
}

// decode returns a reader producing UTF-8 for the given charset label
func decode(r io.Reader, label string) (io.Reader, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return r, nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	if name == "utf-8" {
		return r, nil
	}

	return enc.NewDecoder().Reader(r), nil
}

// ValidateEncoding reports whether label names a supported charset
func ValidateEncoding(label string) error {
	if strings.TrimSpace(label) == "" {
		return nil
	}
	if enc, _ := charset.Lookup(label); enc == nil {
		return fmt.Errorf("unsupported encoding %q", label)
	}
	return nil
}
