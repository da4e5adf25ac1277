package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// KeyReader reads a single confirmed keystroke, blocking until one arrives
type KeyReader interface {
	ReadKey() (rune, error)
}

// LineReader reads one line of text without its trailing newline
type LineReader interface {
	ReadLine() (string, error)
}

// Console is both a KeyReader and a LineReader
type Console interface {
	KeyReader
	LineReader
}

// Terminal reads from a file such as os.Stdin. Line and key reads share one
// buffer so input typed ahead of a prompt is never dropped.
type Terminal struct {
	file   *os.File
	reader *bufio.Reader
}

// NewTerminal wraps f for key and line reads
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{
		file:   f,
		reader: bufio.NewReader(f),
	}
}

// ReadKey reads one character. When f is a terminal it is switched to raw mode
// for the duration of the read so no Enter is needed, and restored before
// returning on every path.
func (t *Terminal) ReadKey() (rune, error) {
	fd := int(t.file.Fd())
	if t.reader.Buffered() == 0 && term.IsTerminal(fd) {
		restore, err := acquireRaw(fd)
		if err != nil {
			return 0, err
		}
		defer restore()
	}

	r, _, err := t.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, nil
}

// acquireRaw puts fd into raw mode and returns the release func
func acquireRaw(fd int) (func(), error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return func() {
		_ = term.Restore(fd, state)
	}, nil
}

// ReadLine reads up to the next newline in cooked mode
func (t *Terminal) ReadLine() (string, error) {
	return readLine(t.reader)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Script replays keystrokes and lines from a fixed string. Tests use it in
// place of a Terminal.
type Script struct {
	reader *bufio.Reader
}

// NewScript creates a Script reading from s
func NewScript(s string) *Script {
	return &Script{reader: bufio.NewReader(strings.NewReader(s))}
}

// ReadKey returns the next rune, or io.EOF once the script is exhausted
func (s *Script) ReadKey() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, nil
}

// ReadLine returns the next newline-terminated line
func (s *Script) ReadLine() (string, error) {
	return readLine(s.reader)
}
