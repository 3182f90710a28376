package capture

import (
	"os"

	"golang.org/x/term"
)

// KeyReader blocks until one keypress is available, with no echo and no
// line buffering.
type KeyReader interface {
	ReadKey() (rune, error)
}

// TerminalReader reads raw single keypresses from a terminal file. The
// terminal is switched to raw mode for the duration of each read and
// restored afterwards, so interrupted runs leave the terminal usable.
type TerminalReader struct {
	f *os.File
}

// NewTerminalReader returns a reader for f, normally os.Stdin.
func NewTerminalReader(f *os.File) *TerminalReader {
	return &TerminalReader{f: f}
}

func (t *TerminalReader) ReadKey() (rune, error) {
	fd := int(t.f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return 0, err
	}
	defer term.Restore(fd, old)

	var buf [1]byte
	if _, err := t.f.Read(buf[:]); err != nil {
		return 0, err
	}
	return rune(buf[0]), nil
}
