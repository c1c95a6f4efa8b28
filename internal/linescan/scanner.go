// Package linescan reads RFC 5322 messages line by line, understanding
// header folding (RFC 5322 2.2.3) without otherwise interpreting content.
//
// Its functionality is similar to the ReadLine and ReadContinuedLine
// functions from Reader in net/textproto, except it additionally returns
// the original (folded) bytes to callers so that a lossless reparse of
// generated output is possible.
package linescan

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Scanner reads a message byte-by-byte, tracking the line terminator in use
// so that callers can preserve it (or not) when regenerating.
type Scanner struct {
	r    *bufio.Reader
	term string // "\r\n" or "\n", set from the first line seen
}

// New returns a Scanner that reads from r.
func New(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Term returns the line terminator observed so far ("\r\n", "\n", or "" if
// no line has been read yet).
func (s *Scanner) Term() string { return s.term }

// ReadLine reads and returns a single newline-terminated line, including the
// newline itself.
//
// If one or more bytes are read but EOF is encountered before a newline,
// the data and nil are returned. If EOF is encountered before any bytes are
// read, io.EOF is returned.
func (s *Scanner) ReadLine() (string, error) {
	// RFC 5322 2.1.1, "Line Length Limits":
	//  There are two limits that this specification places on the number of
	//  characters in a line. Each line of characters MUST be no more than
	//  998 characters, and SHOULD be no more than 78 characters, excluding
	//  the CRLF.
	ln, err := s.r.ReadString('\n')
	if err == io.EOF && ln != "" {
		err = nil
	}
	if err == nil && s.term == "" && ln != "" {
		if strings.HasSuffix(ln, "\r\n") {
			s.term = "\r\n"
		} else {
			s.term = "\n"
		}
	}
	return ln, err
}

// ReadFoldedLine reads and returns a possibly-folded line: the first line,
// plus any subsequent lines whose first octet is a space or tab (RFC 5322
// 2.2.3).
//
// folded contains the original lines verbatim, terminators included.
// unfolded contains the concatenation of each line with its terminator
// stripped; a continuation line's leading whitespace is kept exactly as it
// appears, however many octets it has.
func (s *Scanner) ReadFoldedLine() (folded []string, unfolded string, err error) {
	first, err := s.ReadLine()
	if err != nil {
		return nil, "", err
	}
	folded = append(folded, first)
	unfolded = TrimEOL(first)
	if unfolded == "" {
		return folded, unfolded, nil
	}

	for {
		next, err := s.r.Peek(1)
		if err == io.EOF {
			return folded, unfolded, nil
		} else if err != nil {
			return nil, "", err
		}
		if next[0] != ' ' && next[0] != '\t' {
			return folded, unfolded, nil
		}
		ln, err := s.ReadLine()
		if err != nil {
			return nil, "", err
		}
		folded = append(folded, ln)
		unfolded += TrimEOL(ln)
	}
}

// Peek returns, without consuming, up to n bytes without advancing the
// reader. It wraps bufio.Reader.Peek.
func (s *Scanner) Peek(n int) ([]byte, error) { return s.r.Peek(n) }

// Rest returns an io.Reader for everything not yet consumed.
func (s *Scanner) Rest() io.Reader { return s.r }

// TrimEOL trims a trailing "\r\n" (or bare "\n") from ln.
//
// RFC 5322 2.3 says "CR and LF MUST only occur together as CRLF; they MUST
// NOT appear independently", but by the time a message has passed through a
// few MTAs and mailbox formats all bets are off, so a bare trailing "\n" is
// accepted too.
func TrimEOL(ln string) string {
	if len(ln) > 0 && ln[len(ln)-1] == '\n' {
		ln = ln[:len(ln)-1]
		if len(ln) > 0 && ln[len(ln)-1] == '\r' {
			ln = ln[:len(ln)-1]
		}
	}
	return ln
}

// ErrMissingColon is returned by SplitHeaderField when ln has no ':'.
var ErrMissingColon = errors.New("missing colon")

// SplitHeaderField is adapted from the teacher's parseHeaderField: it
// performs the raw "name:value" split, e.g. "from: \"Bob\" <user@example.org>"
// into "from" and "\"Bob\" <user@example.org>", but leaves MIME header-key
// canonicalization to the caller, since mimekit.Header stores the original
// casing and only folds case for lookup.
func SplitHeaderField(ln string) (name, value string, err error) {
	idx := strings.IndexByte(ln, ':')
	if idx < 0 {
		return "", "", ErrMissingColon
	}
	name = ln[:idx]
	value = strings.TrimLeft(ln[idx+1:], " \t")
	return name, value, nil
}
