// Package history extracts command history from the raw VPP CLI output stream
// and holds the two editable lists (captured history and curated configuration)
// that the menu operates on.
package history

import (
	"bytes"
	"strings"
)

const (
	// DefaultPrompt is the prompt printed by the VPP debug CLI when it is ready
	// for a new command.
	DefaultPrompt = "vpp# "

	// DefaultMaxCommandLen caps a single captured line, prompt included.
	DefaultMaxCommandLen = 4096

	byteLF        = 10
	byteCR        = 13
	byteBackspace = 8
)

// Command is one entry committed by the Scanner.
type Command struct {
	Text string

	// Truncated is set when the line exceeded the scanner capacity and the
	// overflowing bytes were dropped.
	Truncated bool
}

// Scanner recognizes prompt-delimited command lines inside an otherwise opaque
// console output stream. It keeps state across partial reads, so a stream can
// be fed in chunks of any size.
//
// A line is committed only when the local user has pressed Enter (MarkEnter)
// and the buffered line is longer than the prompt at the moment a line
// terminator shows up in the stream. Idle prompt reprints are never recorded.
type Scanner struct {
	prompt []byte
	maxLen int

	buf       []byte
	cursor    int
	length    int
	truncated bool

	armed     bool
	enterSeen bool
}

// NewScanner returns a scanner anchored on prompt. maxLen bounds the line
// buffer; values not larger than the prompt fall back to DefaultMaxCommandLen.
func NewScanner(prompt []byte, maxLen int) *Scanner {
	if len(prompt) == 0 {
		prompt = []byte(DefaultPrompt)
	}
	if maxLen <= len(prompt) {
		maxLen = DefaultMaxCommandLen
	}
	p := make([]byte, len(prompt))
	copy(p, prompt)
	return &Scanner{
		prompt: p,
		maxLen: maxLen,
		buf:    make([]byte, 0, 256),
		armed:  true,
	}
}

// Prompt returns a copy of the prompt the scanner matches.
func (s *Scanner) Prompt() []byte {
	return append([]byte(nil), s.prompt...)
}

// Armed reports whether the scanner is synchronized with the prompt.
func (s *Scanner) Armed() bool { return s.armed }

// MarkEnter records that the local user sent a line terminator to the peer.
func (s *Scanner) MarkEnter() { s.enterSeen = true }

// Reset drops the in-progress line. Prompt synchronization is left alone.
func (s *Scanner) Reset() {
	s.cursor = 0
	s.length = 0
	s.truncated = false
}

// Feed consumes p and returns the commands committed while doing so. The
// caller remains responsible for forwarding p to the terminal untouched.
func (s *Scanner) Feed(p []byte) []Command {
	var out []Command
	for _, c := range p {
		if !s.armed {
			if c == byteLF {
				s.armed = true
			}
			continue
		}
		switch {
		case c == byteLF || c == byteCR:
			if s.length > len(s.prompt) && s.enterSeen {
				out = append(out, Command{
					Text:      decodeLossy(s.buf[len(s.prompt):s.length]),
					Truncated: s.truncated,
				})
			}
			s.Reset()
			s.enterSeen = false
		case c == byteBackspace:
			if s.cursor > 0 {
				s.cursor--
			}
		case c < 32:
		default:
			s.put(c)
			if s.length == len(s.prompt) && !bytes.Equal(s.buf[:len(s.prompt)], s.prompt) {
				s.armed = false
				s.Reset()
			}
		}
	}
	return out
}

func (s *Scanner) put(c byte) {
	if s.cursor >= s.maxLen {
		s.truncated = true
		return
	}
	if s.cursor < len(s.buf) {
		s.buf[s.cursor] = c
	} else {
		s.buf = append(s.buf, c)
	}
	s.cursor++
	if s.cursor > s.length {
		s.length = s.cursor
	}
}

func decodeLossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
