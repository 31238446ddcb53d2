// Package telopt encodes the telnet sub-negotiations the VPP CLI expects from
// its clients and strips telnet commands from inbound output.
//
// The VPP CLI speaks just enough telnet to learn the client's terminal type
// (TTYPE, RFC 1091) and window size (NAWS, RFC 1073). Both are pushed
// unsolicited on connect and again after every resize; replies are never read.
package telopt

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Telnet protocol bytes.
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	SE   byte = 240

	OptTTYPE byte = 24
	OptNAWS  byte = 31

	// IS is the TTYPE sub-negotiation qualifier for "my terminal type is".
	IS byte = 0
)

// DefaultTermType is announced when neither configuration nor $TERM name one.
const DefaultTermType = "xterm"

const maxDimension = 65535

// Negotiator announces terminal type and window size to the peer.
type Negotiator struct {
	TermType string
}

// NewNegotiator picks the terminal type from configured, falling back to
// $TERM and then DefaultTermType.
func NewNegotiator(configured string) Negotiator {
	return Negotiator{TermType: ResolveTermType(configured, os.Getenv)}
}

// ResolveTermType returns the first non-empty of configured, env("TERM") and
// DefaultTermType.
func ResolveTermType(configured string, env func(string) string) string {
	if t := strings.TrimSpace(configured); t != "" {
		return t
	}
	if env != nil {
		if t := strings.TrimSpace(env("TERM")); t != "" {
			return t
		}
	}
	return DefaultTermType
}

// Packet builds the combined TTYPE and NAWS announcement:
//
//	IAC SB TTYPE IS <term> IAC SE IAC SB NAWS <wH wL hH hL> IAC SE
//
// Dimensions are clamped to [0, 65535] and sent as exactly four raw bytes; the
// VPP CLI reads the NAWS block as fixed length. IAC bytes in the terminal type
// are doubled.
func (n Negotiator) Packet(width, height int) []byte {
	term := n.TermType
	if term == "" {
		term = DefaultTermType
	}
	w := clamp(width)
	h := clamp(height)

	out := make([]byte, 0, len(term)+20)
	out = append(out, IAC, SB, OptTTYPE, IS)
	out = appendEscaped(out, []byte(term)...)
	out = append(out, IAC, SE)
	out = append(out, IAC, SB, OptNAWS)
	out = append(out, byte(w>>8), byte(w), byte(h>>8), byte(h))
	out = append(out, IAC, SE)
	return out
}

// Announce writes Packet(width, height) to w in a single write.
func (n Negotiator) Announce(w io.Writer, width, height int) error {
	if _, err := w.Write(n.Packet(width, height)); err != nil {
		return fmt.Errorf("announce terminal %s %dx%d: %w", n.TermType, width, height, err)
	}
	return nil
}

func appendEscaped(out []byte, payload ...byte) []byte {
	for _, b := range payload {
		if b == IAC {
			out = append(out, IAC, IAC)
			continue
		}
		out = append(out, b)
	}
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxDimension {
		return maxDimension
	}
	return v
}
