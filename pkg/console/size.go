package console

import (
	"os"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Size is a terminal size in character cells.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when the terminal cannot be queried.
var DefaultSize = Size{Width: 80, Height: 24}

// TerminalSize returns the size of the terminal behind f. It tries the pty
// winsize ioctl first, then x/term, then falls back to DefaultSize.
func TerminalSize(f *os.File) Size {
	if f == nil {
		return DefaultSize
	}
	if rows, cols, err := pty.Getsize(f); err == nil && rows > 0 && cols > 0 {
		return Size{Width: cols, Height: rows}
	}
	if cols, rows, err := term.GetSize(int(f.Fd())); err == nil && rows > 0 && cols > 0 {
		return Size{Width: cols, Height: rows}
	}
	return DefaultSize
}
