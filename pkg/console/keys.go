package console

import (
	"context"
	"io"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	keyESC = 0x1b
	keyDEL = 0x7f

	// maxPending caps an unterminated escape sequence carried between reads.
	maxPending = 64
)

// KeyDecoder turns raw terminal input into key messages. It works on whole
// read chunks: a lone ESC at the end of a chunk is the Escape key, while an
// incomplete CSI/SS3 sequence or UTF-8 rune is carried into the next chunk.
type KeyDecoder struct {
	pending []byte
	lastCR  bool
}

// Decode returns the keys contained in chunk.
func (d *KeyDecoder) Decode(chunk []byte) []tea.KeyMsg {
	buf := chunk
	if len(d.pending) > 0 {
		buf = append(d.pending, chunk...)
		d.pending = nil
	}

	var out []tea.KeyMsg
	emit := func(k tea.KeyMsg) { out = append(out, k) }

	for i := 0; i < len(buf); {
		b := buf[i]
		wasCR := d.lastCR
		d.lastCR = false

		switch {
		case b == keyESC:
			k, n, ok := decodeEscape(buf[i:])
			if !ok {
				d.carry(buf[i:])
				return out
			}
			if k != nil {
				emit(*k)
			}
			i += n
			continue
		case b == '\r':
			d.lastCR = true
			emit(tea.KeyMsg{Type: tea.KeyEnter})
		case b == '\n':
			if !wasCR {
				emit(tea.KeyMsg{Type: tea.KeyEnter})
			}
		case b == keyDEL || b == 0x08:
			emit(tea.KeyMsg{Type: tea.KeyBackspace})
		case b == '\t':
			emit(tea.KeyMsg{Type: tea.KeyTab})
		case b < 0x20:
			emit(tea.KeyMsg{Type: tea.KeyType(b)})
		case b == ' ':
			emit(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		default:
			if !utf8.FullRune(buf[i:]) {
				d.carry(buf[i:])
				return out
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError || size > 1 {
				emit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
			}
			i += size
			continue
		}
		i++
	}
	return out
}

func (d *KeyDecoder) carry(rest []byte) {
	if len(rest) > maxPending {
		return
	}
	d.pending = append([]byte(nil), rest...)
}

// decodeEscape decodes the sequence at the start of p, which begins with ESC.
// It returns the key (nil for unknown sequences, which are dropped), the bytes
// consumed, and ok=false when the sequence is incomplete.
func decodeEscape(p []byte) (*tea.KeyMsg, int, bool) {
	if len(p) == 1 {
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1, true
	}
	switch p[1] {
	case '[':
		for j := 2; j < len(p); j++ {
			c := p[j]
			if c >= 0x40 && c <= 0x7e {
				return csiKey(string(p[2:j]), c), j + 1, true
			}
			if c < 0x20 || c > 0x3f {
				// Not a CSI parameter or intermediate byte: malformed, drop the introducer.
				return nil, 2, true
			}
		}
		return nil, 0, false
	case 'O':
		if len(p) < 3 {
			return nil, 0, false
		}
		return ss3Key(p[2]), 3, true
	case keyESC:
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1, true
	}

	next := p[1]
	switch {
	case next == keyDEL:
		return &tea.KeyMsg{Type: tea.KeyBackspace, Alt: true}, 2, true
	case next < 0x20:
		return &tea.KeyMsg{Type: tea.KeyType(next), Alt: true}, 2, true
	}
	if !utf8.FullRune(p[1:]) {
		return nil, 0, false
	}
	r, size := utf8.DecodeRune(p[1:])
	return &tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}, 1 + size, true
}

func csiKey(params string, final byte) *tea.KeyMsg {
	var t tea.KeyType
	switch params + string(final) {
	case "A":
		t = tea.KeyUp
	case "B":
		t = tea.KeyDown
	case "C":
		t = tea.KeyRight
	case "D":
		t = tea.KeyLeft
	case "H", "1~", "7~":
		t = tea.KeyHome
	case "F", "4~", "8~":
		t = tea.KeyEnd
	case "Z":
		t = tea.KeyShiftTab
	case "1;2A":
		t = tea.KeyShiftUp
	case "1;2B":
		t = tea.KeyShiftDown
	case "1;2C":
		t = tea.KeyShiftRight
	case "1;2D":
		t = tea.KeyShiftLeft
	case "1;5A":
		t = tea.KeyCtrlUp
	case "1;5B":
		t = tea.KeyCtrlDown
	case "2~":
		t = tea.KeyInsert
	case "3~":
		t = tea.KeyDelete
	case "5~":
		t = tea.KeyPgUp
	case "6~":
		t = tea.KeyPgDown
	default:
		return nil
	}
	return &tea.KeyMsg{Type: t}
}

func ss3Key(final byte) *tea.KeyMsg {
	var t tea.KeyType
	switch final {
	case 'A':
		t = tea.KeyUp
	case 'B':
		t = tea.KeyDown
	case 'C':
		t = tea.KeyRight
	case 'D':
		t = tea.KeyLeft
	case 'H':
		t = tea.KeyHome
	case 'F':
		t = tea.KeyEnd
	default:
		return nil
	}
	return &tea.KeyMsg{Type: t}
}

// ReadKeys reads r until it fails and sends decoded keys to out. It returns
// the read error (io.EOF when input ends) or ctx.Err() once ctx is done.
func ReadKeys(ctx context.Context, r io.Reader, out chan<- tea.KeyMsg) error {
	var dec KeyDecoder
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, k := range dec.Decode(buf[:n]) {
				select {
				case out <- k:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
