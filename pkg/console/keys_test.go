package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func keyStrings(keys []tea.KeyMsg) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKeyDecoder_Table(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"letters", "ab", []string{"a", "b"}},
		{"space", " ", []string{" "}},
		{"cr", "\r", []string{"enter"}},
		{"crlf is one enter", "\r\n", []string{"enter"}},
		{"lone lf", "\n", []string{"enter"}},
		{"two crs", "\r\r", []string{"enter", "enter"}},
		{"del and bs", "\x7f\x08", []string{"backspace", "backspace"}},
		{"tab", "\t", []string{"tab"}},
		{"ctrl keys", "\x03\x0c", []string{"ctrl+c", "ctrl+l"}},
		{"lone esc", "\x1b", []string{"esc"}},
		{"double esc", "\x1b\x1b", []string{"esc", "esc"}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []string{"up", "down", "right", "left"}},
		{"ss3 arrows", "\x1bOA\x1bOD", []string{"up", "left"}},
		{"shift arrows", "\x1b[1;2A\x1b[1;2B", []string{"shift+up", "shift+down"}},
		{"home end", "\x1b[H\x1b[4~", []string{"home", "end"}},
		{"delete pgup", "\x1b[3~\x1b[5~", []string{"delete", "pgup"}},
		{"shift tab", "\x1b[Z", []string{"shift+tab"}},
		{"unknown csi dropped", "\x1b[99~x", []string{"x"}},
		{"alt rune", "\x1bx", []string{"alt+x"}},
		{"cyrillic", "яv", []string{"я", "v"}},
		{"invalid byte skipped", "\xffa", []string{"a"}},
	}
	for _, tc := range cases {
		var d KeyDecoder
		got := keyStrings(d.Decode([]byte(tc.in)))
		if !equalStrings(got, tc.want) {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestKeyDecoder_CarriesAcrossChunks(t *testing.T) {
	cases := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{"csi split", []string{"\x1b[", "1;2", "A"}, []string{"shift+up"}},
		{"utf8 split", []string{"\xd1", "\x8f"}, []string{"я"}},
		{"crlf split", []string{"a\r", "\nb"}, []string{"a", "enter", "b"}},
		{"ss3 split", []string{"\x1bO", "B"}, []string{"down"}},
	}
	for _, tc := range cases {
		var d KeyDecoder
		var got []string
		for _, c := range tc.chunks {
			got = append(got, keyStrings(d.Decode([]byte(c)))...)
		}
		if !equalStrings(got, tc.want) {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestKeyDecoder_DropsRunawaySequence(t *testing.T) {
	var d KeyDecoder
	long := append([]byte("\x1b["), bytes.Repeat([]byte("1"), maxPending+8)...)
	if got := d.Decode(long); len(got) != 0 {
		t.Fatalf("expected no keys, got %v", keyStrings(got))
	}
	if got := keyStrings(d.Decode([]byte("q"))); !equalStrings(got, []string{"q"}) {
		t.Fatalf("decoder did not recover, got %q", got)
	}
}

func TestReadKeys_DeliversUntilEOF(t *testing.T) {
	out := make(chan tea.KeyMsg, 8)
	err := ReadKeys(context.Background(), bytes.NewReader([]byte("i\x1b[Aq")), out)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	close(out)
	var got []tea.KeyMsg
	for k := range out {
		got = append(got, k)
	}
	if s := keyStrings(got); !equalStrings(s, []string{"i", "up", "q"}) {
		t.Fatalf("unexpected keys %q", s)
	}
}

func TestReadKeys_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan tea.KeyMsg)
	done := make(chan error, 1)
	go func() { done <- ReadKeys(ctx, bytes.NewReader([]byte("abc")), out) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("ReadKeys did not stop")
	}
}
