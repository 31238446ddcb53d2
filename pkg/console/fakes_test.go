package console

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"vppsh/pkg/i18n"
	"vppsh/pkg/telopt"
)

// fakeConn is an in-memory CLI stream. Reads are fed with push; close ends
// reads with io.EOF.
type fakeConn struct {
	mu      sync.Mutex
	written bytes.Buffer
	writes  [][]byte
	failW   error

	reads     chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{reads: make(chan []byte, 16), closed: make(chan struct{})}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	select {
	case b := <-c.reads:
		return copy(p, b), nil
	case <-c.closed:
		return 0, io.EOF
	}
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failW != nil {
		return 0, c.failW
	}
	c.written.Write(p)
	c.writes = append(c.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) push(s string) { c.reads <- []byte(s) }

func (c *fakeConn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.written.Bytes()...)
}

func (c *fakeConn) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.writes...)
}

type fakeDisplay struct {
	mu     sync.Mutex
	frames []Frame
	clears int
	tags   []language.Tag
}

func (d *fakeDisplay) Draw(f Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, f)
	return nil
}

func (d *fakeDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clears++
	return nil
}

func (d *fakeDisplay) SetTranslator(tr *i18n.Translator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tags = append(d.tags, tr.Tag())
}

func (d *fakeDisplay) Frames() []Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Frame(nil), d.frames...)
}

func (d *fakeDisplay) Clears() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clears
}

func (d *fakeDisplay) Tags() []language.Tag {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]language.Tag(nil), d.tags...)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// typed returns the keys for s, mapping spaces to the space key.
func typed(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			out = append(out, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		out = append(out, keyRune(r))
	}
	return out
}

// fakeVPP is a minimal VPP CLI: it prints a prompt, echoes typed bytes and
// answers each line from replies.
type fakeVPP struct {
	ln      net.Listener
	path    string
	replies map[string]string

	mu       sync.Mutex
	received bytes.Buffer
	accepted int
	conns    []net.Conn
}

func startFakeVPP(t *testing.T, replies map[string]string) *fakeVPP {
	t.Helper()
	dir, err := os.MkdirTemp("", "vppsh-cli-")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	path := filepath.Join(dir, "cli.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &fakeVPP{ln: ln, path: path, replies: replies}
	t.Cleanup(srv.Close)
	go srv.acceptLoop()
	return srv
}

func (s *fakeVPP) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.accepted++
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.serve(conn)
	}
}

func (s *fakeVPP) serve(conn net.Conn) {
	defer conn.Close()
	_, _ = io.WriteString(conn, "    _______    _        _   _____  ___ \r\nvpp# ")
	var strip telopt.Stripper
	var line []byte
	buf := make([]byte, 512)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		data := strip.Strip(buf[:n])
		s.mu.Lock()
		s.received.Write(data)
		s.mu.Unlock()
		for _, b := range data {
			switch {
			case b == '\n':
				cmd := strings.TrimSpace(string(line))
				line = line[:0]
				_, _ = io.WriteString(conn, "\r\n"+s.replies[cmd]+"vpp# ")
			case b >= 0x20:
				line = append(line, b)
				_, _ = conn.Write([]byte{b})
			}
		}
	}
}

func (s *fakeVPP) Close() {
	_ = s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
}

// DropConnections closes every accepted connection, keeping the listener.
func (s *fakeVPP) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

func (s *fakeVPP) Received() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received.String()
}

func (s *fakeVPP) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}
