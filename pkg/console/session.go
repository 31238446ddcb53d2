// Package console runs an interactive vppsh session: it multiplexes the CLI
// socket, the user's keyboard and terminal resizes into a single loop that
// either relays to the VPP CLI or drives the history menu.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"pkt.systems/pslog"

	"vppsh/pkg/history"
	"vppsh/pkg/i18n"
	"vppsh/pkg/state"
	"vppsh/pkg/telopt"
	"vppsh/pkg/transport"
)

// readFrame is the size of a single socket read.
const readFrame = 1024

// Mode selects where keys go.
type Mode int

const (
	ModeMenu Mode = iota
	ModeRelay
)

func (m Mode) String() string {
	if m == ModeRelay {
		return "relay"
	}
	return "menu"
}

// Frame is everything the display needs to paint the menu once.
type Frame struct {
	History       []string
	Config        []string
	HistoryCursor int
	ConfigCursor  int
	Active        history.Widget

	// Home selects the banner and key list instead of the two lists.
	Home bool

	Width  int
	Height int

	// Info is a one-shot message shown in this frame only.
	Info string
}

// Display paints menu frames on the user's terminal.
type Display interface {
	Draw(Frame) error
	Clear() error
	SetTranslator(*i18n.Translator)
}

// Options configures a Session.
type Options struct {
	// Connect opens a new stream to the CLI. It is used for the initial
	// connection and for every reconnect attempt.
	Connect func(ctx context.Context) (io.ReadWriteCloser, error)

	// Reconnect bounds reconnection after the stream closes.
	Reconnect transport.Policy

	Negotiator telopt.Negotiator
	Scanner    *history.Scanner
	Selection  *history.Selection
	Display    Display
	KeyMap     *KeyMap

	// Terminal receives relayed CLI output unmodified.
	Terminal io.Writer

	Catalog *i18n.Catalog
	Locale  language.Tag
	Size    Size

	// Socket labels snapshots; SnapshotDir is where Save writes them.
	Socket      string
	SnapshotDir string

	// Now defaults to time.Now.
	Now func() time.Time
}

type socketEvent struct {
	gen  uint64
	data []byte
	err  error
}

// Session is the single owner of connection, scanner and selection state.
// All fields are touched only from the goroutine running Run.
type Session struct {
	opts   Options
	keys   KeyMap
	logger pslog.Logger

	conn io.ReadWriteCloser
	gen  uint64

	size Size
	mode Mode
	home bool
	info string
	tr   *i18n.Translator

	events chan socketEvent
	done   chan struct{}
}

// New returns a session ready to Run. Scanner, Selection and Catalog default
// to fresh instances when nil.
func New(opts Options) *Session {
	if opts.Scanner == nil {
		opts.Scanner = history.NewScanner(nil, 0)
	}
	if opts.Selection == nil {
		opts.Selection = history.NewSelection()
	}
	if opts.Catalog == nil {
		opts.Catalog = i18n.NewCatalog()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		opts.Size = DefaultSize
	}
	km := DefaultKeyMap()
	if opts.KeyMap != nil {
		km = *opts.KeyMap
	}
	return &Session{
		opts:   opts,
		keys:   km,
		size:   opts.Size,
		mode:   ModeMenu,
		home:   true,
		tr:     opts.Catalog.Translator(opts.Locale),
		events: make(chan socketEvent),
		done:   make(chan struct{}),
	}
}

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Run connects and serves events until the user quits, keys ends, ctx is
// cancelled or a fatal error occurs. Quit and end of keyboard input return nil.
func (s *Session) Run(ctx context.Context, keys <-chan tea.KeyMsg, resizes <-chan Size) error {
	s.logger = pslog.Ctx(ctx)
	defer close(s.done)
	defer s.closeConn()

	if s.opts.Connect == nil {
		return errors.New("console: no connect function")
	}
	if s.opts.Display != nil {
		s.opts.Display.SetTranslator(s.tr)
	}
	conn, err := s.opts.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := s.attach(conn); err != nil {
		return err
	}
	if err := s.draw(); err != nil {
		return err
	}

	for {
		var quit bool
		var err error
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			err = s.handleSocket(ctx, ev)
		case k, ok := <-keys:
			if !ok {
				s.logger.Info("keyboard input closed")
				return nil
			}
			quit, err = s.handleKey(k)
		case sz, ok := <-resizes:
			if !ok {
				resizes = nil
				continue
			}
			err = s.handleResize(sz)
		}
		if err != nil {
			return err
		}
		if quit {
			s.logger.Info("session quit")
			return nil
		}
	}
}

// attach makes conn current, starts its reader and announces the terminal.
func (s *Session) attach(conn io.ReadWriteCloser) error {
	s.conn = conn
	s.gen++
	go s.readLoop(conn, s.gen)
	return s.negotiate()
}

func (s *Session) readLoop(r io.Reader, gen uint64) {
	for {
		buf := make([]byte, readFrame)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case s.events <- socketEvent{gen: gen, data: buf[:n]}:
			case <-s.done:
				return
			}
		}
		if err != nil {
			select {
			case s.events <- socketEvent{gen: gen, err: err}:
			case <-s.done:
			}
			return
		}
	}
}

func (s *Session) closeConn() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

func (s *Session) negotiate() error {
	if err := s.opts.Negotiator.Announce(s.conn, s.size.Width, s.size.Height); err != nil {
		return fmt.Errorf("negotiate: %w", err)
	}
	s.logger.Debug("terminal announced", "term", s.opts.Negotiator.TermType, "width", s.size.Width, "height", s.size.Height)
	return nil
}

func (s *Session) handleSocket(ctx context.Context, ev socketEvent) error {
	if ev.gen != s.gen {
		s.logger.Debug("stale socket event dropped", "gen", ev.gen, "current", s.gen)
		return nil
	}
	if ev.err != nil {
		return s.recover(ctx, ev.err)
	}

	if s.mode != ModeRelay {
		s.logger.Debug("menu mode discarded socket output", "bytes", len(ev.data))
		return nil
	}
	if s.opts.Terminal != nil {
		if _, err := s.opts.Terminal.Write(ev.data); err != nil {
			return fmt.Errorf("write terminal: %w", err)
		}
	}
	for _, c := range s.opts.Selection.Capture(s.opts.Scanner, ev.data) {
		s.logger.Debug("history entry captured", "command", c.Text)
		if c.Truncated {
			s.logger.Warn("history entry truncated", "command", c.Text, "bytes", len(c.Text))
			s.info = s.tr.T("entry truncated to %s bytes", strconv.Itoa(len(c.Text)))
		}
	}
	return nil
}

// recover handles loss of the current connection.
func (s *Session) recover(ctx context.Context, cause error) error {
	s.logger.Warn("connection lost", "socket", s.opts.Socket, "err", cause)
	s.closeConn()
	s.setMode(ModeMenu)
	s.info = s.tr.Text("connection lost, reconnecting")
	if err := s.draw(); err != nil {
		return err
	}

	conn, err := transport.Retry(ctx, s.opts.Reconnect, s.opts.Socket, s.opts.Connect)
	if err != nil {
		return fmt.Errorf("connection lost (%v): %w", cause, err)
	}
	if err := s.attach(conn); err != nil {
		return err
	}
	s.logger.Info("reconnected", "socket", s.opts.Socket)
	s.info = s.tr.Text("reconnected")
	return s.draw()
}

func (s *Session) handleResize(sz Size) error {
	if sz.Width <= 0 || sz.Height <= 0 {
		return nil
	}
	s.size = sz
	if s.conn != nil {
		if err := s.negotiate(); err != nil {
			return err
		}
	}
	if s.mode == ModeMenu {
		return s.draw()
	}
	return nil
}

func (s *Session) handleKey(k tea.KeyMsg) (bool, error) {
	if s.mode == ModeRelay && k.Alt {
		// ESC and the following key arrived in one read: leave relay on the
		// ESC and treat the rest as a menu key.
		if err := s.relayKey(tea.KeyMsg{Type: tea.KeyEsc}); err != nil {
			return false, err
		}
		k.Alt = false
		return s.menuKey(k)
	}
	if s.mode == ModeRelay {
		return false, s.relayKey(k)
	}
	return s.menuKey(k)
}

func (s *Session) relayKey(k tea.KeyMsg) error {
	rk := MapRelayKey(k)
	switch rk.Kind {
	case RelaySend:
		return s.send(rk.Bytes)
	case RelayEnter:
		if err := s.send(rk.Bytes); err != nil {
			return err
		}
		s.opts.Scanner.MarkEnter()
		return nil
	case RelayExit:
		s.setMode(ModeMenu)
		return s.draw()
	default:
		s.logger.Debug("relay key ignored", "key", k.String())
		return nil
	}
}

func (s *Session) menuKey(k tea.KeyMsg) (bool, error) {
	sel := s.opts.Selection
	cmd := s.keys.Command(k)
	switch cmd {
	case MenuNone:
		s.logger.Debug("menu key ignored", "key", k.String())
		return false, nil
	case MenuQuit:
		return true, nil
	case MenuEnterRelay:
		return false, s.enterRelay()
	case MenuToggle:
		sel.Toggle()
	case MenuUp:
		sel.Move(history.Up)
	case MenuDown:
		sel.Move(history.Down)
	case MenuMoveUp:
		sel.Reorder(history.Up)
	case MenuMoveDown:
		sel.Reorder(history.Down)
	case MenuCopy:
		sel.Copy()
	case MenuDelete:
		sel.Delete()
	case MenuUndelete:
		sel.Undelete()
	case MenuLocaleEnglish:
		s.setLocale(language.English)
	case MenuLocaleRussian:
		s.setLocale(language.Russian)
	case MenuHome:
		s.home = true
		return false, s.draw()
	case MenuRedraw:
		return false, s.draw()
	case MenuSave:
		s.save()
		return false, s.draw()
	}
	if cmd != MenuLocaleEnglish && cmd != MenuLocaleRussian {
		s.home = false
	}
	return false, s.draw()
}

func (s *Session) enterRelay() error {
	if s.opts.Display != nil {
		if err := s.opts.Display.Clear(); err != nil {
			return err
		}
	}
	if s.opts.Terminal != nil {
		banner := s.tr.Text("Enter vppctl interactive mode") + "\r\n" + s.tr.Text("Press Esc to return to the menu") + "\r\n"
		if _, err := io.WriteString(s.opts.Terminal, banner); err != nil {
			return fmt.Errorf("write terminal: %w", err)
		}
	}
	s.opts.Scanner.Reset()
	s.setMode(ModeRelay)
	return s.send([]byte{relayNewline})
}

func (s *Session) setLocale(tag language.Tag) {
	s.tr = s.opts.Catalog.Translator(tag)
	if s.opts.Display != nil {
		s.opts.Display.SetTranslator(s.tr)
	}
	s.logger.Info("locale changed", "locale", s.tr.Tag().String())
}

func (s *Session) save() {
	sel := s.opts.Selection
	path, err := state.Save(s.opts.SnapshotDir, state.Snapshot{
		Socket:   s.opts.Socket,
		Commands: sel.Config(),
		History:  sel.History(),
	}, s.opts.Now())
	switch {
	case errors.Is(err, state.ErrEmpty):
		s.info = s.tr.Text("nothing to save")
	case err != nil:
		s.logger.Warn("snapshot save failed", "dir", s.opts.SnapshotDir, "err", err)
		s.info = s.tr.T("save failed: %v", err)
	default:
		n := len(sel.Config())
		s.logger.Info("snapshot saved", "path", path, "commands", n)
		s.info = s.tr.T("saved %s commands to %s", strconv.Itoa(n), path)
	}
}

func (s *Session) setMode(m Mode) {
	if s.mode == m {
		return
	}
	s.logger.Info("mode changed", "from", s.mode.String(), "to", m.String())
	s.mode = m
}

func (s *Session) send(p []byte) error {
	if s.conn == nil {
		return transport.ErrClosed
	}
	if _, err := s.conn.Write(p); err != nil {
		return fmt.Errorf("relay write: %w", err)
	}
	return nil
}

// draw paints the menu and consumes the pending info message.
func (s *Session) draw() error {
	if s.opts.Display == nil {
		s.info = ""
		return nil
	}
	sel := s.opts.Selection
	f := Frame{
		History:       sel.History(),
		Config:        sel.Config(),
		HistoryCursor: sel.Cursor(history.WidgetHistory),
		ConfigCursor:  sel.Cursor(history.WidgetConfig),
		Active:        sel.Active(),
		Home:          s.home,
		Width:         s.size.Width,
		Height:        s.size.Height,
		Info:          s.info,
	}
	s.info = ""
	if err := s.opts.Display.Draw(f); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}
