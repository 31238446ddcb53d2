// Package display paints the vppsh menu: the home screen, the history and
// configuration panels, a one-frame info box and the key help line.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"vppsh/pkg/console"
	"vppsh/pkg/history"
	"vppsh/pkg/i18n"
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"

	// minWidth keeps the panels drawable on tiny terminals.
	minWidth  = 20
	minHeight = 8
)

const banner = `                            .__
 ___  ________ ______  _____|  |__
 \  \/ /\____ \\____ \/  ___/  |  \
  \   / |  |_> >  |_> >___ \|   Y  \
   \_/  |   __/|   __/____  >___|  /
        |__|   |__|       \/     \/`

// Screen renders console frames to a raw-mode terminal. Every Draw repaints
// the whole screen.
type Screen struct {
	mu    sync.Mutex
	out   io.Writer
	theme Theme
	keys  console.KeyMap
	tr    *i18n.Translator

	r *lipgloss.Renderer
	s styles
}

type styles struct {
	header   lipgloss.Style
	banner   lipgloss.Style
	title    lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
	info     lipgloss.Style
	help     help.Styles
}

// NewScreen returns a Screen writing to out.
func NewScreen(out io.Writer, theme Theme, keys console.KeyMap) *Screen {
	r := lipgloss.NewRenderer(out)
	if theme.Enabled {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Screen{out: out, theme: theme, keys: keys, r: r, s: newStyles(r, theme)}
}

func newStyles(r *lipgloss.Renderer, t Theme) styles {
	panel := r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return styles{
		header:   r.NewStyle().Bold(true).Foreground(t.Header),
		banner:   r.NewStyle().Foreground(t.Accent),
		title:    r.NewStyle().Bold(true).Foreground(t.Header),
		selected: r.NewStyle().Bold(true).Foreground(t.Selected),
		dim:      r.NewStyle().Foreground(t.Dim),
		active:   panel.BorderForeground(t.Accent),
		inactive: panel.BorderForeground(t.Separator).Faint(true),
		info:     r.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Warn).Padding(0, 1),
		help: help.Styles{
			Ellipsis:       r.NewStyle().Foreground(t.Dim),
			ShortKey:       r.NewStyle().Bold(true).Foreground(t.Help),
			ShortDesc:      r.NewStyle().Foreground(t.Dim),
			ShortSeparator: r.NewStyle().Foreground(t.Separator),
			FullKey:        r.NewStyle().Bold(true).Foreground(t.Help),
			FullDesc:       r.NewStyle(),
			FullSeparator:  r.NewStyle().Foreground(t.Separator),
		},
	}
}

// SetTranslator switches the language of every label.
func (s *Screen) SetTranslator(tr *i18n.Translator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tr = tr
}

// Clear blanks the screen and shows the cursor, leaving the terminal to the
// relayed CLI.
func (s *Screen) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.out, clearScreen+showCursor)
	return err
}

// Draw repaints f.
func (s *Screen) Draw(f console.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.out, hideCursor+clearScreen+s.render(f))
	return err
}

// Render returns the frame as it would be painted, without control prefixes.
func (s *Screen) Render(f console.Frame) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(f)
}

func (s *Screen) render(f console.Frame) string {
	w, h := max(f.Width, minWidth), max(f.Height, minHeight)

	var footer []string
	if f.Info != "" {
		footer = append(footer, s.infoBox(f.Info, w))
	}
	footer = append(footer, s.helpLine(w, f.Home))
	foot := strings.Join(footer, "\n")
	bodyHeight := max(h-lipgloss.Height(foot), 3)

	var body string
	if f.Home {
		body = s.home(w)
	} else {
		body = s.lists(f, w, bodyHeight)
	}

	lines := strings.Split(body, "\n")
	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}
	lines = append(lines, strings.Split(foot, "\n")...)
	return strings.Join(lines, "\r\n")
}

func (s *Screen) home(w int) string {
	lines := []string{s.s.banner.Render(banner), ""}
	lines = append(lines, s.tr.Text("Wrapper around vppctl"), "")
	lines = append(lines, s.s.header.Render(s.tr.Text("Commands")))
	hm := s.helpModel(w)
	lines = append(lines, hm.FullHelpView(s.translated().FullHelp()))
	return strings.Join(lines, "\n")
}

func (s *Screen) lists(f console.Frame, w, h int) string {
	leftW := w / 2
	rightW := w - leftW
	left := s.panel(s.tr.Text("History"), f.History, f.HistoryCursor, f.Active == history.WidgetHistory, leftW, h)
	right := s.panel(s.tr.Text("Configuration"), f.Config, f.ConfigCursor, f.Active == history.WidgetConfig, rightW, h)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// panel renders one list in a bordered box of outer size w x h. The visible
// window slides so the cursor row is always shown.
func (s *Screen) panel(title string, items []string, cursor int, active bool, w, h int) string {
	style := s.s.inactive
	if active {
		style = s.s.active
	}
	inner := max(w-style.GetHorizontalFrameSize(), 1)
	rows := max(h-style.GetVerticalFrameSize()-1, 1)

	lines := []string{s.s.title.Render(ansi.Truncate(title, inner, "…"))}
	if len(items) == 0 {
		lines = append(lines, s.s.dim.Render(s.tr.Text("empty")))
	}
	offset := max(0, cursor-rows+1)
	for i := offset; i < len(items) && i < offset+rows; i++ {
		prefix := "  "
		if i == cursor {
			prefix = "> "
		}
		line := prefix + ansi.Truncate(items[i], max(inner-2, 1), "…")
		if i == cursor && active {
			line = s.s.selected.Render(line)
		}
		lines = append(lines, line)
	}
	return style.
		Width(w - style.GetHorizontalBorderSize()).
		Height(h - style.GetVerticalBorderSize()).
		MaxHeight(h).
		Render(strings.Join(lines, "\n"))
}

func (s *Screen) infoBox(msg string, w int) string {
	inner := max(w-s.s.info.GetHorizontalFrameSize(), 1)
	text := ansi.Truncate(fmt.Sprintf("%s: %s", s.tr.Text("Info"), msg), inner, "…")
	return s.s.info.Width(w - s.s.info.GetHorizontalBorderSize()).Render(text)
}

func (s *Screen) helpLine(w int, home bool) string {
	if home {
		return ""
	}
	hm := s.helpModel(w)
	return hm.ShortHelpView(s.translated().ShortHelp())
}

func (s *Screen) helpModel(w int) help.Model {
	hm := help.New()
	hm.Width = w
	hm.Styles = s.s.help
	return hm
}

// translated returns the key map with help descriptions in the current
// language.
func (s *Screen) translated() translatedKeys {
	return translatedKeys{km: s.keys, tr: s.tr}
}

type translatedKeys struct {
	km console.KeyMap
	tr *i18n.Translator
}

func (t translatedKeys) ShortHelp() []key.Binding {
	return t.each(t.km.ShortHelp())
}

func (t translatedKeys) FullHelp() [][]key.Binding {
	cols := t.km.FullHelp()
	out := make([][]key.Binding, 0, len(cols))
	for _, c := range cols {
		out = append(out, t.each(c))
	}
	return out
}

func (t translatedKeys) each(in []key.Binding) []key.Binding {
	out := make([]key.Binding, 0, len(in))
	for _, b := range in {
		h := b.Help()
		tb := key.NewBinding(key.WithKeys(b.Keys()...), key.WithHelp(h.Key, t.tr.Text(h.Desc)))
		tb.SetEnabled(b.Enabled())
		out = append(out, tb)
	}
	return out
}

// Restore clears the screen and shows the cursor again.
func Restore(w io.Writer) error {
	_, err := io.WriteString(w, clearScreen+showCursor)
	return err
}
