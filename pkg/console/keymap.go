package console

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MenuCommand is the closed set of actions available in Menu mode.
type MenuCommand int

const (
	MenuNone MenuCommand = iota
	MenuEnterRelay
	MenuToggle
	MenuUp
	MenuDown
	MenuMoveUp
	MenuMoveDown
	MenuCopy
	MenuDelete
	MenuUndelete
	MenuLocaleEnglish
	MenuLocaleRussian
	MenuHome
	MenuRedraw
	MenuSave
	MenuQuit
)

var menuCommandNames = [...]string{
	MenuNone:          "none",
	MenuEnterRelay:    "enter-relay",
	MenuToggle:        "toggle",
	MenuUp:            "up",
	MenuDown:          "down",
	MenuMoveUp:        "move-up",
	MenuMoveDown:      "move-down",
	MenuCopy:          "copy",
	MenuDelete:        "delete",
	MenuUndelete:      "undelete",
	MenuLocaleEnglish: "locale-en",
	MenuLocaleRussian: "locale-ru",
	MenuHome:          "home",
	MenuRedraw:        "redraw",
	MenuSave:          "save",
	MenuQuit:          "quit",
}

func (c MenuCommand) String() string {
	if c < 0 || int(c) >= len(menuCommandNames) {
		return "unknown"
	}
	return menuCommandNames[c]
}

// KeyMap binds menu keys to commands. Help text is English and is translated
// at render time.
type KeyMap struct {
	EnterRelay key.Binding
	Toggle     key.Binding
	Up         key.Binding
	Down       key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Copy       key.Binding
	Delete     key.Binding
	Undelete   key.Binding
	English    key.Binding
	Russian    key.Binding
	Home       key.Binding
	Redraw     key.Binding
	Save       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the stock menu bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		EnterRelay: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Enter vppctl mode")),
		Toggle:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("TAB", "Toggle")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Scroll")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Scroll")),
		MoveUp:     key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K/J", "Reorder")),
		MoveDown:   key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "Reorder")),
		Copy:       key.NewBinding(key.WithKeys("right", "c"), key.WithHelp("→", "Copy")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "Delete")),
		Undelete:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "Undelete")),
		English:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Set english locale")),
		Russian:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Set russian locale")),
		Home:       key.NewBinding(key.WithKeys("h", "x"), key.WithHelp("h", "Home")),
		Redraw:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "Redraw")),
		Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Save")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
	}
}

// ShortHelp is the one-line help shown under the lists.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.EnterRelay, k.Copy, k.Toggle, k.Up, k.MoveUp, k.Delete, k.Undelete, k.Save, k.Quit}
}

// FullHelp is the key list shown on the home screen.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.EnterRelay, k.Home, k.Toggle, k.Up, k.MoveUp, k.Copy},
		{k.Delete, k.Undelete, k.Save, k.English, k.Russian, k.Quit},
	}
}

// Command maps msg onto a menu command. Unbound keys map to MenuNone.
func (k KeyMap) Command(msg tea.KeyMsg) MenuCommand {
	switch {
	case key.Matches(msg, k.EnterRelay):
		return MenuEnterRelay
	case key.Matches(msg, k.Toggle):
		return MenuToggle
	case key.Matches(msg, k.Up):
		return MenuUp
	case key.Matches(msg, k.Down):
		return MenuDown
	case key.Matches(msg, k.MoveUp):
		return MenuMoveUp
	case key.Matches(msg, k.MoveDown):
		return MenuMoveDown
	case key.Matches(msg, k.Copy):
		return MenuCopy
	case key.Matches(msg, k.Delete):
		return MenuDelete
	case key.Matches(msg, k.Undelete):
		return MenuUndelete
	case key.Matches(msg, k.English):
		return MenuLocaleEnglish
	case key.Matches(msg, k.Russian):
		return MenuLocaleRussian
	case key.Matches(msg, k.Home):
		return MenuHome
	case key.Matches(msg, k.Redraw):
		return MenuRedraw
	case key.Matches(msg, k.Save):
		return MenuSave
	case key.Matches(msg, k.Quit):
		return MenuQuit
	default:
		return MenuNone
	}
}

// MapMenuKey maps msg with the default key map.
func MapMenuKey(msg tea.KeyMsg) MenuCommand {
	return DefaultKeyMap().Command(msg)
}

// RelayKind tags a RelayKey.
type RelayKind int

const (
	RelayIgnore RelayKind = iota
	RelaySend
	RelayEnter
	RelayExit
)

// RelayKey is what a key press means while relaying to the CLI.
type RelayKey struct {
	Kind  RelayKind
	Bytes []byte
}

// Control bytes the VPP CLI line editor understands.
const (
	relayUp        = 0x10
	relayDown      = 0x0E
	relayLeft      = 0x02
	relayRight     = 0x06
	relayBackspace = 0x08
	relayTab       = 0x09
	relayNewline   = 0x0A
)

// MapRelayKey translates msg into the bytes to send to the CLI.
func MapRelayKey(msg tea.KeyMsg) RelayKey {
	send := func(b ...byte) RelayKey { return RelayKey{Kind: RelaySend, Bytes: b} }
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return RelayKey{Kind: RelayIgnore}
		}
		return RelayKey{Kind: RelaySend, Bytes: []byte(string(msg.Runes))}
	case tea.KeySpace:
		return send(' ')
	case tea.KeyUp:
		return send(relayUp)
	case tea.KeyDown:
		return send(relayDown)
	case tea.KeyLeft:
		return send(relayLeft)
	case tea.KeyRight:
		return send(relayRight)
	case tea.KeyBackspace:
		return send(relayBackspace)
	case tea.KeyTab:
		return send(relayTab)
	case tea.KeyEnter:
		return RelayKey{Kind: RelayEnter, Bytes: []byte{relayNewline}}
	case tea.KeyEsc:
		return RelayKey{Kind: RelayExit}
	default:
		return RelayKey{Kind: RelayIgnore}
	}
}
