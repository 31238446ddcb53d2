package console

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMapMenuKey(t *testing.T) {
	cases := []struct {
		key  tea.KeyMsg
		want MenuCommand
	}{
		{keyRune('i'), MenuEnterRelay},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuToggle},
		{tea.KeyMsg{Type: tea.KeyUp}, MenuUp},
		{keyRune('k'), MenuUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuDown},
		{keyRune('j'), MenuDown},
		{tea.KeyMsg{Type: tea.KeyShiftUp}, MenuMoveUp},
		{keyRune('K'), MenuMoveUp},
		{tea.KeyMsg{Type: tea.KeyShiftDown}, MenuMoveDown},
		{keyRune('J'), MenuMoveDown},
		{tea.KeyMsg{Type: tea.KeyRight}, MenuCopy},
		{keyRune('c'), MenuCopy},
		{keyRune('d'), MenuDelete},
		{tea.KeyMsg{Type: tea.KeyDelete}, MenuDelete},
		{keyRune('u'), MenuUndelete},
		{keyRune('e'), MenuLocaleEnglish},
		{keyRune('r'), MenuLocaleRussian},
		{keyRune('h'), MenuHome},
		{keyRune('x'), MenuHome},
		{tea.KeyMsg{Type: tea.KeyCtrlL}, MenuRedraw},
		{keyRune('s'), MenuSave},
		{keyRune('q'), MenuQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, MenuQuit},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuNone},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuNone},
		{keyRune('z'), MenuNone},
	}
	for _, tc := range cases {
		if got := MapMenuKey(tc.key); got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.key.String(), got, tc.want)
		}
	}
}

func TestKeyMap_DisabledBindingIsIgnored(t *testing.T) {
	km := DefaultKeyMap()
	km.Quit.SetEnabled(false)
	if got := km.Command(keyRune('q')); got != MenuNone {
		t.Fatalf("expected disabled quit to map to none, got %s", got)
	}
}

func TestMenuCommand_String(t *testing.T) {
	if MenuMoveDown.String() != "move-down" || MenuCommand(99).String() != "unknown" {
		t.Fatalf("unexpected names %q %q", MenuMoveDown.String(), MenuCommand(99).String())
	}
}

func TestMapRelayKey(t *testing.T) {
	cases := []struct {
		key  tea.KeyMsg
		kind RelayKind
		want []byte
	}{
		{keyRune('a'), RelaySend, []byte("a")},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("пр")}, RelaySend, []byte("пр")},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}, Alt: true}, RelayIgnore, nil},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, RelaySend, []byte{' '}},
		{tea.KeyMsg{Type: tea.KeyUp}, RelaySend, []byte{0x10}},
		{tea.KeyMsg{Type: tea.KeyDown}, RelaySend, []byte{0x0E}},
		{tea.KeyMsg{Type: tea.KeyLeft}, RelaySend, []byte{0x02}},
		{tea.KeyMsg{Type: tea.KeyRight}, RelaySend, []byte{0x06}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, RelaySend, []byte{0x08}},
		{tea.KeyMsg{Type: tea.KeyTab}, RelaySend, []byte{0x09}},
		{tea.KeyMsg{Type: tea.KeyEnter}, RelayEnter, []byte{0x0A}},
		{tea.KeyMsg{Type: tea.KeyEsc}, RelayExit, nil},
		{tea.KeyMsg{Type: tea.KeyHome}, RelayIgnore, nil},
		{tea.KeyMsg{Type: tea.KeyCtrlL}, RelayIgnore, nil},
	}
	for _, tc := range cases {
		got := MapRelayKey(tc.key)
		if got.Kind != tc.kind || !bytes.Equal(got.Bytes, tc.want) {
			t.Fatalf("%s: got %+v want kind=%d bytes=%v", tc.key.String(), got, tc.kind, tc.want)
		}
	}
}

func TestKeyMap_HelpCoversBindings(t *testing.T) {
	km := DefaultKeyMap()
	if n := len(km.ShortHelp()); n == 0 {
		t.Fatalf("expected short help bindings")
	}
	seen := map[string]bool{}
	for _, col := range km.FullHelp() {
		for _, b := range col {
			seen[b.Help().Desc] = true
		}
	}
	for _, desc := range []string{"Enter vppctl mode", "Copy", "Save", "Quit", "Set russian locale"} {
		if !seen[desc] {
			t.Fatalf("full help is missing %q", desc)
		}
	}
}
