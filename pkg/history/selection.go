package history

// Widget identifies one of the two lists the menu edits.
type Widget int

const (
	WidgetHistory Widget = iota
	WidgetConfig
)

func (w Widget) String() string {
	switch w {
	case WidgetHistory:
		return "history"
	case WidgetConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Direction is a cursor or reorder direction.
type Direction int

const (
	Up Direction = iota
	Down
)

// Deleted is an entry on the deleted stack, tagged with the list it was
// removed from.
type Deleted struct {
	Text string
	From Widget
}

// Selection holds the captured history, the curated configuration, one cursor
// per list, the active list and the shared deleted stack.
//
// All operations are no-ops at boundaries and on empty lists. Cursors stay in
// [0, len-1] for non-empty lists and at 0 for empty ones.
type Selection struct {
	history []string
	config  []string

	historyCursor int
	configCursor  int
	active        Widget

	deleted []Deleted

	// UndeleteToOrigin restores popped entries into the list they were
	// deleted from instead of always into the history list.
	UndeleteToOrigin bool
}

// NewSelection returns an empty selection with the history list active.
func NewSelection() *Selection {
	return &Selection{}
}

// History returns a copy of the captured history.
func (s *Selection) History() []string { return append([]string(nil), s.history...) }

// Config returns a copy of the configuration list.
func (s *Selection) Config() []string { return append([]string(nil), s.config...) }

// Deleted returns a copy of the deleted stack, oldest first.
func (s *Selection) Deleted() []Deleted { return append([]Deleted(nil), s.deleted...) }

// Active returns the list navigation and edit commands currently target.
func (s *Selection) Active() Widget { return s.active }

// Cursor returns the cursor of list w.
func (s *Selection) Cursor(w Widget) int {
	if w == WidgetConfig {
		return s.configCursor
	}
	return s.historyCursor
}

// Toggle switches the active list.
func (s *Selection) Toggle() {
	if s.active == WidgetHistory {
		s.active = WidgetConfig
	} else {
		s.active = WidgetHistory
	}
}

// Current returns the entry under the active cursor.
func (s *Selection) Current() (string, bool) {
	list, cur := s.activeList()
	if *cur < 0 || *cur >= len(*list) {
		return "", false
	}
	return (*list)[*cur], true
}

// AppendHistory adds a captured command to the end of the history list.
func (s *Selection) AppendHistory(text string) {
	s.history = append(s.history, text)
}

// Capture feeds p through sc and appends every committed command to the
// history list. It returns the committed commands.
func (s *Selection) Capture(sc *Scanner, p []byte) []Command {
	cmds := sc.Feed(p)
	for _, c := range cmds {
		s.AppendHistory(c.Text)
	}
	return cmds
}

// Move moves the active cursor one step in dir.
func (s *Selection) Move(dir Direction) {
	list, cur := s.activeList()
	switch dir {
	case Up:
		if *cur > 0 {
			*cur--
		}
	case Down:
		if *cur+1 < len(*list) {
			*cur++
		}
	}
}

// Reorder swaps the entry under the active cursor with its neighbour in dir
// and moves the cursor along with it.
func (s *Selection) Reorder(dir Direction) {
	list, cur := s.activeList()
	l := *list
	if *cur < 0 || *cur >= len(l) {
		return
	}
	next := *cur
	switch dir {
	case Up:
		next--
	case Down:
		next++
	}
	if next < 0 || next >= len(l) || next == *cur {
		return
	}
	l[*cur], l[next] = l[next], l[*cur]
	*cur = next
}

// Delete removes the entry under the active cursor and pushes it onto the
// deleted stack. The cursor keeps its index, clamped to the shorter list.
func (s *Selection) Delete() {
	list, cur := s.activeList()
	l := *list
	if len(l) == 0 || *cur < 0 || *cur >= len(l) {
		return
	}
	s.deleted = append(s.deleted, Deleted{Text: l[*cur], From: s.active})
	*list = append(l[:*cur], l[*cur+1:]...)
	if *cur >= len(*list) {
		*cur = len(*list) - 1
	}
	if *cur < 0 {
		*cur = 0
	}
}

// Undelete pops the most recently deleted entry and appends it to the history
// list, or to its origin list when UndeleteToOrigin is set.
func (s *Selection) Undelete() (Deleted, bool) {
	if len(s.deleted) == 0 {
		return Deleted{}, false
	}
	d := s.deleted[len(s.deleted)-1]
	s.deleted = s.deleted[:len(s.deleted)-1]
	if s.UndeleteToOrigin && d.From == WidgetConfig {
		s.config = append(s.config, d.Text)
	} else {
		s.history = append(s.history, d.Text)
	}
	return d, true
}

// Copy clones the entry under the history cursor into the configuration
// list. With the history list active it is appended; with the configuration
// list active it is inserted at the configuration cursor.
func (s *Selection) Copy() (string, bool) {
	if s.historyCursor < 0 || s.historyCursor >= len(s.history) {
		return "", false
	}
	text := s.history[s.historyCursor]
	if s.active == WidgetHistory {
		s.config = append(s.config, text)
		return text, true
	}
	at := s.configCursor
	if at < 0 {
		at = 0
	}
	if at > len(s.config) {
		at = len(s.config)
	}
	s.config = append(s.config, "")
	copy(s.config[at+1:], s.config[at:])
	s.config[at] = text
	return text, true
}

func (s *Selection) activeList() (*[]string, *int) {
	if s.active == WidgetConfig {
		return &s.config, &s.configCursor
	}
	return &s.history, &s.historyCursor
}
