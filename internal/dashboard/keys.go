package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

// globalKeys are handled by the root model on every screen.
type globalKeys struct {
	Back    key.Binding
	Dismiss key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// GlobalKeyMap returns the bindings available on every screen.
func GlobalKeyMap() globalKeys {
	return globalKeys{
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// scheduleKeys holds key bindings for the schedule screen.
type scheduleKeys struct {
	PrevDay   key.Binding
	NextDay   key.Binding
	Today     key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Standings key.Binding
	Stats     key.Binding
	Teams     key.Binding
}

// ShortHelp returns the schedule bindings for the help bar.
func (k scheduleKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.Today, k.Open, k.Standings, k.Stats, k.Teams}
}

// FullHelp returns the schedule bindings grouped for expanded help.
func (k scheduleKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.Today},
		{k.Left, k.Right, k.Up, k.Down, k.Open},
		{k.Standings, k.Stats, k.Teams},
	}
}

// ScheduleKeyMap returns the key bindings for the schedule screen.
func ScheduleKeyMap() scheduleKeys {
	return scheduleKeys{
		PrevDay: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev game"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next game"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "game above"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "game below"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open game"),
		),
		Standings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "standings"),
		),
		Stats: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "stats"),
		),
		Teams: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "teams"),
		),
	}
}

// scrollKeys holds key bindings for screens with a scrolling body.
type scrollKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	tabs     bool
}

// ShortHelp returns the scroll bindings for the help bar.
func (k scrollKeys) ShortHelp() []key.Binding {
	if k.tabs {
		return []key.Binding{k.NextTab, k.Up, k.Down}
	}
	return []key.Binding{k.Up, k.Down}
}

// FullHelp returns the scroll bindings grouped for expanded help.
func (k scrollKeys) FullHelp() [][]key.Binding {
	groups := [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown}}
	if k.tabs {
		groups = append(groups, []key.Binding{k.NextTab, k.PrevTab})
	}
	return groups
}

// ScrollKeyMap returns the key bindings for a scrolling body, optionally
// with tab switching.
func ScrollKeyMap(tabs bool) scrollKeys {
	return scrollKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		tabs: tabs,
	}
}

// gridKeys holds key bindings for the team card grid.
type gridKeys struct {
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
}

// ShortHelp returns the grid bindings for the help bar.
func (k gridKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Open}
}

// FullHelp returns the grid bindings grouped for expanded help.
func (k gridKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Left, k.Right, k.Up, k.Down}, {k.Open}}
}

// GridKeyMap returns the key bindings for a card grid.
func GridKeyMap(open string) gridKeys {
	return gridKeys{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", open)),
	}
}

// rosterKeys holds key bindings for the team screen.
type rosterKeys struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	NextTab key.Binding
}

// ShortHelp returns the roster bindings for the help bar.
func (k rosterKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.NextTab}
}

// FullHelp returns the roster bindings grouped for expanded help.
func (k rosterKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Open}, {k.NextTab}}
}

// RosterKeyMap returns the key bindings for the team screen.
func RosterKeyMap() rosterKeys {
	return rosterKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev player")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next player")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open player")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "roster/schedule")),
	}
}

// viewportKeys returns a viewport key map without the pager letters that
// collide with screen and global bindings.
func viewportKeys() viewport.KeyMap {
	k := ScrollKeyMap(false)
	return viewport.KeyMap{
		Up:       k.Up,
		Down:     k.Down,
		PageUp:   k.PageUp,
		PageDown: k.PageDown,
	}
}

// newViewport returns a viewport using viewportKeys.
func newViewport() viewport.Model {
	vp := viewport.New(0, 0)
	vp.KeyMap = viewportKeys()
	return vp
}
