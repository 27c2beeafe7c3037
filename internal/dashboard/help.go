package dashboard

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// screenHelp merges a screen's bindings with the global ones. back is
// omitted on the root screen.
type screenHelp struct {
	screen help.KeyMap
	global globalKeys
	root   bool
}

// ShortHelp returns the screen bindings followed by the global ones.
func (h screenHelp) ShortHelp() []key.Binding {
	var out []key.Binding
	if h.screen != nil {
		out = append(out, h.screen.ShortHelp()...)
	}
	return append(out, h.globals()...)
}

// FullHelp returns the screen groups plus a group of global bindings.
func (h screenHelp) FullHelp() [][]key.Binding {
	var out [][]key.Binding
	if h.screen != nil {
		out = append(out, h.screen.FullHelp()...)
	}
	return append(out, h.globals())
}

func (h screenHelp) globals() []key.Binding {
	if h.root {
		return []key.Binding{h.global.Refresh, h.global.Quit}
	}
	return []key.Binding{h.global.Back, h.global.Refresh, h.global.Quit}
}

// HelpBindings returns the help.KeyMap for the given screen, providing
// context-aware help bar content.
func HelpBindings(s Screen, root bool) help.KeyMap {
	var km help.KeyMap
	if s != nil {
		km = s.Help()
	}
	return screenHelp{screen: km, global: GlobalKeyMap(), root: root}
}
