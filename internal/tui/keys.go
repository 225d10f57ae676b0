package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Erase  key.Binding
	Toggle key.Binding
	Delete key.Binding
	Clear  key.Binding
	Add    key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new task")),
		Erase:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫ on empty", "delete")),
		Toggle: key.NewBinding(key.WithKeys("tab", "ctrl+t"), key.WithHelp("tab", "done")),
		Delete: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "delete")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear completed")),
		Add:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "save & quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Toggle, k.Delete, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Enter, k.Add, k.Erase},
		{k.Toggle, k.Delete, k.Clear},
		{k.Quit},
	}
}

// repeatGuard flags held keys. Terminals deliver auto-repeat as ordinary key
// presses, so a press of the same key within window of the previous one is
// taken as a repeat. A zero window never flags.
type repeatGuard struct {
	window time.Duration
	last   string
	lastAt time.Time
}

func (g *repeatGuard) observe(k string, at time.Time) bool {
	repeat := g.window > 0 && k == g.last && at.Sub(g.lastAt) < g.window
	g.last, g.lastAt = k, at
	return repeat
}
