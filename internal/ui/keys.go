package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit     key.Binding
	Refresh  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Toggle   key.Binding
	FoldAll  key.Binding
	Parent   key.Binding
	NextSib  key.Binding
	Yank     key.Binding
	OpenURL  key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "down")),
	PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
	PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
	Home:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	End:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("space", "toggle replies")),
	FoldAll:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "fold all")),
	Parent:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "parent")),
	NextSib:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sibling")),
	Yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy author link")),
	OpenURL:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in explorer")),
}
