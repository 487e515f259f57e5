package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	In     key.Binding
	Out    key.Binding
	Pause  key.Binding
	Reset  key.Binding
	Labels key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:   key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "orbit left")),
		Right:  key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "orbit right")),
		Up:     key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "orbit up")),
		Down:   key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "orbit down")),
		In:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "closer")),
		Out:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "further")),
		Pause:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Labels: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "labels")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.In, k.Out, k.Pause, k.Reset, k.Labels, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.In, k.Out, k.Pause, k.Reset, k.Labels, k.Quit},
	}
}
