package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Increase key.Binding
	Decrease key.Binding
	Edit     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("enter", " ", "s"),
			key.WithHelp("enter", "start/stop"),
		),
		Increase: key.NewBinding(
			key.WithKeys("+", "=", "up", "k"),
			key.WithHelp("+", "longer"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-", "down", "j"),
			key.WithHelp("-", "shorter"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "set limit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// setRunning disables the limit controls while a countdown is active.
func (k *keyMap) setRunning(running bool) {
	k.Increase.SetEnabled(!running)
	k.Decrease.SetEnabled(!running)
	k.Edit.SetEnabled(!running)
	if running {
		k.Toggle.SetHelp("enter", "stop")
	} else {
		k.Toggle.SetHelp("enter", "start")
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Increase, k.Decrease, k.Edit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Edit},
		{k.Increase, k.Decrease},
		{k.Help, k.Quit},
	}
}
