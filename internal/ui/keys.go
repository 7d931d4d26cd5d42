package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Back        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Dashboard   key.Binding
	Tester      key.Binding
	History     key.Binding
	Policy      key.Binding
	Run         key.Binding
	NewAnalysis key.Binding
	CopyCaption key.Binding
	CopyScript  key.Binding
	CycleTheme  key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit / run"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop editing"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab / field"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab / field"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Tester: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "caption tester"),
		),
		History: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "history"),
		),
		Policy: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "policy guide"),
		),
		Run: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "run check"),
		),
		NewAnalysis: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new analysis"),
		),
		CopyCaption: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy safer caption"),
		),
		CopyScript: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "copy safer script"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
	}
}

// tabKeys returns the direct tab bindings in tab order
func (k KeyMap) tabKeys() []key.Binding {
	return []key.Binding{k.Dashboard, k.Tester, k.History, k.Policy}
}
