package menu

import "github.com/charmbracelet/bubbles/key"

// menuKeys holds key bindings for the main menu.
type menuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Choose key.Binding
	Quit   key.Binding
}

// ShortHelp returns the menu bindings for the help bar.
func (k menuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Choose, k.Quit}
}

// FullHelp returns the menu bindings grouped for expanded help.
func (k menuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Choose, k.Quit},
	}
}

// formKeys holds key bindings for input forms.
type formKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Back   key.Binding
}

// ShortHelp returns the form bindings for the help bar.
func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Back}
}

// FullHelp returns the form bindings grouped for expanded help.
func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Submit, k.Back},
	}
}

// confirmKeys holds key bindings for the delete confirmation.
type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

// ShortHelp returns the confirmation bindings for the help bar.
func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

// FullHelp returns the confirmation bindings grouped for expanded help.
func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Yes, k.No}}
}

// resultsKeys holds key bindings for the results view.
type resultsKeys struct {
	Back key.Binding
}

// ShortHelp returns the results bindings for the help bar.
func (k resultsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back}
}

// FullHelp returns the results bindings grouped for expanded help.
func (k resultsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Back}}
}

// MenuKeyMap returns the key bindings for the main menu.
func MenuKeyMap() menuKeys {
	return menuKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Choose: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "choose"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FormKeyMap returns the key bindings for input forms.
func FormKeyMap() formKeys {
	return formKeys{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ConfirmKeyMap returns the key bindings for the delete confirmation.
func ConfirmKeyMap() confirmKeys {
	return confirmKeys{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "delete"),
		),
		// "any" is display-only; every other key cancels in Update.
		No: key.NewBinding(
			key.WithKeys("any"),
			key.WithHelp("any key", "cancel"),
		),
	}
}

// ResultsKeyMap returns the key bindings for the results view.
func ResultsKeyMap() resultsKeys {
	return resultsKeys{
		Back: key.NewBinding(
			key.WithKeys("esc", "enter", "q"),
			key.WithHelp("esc", "back to menu"),
		),
	}
}
