package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add      key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	// Delete shares its keys with the input's forward delete and only
	// removes a row while the input is empty.
	Delete   key.Binding
	Camera   key.Binding
	Gallery  key.Binding
	Quit     key.Binding

	Allow key.Binding
	Deny  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Delete:   key.NewBinding(key.WithKeys("ctrl+d", "delete"), key.WithHelp("ctrl+d", "delete")),
		Camera:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "photo")),
		Gallery:  key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "gallery")),
		Quit:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear/quit")),

		Allow: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "allow")),
		Deny:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "deny")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Camera, k.Gallery, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Delete},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Camera, k.Gallery, k.Quit},
	}
}
