package tui

import "github.com/charmbracelet/bubbles/key"

// EditorKeys are the bindings of the image editor.
type EditorKeys struct {
	Quit         key.Binding
	Collect      key.Binding
	AttachBasket key.Binding
	More         key.Binding
	ToggleAttach key.Binding
	Include      key.Binding
	Exclude      key.Binding
	Complete     key.Binding
}

// NewEditorKeys creates the editor key bindings.
func NewEditorKeys() EditorKeys {
	return EditorKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Collect: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "collect"),
		),
		AttachBasket: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "attach basket"),
		),
		More: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more"),
		),
		ToggleAttach: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "attach/detach"),
		),
		Include: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "include"),
		),
		Exclude: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "exclude"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete metadata"),
		),
	}
}

// ShortHelp returns the bindings shown under the list.
func (k EditorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Collect, k.AttachBasket, k.More, k.ToggleAttach}
}

// FullHelp returns every binding.
func (k EditorKeys) FullHelp() []key.Binding {
	return []key.Binding{
		k.Collect, k.AttachBasket, k.More, k.ToggleAttach,
		k.Include, k.Exclude, k.Complete, k.Quit,
	}
}
