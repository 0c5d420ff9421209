package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the table screen.
type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Side     key.Binding
	Play     key.Binding
	Draw     key.Binding
	Pass     key.Binding
	NextGame key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Side, k.Play, k.Draw, k.Pass, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Side, k.Play},
		{k.Draw, k.Pass, k.NextGame},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev tile"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next tile"),
		),
		Side: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle side"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play tile"),
		),
		Draw: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "draw"),
		),
		Pass: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pass"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next game"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LobbyKeyMap defines the key bindings of the SSH lobby.
type LobbyKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Fewer   key.Binding
	More    key.Binding
	Select  key.Binding
	AddBots key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LobbyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Fewer, k.More, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LobbyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Fewer, k.More, k.AddBots},
		{k.Back, k.Quit},
	}
}

// DefaultLobbyKeyMap returns default lobby key bindings.
func DefaultLobbyKeyMap() LobbyKeyMap {
	return LobbyKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Fewer: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "fewer players"),
		),
		More: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "more players"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		AddBots: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "fill with bots"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
