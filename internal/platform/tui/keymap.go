package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// GameKeyMap defines the in-game key bindings.
// The arrow keys drive the primary paddle; W/S/A/D drive the second paddle
// in hot-seat matches and double as the primary keys otherwise.
type GameKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Chop  key.Binding
	Smash key.Binding

	Up2    key.Binding
	Down2  key.Binding
	Chop2  key.Binding
	Smash2 key.Binding

	Pause   key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Chop, k.Smash, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Chop, k.Smash},
		{k.Up2, k.Down2, k.Chop2, k.Smash2},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Chop:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "chop")),
		Smash:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "smash")),
		Up2:    key.NewBinding(key.WithKeys("w", "W"), key.WithHelp("w", "P2 up")),
		Down2:  key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "P2 down")),
		Chop2:  key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "P2 chop")),
		Smash2: key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "P2 smash")),

		Pause:   key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p", "pause")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "menu")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// KeyAction is a key press resolved to a side and a game action.
type KeyAction struct {
	Player core.PlayerID
	Action core.Action
}

// KeyMapper translates Bubble Tea key messages to game actions for one
// match setup. This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys    GameKeyMap
	primary core.PlayerID
	second  core.PlayerID // side driven by W/S/A/D
}

// NewKeyMapper creates a key mapper for the given mode. In online matches
// every key drives the local side.
func NewKeyMapper(mode core.Mode, local core.PlayerID) *KeyMapper {
	km := &KeyMapper{keys: DefaultGameKeyMap(), primary: core.Player1, second: core.Player1}
	switch mode {
	case core.ModeLocal:
		km.second = core.Player2
	case core.ModeOnline:
		if local == core.Player2 {
			km.primary, km.second = core.Player2, core.Player2
		}
	}
	return km
}

// Keys returns the bindings in use.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// Map resolves a key message. Unbound keys map to ActionNone.
func (km *KeyMapper) Map(msg tea.KeyMsg) KeyAction {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return KeyAction{Action: core.ActionQuit}
	case key.Matches(msg, k.Back):
		return KeyAction{Action: core.ActionBack}
	case key.Matches(msg, k.Pause):
		return KeyAction{Player: km.primary, Action: core.ActionPause}
	case key.Matches(msg, k.Restart):
		return KeyAction{Player: km.primary, Action: core.ActionRestart}

	case key.Matches(msg, k.Up):
		return KeyAction{Player: km.primary, Action: core.ActionUp}
	case key.Matches(msg, k.Down):
		return KeyAction{Player: km.primary, Action: core.ActionDown}
	case key.Matches(msg, k.Chop):
		return KeyAction{Player: km.primary, Action: core.ActionChop}
	case key.Matches(msg, k.Smash):
		return KeyAction{Player: km.primary, Action: core.ActionSmash}

	case key.Matches(msg, k.Up2):
		return KeyAction{Player: km.second, Action: core.ActionUp}
	case key.Matches(msg, k.Down2):
		return KeyAction{Player: km.second, Action: core.ActionDown}
	case key.Matches(msg, k.Chop2):
		return KeyAction{Player: km.second, Action: core.ActionChop}
	case key.Matches(msg, k.Smash2):
		return KeyAction{Player: km.second, Action: core.ActionSmash}
	}
	return KeyAction{Action: core.ActionNone}
}

// SetupKeyMap defines the setup menu key bindings.
type SetupKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Start key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SetupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Start, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SetupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Start, k.Help, k.Quit},
	}
}

// DefaultSetupKeyMap returns default key bindings.
func DefaultSetupKeyMap() SetupKeyMap {
	return SetupKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "prev option"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "next option"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("←/h", "change"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("→/l", "change"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
