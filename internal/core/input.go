package core

// PlayerID identifies a side of the table.
// Player1 is the left paddle, Player2 the right paddle.
type PlayerID int

const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// Opponent returns the other side. NoPlayer has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

// String returns a short label for the side.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "none"
	}
}

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Move paddle up; plain serve
	ActionDown           // Move paddle down; plain serve
	ActionChop           // Defensive return; slow serve
	ActionSmash          // Offensive return; fast serve
	ActionPause          // Toggle pause
	ActionRestart        // Restart after game over
	ActionConfirm        // Confirm selection in menus
	ActionBack           // Go back to menu
	ActionQuit           // Exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionChop:
		return "Chop"
	case ActionSmash:
		return "Smash"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is one player's control snapshot for a single simulation tick.
// Actions holds level-triggered (held) controls; Pressed holds the controls
// whose press transition happened since the previous tick.
type InputFrame struct {
	Actions map[Action]bool
	Pressed map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
		Pressed: make(map[Action]bool),
	}
}

// Set marks an action as held for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Press marks an action as both held and newly pressed for this frame.
func (f *InputFrame) Press(a Action) {
	f.Set(a)
	if f.Pressed == nil {
		f.Pressed = make(map[Action]bool)
	}
	f.Pressed[a] = true
}

// Has returns true if the action is held this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// JustPressed returns true if the action's press transition happened this frame.
func (f InputFrame) JustPressed(a Action) bool {
	return f.Pressed[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	clear(f.Pressed)
}

// MultiInputFrame contains input from all local players for a single tick.
// A side without an entry (CPU or remote) reads as an empty frame.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player returns the input frame for a specific player.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for a specific player.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// AnyPressed reports whether any player pressed the action this frame.
func (m MultiInputFrame) AnyPressed(a Action) bool {
	for _, f := range m.ByPlayer {
		if f.JustPressed(a) {
			return true
		}
	}
	return false
}
