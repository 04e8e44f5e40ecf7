package pong

import "github.com/vovakirdan/tui-pong/internal/core"

// Control is a bit set of the paddle controls.
type Control uint8

const (
	CtrlUp Control = 1 << iota
	CtrlDown
	CtrlChop
	CtrlSmash
)

// Has reports whether all bits of c2 are set.
func (c Control) Has(c2 Control) bool {
	return c&c2 == c2 && c2 != 0
}

// SideInput is one side's intent for a tick.
type SideInput struct {
	Held    Control // level-triggered controls
	Pressed Control // controls whose press happened this tick

	// Steer, when Steering is set, replaces up/down with a signed step.
	Steer    float64
	Steering bool

	// Serve requests a specific serve strike regardless of Pressed.
	Serve ServeType
}

// Input is both sides' intent for a tick.
type Input struct {
	P1, P2 SideInput
}

// For returns a side's input.
func (in Input) For(side core.PlayerID) SideInput {
	if side == core.Player2 {
		return in.P2
	}
	return in.P1
}

// Set replaces a side's input.
func (in *Input) Set(side core.PlayerID, si SideInput) {
	if side == core.Player2 {
		in.P2 = si
		return
	}
	in.P1 = si
}

var controlActions = []struct {
	action  core.Action
	control Control
}{
	{core.ActionUp, CtrlUp},
	{core.ActionDown, CtrlDown},
	{core.ActionChop, CtrlChop},
	{core.ActionSmash, CtrlSmash},
}

// FromFrame converts a latched input frame to a SideInput.
func FromFrame(f core.InputFrame) SideInput {
	var si SideInput
	for _, ca := range controlActions {
		if f.Has(ca.action) {
			si.Held |= ca.control
		}
		if f.JustPressed(ca.action) {
			si.Pressed |= ca.control
		}
	}
	return si
}

// serveRequest maps a side's input to a serve strike.
// Only press transitions strike; held controls never re-trigger.
func (si SideInput) serveRequest() ServeType {
	switch {
	case si.Serve != ServeNone:
		return si.Serve
	case si.Pressed.Has(CtrlSmash):
		return ServeFast
	case si.Pressed.Has(CtrlChop):
		return ServeSlow
	case si.Pressed&(CtrlUp|CtrlDown) != 0:
		return ServeNormal
	default:
		return ServeNone
	}
}
