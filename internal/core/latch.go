package core

// DefaultHoldTicks is how long a key press keeps a control held when the
// input source cannot report key releases. Terminal key repeat (~30/s)
// refreshes it well inside this window.
const DefaultHoldTicks = 8

// Latch holds the pressed/released state of each local player's controls.
// Input sources write to it between ticks; the simulation reads one
// consistent Frame per tick.
//
// Sources that report releases call Press/Release. Sources that only report
// presses (terminals) call Hold, which releases the control automatically
// after a number of ticks unless it is refreshed.
type Latch struct {
	held      map[PlayerID]map[Action]int // remaining ticks; -1 = until released
	pending   map[PlayerID]map[Action]bool
	holdTicks int
}

// NewLatch creates a latch whose Hold presses last holdTicks ticks.
func NewLatch(holdTicks int) *Latch {
	if holdTicks <= 0 {
		holdTicks = DefaultHoldTicks
	}
	return &Latch{
		held:      make(map[PlayerID]map[Action]int),
		pending:   make(map[PlayerID]map[Action]bool),
		holdTicks: holdTicks,
	}
}

// Press marks the control as held until Release is called.
func (l *Latch) Press(p PlayerID, a Action) {
	l.press(p, a, -1)
}

// Hold marks the control as held for the latch's hold window.
// Repeated calls extend the window without producing a new press edge.
func (l *Latch) Hold(p PlayerID, a Action) {
	l.press(p, a, l.holdTicks)
}

func (l *Latch) press(p PlayerID, a Action, ticks int) {
	controls := l.controls(p)
	if _, down := controls[a]; !down {
		if l.pending[p] == nil {
			l.pending[p] = make(map[Action]bool)
		}
		l.pending[p][a] = true
	}
	controls[a] = ticks
}

// Release marks the control as released.
func (l *Latch) Release(p PlayerID, a Action) {
	delete(l.controls(p), a)
}

// ReleaseAll drops every held control, e.g. after a reset.
func (l *Latch) ReleaseAll() {
	clear(l.held)
	clear(l.pending)
}

// IsHeld reports whether the control is currently held.
func (l *Latch) IsHeld(p PlayerID, a Action) bool {
	_, ok := l.held[p][a]
	return ok
}

// Frame returns the snapshot for one tick and advances hold timers.
// Press edges are reported exactly once.
func (l *Latch) Frame(p PlayerID) InputFrame {
	frame := NewInputFrame()
	controls := l.controls(p)
	for a, remaining := range controls {
		frame.Set(a)
		switch {
		case remaining > 1:
			controls[a] = remaining - 1
		case remaining == 1:
			delete(controls, a)
		}
	}
	for a := range l.pending[p] {
		frame.Press(a)
	}
	delete(l.pending, p)
	return frame
}

// MultiFrame returns snapshots for the given players.
func (l *Latch) MultiFrame(players ...PlayerID) MultiInputFrame {
	m := NewMultiInputFrame()
	for _, p := range players {
		m.SetPlayer(p, l.Frame(p))
	}
	return m
}

func (l *Latch) controls(p PlayerID) map[Action]int {
	c, ok := l.held[p]
	if !ok {
		c = make(map[Action]int)
		l.held[p] = c
	}
	return c
}
