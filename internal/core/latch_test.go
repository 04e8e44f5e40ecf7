package core

import "testing"

func TestLatchPressIsEdgeOnce(t *testing.T) {
	l := NewLatch(4)
	l.Press(Player1, ActionSmash)

	first := l.Frame(Player1)
	if !first.Has(ActionSmash) || !first.JustPressed(ActionSmash) {
		t.Fatalf("first frame: held=%v pressed=%v, expected both true",
			first.Has(ActionSmash), first.JustPressed(ActionSmash))
	}

	second := l.Frame(Player1)
	if !second.Has(ActionSmash) {
		t.Error("second frame: smash should still be held")
	}
	if second.JustPressed(ActionSmash) {
		t.Error("second frame: press edge must not repeat while held")
	}

	l.Release(Player1, ActionSmash)
	if l.Frame(Player1).Has(ActionSmash) {
		t.Error("released control should not be held")
	}
}

func TestLatchHoldExpires(t *testing.T) {
	l := NewLatch(3)
	l.Hold(Player1, ActionUp)

	for i := range 3 {
		if !l.Frame(Player1).Has(ActionUp) {
			t.Fatalf("tick %d: up should be held inside the hold window", i)
		}
	}
	if l.Frame(Player1).Has(ActionUp) {
		t.Error("up should be released once the hold window elapses")
	}
}

func TestLatchHoldRefreshDoesNotRepress(t *testing.T) {
	l := NewLatch(3)
	l.Hold(Player2, ActionChop)
	l.Frame(Player2)

	// Key repeat refreshes the hold window.
	l.Hold(Player2, ActionChop)
	f := l.Frame(Player2)
	if !f.Has(ActionChop) {
		t.Error("refreshed hold should keep chop held")
	}
	if f.JustPressed(ActionChop) {
		t.Error("refreshing a held control must not produce a new press edge")
	}
}

func TestLatchPlayersAreIndependent(t *testing.T) {
	l := NewLatch(0)
	l.Press(Player1, ActionUp)
	l.Press(Player2, ActionDown)

	m := l.MultiFrame(Player1, Player2)
	if m.Player(Player1).Has(ActionDown) || m.Player(Player2).Has(ActionUp) {
		t.Error("controls leaked between players")
	}
	if !m.AnyPressed(ActionDown) {
		t.Error("AnyPressed(Down) should report player 2's press")
	}
}

func TestLatchReleaseAll(t *testing.T) {
	l := NewLatch(0)
	l.Press(Player1, ActionUp)
	l.ReleaseAll()

	if l.IsHeld(Player1, ActionUp) {
		t.Error("ReleaseAll should drop held controls")
	}
	if l.Frame(Player1).JustPressed(ActionUp) {
		t.Error("ReleaseAll should drop pending press edges")
	}
}
