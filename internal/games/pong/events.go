package pong

import "github.com/vovakirdan/tui-pong/internal/core"

// EventKind identifies an engine event.
type EventKind int

const (
	EventNone EventKind = iota
	EventPointScored
	EventGameWon
	EventBounce      // table bounce
	EventWallBounce  // top or bottom arena edge
	EventReturn      // neutral paddle return
	EventChop        // chopped paddle return
	EventSmash       // smashed paddle return
	EventServe       // serve strike
	EventPaddleMoved // a paddle changed position this tick
)

func (k EventKind) String() string {
	switch k {
	case EventPointScored:
		return "point"
	case EventGameWon:
		return "game-won"
	case EventBounce:
		return "bounce"
	case EventWallBounce:
		return "wall"
	case EventReturn:
		return "return"
	case EventChop:
		return "chop"
	case EventSmash:
		return "smash"
	case EventServe:
		return "serve"
	case EventPaddleMoved:
		return "paddle-moved"
	default:
		return "none"
	}
}

// PointReason explains why a rally ended.
type PointReason int

const (
	ReasonNone PointReason = iota
	ReasonMissedReturn
	ReasonMissedChop
	ReasonServeFault
	ReasonWrongSide
	ReasonDoubleBounce
	ReasonOutOfBounds
)

func (r PointReason) String() string {
	switch r {
	case ReasonMissedReturn:
		return "missed return"
	case ReasonMissedChop:
		return "missed chop"
	case ReasonServeFault:
		return "serve fault"
	case ReasonWrongSide:
		return "wrong side"
	case ReasonDoubleBounce:
		return "double bounce"
	case ReasonOutOfBounds:
		return "out"
	default:
		return ""
	}
}

// Event is something that happened during a tick.
// Side is the scoring side for points, the hitter for returns and serves,
// the moved paddle for PaddleMoved, and the table half for bounces.
type Event struct {
	Kind   EventKind
	Side   core.PlayerID
	Reason PointReason
	Serve  ServeType
	Y      float64
}

// IsHit reports whether the event is a paddle return of any class.
func (e Event) IsHit() bool {
	return e.Kind == EventReturn || e.Kind == EventChop || e.Kind == EventSmash
}

// EndsRally reports whether the event ends the current rally.
func (e Event) EndsRally() bool {
	return e.Kind == EventPointScored || e.Kind == EventGameWon
}

// Cue maps an event to its audio cue.
func (e Event) Cue() core.Cue {
	switch e.Kind {
	case EventBounce:
		return core.CueBounce
	case EventWallBounce:
		return core.CueWall
	case EventReturn:
		return core.CuePaddle
	case EventChop:
		return core.CueChop
	case EventSmash:
		return core.CueSmash
	case EventServe:
		return core.CueServe
	case EventPointScored:
		return core.CuePoint
	case EventGameWon:
		return core.CueWin
	default:
		return core.CueNone
	}
}
