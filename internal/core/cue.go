package core

// Cue is a discrete feedback event for the audio adapter.
type Cue int

const (
	CueNone   Cue = iota
	CueBounce     // ball touched the table
	CueWall       // ball reflected off the top or bottom edge
	CuePaddle     // plain paddle return
	CueChop
	CueSmash
	CueServe
	CuePoint
	CueWin
)

func (c Cue) String() string {
	switch c {
	case CueBounce:
		return "bounce"
	case CueWall:
		return "wall"
	case CuePaddle:
		return "paddle"
	case CueChop:
		return "chop"
	case CueSmash:
		return "smash"
	case CueServe:
		return "serve"
	case CuePoint:
		return "point"
	case CueWin:
		return "win"
	default:
		return "none"
	}
}
