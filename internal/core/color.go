package core

// Color is a semantic foreground color for a screen cell.
// The platform layer maps it to a concrete terminal style.
type Color uint8

const (
	ColorDefault Color = iota
	ColorTable
	ColorNet
	ColorBall
	ColorPaddleLeft
	ColorPaddleRight
	ColorPaddleChop  // paddle while chop is held
	ColorPaddleSmash // paddle while smash is held
	ColorScore
	ColorBanner
	ColorDim
)
