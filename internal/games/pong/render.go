package pong

import (
	"fmt"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Visual characters for rendering
const (
	PaddleChar    = '█'
	BallChar      = '●'
	BallHighChar  = '◉' // ball well above the table
	BallLowChar   = '•' // ball about to touch the table
	NetChar       = '│'
	TableNetChar  = '┊'
	TableSurfChar = '·'
)

// altitude bands for the ball glyph
const (
	lowAltitude  = 15
	highAltitude = 120
)

// viewport maps arena units onto the screen cells inside the border.
type viewport struct {
	field  core.Rect
	arenaW float64
	arenaH float64
}

func (v viewport) col(x float64) int {
	c := v.field.X + int(x/v.arenaW*float64(v.field.W))
	return core.Clamp(c, v.field.X, v.field.Right()-1)
}

func (v viewport) row(y float64) int {
	r := v.field.Y + int(y/v.arenaH*float64(v.field.H))
	return core.Clamp(r, v.field.Y, v.field.Bottom()-1)
}

// Render draws the current game state to the screen.
// Row 0 holds the score line, the last row a status line, and the arena
// fills the bordered area in between.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.Snapshot()

	w, h := dst.Width(), dst.Height()
	if w < 12 || h < 6 {
		dst.DrawText(0, 0, "too small")
		return
	}

	border := core.NewRect(0, 1, w, h-2)
	dst.DrawBox(border, core.ColorDim)
	vp := viewport{
		field:  core.NewRect(1, 2, w-2, h-4),
		arenaW: snap.ArenaW,
		arenaH: snap.ArenaH,
	}

	if snap.Variant == core.VariantTable {
		drawTable(dst, vp, snap)
	} else {
		x := vp.col(snap.NetX)
		for y := vp.field.Y; y < vp.field.Bottom(); y += 2 {
			dst.SetColor(x, y, NetChar, core.ColorNet)
		}
	}

	drawPaddle(dst, vp, snap, core.Player1)
	drawPaddle(dst, vp, snap, core.Player2)
	drawBall(dst, vp, snap)

	g.drawScoreLine(dst, snap)
	dst.DrawTextColor(1, h-1, statusLine(snap), core.ColorDim)

	if snap.Paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if snap.GameOver {
		drawCenteredMessage(dst, fmt.Sprintf("%s WINS!", sideLabel(snap.Mode, snap.Winner)),
			fmt.Sprintf("%d - %d  |  Press R to restart", snap.Scores[0], snap.Scores[1]))
	}
}

func drawTable(dst *core.Screen, vp viewport, snap Snapshot) {
	tb := snap.Table
	x0, x1 := vp.col(tb.X), vp.col(tb.Right())
	y0, y1 := vp.row(tb.Y), vp.row(tb.Bottom())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dst.SetColor(x, y, TableSurfChar, core.ColorTable)
		}
	}
	if x1-x0 >= 1 && y1-y0 >= 1 {
		dst.DrawBox(core.NewRect(x0, y0, x1-x0+1, y1-y0+1), core.ColorTable)
	}
	dst.DrawVLine(vp.col(snap.NetX), y0, y1-y0+1, TableNetChar, core.ColorNet)
}

func drawPaddle(dst *core.Screen, vp viewport, snap Snapshot, side core.PlayerID) {
	i := idx(side)
	x := vp.field.X
	color := core.ColorPaddleLeft
	if side == core.Player2 {
		x = vp.field.Right() - 1
		color = core.ColorPaddleRight
	}
	switch held := snap.Held[i]; {
	case held.Has(CtrlSmash):
		color = core.ColorPaddleSmash
	case held.Has(CtrlChop):
		color = core.ColorPaddleChop
	}

	top := vp.row(snap.PaddleY[i])
	bottom := vp.row(snap.PaddleY[i] + snap.PaddleH - 1)
	dst.DrawVLine(x, top, bottom-top+1, PaddleChar, color)
}

func drawBall(dst *core.Screen, vp viewport, snap Snapshot) {
	// Blink while waiting for the serve
	if !snap.InPlay && (snap.ServeTicks/10)%2 == 1 {
		return
	}
	glyph := BallChar
	if snap.Variant == core.VariantTable {
		switch {
		case snap.Altitude < lowAltitude:
			glyph = BallLowChar
		case snap.Altitude > highAltitude:
			glyph = BallHighChar
		}
	}
	color := core.ColorBall
	if snap.Chopped {
		color = core.ColorPaddleChop
	}
	dst.SetColor(vp.col(snap.BallX), vp.row(snap.BallY), glyph, color)
}

func (g *Game) drawScoreLine(dst *core.Screen, snap Snapshot) {
	center := dst.Width() / 2
	left := fmt.Sprintf("%s %2d", sideLabel(snap.Mode, core.Player1), snap.Scores[0])
	right := fmt.Sprintf("%-2d %s", snap.Scores[1], sideLabel(snap.Mode, core.Player2))
	dst.DrawTextColor(center-2-len([]rune(left)), 0, left, core.ColorScore)
	dst.DrawTextColor(center, 0, ":", core.ColorDim)
	dst.DrawTextColor(center+2, 0, right, core.ColorScore)

	label := g.Title() + " · " + snap.Mode.String()
	if snap.Mode == core.ModeAI {
		label += " · " + g.runtime.Difficulty.String()
	}
	dst.DrawTextColor(1, 0, label, core.ColorDim)
}

func statusLine(snap Snapshot) string {
	switch {
	case snap.GameOver:
		return "R restart · Q quit"
	case snap.Serving && !snap.InPlay:
		msg := fmt.Sprintf("%s to serve: ↑/↓ normal, ← slow, → fast", sideLabel(snap.Mode, snap.Server))
		if snap.LastReason != ReasonNone && snap.LastEvent.EndsRally() {
			msg = fmt.Sprintf("Point %s (%s). %s", sideLabel(snap.Mode, snap.LastEvent.Side), snap.LastReason, msg)
		}
		return msg
	default:
		return "↑/↓ move · ← chop · → smash · P pause · Q quit"
	}
}

func sideLabel(mode core.Mode, side core.PlayerID) string {
	if side == core.Player2 && mode == core.ModeAI {
		return "CPU"
	}
	return side.String()
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBanner)
	dst.DrawTextColor(box.X+(boxW-len([]rune(title)))/2, box.Y+1, title, core.ColorBanner)
	dst.DrawTextColor(box.X+(boxW-len([]rune(subtitle)))/2, box.Y+3, subtitle, core.ColorDefault)
}
