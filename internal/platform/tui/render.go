package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// colorStyles maps the semantic core colors to terminal styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorTable:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorNet:         lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorBall:        lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorPaddleLeft:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorPaddleRight: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorPaddleChop:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorPaddleSmash: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorScore:       lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorBanner:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorDim:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// styleFor returns the style of a color, falling back to the default.
func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells of one color share a single style run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			if color == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}
