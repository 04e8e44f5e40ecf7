package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// setupRow is one line of the setup menu.
type setupRow int

const (
	rowVariant setupRow = iota
	rowMode
	rowDifficulty
	rowCount
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SetupModel lets the player pick variant, mode and difficulty.
type SetupModel struct {
	prefs      storage.Preferences
	modes      []core.Mode
	cursor     setupRow
	keys       SetupKeyMap
	help       help.Model
	width      int
	height     int
	started    bool
	quitting   bool
	errMessage string
}

// NewSetupModel creates a setup menu starting from prefs. Online play is
// offered only when allowOnline is set.
func NewSetupModel(prefs storage.Preferences, allowOnline bool, width, height int) SetupModel {
	modes := []core.Mode{core.ModeAI, core.ModeLocal}
	if allowOnline {
		modes = append(modes, core.ModeOnline)
	}
	if prefs.Mode == core.ModeOnline && !allowOnline {
		prefs.Mode = core.ModeAI
	}

	h := help.New()
	h.ShowAll = false
	return SetupModel{
		prefs:  prefs,
		modes:  modes,
		keys:   DefaultSetupKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
}

// Init initializes the setup model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the setup menu.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			m.started = true
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor + rowCount - 1) % rowCount
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % rowCount
		case key.Matches(msg, m.keys.Left):
			m.change(-1)
		case key.Matches(msg, m.keys.Right):
			m.change(1)
		}
	}
	return m, nil
}

// change cycles the option under the cursor.
func (m *SetupModel) change(delta int) {
	switch m.cursor {
	case rowVariant:
		m.prefs.Variant = core.Variant(cycle(int(m.prefs.Variant), delta, 2))
	case rowMode:
		i := 0
		for j, mode := range m.modes {
			if mode == m.prefs.Mode {
				i = j
			}
		}
		m.prefs.Mode = m.modes[cycle(i, delta, len(m.modes))]
	case rowDifficulty:
		if m.prefs.Mode == core.ModeAI {
			m.prefs.Difficulty = core.Difficulty(cycle(int(m.prefs.Difficulty), delta, 3))
		}
	}
}

func cycle(i, delta, n int) int {
	return ((i+delta)%n + n) % n
}

// View renders the setup menu.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("P O N G"), m.width))
	b.WriteString("\n\n")

	rows := []struct {
		label   string
		value   string
		enabled bool
	}{
		{"Game", variantLabel(m.prefs.Variant), true},
		{"Opponent", modeLabel(m.prefs.Mode), true},
		{"Difficulty", m.prefs.Difficulty.String(), m.prefs.Mode == core.ModeAI},
	}
	for i, r := range rows {
		line := fmt.Sprintf("%-10s  < %-14s >", r.label, r.value)
		switch {
		case setupRow(i) == m.cursor:
			line = cursorStyle.Render("> " + line)
		case !r.enabled:
			line = disabledStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.errMessage != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.errMessage, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(controlsHint(m.prefs.Mode), m.width))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func variantLabel(v core.Variant) string {
	if v == core.VariantTable {
		return "table tennis"
	}
	return "classic pong"
}

func modeLabel(mode core.Mode) string {
	switch mode {
	case core.ModeLocal:
		return "local 2P"
	case core.ModeOnline:
		return "online"
	default:
		return "computer"
	}
}

func controlsHint(mode core.Mode) string {
	if mode == core.ModeLocal {
		return "P1: arrows (← chop, → smash)   P2: W/S (A chop, D smash)"
	}
	return "arrows move, ← chop, → smash, P pause"
}

// Preferences returns the current selection.
func (m SetupModel) Preferences() storage.Preferences {
	return m.prefs
}

// Started returns true once the player chose to play.
func (m SetupModel) Started() bool {
	return m.started
}

// IsQuitting returns true if user requested to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// WithError returns a copy of the menu showing msg.
func (m SetupModel) WithError(msg string) SetupModel {
	m.errMessage = msg
	m.started = false
	return m
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
