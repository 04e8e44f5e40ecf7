package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pong/internal/audio"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

// GameOptions holds the adapters a game runs with. Zero values are safe.
type GameOptions struct {
	HoldTicks int                    // latch hold window; 0 uses core.DefaultHoldTicks
	Audio     audio.Player           // nil plays nothing
	Link      multiplayer.PaddleLink // required in online mode
	Logger    *log.Logger            // nil discards
}

// GameModel is the Bubble Tea model that drives one match at a fixed tick rate.
type GameModel struct {
	game   registry.Game
	screen *core.Screen
	config core.RuntimeConfig
	latch  *core.Latch
	keys   *KeyMapper
	audio  audio.Player
	log    *log.Logger

	link     multiplayer.PaddleLink
	updates  <-chan core.PaddleUpdate
	linkNote string // shown once the remote side is gone
	reported bool

	state      core.GameState
	quitting   bool
	backToMenu bool
}

// NewGameModel starts a fresh match of game with cfg.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	game.Reset(cfg)
	m := GameModel{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		latch:  core.NewLatch(opts.HoldTicks),
		keys:   NewKeyMapper(cfg.Mode, cfg.LocalPlayer),
		audio:  opts.Audio,
		log:    opts.Logger,
		link:   opts.Link,
		state:  game.State(),
	}
	if m.link != nil {
		m.updates = m.link.Updates()
	}
	return m
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.game.Configure(m.config)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case multiplayer.MatchEndedEvent:
		m.remoteEnded(msg)
		return m, nil
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ka := m.keys.Map(msg)
	switch ka.Action {
	case core.ActionNone:
		if msg.String() == "ctrl+s" {
			m.saveScreenshot()
		}
		return m, nil

	case core.ActionQuit:
		m.quitting = true
		m.closeLink()
		return m, tea.Quit

	case core.ActionBack:
		if m.state.GameOver || m.state.Paused || m.linkNote != "" {
			m.backToMenu = true
			m.closeLink()
		}
		return m, nil

	case core.ActionRestart:
		// the far side would keep playing the old match
		if m.config.Mode == core.ModeOnline {
			return m, nil
		}
	}

	// Terminals never report key releases: a press holds the control for
	// a few ticks and key repeat keeps it held.
	m.latch.Hold(ka.Player, ka.Action)
	return m, nil
}

// handleTick runs one simulation step.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	m.drainRemote()

	result := m.game.Step(m.latch.MultiFrame(m.localPlayers()...))
	m.state = result.State

	for _, cue := range result.Cues {
		m.audio.Play(cue)
	}
	if m.link != nil && m.linkNote == "" {
		for _, u := range result.Outbound {
			m.link.Send(u.Y)
		}
	}

	if m.state.GameOver && !m.reported {
		m.reported = true
		m.log.Info("match over", "winner", m.state.Winner,
			"score", fmt.Sprintf("%d-%d", m.state.Score1, m.state.Score2))
		if r, ok := m.link.(multiplayer.Reporter); ok && m.linkNote == "" {
			r.Report(m.state.Score1, m.state.Score2, m.state.Winner)
		}
	}
	if !m.state.GameOver {
		m.reported = false
	}

	return m, tickCmd(m.config.TickRate)
}

// drainRemote applies every queued opponent paddle position.
func (m *GameModel) drainRemote() {
	for m.updates != nil {
		select {
		case u, ok := <-m.updates:
			if !ok {
				m.updates = nil
				if m.linkNote == "" && !m.state.GameOver {
					m.linkNote = "Opponent left"
				}
				m.log.Info("remote paddle link closed")
				return
			}
			m.game.ApplyRemotePaddle(u.Player, u.Y)
		default:
			return
		}
	}
}

func (m *GameModel) remoteEnded(evt multiplayer.MatchEndedEvent) {
	if m.state.GameOver {
		return
	}
	switch evt.Reason {
	case multiplayer.MatchEndReasonDisconnect, multiplayer.MatchEndReasonLeft:
		m.linkNote = "Opponent disconnected"
	default:
		m.linkNote = "Match ended: " + evt.Reason.String()
	}
}

// localPlayers lists the sides whose input comes from this keyboard.
func (m GameModel) localPlayers() []core.PlayerID {
	switch m.config.Mode {
	case core.ModeLocal:
		return []core.PlayerID{core.Player1, core.Player2}
	case core.ModeOnline:
		return []core.PlayerID{m.config.LocalPlayer}
	default:
		return []core.PlayerID{core.Player1}
	}
}

func (m *GameModel) closeLink() {
	if m.link == nil {
		return
	}
	if err := m.link.Close(); err != nil {
		m.log.Warn("closing paddle link", "err", err)
	}
}

// saveScreenshot writes the current frame as plain text.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("screenshot", "err", err)
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.linkNote != "" {
		mid := m.screen.Height() / 2
		m.screen.DrawTextCentered(mid+2, m.linkNote, core.ColorBanner)
		m.screen.DrawTextCentered(mid+3, "B: menu  Q: quit", core.ColorDim)
	}
	return RenderScreen(m.screen)
}

// State returns the last game state.
func (m GameModel) State() core.GameState {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single match in the terminal until the user quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	p := tea.NewProgram(NewGameModel(game, cfg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
