package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pong/internal/audio"
	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
	"github.com/vovakirdan/tui-pong/internal/registry"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Config  config.PongConfig
	Runtime core.RuntimeConfig
	Store   *storage.Store // nil keeps preferences in memory only
	User    string
	Audio   audio.Player
	Logger  *log.Logger

	// Online play is offered only when both are set.
	Coordinator *multiplayer.Coordinator
	Session     *multiplayer.ChannelSession
}

type sessionView int

const (
	viewSetup sessionView = iota
	viewLobby
	viewGame
)

// SessionModel manages the full flow: setup menu -> (lobby) -> game -> menu.
type SessionModel struct {
	opts    SessionOptions
	runtime core.RuntimeConfig
	prefs   storage.Preferences

	view  sessionView
	setup SetupModel
	lobby OnlineLobbyModel
	game  *GameModel

	quitting bool
}

// NewSessionModel creates a session starting at the setup menu with the
// user's saved preferences.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.User == "" {
		opts.User = storage.DefaultUser
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}

	prefs := storage.DefaultPreferences(opts.User)
	if opts.Store != nil {
		loaded, _, err := opts.Store.LoadPreferences(opts.User)
		if err != nil {
			opts.Logger.Warn("loading preferences", "user", opts.User, "err", err)
		} else {
			prefs = loaded
		}
	}

	m := SessionModel{
		opts:    opts,
		runtime: opts.Runtime,
		prefs:   prefs,
	}
	m.setup = NewSetupModel(prefs, m.online(), m.runtime.ScreenW, m.runtime.ScreenH)
	return m
}

func (m SessionModel) online() bool {
	return m.opts.Coordinator != nil && m.opts.Session != nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for the next coordinator event.
func (m SessionModel) waitForEvent() tea.Cmd {
	if !m.online() {
		return nil
	}
	events := m.opts.Session.Events()
	done := m.opts.Session.Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return evt
		case <-done:
			return nil
		}
	}
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
	case multiplayer.SessionEvent:
		model, cmd := m.handleSessionEvent(msg)
		return model, tea.Batch(cmd, m.waitForEvent())
	}

	switch m.view {
	case viewLobby:
		return m.updateLobby(msg)
	case viewGame:
		return m.updateGame(msg)
	default:
		return m.updateSetup(msg)
	}
}

func (m SessionModel) handleSessionEvent(evt multiplayer.SessionEvent) (SessionModel, tea.Cmd) {
	switch m.view {
	case viewLobby:
		return m.updateLobby(evt)
	case viewGame:
		return m.updateGame(evt)
	}
	return m, nil
}

func (m SessionModel) updateSetup(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.setup.Update(msg)
	if s, ok := next.(SetupModel); ok {
		m.setup = s
	}

	if m.setup.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if !m.setup.Started() {
		return m, cmd
	}

	m.prefs = m.setup.Preferences()
	m.savePreferences()

	if m.prefs.Mode == core.ModeOnline {
		m.lobby = NewOnlineLobbyModel(m.prefs.Variant.GameID(), m.opts.Session.ID(),
			m.opts.Coordinator, m.runtime.ScreenW, m.runtime.ScreenH)
		m.view = viewLobby
		return m, m.lobby.Init()
	}

	rc := m.prefs.Apply(m.runtime)
	rc.LocalPlayer = core.Player1
	return m.startGame(rc, nil)
}

func (m SessionModel) updateLobby(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	if l, ok := next.(OnlineLobbyModel); ok {
		m.lobby = l
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.BackToMenu():
		return m.backToSetup(), nil
	case m.lobby.State() == OnlineStateInMatch:
		info := m.lobby.Match()
		variant, err := core.ParseVariant(info.GameID)
		if err != nil {
			m.opts.Logger.Warn("match for unknown game", "game", info.GameID)
			variant = m.prefs.Variant
		}
		rc := m.runtime
		rc.Variant = variant
		rc.Mode = core.ModeOnline
		rc.LocalPlayer = info.Side
		rc.Seed = info.Seed
		link := multiplayer.NewSessionLink(m.opts.Coordinator, m.opts.Session, info)
		m.opts.Logger.Info("online match", "match", info.MatchID, "side", info.Side, "game", info.GameID)
		return m.startGame(rc, link)
	}
	return m, cmd
}

func (m SessionModel) startGame(rc core.RuntimeConfig, link multiplayer.PaddleLink) (SessionModel, tea.Cmd) {
	game, err := registry.Create(rc.Variant.GameID(), m.opts.Config)
	if err != nil {
		m.opts.Logger.Error("creating game", "err", err)
		if link != nil {
			link.Close()
		}
		m = m.backToSetup()
		m.setup = m.setup.WithError(err.Error())
		return m, nil
	}

	gm := NewGameModel(game, rc, GameOptions{
		HoldTicks: m.opts.Config.Controls.HoldTicks,
		Audio:     m.opts.Audio,
		Link:      link,
		Logger:    m.opts.Logger,
	})
	m.game = &gm
	m.view = viewGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if g, ok := next.(GameModel); ok {
		m.game = &g
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToSetup(), nil
	}
	return m, cmd
}

func (m SessionModel) backToSetup() SessionModel {
	m.game = nil
	m.view = viewSetup
	m.setup = NewSetupModel(m.prefs, m.online(), m.runtime.ScreenW, m.runtime.ScreenH)
	return m
}

func (m SessionModel) savePreferences() {
	if m.opts.Store == nil {
		return
	}
	if err := m.opts.Store.SavePreferences(m.prefs); err != nil {
		m.opts.Logger.Warn("saving preferences", "user", m.opts.User, "err", err)
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewLobby:
		return m.lobby.View()
	case viewGame:
		if m.game != nil {
			return m.game.View()
		}
	}
	return m.setup.View()
}

// RunSession runs the interactive session in the local terminal.
func RunSession(opts SessionOptions) error {
	p := tea.NewProgram(NewSessionModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
