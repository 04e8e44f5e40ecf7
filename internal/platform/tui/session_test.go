package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	_ "github.com/vovakirdan/tui-pong/internal/games/pong"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

func updateSession(t *testing.T, m SessionModel, msgs ...tea.Msg) SessionModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update() returned %T, expected SessionModel", next)
		}
		m = sm
	}
	return m
}

// pumpEvents feeds coordinator events to m until done reports true.
func pumpEvents(t *testing.T, m SessionModel, done func(SessionModel) bool) SessionModel {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for !done(m) {
		select {
		case evt := <-m.opts.Session.Events():
			m = updateSession(t, m, evt)
		case <-timeout:
			t.Fatal("timed out waiting for coordinator events")
		}
	}
	return m
}

func TestSessionModelStartsLocalGame(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	m := NewSessionModel(SessionOptions{
		Config:  config.DefaultPongConfig(),
		Runtime: core.DefaultConfig(),
		Store:   store,
		User:    "alice",
	})
	if m.Init() != nil {
		t.Error("Init() returned a command without online play")
	}

	// table tennis, then start
	m = updateSession(t, m, keyRight, keyEnter)
	if m.view != viewGame || m.game == nil {
		t.Fatalf("view = %v, expected the game", m.view)
	}
	if got := m.game.config.Variant; got != core.VariantTable {
		t.Errorf("game variant = %v, expected %v", got, core.VariantTable)
	}

	prefs, found, err := store.LoadPreferences("alice")
	if err != nil || !found {
		t.Fatalf("LoadPreferences() = %v, %v, expected saved preferences", found, err)
	}
	if prefs.Variant != core.VariantTable {
		t.Errorf("saved variant = %v, expected %v", prefs.Variant, core.VariantTable)
	}

	// pause, then back to the menu
	m = updateSession(t, m, runeKey('p'), TickMsg{}, runeKey('b'))
	if m.view != viewSetup {
		t.Errorf("view = %v after back, expected the setup menu", m.view)
	}
	if m.setup.Preferences().Variant != core.VariantTable {
		t.Error("setup menu forgot the chosen variant")
	}
}

func TestSessionModelOnlineMatch(t *testing.T) {
	reg := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), reg)
	coord.Start()
	t.Cleanup(coord.Stop)

	newPlayer := func(user string) SessionModel {
		session := multiplayer.NewChannelSession(multiplayer.NewSessionID(user), 16)
		reg.Register(session)
		t.Cleanup(session.Close)
		return NewSessionModel(SessionOptions{
			Config:      config.DefaultPongConfig(),
			Runtime:     core.DefaultConfig(),
			User:        user,
			Coordinator: coord,
			Session:     session,
		})
	}

	// online is the last mode, one step left of computer
	host := updateSession(t, newPlayer("host"), keyDown, keyLeft, keyEnter)
	if host.view != viewLobby {
		t.Fatalf("host view = %v, expected the lobby", host.view)
	}
	host = updateSession(t, host, runeKey('h'))
	host = pumpEvents(t, host, func(m SessionModel) bool { return m.lobby.LobbyCode() != "" })

	joiner := updateSession(t, newPlayer("joiner"), keyDown, keyLeft, keyEnter, runeKey('j'))
	for _, r := range host.lobby.LobbyCode() {
		joiner = updateSession(t, joiner, runeKey(r))
	}
	joiner = updateSession(t, joiner, keyEnter)

	inGame := func(m SessionModel) bool { return m.view == viewGame }
	host = pumpEvents(t, host, inGame)
	joiner = pumpEvents(t, joiner, inGame)

	hc, jc := host.game.config, joiner.game.config
	if hc.LocalPlayer != core.Player1 || jc.LocalPlayer != core.Player2 {
		t.Errorf("sides = %v/%v, expected P1/P2", hc.LocalPlayer, jc.LocalPlayer)
	}
	if hc.Seed != jc.Seed {
		t.Errorf("seeds differ: %d vs %d", hc.Seed, jc.Seed)
	}
	if hc.Mode != core.ModeOnline || jc.Mode != core.ModeOnline {
		t.Errorf("modes = %v/%v, expected online", hc.Mode, jc.Mode)
	}

	// host quits; joiner learns the match is over
	host = updateSession(t, host, runeKey('q'))
	if !host.quitting {
		t.Error("host did not quit")
	}
	pumpEvents(t, joiner, func(m SessionModel) bool { return m.game.linkNote != "" })
}
