package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
)

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateInMatch                          // Match has started
)

// OnlineLobbyModel handles the online matchmaking flow. Coordinator events
// are delivered by the owning model through Update.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	gameID      string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	side  core.PlayerID
	match multiplayer.MatchInfo

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	gameID string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		gameID:      gameID,
		sessionID:   sessionID,
		coordinator: coordinator,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			// expired lobby
			m.state = OnlineStateChooseMode
			m.lobbyCode = ""
		}
	case multiplayer.LobbyPlayerLeftEvent:
		// Joiner left; keep waiting on the same code
	case multiplayer.MatchStartedEvent:
		m.match = msg.MatchInfo
		m.side = msg.Side
		m.state = OnlineStateInMatch
	case multiplayer.MatchEndedEvent:
		if msg.Reason == multiplayer.MatchEndReasonHostLeft {
			m.joinError = "Host closed the lobby"
			m.state = OnlineStateJoinEnterCode
		}
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting, OnlineStateJoinWaiting:
		return m.handleWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	}
	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.joinError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		wasHost := m.state == OnlineStateHostWaiting
		m.leave()
		if wasHost {
			m.state = OnlineStateChooseMode
		} else {
			m.state = OnlineStateJoinEnterCode
		}
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		m.joinError = ""
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Join codes are base32: A-Z and 2-7
		if len(key) == 1 && len(m.joinCodeInput) < 6 {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
				m.joinCodeInput += string(c)
			}
		}
	}
	return m, nil
}

// leave withdraws from whatever lobby this session is waiting in.
func (m *OnlineLobbyModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
		m.lobbyCode = ""
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	}
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	switch m.state {
	case OnlineStateChooseMode:
		lines = []string{
			"ONLINE " + strings.ToUpper(m.gameTitle()), "",
			"Choose an option:", "",
			"[H] Host a game",
			"[J] Join a game", "",
			"Esc: Back  |  Q: Quit",
		}
	case OnlineStateHostWaiting:
		lines = []string{
			"HOSTING GAME", "",
			"Share this code with your opponent:", "",
			fmt.Sprintf("[ %s ]", m.lobbyCode), "",
			"Waiting for player to join...", "",
			"Esc: Cancel  |  Q: Quit",
		}
	case OnlineStateJoinEnterCode:
		code := m.joinCodeInput
		if len(code) < 6 {
			code += "_" + strings.Repeat(" ", 5-len(m.joinCodeInput))
		}
		lines = []string{
			"JOIN GAME", "",
			"Enter the game code:", "",
			fmt.Sprintf("[ %s ]", code), "",
			"Enter: Connect  |  Esc: Back",
		}
	case OnlineStateJoinWaiting:
		lines = []string{
			"CONNECTING", "",
			fmt.Sprintf("Joining game: %s", m.joinCodeInput), "",
			"Please wait...", "",
			"Esc: Cancel",
		}
	case OnlineStateInMatch:
		side := "LEFT (P1)"
		if m.side == core.Player2 {
			side = "RIGHT (P2)"
		}
		lines = []string{"MATCH STARTING", "", "You are: " + side}
	}
	if m.joinError != "" {
		lines = append(lines, "", "Error: "+m.joinError)
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnlineLobbyModel) gameTitle() string {
	if m.gameID == core.VariantTable.GameID() {
		return "table tennis"
	}
	return "pong"
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// Match returns the started match, valid once State is OnlineStateInMatch.
func (m OnlineLobbyModel) Match() multiplayer.MatchInfo {
	return m.match
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}
