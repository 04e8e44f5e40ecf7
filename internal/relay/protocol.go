// Package relay pairs two players in a websocket room and forwards paddle
// positions between them. Each client simulates the match itself from the
// seed handed out when the room fills.
package relay

import (
	"errors"
	"time"

	"github.com/vovakirdan/tui-pong/internal/core"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message types.
const (
	TypeStart  = "start"  // server -> client: room is full, match begins
	TypePaddle = "paddle" // both ways
	TypeResult = "result" // client -> server: final score
	TypeLeft   = "left"   // server -> client: opponent went away
	TypeError  = "error"  // server -> client: join refused
)

// ErrClosed is returned when using a client after its connection went away.
var ErrClosed = errors.New("relay: connection closed")

// Message is the JSON frame exchanged with the relay.
type Message struct {
	Type    string  `json:"type"`
	Room    string  `json:"room,omitempty"`
	Side    int     `json:"side,omitempty"`
	Seed    int64   `json:"seed,omitempty"`
	Player  int     `json:"player,omitempty"`
	Y       float64 `json:"y"`
	Score1  int     `json:"score1,omitempty"`
	Score2  int     `json:"score2,omitempty"`
	Winner  int     `json:"winner,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Start describes a match to one client.
type Start struct {
	Room string
	Side core.PlayerID
	Seed int64
}
