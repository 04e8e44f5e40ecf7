package relay

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Client is one player's connection to a relay room. It implements
// multiplayer.PaddleLink and multiplayer.Reporter.
type Client struct {
	conn  *websocket.Conn
	start Start
	log   *log.Logger

	send    chan Message
	updates chan core.PaddleUpdate

	done      chan struct{}
	closeOnce sync.Once
	reported  bool
}

// Dial connects to the relay at addr, joins room and waits until an
// opponent arrives or ctx ends.
func Dial(ctx context.Context, addr, room string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("relay: parse address: %w", err)
	}
	q := u.Query()
	q.Set("room", room)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("relay: dial %s: %w", u.Host, err)
	}

	start, err := awaitStart(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("relay match started", "room", start.Room, "side", start.Side)

	c := &Client{
		conn:    conn,
		start:   start,
		log:     logger,
		send:    make(chan Message, sendBuffer),
		updates: make(chan core.PaddleUpdate, sendBuffer),
		done:    make(chan struct{}),
	}
	go c.readPump()
	go c.writePump()
	return c, nil
}

// awaitStart reads until the server announces the match.
func awaitStart(ctx context.Context, conn *websocket.Conn) (Start, error) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return Start{}, fmt.Errorf("relay: waiting for opponent: %w", ctx.Err())
			}
			return Start{}, fmt.Errorf("relay: waiting for opponent: %w", err)
		}
		switch msg.Type {
		case TypeStart:
			return Start{Room: msg.Room, Side: core.PlayerID(msg.Side), Seed: msg.Seed}, nil
		case TypeError:
			return Start{}, fmt.Errorf("relay: join refused: %s", msg.Message)
		}
	}
}

// Start returns the side and seed assigned by the server.
func (c *Client) Start() Start {
	return c.start
}

// Send queues the local paddle position. Dropped when the link is congested.
func (c *Client) Send(y float64) {
	c.enqueue(Message{Type: TypePaddle, Y: y})
}

// Report sends the final score once.
func (c *Client) Report(score1, score2 int, winner core.PlayerID) {
	if c.reported {
		return
	}
	c.reported = true
	c.enqueue(Message{Type: TypeResult, Score1: score1, Score2: score2, Winner: int(winner)})
}

// Updates returns the opponent's paddle positions. Closed when the
// opponent leaves or the connection drops.
func (c *Client) Updates() <-chan core.PaddleUpdate {
	return c.updates
}

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close leaves the room. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// Err reports ErrClosed once the client is closed.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return ErrClosed
	default:
		return nil
	}
}

func (c *Client) enqueue(msg Message) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		close(c.updates)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("relay read failed", "err", err)
			}
			return
		}

		switch msg.Type {
		case TypePaddle:
			c.push(core.PaddleUpdate{Player: core.PlayerID(msg.Player), Y: msg.Y})
		case TypeLeft:
			c.log.Info("opponent left", "room", c.start.Room)
			return
		}
	}
}

// push keeps the freshest positions when the game loop falls behind.
func (c *Client) push(u core.PaddleUpdate) {
	select {
	case c.updates <- u:
		return
	default:
	}
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- u:
	default:
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Warn("relay write failed", "err", err)
				c.Close()
				return
			}
		case <-c.done:
			c.drain()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// drain writes frames queued before Close, so a final result still goes out.
func (c *Client) drain() {
	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}
