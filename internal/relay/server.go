package relay

import (
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Server is an http.Handler that pairs clients by room name.
// Connect with ws://host/path?room=NAME.
type Server struct {
	upgrader websocket.Upgrader
	log      *log.Logger

	mu    sync.Mutex
	rooms map[string]*room
}

type room struct {
	name  string
	peers [2]*peer
}

type peer struct {
	conn *websocket.Conn
	side core.PlayerID
	room *room
	send chan Message

	done      chan struct{}
	closeOnce sync.Once
}

// NewServer creates a relay. A nil logger discards output.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log:   logger,
		rooms: make(map[string]*room),
	}
}

// RoomCount returns the number of open rooms.
func (s *Server) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// ServeHTTP upgrades the request and runs the peer until it disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("room")))
	if name == "" {
		http.Error(w, "room is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	p := &peer{
		conn: conn,
		send: make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}
	go p.writePump()

	rm, ok := s.join(name, p)
	if !ok {
		p.enqueue(Message{Type: TypeError, Message: "room full"})
		p.close()
		return
	}
	s.log.Info("peer joined", "room", name, "side", p.side, "remote", r.RemoteAddr)

	if rm.peers[0] != nil && rm.peers[1] != nil {
		s.start(rm)
	}

	s.readPump(p)
}

// join seats p in the named room, creating it if needed.
func (s *Server) join(name string, p *peer) (*room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, exists := s.rooms[name]
	if !exists {
		rm = &room{name: name}
		s.rooms[name] = rm
	}
	for i := range rm.peers {
		if rm.peers[i] == nil {
			rm.peers[i] = p
			p.side = core.PlayerID(i + 1)
			p.room = rm
			return rm, true
		}
	}
	return nil, false
}

func (s *Server) start(rm *room) {
	seed := rand.Int64N(1<<62) + 1
	s.mu.Lock()
	peers := rm.peers
	s.mu.Unlock()

	for _, p := range peers {
		if p != nil {
			p.enqueue(Message{Type: TypeStart, Room: rm.name, Side: int(p.side), Seed: seed})
		}
	}
	s.log.Info("match started", "room", rm.name, "seed", seed)
}

// opponent returns the other peer in p's room, if any.
func (s *Server) opponent(p *peer) *peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.room == nil {
		return nil
	}
	return p.room.peers[2-int(p.side)]
}

// leave frees p's seat, closes the room when empty and tells the opponent.
func (s *Server) leave(p *peer) {
	s.mu.Lock()
	rm := p.room
	var other *peer
	if rm != nil {
		rm.peers[int(p.side)-1] = nil
		other = rm.peers[2-int(p.side)]
		if other == nil {
			delete(s.rooms, rm.name)
		}
		p.room = nil
	}
	s.mu.Unlock()

	if other != nil {
		other.enqueue(Message{Type: TypeLeft})
	}
	if rm != nil {
		s.log.Info("peer left", "room", rm.name, "side", p.side)
	}
}

func (s *Server) readPump(p *peer) {
	defer func() {
		s.leave(p)
		p.close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("read failed", "side", p.side, "err", err)
			}
			return
		}

		switch msg.Type {
		case TypePaddle:
			if other := s.opponent(p); other != nil {
				other.enqueue(Message{Type: TypePaddle, Player: int(p.side), Y: msg.Y})
			}
		case TypeResult:
			s.log.Info("match result", "side", p.side,
				"score1", msg.Score1, "score2", msg.Score2, "winner", core.PlayerID(msg.Winner))
		default:
			s.log.Debug("unknown message", "type", msg.Type)
		}
	}
}

// enqueue queues a frame for the peer, dropping it when the peer is slow.
func (p *peer) enqueue(msg Message) {
	select {
	case <-p.done:
	case p.send <- msg:
	default:
	}
}

func (p *peer) close() {
	p.closeOnce.Do(func() { close(p.done) })
}

func (p *peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-p.done:
			p.flush()
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes frames still queued when the peer closes, such as a join error.
func (p *peer) flush() {
	for {
		select {
		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}
