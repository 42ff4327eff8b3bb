package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gnahuy123/liftSim/pkg/building"
	"github.com/gnahuy123/liftSim/pkg/session"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	moveCommand = "move"
)

type message struct {
	Type   string              `json:"type"`
	Data   *building.StateView `json:"data,omitempty"`
	Detail string              `json:"detail,omitempty"`
}

func stateUpdate(state building.StateView) message {
	return message{Type: "state_update", Data: &state}
}

// client is one websocket connection. Writes are serialised because
// broadcasts come from other connections' goroutines.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	// global_tick of the last state written, -1 before the first
	tick int
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, tick: -1}
}

// send writes msg. Two moves may finish in one order and broadcast in the
// other, so a state no newer than the last one written is skipped.
func (c *client) send(msg message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Data != nil {
		tick := msg.Data.Tick()
		if tick <= c.tick {
			return nil
		}
		c.tick = tick
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *client) close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline := time.Now().Add(writeWait)
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	c.conn.Close()
}

// hub tracks the connections watching each session
type hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[string]map[*client]struct{})}
}

func (h *hub) register(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[*client]struct{})
	}
	h.clients[id][c] = struct{}{}
}

func (h *hub) unregister(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[id], c)
	if len(h.clients[id]) == 0 {
		delete(h.clients, id)
	}
}

func (h *hub) members(id string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := make([]*client, 0, len(h.clients[id]))
	for c := range h.clients[id] {
		members = append(members, c)
	}
	return members
}

// broadcast sends msg to every connection of a session. A failed write
// drops that connection; its read loop then exits.
func (h *hub) broadcast(id string, msg message) {
	for _, c := range h.members(id) {
		if err := c.send(msg); err != nil {
			Logger.Debug().Err(err).Str("session", id).Msg("Dropping websocket client")
			h.unregister(id, c)
			c.conn.Close()
		}
	}
}

func (h *hub) closeSession(id, reason string) {
	h.mu.Lock()
	members := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()

	for c := range members {
		c.close(websocket.CloseNormalClosure, reason)
	}
}

func (h *hub) closeAll(reason string) {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[*client]struct{})
	h.mu.Unlock()

	for _, members := range all {
		for c := range members {
			c.close(websocket.CloseGoingAway, reason)
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	state, err := s.sessions.Snapshot(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		Logger.Warn().Err(err).Str("session", id).Msg("Websocket upgrade failed")
		return
	}

	c := newClient(conn)
	s.hub.register(id, c)
	Logger.Info().Str("session", id).Str("remote", r.RemoteAddr).Msg("Websocket connected")

	defer func() {
		s.hub.unregister(id, c)
		conn.Close()
		Logger.Info().Str("session", id).Msg("Websocket disconnected")
	}()

	if err := c.send(stateUpdate(state)); err != nil {
		return
	}

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				Logger.Warn().Err(err).Str("session", id).Msg("Websocket read failed")
			}
			return
		}
		if kind != websocket.TextMessage || string(data) != moveCommand {
			continue
		}

		state, err := s.sessions.Tick(id)
		if errors.Is(err, session.ErrUnknownSession) {
			c.close(websocket.ClosePolicyViolation, "Session invalid")
			return
		}
		if err != nil {
			if err := c.send(message{Type: "error", Detail: err.Error()}); err != nil {
				Logger.Debug().Err(err).Str("session", id).Msg("Websocket error reply failed")
				return
			}
			continue
		}
		s.hub.broadcast(id, stateUpdate(state))
	}
}
