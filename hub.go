package main

import (
	"encoding/json"
	"sync"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// hubEvent is a connect or disconnect. Both travel on one channel so a
// disconnect is never handled before the connect it follows.
type hubEvent struct {
	client *Client
	leave  bool
}

// Hub manages all connected clients and fans server events out to them.
// It never holds mu while calling into the Game.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	lifecycle  chan hubEvent
	game       *Game
	auth       *AdminAuth
	analytics  *Analytics
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a Hub. The game must be attached with SetGame before Run.
func NewHub(auth *AdminAuth, analytics *Analytics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		lifecycle:  make(chan hubEvent, 128),
		auth:       auth,
		analytics:  analytics,
		ipConns:    make(map[string]int),
	}
}

func (h *Hub) SetGame(g *Game) { h.game = g }

// Game returns the attached game and panics if SetGame was never called
func (h *Hub) Game() *Game {
	if h.game == nil {
		panic("hub: game not set")
	}
	return h.game
}

// Auth returns the admin gate and panics if none was configured
func (h *Hub) Auth() *AdminAuth {
	if h.auth == nil {
		panic("hub: admin auth not set")
	}
	return h.auth
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Register queues a freshly upgraded connection
func (h *Hub) Register(c *Client) { h.lifecycle <- hubEvent{client: c} }

// Unregister queues a closed connection
func (h *Hub) Unregister(c *Client) { h.lifecycle <- hubEvent{client: c, leave: true} }

// Run processes connect/disconnect events in arrival order
func (h *Hub) Run() {
	game := h.Game()
	for ev := range h.lifecycle {
		client := ev.client
		if !ev.leave {
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			game.Join(client)
			continue
		}

		h.mu.Lock()
		_, ok := h.clients[client]
		if ok {
			delete(h.clients, client)
			close(client.send)
		}
		h.mu.Unlock()
		if ok {
			game.Leave(client.ID())
		}
	}
}

// Broadcast encodes evt once per encoding and queues it on every client.
// State frames go out as msgpack to clients that asked for binary.
func (h *Hub) Broadcast(evt GameEvent) {
	data, err := json.Marshal(toEnvelope(evt))
	if err != nil {
		logger.WithError(err).WithField("event", evt.Type()).Error("marshal event")
		return
	}
	var bin []byte
	if evt.Type() == MsgGameState {
		if bin, err = encodeMsgpack(evt.Serialize()); err != nil {
			logger.WithError(err).Error("msgpack encode state")
			bin = nil
		}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.binary && bin != nil {
			c.SendBinary(bin)
			continue
		}
		c.SendRaw(data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
