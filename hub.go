package main

import "sync"

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub tracks connected clients and bridges them to the single world.
// It owns connection admission; the Game owns everything inside the map.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	game     *Game
	db       *DB
	recorder *RunRecorder

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	accepting  bool
}

// NewHub creates a Hub and its world. db may be nil to disable history.
func NewHub(db *DB) *Hub {
	var recorder *RunRecorder
	if db != nil {
		recorder = NewRunRecorder(db)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		game:       NewGame(recorder),
		db:         db,
		recorder:   recorder,
		ipConns:    make(map[string]int),
		accepting:  true,
	}
}

// CanAccept checks the connection caps for a new upgrade
func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if !h.accepting {
		return false
	}
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

// TrackConnect records an accepted connection
func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
	metricConnections.Set(float64(h.totalConns))
}

// TrackDisconnect records a closed connection
func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
	metricConnections.Set(float64(h.totalConns))
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.events)
			}
			h.mu.Unlock()
			h.game.Enqueue(Command{Kind: cmdDisconnect, ConnID: client.connID})
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown stops accepting connections, runs the final tick, and
// flushes the run recorder.
func (h *Hub) Shutdown() {
	h.connMu.Lock()
	h.accepting = false
	h.connMu.Unlock()

	h.game.Stop()
	if h.recorder != nil {
		h.recorder.Close()
	}
}
