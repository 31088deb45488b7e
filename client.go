package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	eventBufSize      = 64
	snapshotBufSize   = 5 // outstanding snapshots before the oldest is dropped
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection. ReadPump and WritePump are
// the only goroutines touching the socket; the simulation reaches the
// client solely through the events and snapshots queues.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	connID     string
	remoteAddr string
	binary     bool // msgpack snapshots, negotiated at upgrade

	events    chan []byte // one-shot events, always JSON
	snapshots chan []byte // per-tick state, oldest dropped on overflow

	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client with a fresh connection id
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr, connID string, binary bool) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		connID:     connID,
		remoteAddr: remoteAddr,
		binary:     binary,
		events:     make(chan []byte, eventBufSize),
		snapshots:  make(chan []byte, snapshotBufSize),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		// Compact move frames: 6 bytes [0x01, x_hi, x_lo, y_hi, y_lo, flags]
		if msgType == websocket.BinaryMessage {
			c.handleBinaryMove(message)
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case state := <-c.snapshots:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			frameType := websocket.TextMessage
			if c.binary {
				frameType = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(frameType, state); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent marshals a one-shot event to the client. Full queues drop
// the event; the connection is too slow to care.
func (c *Client) SendEvent(event string, data interface{}) {
	raw, err := json.Marshal(Envelope{T: event, Data: data})
	if err != nil {
		log.Printf("marshal %s: %v", event, err)
		return
	}
	defer func() { recover() }()
	select {
	case c.events <- raw:
	default:
	}
}

// SendState queues the tick snapshot. Snapshots are absolute state, so
// when the queue is full the oldest is dropped, never the newest.
func (c *Client) SendState(jsonData, binData []byte) {
	data := jsonData
	if c.binary && binData != nil {
		data = binData
	}
	defer func() { recover() }()
	for {
		select {
		case c.snapshots <- data:
			return
		default:
			select {
			case <-c.snapshots:
				metricSnapshotsDropped.Inc()
			default:
			}
		}
	}
}

// WantsBinary reports whether the client negotiated msgpack snapshots
func (c *Client) WantsBinary() bool {
	return c.binary
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal from %s: %v", c.remoteAddr, err)
		metricCommandsRejected.Inc()
		return
	}

	switch env.T {
	case MsgJoinGame:
		c.handleJoin(env.D, cmdJoin)
	case MsgRespawn:
		c.handleJoin(env.D, cmdRespawn)
	case MsgPlayerMove:
		c.handleMove(env.D)
	case MsgPlayerBoost:
		c.hub.game.Enqueue(Command{Kind: cmdBoost, ConnID: c.connID})
	case MsgHighscores:
		c.handleHighscores()
	default:
		metricCommandsRejected.Inc()
	}
}

func (c *Client) handleJoin(data json.RawMessage, kind commandKind) {
	var msg JoinMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			metricCommandsRejected.Inc()
			return
		}
	}
	c.hub.game.Enqueue(Command{Kind: kind, ConnID: c.connID, Name: msg.Name})
}

func (c *Client) handleMove(data json.RawMessage) {
	var msg MoveMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		metricCommandsRejected.Inc()
		return
	}
	if !validMoveTarget(msg.X, msg.Y) {
		metricCommandsRejected.Inc()
		return
	}
	c.hub.game.Enqueue(Command{Kind: cmdMove, ConnID: c.connID, X: msg.X, Y: msg.Y})
}

// handleBinaryMove decodes the compact 6-byte move frame. Coordinates
// are uint16 world pixels; flag bit 0 requests a boost.
func (c *Client) handleBinaryMove(msg []byte) {
	if len(msg) != 6 || msg[0] != 0x01 {
		metricCommandsRejected.Inc()
		return
	}
	x := float64(uint16(msg[1])<<8 | uint16(msg[2]))
	y := float64(uint16(msg[3])<<8 | uint16(msg[4]))
	c.hub.game.Enqueue(Command{Kind: cmdMove, ConnID: c.connID, X: x, Y: y})
	if msg[5]&0x01 != 0 {
		c.hub.game.Enqueue(Command{Kind: cmdBoost, ConnID: c.connID})
	}
}

// handleHighscores reads the history store directly; it never touches
// world state, so it does not go through the command queue.
func (c *Client) handleHighscores() {
	if c.hub.db == nil {
		c.SendEvent(MsgHighscoreList, []HighscoreEntry{})
		return
	}
	top, err := c.hub.db.TopRuns(leaderboardSize)
	if err != nil {
		log.Printf("highscores query: %v", err)
		return
	}
	c.SendEvent(MsgHighscoreList, top)
}
