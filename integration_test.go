package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// ---------- helpers ----------

// startTestServer spins up an httptest.Server around a Hub and returns
// the server, its WebSocket URL, and a cleanup func.
func startTestServer(t *testing.T, db *DB) (*httptest.Server, string, func()) {
	t.Helper()

	hub := NewHub(db)
	go hub.Run()
	go hub.game.Run()

	mux := SetupRoutes(hub, "")
	srv := httptest.NewServer(mux)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	return srv, wsURL, func() {
		srv.Close()
		hub.Shutdown()
	}
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	return conn
}

// sendMsg sends a typed message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	raw, _ := json.Marshal(Envelope{T: msgType, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// readEnvelope reads one message; binary frames are msgpack snapshots.
func readEnvelope(t *testing.T, conn *websocket.Conn) InEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	if msgType == websocket.BinaryMessage {
		return InEnvelope{T: MsgGameState, D: raw}
	}
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return env
}

// waitFor reads until a message of the wanted type arrives.
func waitFor(t *testing.T, conn *websocket.Conn, msgType string) InEnvelope {
	t.Helper()
	for i := 0; i < 100; i++ {
		env := readEnvelope(t, conn)
		if env.T == msgType {
			return env
		}
	}
	t.Fatalf("never received %s", msgType)
	return InEnvelope{}
}

// ---------- tests ----------

func TestHealthEndpoint(t *testing.T) {
	srv, _, cleanup := startTestServer(t, nil)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "healthy" {
		t.Errorf("status = %q", h.Status)
	}
	if h.Food != FoodCount {
		t.Errorf("food = %d, want %d", h.Food, FoodCount)
	}
}

func TestJoinFlow(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t, nil)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	sendMsg(t, conn, MsgJoinGame, JoinMsg{Name: "  Neo  "})

	env := waitFor(t, conn, MsgPlayerJoined)
	var joined PlayerJoinedMsg
	if err := json.Unmarshal(env.D, &joined); err != nil {
		t.Fatalf("decode player_joined: %v", err)
	}
	if joined.PlayerID == "" {
		t.Fatal("empty player id")
	}
	if joined.Player.Name != "Neo" {
		t.Errorf("name = %q, want Neo", joined.Player.Name)
	}
	if joined.Player.Mass != PlayerStartMass {
		t.Errorf("mass = %f", joined.Player.Mass)
	}

	env = waitFor(t, conn, MsgGameState)
	var state GameStateMsg
	if err := json.Unmarshal(env.D, &state); err != nil {
		t.Fatalf("decode game_state: %v", err)
	}
	found := false
	for _, p := range state.Players {
		if p.ID == joined.PlayerID {
			found = true
		}
	}
	if !found {
		t.Error("joined player missing from the snapshot")
	}
	if len(state.Food) != FoodCount {
		t.Errorf("food = %d, want %d", len(state.Food), FoodCount)
	}
	if len(state.Obstacles) != len(Obstacles) {
		t.Errorf("obstacles = %d", len(state.Obstacles))
	}
	if len(state.Leaderboard) != 1 {
		t.Errorf("leaderboard = %v", state.Leaderboard)
	}
}

func TestBinaryCodecSnapshots(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t, nil)
	defer cleanup()

	conn := dialWS(t, wsURL+"?codec=bin")
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("expected a binary frame, got type %d", msgType)
	}
	var state GameStateMsg
	if err := msgpack.Unmarshal(raw, &state); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if len(state.Food) != FoodCount {
		t.Errorf("food = %d, want %d", len(state.Food), FoodCount)
	}
}

func TestAdmissionCapOverTransport(t *testing.T) {
	prev := MaxPlayers
	MaxPlayers = 2
	defer func() { MaxPlayers = prev }()

	srv, wsURL, cleanup := startTestServer(t, nil)
	defer cleanup()

	c1 := dialWS(t, wsURL)
	defer c1.Close()
	c2 := dialWS(t, wsURL)
	defer c2.Close()

	sendMsg(t, c1, MsgJoinGame, JoinMsg{Name: "A"})
	waitFor(t, c1, MsgPlayerJoined)
	sendMsg(t, c2, MsgJoinGame, JoinMsg{Name: "B"})
	waitFor(t, c2, MsgPlayerJoined)

	c3 := dialWS(t, wsURL)
	defer c3.Close()
	sendMsg(t, c3, MsgJoinGame, JoinMsg{Name: "C"})

	// The refused join stays silent: only game_state frames arrive
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		c3.SetReadDeadline(deadline)
		_, raw, err := c3.ReadMessage()
		if err != nil {
			break
		}
		var env InEnvelope
		if json.Unmarshal(raw, &env) == nil && env.T == MsgPlayerJoined {
			t.Fatal("join beyond the cap must not be answered")
		}
	}

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	var h healthResponse
	json.NewDecoder(resp.Body).Decode(&h)
	if h.Players != 2 {
		t.Errorf("players = %d, want 2", h.Players)
	}
}

func TestDisconnectRemovesPlayer(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t, nil)
	defer cleanup()

	c1 := dialWS(t, wsURL)
	defer c1.Close()
	sendMsg(t, c1, MsgJoinGame, JoinMsg{Name: "A"})
	waitFor(t, c1, MsgPlayerJoined)

	c2 := dialWS(t, wsURL)
	sendMsg(t, c2, MsgJoinGame, JoinMsg{Name: "B"})
	waitFor(t, c2, MsgPlayerJoined)
	c2.Close()

	ok := false
	for i := 0; i < 40; i++ {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("GET /health: %v", err)
		}
		var h healthResponse
		json.NewDecoder(resp.Body).Decode(&h)
		resp.Body.Close()
		if h.Players == 1 {
			ok = true
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !ok {
		t.Error("disconnected player was not removed")
	}
}

func TestMalformedCommandsIgnored(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t, nil)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	// Garbage, unknown event, wrong payload type: all silently dropped
	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"warp","d":{}}`))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"player_move","d":{"x":"a","y":[]}}`))

	// The connection survives and still serves snapshots
	waitFor(t, conn, MsgGameState)
}

func TestHighscoresEndpoint(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	now := time.Now()
	db.InsertRuns([]RunRow{
		{PlayerID: "a", Name: "Alice", PeakMass: 250, Cause: "eaten", StartedAt: now, EndedAt: now},
	})

	srv, _, cleanup := startTestServer(t, db)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/highscores")
	if err != nil {
		t.Fatalf("GET /highscores: %v", err)
	}
	defer resp.Body.Close()

	var top []HighscoreEntry
	if err := json.NewDecoder(resp.Body).Decode(&top); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Alice" || top[0].Mass != 250 {
		t.Errorf("unexpected highscores: %v", top)
	}
}
