package main

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const commandQueueSize = 1024

// Sender is the outbound half of a connection. The simulation goroutine
// only ever enqueues; it never blocks on the network.
type Sender interface {
	SendEvent(event string, data interface{})
	SendState(jsonData, binData []byte)
	WantsBinary() bool
}

// Game owns the world. All state mutation happens on the goroutine
// running Run; everything else talks to it through the command queue.
type Game struct {
	mu       sync.RWMutex
	store    *EntityStore
	registry *Registry
	clients  map[string]Sender // connID -> client
	commands chan Command

	tick    uint64
	running bool
	stop    chan struct{}
	done    chan struct{}

	deaths   []string    // player ids eaten this tick
	queryBuf []EntityRef // reused broad-phase buffer
	cursor   string      // entity the step loop is currently on

	recorder *RunRecorder
}

// NewGame creates a world with the full food population spawned. The
// recorder may be nil.
func NewGame(recorder *RunRecorder) *Game {
	return &Game{
		store:    NewEntityStore(Obstacles),
		registry: NewRegistry(),
		clients:  make(map[string]Sender),
		commands: make(chan Command, commandQueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		recorder: recorder,
	}
}

// Run drives the world at TickRate. Δt is measured from a monotonic
// clock and capped so a stalled process catches up with at most one
// oversized tick instead of fast-forwarding.
func (g *Game) Run() {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return
	}
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(last).Seconds()
			last = now
			if dt > MaxTickDelta {
				dt = MaxTickDelta
			}
			g.update(dt)
		case <-g.stop:
			// Final tick drains pending commands and events before the
			// outbound queues go away.
			g.update(TickDuration.Seconds())
			g.flushRuns("shutdown")
			close(g.done)
			return
		}
	}
}

// Stop terminates the loop after one final tick and waits for it
func (g *Game) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	g.mu.Unlock()
	close(g.stop)
	<-g.done
}

// Enqueue hands a command to the simulation goroutine. Dropping on a
// full queue is safe: the client's next input supersedes the lost one.
func (g *Game) Enqueue(cmd Command) {
	select {
	case g.commands <- cmd:
	default:
		log.Printf("command queue full, dropping kind=%d from %s", cmd.Kind, cmd.ConnID)
		metricCommandsRejected.Inc()
	}
}

// update runs one tick: commands first, then simulation, then broadcast
func (g *Game) update(dt float64) {
	start := time.Now()

	g.mu.Lock()
	g.tick++
	g.drainCommands()
	g.step(dt)
	for _, pid := range g.deaths {
		g.broadcastEvent(MsgPlayerDied, PlayerDiedMsg{PlayerID: pid})
	}
	g.deaths = g.deaths[:0]
	g.broadcastState()
	players := len(g.store.players)
	food := len(g.store.food)
	g.mu.Unlock()

	metricPlayers.Set(float64(players))
	metricFood.Set(float64(food))
	metricTickDuration.Observe(time.Since(start).Seconds())
}

func (g *Game) drainCommands() {
	for {
		select {
		case cmd := <-g.commands:
			g.apply(cmd)
		default:
			return
		}
	}
}

func (g *Game) apply(cmd Command) {
	switch cmd.Kind {
	case cmdConnect:
		g.clients[cmd.ConnID] = cmd.Sender
		g.registry.OnConnect(cmd.ConnID)

	case cmdDisconnect:
		// The socket is already gone: remove the player immediately,
		// no player_died event.
		if pid, ok := g.registry.OnDisconnect(cmd.ConnID); ok {
			if p, exists := g.store.players[pid]; exists {
				g.recordRun(p, "disconnect")
				g.store.RemovePlayer(pid)
			}
		}
		delete(g.clients, cmd.ConnID)

	case cmdJoin, cmdRespawn:
		g.join(cmd)

	case cmdMove:
		pid, ok := g.registry.PlayerFor(cmd.ConnID)
		if !ok {
			return
		}
		if p, exists := g.store.players[pid]; exists {
			p.TargetX = Clamp(cmd.X, 0, MapWidth)
			p.TargetY = Clamp(cmd.Y, 0, MapHeight)
		}

	case cmdBoost:
		pid, ok := g.registry.PlayerFor(cmd.ConnID)
		if !ok {
			return
		}
		if p, exists := g.store.players[pid]; exists {
			p.TryBoost()
		}
	}
}

// join handles both join_game and respawn: same admission, same spawn.
func (g *Game) join(cmd Command) {
	if _, alive := g.registry.PlayerFor(cmd.ConnID); alive {
		return // connection already owns an alive player
	}
	if len(g.store.players) >= MaxPlayers {
		log.Printf("join refused for %s: %d players", cmd.ConnID, len(g.store.players))
		metricCommandsRejected.Inc()
		return
	}

	pid := g.registry.Bind(cmd.ConnID)
	x, y := SpawnPosition(g.store)
	p := NewPlayer(pid, cmd.ConnID, SanitizeName(cmd.Name), ColorFor(pid), x, y)
	g.store.AddPlayer(p)

	if c, ok := g.clients[cmd.ConnID]; ok {
		c.SendEvent(MsgPlayerJoined, PlayerJoinedMsg{PlayerID: pid, Player: p.ToSnapshot()})
	}
}

// broadcastState fans the tick snapshot out to every connected client.
// It is encoded at most twice: once as JSON, once as msgpack if any
// client negotiated the binary codec.
func (g *Game) broadcastState() {
	snap := g.buildSnapshot()

	jsonData, err := json.Marshal(Envelope{T: MsgGameState, Data: snap})
	if err != nil {
		log.Printf("snapshot marshal: %v", err)
		return
	}

	var binData []byte
	for _, c := range g.clients {
		if c.WantsBinary() {
			if binData, err = msgpack.Marshal(&snap); err != nil {
				log.Printf("snapshot msgpack marshal: %v", err)
				binData = nil
			}
			break
		}
	}

	for _, c := range g.clients {
		c.SendState(jsonData, binData)
	}
}

// broadcastEvent sends a one-shot event to every connected client
func (g *Game) broadcastEvent(event string, data interface{}) {
	for _, c := range g.clients {
		c.SendEvent(event, data)
	}
}

func (g *Game) recordRun(p *Player, cause string) {
	if g.recorder == nil {
		return
	}
	g.recorder.Record(RunRow{
		PlayerID:     p.ID,
		Name:         p.Name,
		PeakMass:     p.PeakMass,
		FoodEaten:    p.FoodEaten,
		PlayersEaten: p.PlayersEaten,
		Cause:        cause,
		StartedAt:    p.SpawnedAt,
		EndedAt:      time.Now(),
	})
}

// flushRuns records every remaining player, used at shutdown
func (g *Game) flushRuns(cause string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range g.store.SortedPlayerIDs() {
		g.recordRun(g.store.players[id], cause)
	}
}

// Counts returns alive player and food counts for the health endpoint
func (g *Game) Counts() (players, food int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.store.players), len(g.store.food)
}

// PlayerCount returns the number of alive players
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.store.players)
}
