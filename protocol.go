package main

import "encoding/json"

// Client -> Server event names
const (
	MsgJoinGame    = "join_game"
	MsgRespawn     = "respawn"
	MsgPlayerMove  = "player_move"
	MsgPlayerBoost = "player_boost"
	MsgHighscores  = "highscores"
)

// Server -> Client event names
const (
	MsgPlayerJoined  = "player_joined"
	MsgGameState     = "game_state"
	MsgPlayerDied    = "player_died"
	MsgHighscoreList = "highscore_list"
)

// Envelope wraps all outgoing messages with an event name
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids
// double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg carries the requested display name for join_game and respawn
type JoinMsg struct {
	Name string `json:"name"`
}

// MoveMsg carries the movement target in world coordinates
type MoveMsg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerSnapshot is the per-player wire state
type PlayerSnapshot struct {
	ID     string  `json:"id" msgpack:"id"`
	Name   string  `json:"name" msgpack:"name"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Mass   float64 `json:"mass" msgpack:"mass"`
	Radius float64 `json:"radius" msgpack:"radius"`
	Color  string  `json:"color" msgpack:"color"`
}

// FoodSnapshot is the per-pellet wire state
type FoodSnapshot struct {
	ID     string  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"radius" msgpack:"radius"`
	Color  string  `json:"color" msgpack:"color"`
}

// ObstacleSnapshot is the per-obstacle wire state
type ObstacleSnapshot struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// LeaderEntry is one leaderboard row
type LeaderEntry struct {
	Name string  `json:"name" msgpack:"name"`
	Mass float64 `json:"mass" msgpack:"mass"`
}

// GameStateMsg is the full world snapshot broadcast once per tick
type GameStateMsg struct {
	Players     []PlayerSnapshot   `json:"players" msgpack:"players"`
	Food        []FoodSnapshot     `json:"food" msgpack:"food"`
	Obstacles   []ObstacleSnapshot `json:"obstacles" msgpack:"obstacles"`
	Leaderboard []LeaderEntry      `json:"leaderboard" msgpack:"leaderboard"`
}

// PlayerJoinedMsg is sent to the joining client only
type PlayerJoinedMsg struct {
	PlayerID string         `json:"playerId"`
	Player   PlayerSnapshot `json:"player"`
}

// PlayerDiedMsg is broadcast when a player is eaten
type PlayerDiedMsg struct {
	PlayerID string `json:"playerId"`
}

// HighscoreEntry is one all-time top-run row
type HighscoreEntry struct {
	Name string  `json:"name"`
	Mass float64 `json:"mass"`
	At   string  `json:"at"`
}
