package main

import "time"

const (
	MapWidth  = 2000.0
	MapHeight = 2000.0

	TickRate     = 20 // simulation ticks per second
	TickDuration = time.Second / TickRate

	// A stalled tick catches up with at most this much simulated time.
	MaxTickDelta = 4.0 / TickRate

	FoodCount  = 200
	FoodMass   = 1.0
	FoodRadius = 5.0

	PlayerStartMass        = 10.0
	PlayerRadiusMultiplier = 1.5 // radius = multiplier * sqrt(mass)
	PlayerBaseSpeed        = 300.0
	SpeedMassExponent      = 0.5 // speed = base / mass^exponent
	EatMassRatio           = 1.1 // predator mass must be >= ratio * prey mass

	BoostMultiplier = 2.0
	BoostDuration   = 0.5 // seconds

	// Movement closer than this to the target is ignored to avoid jitter.
	MoveEpsilon = 1.0

	SpatialCellSize = MapWidth / 10

	SpawnAttempts = 20

	MaxNameLen = 20
)

// MaxPlayers is a var so tests can lower the admission cap.
var MaxPlayers = 100

// Obstacles are static safe zones players cannot enter. Food may still
// spawn inside them.
var Obstacles = []Rect{
	{400, 400, 200, 200},   // center
	{100, 100, 150, 150},   // top-left
	{1750, 100, 150, 150},  // top-right
	{100, 1750, 150, 150},  // bottom-left
	{1750, 1750, 150, 150}, // bottom-right
}

// FoodColors is the pellet palette; pellets pick one at random.
var FoodColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8",
	"#F7DC6F", "#BB8FCE", "#85C1E2", "#F8B739", "#52C285",
}

// PlayerColors is the avatar palette; a player's color is chosen by
// hashing its identifier so the assignment is stable.
var PlayerColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#e6beff",
}
