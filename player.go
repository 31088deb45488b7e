package main

import (
	"math"
	"time"
)

// Player is a live avatar. Radius and speed are derived from mass and
// never stored.
type Player struct {
	ID     string
	ConnID string
	Name   string
	X, Y   float64
	Mass   float64
	Color  string

	TargetX, TargetY float64

	Alive     bool
	BoostLeft float64 // seconds remaining of the active boost window

	// Run bookkeeping for the history store
	SpawnedAt    time.Time
	PeakMass     float64
	FoodEaten    int
	PlayersEaten int
}

// NewPlayer creates an alive player at the given spawn point
func NewPlayer(id, connID, name, color string, x, y float64) *Player {
	return &Player{
		ID:        id,
		ConnID:    connID,
		Name:      name,
		X:         x,
		Y:         y,
		Mass:      PlayerStartMass,
		Color:     color,
		TargetX:   x,
		TargetY:   y,
		Alive:     true,
		SpawnedAt: time.Now(),
		PeakMass:  PlayerStartMass,
	}
}

// Radius derives the rendered radius from mass
func (p *Player) Radius() float64 {
	return PlayerRadiusMultiplier * math.Sqrt(p.Mass)
}

// Speed derives movement speed from mass, before any boost multiplier
func (p *Player) Speed() float64 {
	return PlayerBaseSpeed / math.Pow(p.Mass, SpeedMassExponent)
}

// Grow adds mass and tracks the peak for the run history
func (p *Player) Grow(mass float64) {
	p.Mass += mass
	if p.Mass > p.PeakMass {
		p.PeakMass = p.Mass
	}
}

// TryBoost activates the boost window. It cannot be re-triggered while
// a window is still active.
func (p *Player) TryBoost() bool {
	if p.BoostLeft > 0 {
		return false
	}
	p.BoostLeft = BoostDuration
	return true
}

// ToSnapshot converts to the wire representation
func (p *Player) ToSnapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:     p.ID,
		Name:   p.Name,
		X:      p.X,
		Y:      p.Y,
		Mass:   p.Mass,
		Radius: p.Radius(),
		Color:  p.Color,
	}
}
