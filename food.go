package main

import "math"

// Food is a static pellet worth FoodMass when eaten
type Food struct {
	ID    string
	X, Y  float64
	Mass  float64
	Color string
}

// ToSnapshot converts to the wire representation. Pellet positions are
// integer-rounded; the few bytes saved add up across 200 pellets per
// snapshot per client.
func (f *Food) ToSnapshot() FoodSnapshot {
	return FoodSnapshot{
		ID:     f.ID,
		X:      math.Round(f.X),
		Y:      math.Round(f.Y),
		Radius: FoodRadius,
		Color:  f.Color,
	}
}
