package main

import "math"

// Rect is a static axis-aligned obstacle. Players are blocked from
// entering; food is not.
type Rect struct {
	X, Y float64
	W, H float64
}

// OverlapsCircle reports whether the circle intersects the rectangle
func (o Rect) OverlapsCircle(x, y, r float64) bool {
	cx := Clamp(x, o.X, o.X+o.W)
	cy := Clamp(y, o.Y, o.Y+o.H)
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy < r*r
}

// ResolveCircle pushes an overlapping circle out so it just touches the
// rectangle boundary, along the axis of minimum penetration. Returns the
// position unchanged when there is no overlap.
func (o Rect) ResolveCircle(x, y, r float64) (float64, float64) {
	cx := Clamp(x, o.X, o.X+o.W)
	cy := Clamp(y, o.Y, o.Y+o.H)
	dx := x - cx
	dy := y - cy
	d2 := dx*dx + dy*dy
	if d2 >= r*r {
		return x, y
	}
	if d2 > 1e-12 {
		// Center outside: push out along the contact normal
		d := math.Sqrt(d2)
		return cx + dx/d*r, cy + dy/d*r
	}
	// Center inside: project to the nearest edge
	left := x - o.X
	right := o.X + o.W - x
	top := y - o.Y
	bottom := o.Y + o.H - y
	min := left
	nx, ny := o.X-r, y
	if right < min {
		min = right
		nx, ny = o.X+o.W+r, y
	}
	if top < min {
		min = top
		nx, ny = x, o.Y-r
	}
	if bottom < min {
		nx, ny = x, o.Y+o.H+r
	}
	return nx, ny
}

// ToSnapshot converts to the wire representation
func (o Rect) ToSnapshot() ObstacleSnapshot {
	return ObstacleSnapshot{X: o.X, Y: o.Y, Width: o.W, Height: o.H}
}
