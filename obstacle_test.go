package main

import (
	"math"
	"testing"
)

func TestResolveCircleNoOverlap(t *testing.T) {
	o := Rect{400, 400, 200, 200}
	x, y := o.ResolveCircle(300, 500, 10)
	if x != 300 || y != 500 {
		t.Errorf("non-overlapping circle moved to (%f,%f)", x, y)
	}
}

func TestResolveCircleEdgeContact(t *testing.T) {
	o := Rect{400, 400, 200, 200}

	// Overlapping the left edge: pushed out until flush
	x, y := o.ResolveCircle(398, 500, 10)
	if math.Abs(x+10-400) > 1e-9 {
		t.Errorf("expected x+r == 400, got x=%f", x)
	}
	if y != 500 {
		t.Errorf("y should be unchanged, got %f", y)
	}
}

func TestResolveCircleCenterInside(t *testing.T) {
	o := Rect{400, 400, 200, 200}

	// Center just inside the left edge: minimum penetration is left
	x, y := o.ResolveCircle(405, 500, 10)
	if math.Abs(x-390) > 1e-9 || y != 500 {
		t.Errorf("expected (390,500), got (%f,%f)", x, y)
	}

	// Center near the bottom edge: pushed down
	x, y = o.ResolveCircle(500, 595, 10)
	if math.Abs(y-610) > 1e-9 || x != 500 {
		t.Errorf("expected (500,610), got (%f,%f)", x, y)
	}
}

func TestOverlapsCircle(t *testing.T) {
	o := Rect{400, 400, 200, 200}
	if !o.OverlapsCircle(395, 500, 10) {
		t.Error("circle crossing the left edge should overlap")
	}
	if o.OverlapsCircle(390, 500, 10) {
		t.Error("circle touching exactly should not count as overlap")
	}
	if !o.OverlapsCircle(500, 500, 1) {
		t.Error("circle inside the rect should overlap")
	}
}
