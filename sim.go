package main

import (
	"log"
	"math"
	"sort"
)

// step advances the world by dt seconds. Phase order is part of the
// contract: motion (with clamping and obstacle resolution), food, then
// player-vs-player, then replenishment. Both collision passes iterate
// players by ascending id so the same world always resolves the same
// way.
func (g *Game) step(dt float64) {
	defer func() {
		if r := recover(); r != nil {
			// One bad entity must not take the server down. Drop it and
			// let the tick finish.
			log.Printf("tick %d: simulation panic on entity %q: %v", g.tick, g.cursor, r)
			if p, ok := g.store.players[g.cursor]; ok {
				if p != nil {
					g.registry.MarkDead(p.ConnID)
				}
				g.store.RemovePlayer(g.cursor)
			}
			g.cursor = ""
		}
	}()

	g.stepMotion(dt)
	g.stepEatFood()
	g.stepEatPlayers()
	g.stepReplenish()
}

// stepMotion integrates each player toward its target, clamps to the
// map, and resolves obstacle overlap. The index is updated through
// MovePlayer, which no-ops when the cell key is unchanged.
func (g *Game) stepMotion(dt float64) {
	for _, id := range g.store.SortedPlayerIDs() {
		p := g.store.players[id]
		g.cursor = id

		speed := p.Speed()
		if p.BoostLeft > 0 {
			speed *= BoostMultiplier
			p.BoostLeft -= dt
			if p.BoostLeft < 0 {
				p.BoostLeft = 0
			}
		}

		nx, ny := p.X, p.Y
		dx := p.TargetX - p.X
		dy := p.TargetY - p.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist >= MoveEpsilon {
			move := speed * dt
			if move > dist {
				move = dist
			}
			nx += dx / dist * move
			ny += dy / dist * move
		}

		r := p.Radius()
		nx = Clamp(nx, r, MapWidth-r)
		ny = Clamp(ny, r, MapHeight-r)
		for _, o := range g.store.obstacles {
			nx, ny = o.ResolveCircle(nx, ny, r)
		}
		// An obstacle push can land a huge player past the map edge;
		// the bounds invariant wins.
		nx = Clamp(nx, r, MapWidth-r)
		ny = Clamp(ny, r, MapHeight-r)

		g.store.MovePlayer(p, nx, ny)
	}
	g.cursor = ""
}

// stepEatFood removes every pellet whose center lies inside a player
func (g *Game) stepEatFood() {
	for _, id := range g.store.SortedPlayerIDs() {
		p, ok := g.store.players[id]
		if !ok {
			continue
		}
		g.cursor = id

		g.queryBuf = g.store.grid.Query(p.X, p.Y, p.Radius(), g.queryBuf[:0])
		for _, ref := range g.queryBuf {
			if ref.Kind != KindFood {
				continue
			}
			f, ok := g.store.food[ref.ID]
			if !ok {
				continue
			}
			r := p.Radius()
			dx := p.X - f.X
			dy := p.Y - f.Y
			if dx*dx+dy*dy < r*r {
				g.store.RemoveFood(f)
				p.Grow(f.Mass)
				p.FoodEaten++
				metricFoodEaten.Inc()
			}
		}
	}
	g.cursor = ""
}

// stepEatPlayers resolves player-vs-player eats. The larger-mass player
// L eats S when L's mass clears the ratio and S's center lies inside
// L's radius. Equal masses never eat. Each predator eats at most once
// per tick; prey are removed immediately and a player that already ate
// is skipped as prey, so nothing both eats and is eaten in the same
// tick.
func (g *Game) stepEatPlayers() {
	ate := make(map[string]bool)
	var cands []string

	for _, id := range g.store.SortedPlayerIDs() {
		p, ok := g.store.players[id]
		if !ok || !p.Alive {
			continue // eaten earlier this tick
		}
		g.cursor = id

		g.queryBuf = g.store.grid.Query(p.X, p.Y, p.Radius(), g.queryBuf[:0])
		cands = cands[:0]
		for _, ref := range g.queryBuf {
			if ref.Kind == KindPlayer && ref.ID != id {
				cands = append(cands, ref.ID)
			}
		}
		sort.Strings(cands)

		for _, oid := range cands {
			if ate[id] {
				break
			}
			o, ok := g.store.players[oid]
			if !ok || !o.Alive {
				continue
			}
			if ate[oid] {
				continue // an eater never becomes prey in the same tick
			}
			// The pair resolves on the predator's own pass; the
			// predator's query radius is guaranteed to reach the prey.
			if p.Mass <= o.Mass {
				continue
			}
			if p.Mass < EatMassRatio*o.Mass {
				continue
			}
			if Distance(p.X, p.Y, o.X, o.Y) < p.Radius() {
				g.eat(p, o)
				ate[id] = true
			}
		}
	}
	g.cursor = ""
}

func (g *Game) eat(pred, prey *Player) {
	pred.Grow(prey.Mass)
	pred.PlayersEaten++

	prey.Alive = false
	g.registry.MarkDead(prey.ConnID)
	g.store.RemovePlayer(prey.ID)
	g.deaths = append(g.deaths, prey.ID)
	g.recordRun(prey, "eaten")
	metricPlayersEaten.Inc()
}

// stepReplenish keeps the pellet population at exactly FoodCount
func (g *Game) stepReplenish() {
	for len(g.store.food) < FoodCount {
		g.store.SpawnFood()
	}
}
