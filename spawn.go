package main

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// SanitizeName strips control characters, trims whitespace, and
// truncates to MaxNameLen runes. Empty names fall back to "Anonymous".
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "Anonymous"
	}
	runes := []rune(name)
	if len(runes) > MaxNameLen {
		name = string(runes[:MaxNameLen])
	}
	return name
}

// ColorFor picks a palette color by hashing the player id, so the
// assignment is stable for the lifetime of the id.
func ColorFor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return PlayerColors[int(h.Sum32())%len(PlayerColors)]
}

// SpawnPosition rejection-samples a spawn point that keeps a starting
// player clear of every obstacle and every alive player. After
// SpawnAttempts failures the last candidate is accepted; a crowded map
// beats an infinite loop.
func SpawnPosition(store *EntityStore) (float64, float64) {
	r := PlayerRadiusMultiplier * math.Sqrt(PlayerStartMass)
	var x, y float64
	for i := 0; i < SpawnAttempts; i++ {
		x = r + randFloat()*(MapWidth-2*r)
		y = r + randFloat()*(MapHeight-2*r)
		if spawnClear(store, x, y, r) {
			return x, y
		}
	}
	return x, y
}

func spawnClear(store *EntityStore, x, y, r float64) bool {
	for _, o := range store.obstacles {
		if o.OverlapsCircle(x, y, r) {
			return false
		}
	}
	for _, p := range store.players {
		if Distance(x, y, p.X, p.Y) < p.Radius()+r {
			return false
		}
	}
	return true
}
