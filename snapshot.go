package main

import "sort"

const leaderboardSize = 10

// buildSnapshot assembles the full wire state for one tick. Players are
// emitted in ascending id order; food order is not specified.
func (g *Game) buildSnapshot() GameStateMsg {
	snap := GameStateMsg{
		Players:   make([]PlayerSnapshot, 0, len(g.store.players)),
		Food:      make([]FoodSnapshot, 0, len(g.store.food)),
		Obstacles: make([]ObstacleSnapshot, 0, len(g.store.obstacles)),
	}

	for _, id := range g.store.SortedPlayerIDs() {
		snap.Players = append(snap.Players, g.store.players[id].ToSnapshot())
	}
	for _, f := range g.store.food {
		snap.Food = append(snap.Food, f.ToSnapshot())
	}
	for _, o := range g.store.obstacles {
		snap.Obstacles = append(snap.Obstacles, o.ToSnapshot())
	}
	snap.Leaderboard = buildLeaderboard(g.store)
	return snap
}

// buildLeaderboard ranks alive players by mass descending, ties broken
// by ascending id.
func buildLeaderboard(store *EntityStore) []LeaderEntry {
	ranked := make([]*Player, 0, len(store.players))
	for _, p := range store.players {
		ranked = append(ranked, p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Mass != ranked[j].Mass {
			return ranked[i].Mass > ranked[j].Mass
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > leaderboardSize {
		ranked = ranked[:leaderboardSize]
	}
	board := make([]LeaderEntry, len(ranked))
	for i, p := range ranked {
		board[i] = LeaderEntry{Name: p.Name, Mass: p.Mass}
	}
	return board
}
