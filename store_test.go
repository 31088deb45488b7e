package main

import "testing"

func TestStoreBootstrapsFood(t *testing.T) {
	s := NewEntityStore(Obstacles)
	if s.FoodCount() != FoodCount {
		t.Errorf("expected %d food, got %d", FoodCount, s.FoodCount())
	}
	if s.grid.Len() != FoodCount {
		t.Errorf("index should mirror the store, got %d entries", s.grid.Len())
	}
}

func TestStoreFoodIDsUnique(t *testing.T) {
	s := NewEntityStore(nil)
	seen := make(map[string]bool)
	for id := range s.food {
		if seen[id] {
			t.Fatalf("duplicate food id %s", id)
		}
		seen[id] = true
	}
	// Respawned pellets must not reuse ids of eaten ones
	var victim *Food
	for _, f := range s.food {
		victim = f
		break
	}
	s.RemoveFood(victim)
	f := s.SpawnFood()
	if f.ID == victim.ID {
		t.Errorf("food id %s was reused", f.ID)
	}
}

func TestStorePlayerBijection(t *testing.T) {
	s := NewEntityStore(nil)
	p := NewPlayer("p1", "c1", "A", "#fff", 300, 300)
	s.AddPlayer(p)

	if !s.grid.Contains("p1", KindPlayer, p.X, p.Y) {
		t.Fatal("player missing from index after add")
	}

	s.MovePlayer(p, 1500, 1500)
	if !s.grid.Contains("p1", KindPlayer, 1500, 1500) {
		t.Error("player not indexed at new cell after move")
	}
	if s.grid.Contains("p1", KindPlayer, 300, 300) {
		t.Error("player still indexed at old cell after move")
	}

	s.RemovePlayer("p1")
	if s.grid.Contains("p1", KindPlayer, 1500, 1500) {
		t.Error("player still indexed after remove")
	}
	if s.PlayerCount() != 0 {
		t.Errorf("expected 0 players, got %d", s.PlayerCount())
	}
}

func TestStoreSortedPlayerIDs(t *testing.T) {
	s := NewEntityStore(nil)
	for _, id := range []string{"c", "a", "b"} {
		s.AddPlayer(NewPlayer(id, id, id, "#fff", 500, 500))
	}
	ids := s.SortedPlayerIDs()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("expected sorted ids, got %v", ids)
	}
}
