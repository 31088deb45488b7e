package main

import "strconv"

// Registry maps connection ids to the alive player they own. A
// connection with no entry has joined nothing or is dead. It is only
// touched from the simulation goroutine.
type Registry struct {
	byConn map[string]string // connID -> playerID, alive players only
	lives  map[string]int    // connID -> lives started, for id generation
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]string),
		lives:  make(map[string]int),
	}
}

// OnConnect registers a connection; no world effect
func (r *Registry) OnConnect(connID string) {
	if _, ok := r.lives[connID]; !ok {
		r.lives[connID] = 0
	}
}

// OnDisconnect forgets the connection and returns the alive player id
// it owned, if any. Idempotent.
func (r *Registry) OnDisconnect(connID string) (string, bool) {
	pid, ok := r.byConn[connID]
	delete(r.byConn, connID)
	delete(r.lives, connID)
	return pid, ok
}

// PlayerFor returns the alive player owned by the connection
func (r *Registry) PlayerFor(connID string) (string, bool) {
	pid, ok := r.byConn[connID]
	return pid, ok
}

// Bind assigns a fresh player id to the connection. The first life
// reuses the connection id; later lives get a suffixed id so player ids
// are never reused within a session.
func (r *Registry) Bind(connID string) string {
	n := r.lives[connID]
	r.lives[connID] = n + 1
	pid := connID
	if n > 0 {
		pid = connID + "#" + strconv.Itoa(n)
	}
	r.byConn[connID] = pid
	return pid
}

// MarkDead drops the alive mapping, keeping the life counter
func (r *Registry) MarkDead(connID string) {
	delete(r.byConn, connID)
}
