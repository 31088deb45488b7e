package main

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding finished-run history. Nothing in
// it is ever read back into the simulation; rows are append-only.
type DB struct {
	conn *sql.DB
}

// RunRow is one finished player life
type RunRow struct {
	PlayerID     string
	Name         string
	PeakMass     float64
	FoodEaten    int
	PlayersEaten int
	Cause        string // "eaten" | "disconnect" | "shutdown"
	StartedAt    time.Time
	EndedAt      time.Time
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps the background writer from stalling readers
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id TEXT NOT NULL,
		name TEXT NOT NULL,
		peak_mass REAL NOT NULL DEFAULT 0,
		food_eaten INTEGER NOT NULL DEFAULT 0,
		players_eaten INTEGER NOT NULL DEFAULT 0,
		cause TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_peak_mass ON runs(peak_mass DESC);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// InsertRuns writes a batch of finished runs in one transaction
func (db *DB) InsertRuns(rows []RunRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO runs
		(player_id, name, peak_mass, food_eaten, players_eaten, cause, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.Exec(r.PlayerID, r.Name, r.PeakMass, r.FoodEaten,
			r.PlayersEaten, r.Cause, r.StartedAt, r.EndedAt); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// TopRuns returns the all-time best runs by peak mass
func (db *DB) TopRuns(limit int) ([]HighscoreEntry, error) {
	rows, err := db.conn.Query(`SELECT name, peak_mass, ended_at
		FROM runs ORDER BY peak_mass DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HighscoreEntry, 0, limit)
	for rows.Next() {
		var e HighscoreEntry
		var at time.Time
		if err := rows.Scan(&e.Name, &e.Mass, &at); err != nil {
			return nil, err
		}
		e.At = at.UTC().Format(time.RFC3339)
		out = append(out, e)
	}
	return out, rows.Err()
}
