// Package storage provides SQLite-based persistence for descent summaries.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Only outcomes are stored; move sequences are never persisted.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// OutcomeLanded is the outcome string of a successful run.
const OutcomeLanded = "landed"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunEntry represents a single finished descent.
type RunEntry struct {
	ID         int64
	MapID      string
	Outcome    string // "landed", "crashed", "lost" or "flying" when cut short
	Turns      int
	FuelLeft   int
	Rollouts   int
	Seed       int64
	Preset     string
	DurationMS int64
	CreatedAt  time.Time
}

// Landed reports whether the run ended in a safe landing.
func (e RunEntry) Landed() bool {
	return e.Outcome == OutcomeLanded
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			turns INTEGER NOT NULL,
			fuel_left INTEGER NOT NULL,
			rollouts INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			preset TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_map_id ON runs(map_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(e RunEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (map_id, outcome, turns, fuel_left, rollouts, seed, preset, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.MapID, e.Outcome, e.Turns, e.FuelLeft, e.Rollouts, e.Seed, e.Preset, e.DurationMS,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, map_id, outcome, turns, fuel_left, rollouts, seed, preset, duration_ms, created_at`

// TopRuns retrieves the best N runs for a map: landings first, then by
// fuel left, then by fewest turns.
func (s *Store) TopRuns(mapID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE map_id = ?
		 ORDER BY (outcome = 'landed') DESC, fuel_left DESC, turns ASC, id ASC
		 LIMIT ?`,
		mapID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the most recent runs across all maps.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(
			&e.ID,
			&e.MapID,
			&e.Outcome,
			&e.Turns,
			&e.FuelLeft,
			&e.Rollouts,
			&e.Seed,
			&e.Preset,
			&e.DurationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearRuns deletes all runs for the given map.
func (s *Store) ClearRuns(mapID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE map_id = ?", mapID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// MapStats contains aggregated statistics for a map.
type MapStats struct {
	MapID      string
	Runs       int
	Landings   int
	BestFuel   int // Most fuel left on a landing; 0 without landings
	AvgTurns   float64
	LastPlayed time.Time
}

// SuccessRate returns the fraction of runs that landed.
func (m *MapStats) SuccessRate() float64 {
	if m.Runs == 0 {
		return 0
	}
	return float64(m.Landings) / float64(m.Runs)
}

const statsColumns = `COUNT(*),
	COALESCE(SUM(CASE WHEN outcome = 'landed' THEN 1 ELSE 0 END), 0),
	COALESCE(MAX(CASE WHEN outcome = 'landed' THEN fuel_left END), 0),
	COALESCE(AVG(turns), 0),
	MAX(created_at)`

// GetMapStats retrieves aggregated statistics for a specific map.
func (s *Store) GetMapStats(mapID string) (*MapStats, error) {
	stats := &MapStats{MapID: mapID}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT `+statsColumns+` FROM runs WHERE map_id = ?`,
		mapID,
	).Scan(&stats.Runs, &stats.Landings, &stats.BestFuel, &stats.AvgTurns, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllMapStats retrieves statistics for every map that has runs.
func (s *Store) GetAllMapStats() (map[string]*MapStats, error) {
	rows, err := s.db.Query(
		`SELECT map_id, ` + statsColumns + `
		 FROM runs
		 GROUP BY map_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all map stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MapStats)
	for rows.Next() {
		var m MapStats
		var lastPlayed any
		if err := rows.Scan(&m.MapID, &m.Runs, &m.Landings, &m.BestFuel, &m.AvgTurns, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.MapID] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("storage: run not found")

// GetRun retrieves a single run by ID.
func (s *Store) GetRun(id int64) (RunEntry, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return RunEntry{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	entries, err := scanRuns(rows)
	if err != nil {
		return RunEntry{}, err
	}
	if len(entries) == 0 {
		return RunEntry{}, ErrNotFound
	}
	return entries[0], nil
}
