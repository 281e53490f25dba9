// Package storage provides SQLite-based persistence for save slots and
// campaign run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/save"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord represents one finished campaign level attempt.
type RunRecord struct {
	ID              int64
	RunID           string
	Namespace       string
	LevelID         int
	Insane          bool
	Outcome         string // "complete", "failed", "abandoned"
	Reason          string
	Credits         float64
	Earned          float64
	Ticks           int
	AttacksSurvived int
	ReportsSent     int
	CreatedAt       time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (namespace, key)
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			namespace TEXT NOT NULL,
			level_id INTEGER NOT NULL,
			insane INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			reason TEXT,
			credits REAL NOT NULL DEFAULT 0,
			earned REAL NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			attacks_survived INTEGER NOT NULL DEFAULT 0,
			reports_sent INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_namespace ON runs(namespace);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level_id, outcome, ticks);
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

// Slots returns the save slot view for a namespace. The local player uses
// the empty namespace; remote players use their user name.
func (s *Store) Slots(namespace string) *Slots {
	return &Slots{store: s, namespace: namespace}
}

// Namespaces lists every namespace holding at least one save slot.
func (s *Store) Namespaces() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT namespace FROM saves ORDER BY namespace`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query namespaces: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, ns)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Slots is a namespaced key/value view implementing save.Store.
type Slots struct {
	store     *Store
	namespace string
}

// Get returns the blob stored at key.
func (sl *Slots) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := sl.store.db.QueryRow(
		"SELECT data FROM saves WHERE namespace = ? AND key = ?",
		sl.namespace, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read slot %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes data at key, replacing any previous blob.
func (sl *Slots) Put(key string, data []byte) error {
	_, err := sl.store.db.Exec(
		`INSERT INTO saves (namespace, key, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(namespace, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sl.namespace, key, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write slot %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (sl *Slots) Delete(key string) error {
	_, err := sl.store.db.Exec("DELETE FROM saves WHERE namespace = ? AND key = ?", sl.namespace, key)
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %s: %w", key, err)
	}
	return nil
}

// SaveRunResult implements engine.RunSaver.
// This adapter allows the engine to record runs without a direct storage dependency.
func (sl *Slots) SaveRunResult(r engine.RunResult) error {
	_, err := sl.store.SaveRun(RunRecord{
		RunID:           r.RunID,
		Namespace:       sl.namespace,
		LevelID:         r.LevelID,
		Insane:          r.Insane,
		Outcome:         r.Outcome,
		Reason:          r.Reason,
		Credits:         r.Credits,
		Earned:          r.Earned,
		Ticks:           r.Ticks,
		AttacksSurvived: r.AttacksSurvived,
		ReportsSent:     r.ReportsSent,
	})
	return err
}

// Ensure Slots implements the save and run interfaces
var (
	_ save.Store      = (*Slots)(nil)
	_ engine.RunSaver = (*Slots)(nil)
)

// SaveRun records a finished level attempt.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	insane := 0
	if r.Insane {
		insane = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, namespace, level_id, insane, outcome, reason, credits, earned, ticks, attacks_survived, reports_sent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.Namespace,
		r.LevelID,
		insane,
		r.Outcome,
		r.Reason,
		r.Credits,
		r.Earned,
		r.Ticks,
		r.AttacksSurvived,
		r.ReportsSent,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, run_id, namespace, level_id, insane, outcome, reason,
		        credits, earned, ticks, attacks_survived, reports_sent, created_at`

// RecentRuns retrieves the most recent runs for a namespace.
func (s *Store) RecentRuns(namespace string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE namespace = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		namespace, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRuns retrieves the fastest completions of a level across namespaces.
func (s *Store) BestRuns(levelID int, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE level_id = ? AND outcome = 'complete'
		 ORDER BY ticks ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var insane int
		var reason sql.NullString
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.Namespace,
			&r.LevelID,
			&insane,
			&r.Outcome,
			&reason,
			&r.Credits,
			&r.Earned,
			&r.Ticks,
			&r.AttacksSurvived,
			&r.ReportsSent,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Insane = insane != 0
		if reason.Valid {
			r.Reason = reason.String
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// LevelStats contains aggregated statistics for a campaign level.
type LevelStats struct {
	LevelID     int
	Attempts    int
	Completions int
	BestTicks   int
	LastPlayed  time.Time
}

// GetLevelStats retrieves statistics for every level a namespace played.
func (s *Store) GetLevelStats(namespace string) (map[int]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*),
		        SUM(CASE WHEN outcome = 'complete' THEN 1 ELSE 0 END),
		        COALESCE(MIN(CASE WHEN outcome = 'complete' THEN ticks END), 0),
		        MAX(created_at)
		 FROM runs
		 WHERE namespace = ?
		 GROUP BY level_id`,
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastPlayed any
		if err := rows.Scan(&ls.LevelID, &ls.Attempts, &ls.Completions, &ls.BestTicks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = parseTime(lastPlayed)
		stats[ls.LevelID] = &ls
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes the run history of a namespace.
func (s *Store) ClearRuns(namespace string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE namespace = ?", namespace)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
