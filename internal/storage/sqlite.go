// Package storage provides SQLite-based persistence for benchmark runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
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

// Store manages the SQLite database connection for benchmark history.
type Store struct {
	db *sql.DB
}

// BenchRun is one timed headless run of a demo or scene.
type BenchRun struct {
	ID        int64
	DemoID    string
	Width     int
	Height    int
	Frames    int
	Aborted   int           // Frames cut short by a raster callback error
	Elapsed   time.Duration // Wall time spent drawing
	Version   string        // Engine version that produced the run
	CreatedAt time.Time
}

// FPS returns the frames drawn per second of wall time.
func (r BenchRun) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// FrameTime returns the average time per frame.
func (r BenchRun) FrameTime() time.Duration {
	if r.Frames <= 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Frames)
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
		CREATE TABLE IF NOT EXISTS bench_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			demo_id TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			aborted INTEGER NOT NULL DEFAULT 0,
			elapsed_ns INTEGER NOT NULL,
			fps REAL NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bench_runs_demo_id ON bench_runs(demo_id);
		CREATE INDEX IF NOT EXISTS idx_bench_runs_top ON bench_runs(demo_id, fps DESC);
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

// SaveRun records a benchmark run. Returns the ID of the inserted record.
func (s *Store) SaveRun(run BenchRun) (int64, error) {
	if run.DemoID == "" {
		return 0, fmt.Errorf("storage: run without demo id")
	}
	result, err := s.db.Exec(
		`INSERT INTO bench_runs (demo_id, width, height, frames, aborted, elapsed_ns, fps, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.DemoID, run.Width, run.Height, run.Frames, run.Aborted,
		int64(run.Elapsed), run.FPS(), run.Version,
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

const runColumns = `id, demo_id, width, height, frames, aborted, elapsed_ns, version, created_at`

// TopRuns retrieves the fastest N runs of the given demo.
// Results are ordered by frame rate descending.
func (s *Store) TopRuns(demoID string, limit int) ([]BenchRun, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM bench_runs
		 WHERE demo_id = ?
		 ORDER BY fps DESC
		 LIMIT ?`,
		demoID, limit,
	)
}

// RecentRuns retrieves the latest runs, newest first. An empty demoID
// returns runs of every demo.
func (s *Store) RecentRuns(demoID string, limit int) ([]BenchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if demoID == "" {
		return s.queryRuns(
			`SELECT `+runColumns+`
			 FROM bench_runs
			 ORDER BY id DESC
			 LIMIT ?`,
			limit,
		)
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM bench_runs
		 WHERE demo_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		demoID, limit,
	)
}

// RunByID retrieves one run. Returns nil if it does not exist.
func (s *Store) RunByID(id int64) (*BenchRun, error) {
	runs, err := s.queryRuns(`SELECT `+runColumns+` FROM bench_runs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (s *Store) queryRuns(query string, args ...any) ([]BenchRun, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []BenchRun
	for rows.Next() {
		var r BenchRun
		var elapsed int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.DemoID, &r.Width, &r.Height, &r.Frames,
			&r.Aborted, &elapsed, &r.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Elapsed = time.Duration(elapsed)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// BestFPS returns the highest frame rate recorded for the given demo.
// Returns 0 if no runs exist.
func (s *Store) BestFPS(demoID string) (float64, error) {
	var fps sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MAX(fps) FROM bench_runs WHERE demo_id = ?",
		demoID,
	).Scan(&fps)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best fps: %w", err)
	}
	if !fps.Valid {
		return 0, nil
	}
	return fps.Float64, nil
}

// ClearRuns deletes all runs of the given demo.
func (s *Store) ClearRuns(demoID string) error {
	_, err := s.db.Exec("DELETE FROM bench_runs WHERE demo_id = ?", demoID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// DemoStats contains aggregated statistics for a demo.
type DemoStats struct {
	DemoID  string
	Runs    int
	BestFPS float64
	AvgFPS  float64
	Frames  int64
	Aborted int64
	LastRun time.Time
}

// GetDemoStats retrieves aggregated statistics for one demo.
func (s *Store) GetDemoStats(demoID string) (*DemoStats, error) {
	stats := &DemoStats{DemoID: demoID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(fps), 0), COALESCE(AVG(fps), 0),
		        COALESCE(SUM(frames), 0), COALESCE(SUM(aborted), 0)
		 FROM bench_runs WHERE demo_id = ?`,
		demoID,
	).Scan(&stats.Runs, &stats.BestFPS, &stats.AvgFPS, &stats.Frames, &stats.Aborted)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get demo stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM bench_runs WHERE demo_id = ? ORDER BY id DESC LIMIT 1`,
		demoID,
	).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

// GetAllDemoStats retrieves statistics for every demo that has runs.
func (s *Store) GetAllDemoStats() (map[string]*DemoStats, error) {
	rows, err := s.db.Query(
		`SELECT demo_id, COUNT(*), MAX(fps), AVG(fps), SUM(frames), SUM(aborted), MAX(created_at)
		 FROM bench_runs
		 GROUP BY demo_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all demo stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*DemoStats)
	for rows.Next() {
		var ds DemoStats
		var lastRun any
		if err := rows.Scan(&ds.DemoID, &ds.Runs, &ds.BestFPS, &ds.AvgFPS, &ds.Frames, &ds.Aborted, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ds.LastRun = parseTime(lastRun)
		stats[ds.DemoID] = &ds
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles the driver returning either time.Time or a string.
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
