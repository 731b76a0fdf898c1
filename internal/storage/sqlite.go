// Package storage provides SQLite-based persistence for episode history.
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

	"github.com/vovakirdan/flappy-rl/internal/config"
)

// Episode sources.
const (
	ModePlay  = "play"
	ModeTrain = "train"
)

// Store manages the SQLite database connection for episode history.
type Store struct {
	db *sql.DB
}

// EpisodeEntry represents one finished episode.
type EpisodeEntry struct {
	ID        int64
	Mode      string // ModePlay or ModeTrain
	Episode   int
	Ticks     int
	Reward    float64
	Epsilon   float64
	Duration  time.Duration
	Truncated bool
	CreatedAt time.Time
}

// EpisodeStats contains aggregated statistics over the history.
type EpisodeStats struct {
	Count      int
	BestTicks  int
	AvgTicks   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath = config.ExpandPath(dbPath)

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Training workers write concurrently; sqlite wants a single writer.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			episode INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			reward REAL NOT NULL,
			epsilon REAL NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			truncated INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_ticks ON episodes(ticks DESC);
		CREATE INDEX IF NOT EXISTS idx_episodes_mode ON episodes(mode);
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

// SaveEpisode records a finished episode.
// Returns the ID of the inserted record.
func (s *Store) SaveEpisode(e EpisodeEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO episodes (mode, episode, ticks, reward, epsilon, duration_ms, truncated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Mode, e.Episode, e.Ticks, e.Reward, e.Epsilon, e.Duration.Milliseconds(), e.Truncated,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopEpisodes retrieves the N longest episodes, longest first.
func (s *Store) TopEpisodes(limit int) ([]EpisodeEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.query(
		`SELECT id, mode, episode, ticks, reward, epsilon, duration_ms, truncated, created_at
		 FROM episodes
		 ORDER BY ticks DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// RecentEpisodes retrieves the N most recently recorded episodes, newest first.
func (s *Store) RecentEpisodes(limit int) ([]EpisodeEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(
		`SELECT id, mode, episode, ticks, reward, epsilon, duration_ms, truncated, created_at
		 FROM episodes
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) query(q string, args ...any) ([]EpisodeEntry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var entries []EpisodeEntry
	for rows.Next() {
		var e EpisodeEntry
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Mode, &e.Episode, &e.Ticks, &e.Reward, &e.Epsilon,
			&durationMs, &e.Truncated, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestTicks returns the longest episode length.
// Returns 0 if no episodes exist.
func (s *Store) BestTicks() (int, error) {
	var ticks sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(ticks) FROM episodes").Scan(&ticks)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best ticks: %w", err)
	}

	if !ticks.Valid {
		return 0, nil
	}

	return int(ticks.Int64), nil
}

// EpisodeCount returns the number of recorded episodes.
func (s *Store) EpisodeCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM episodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count episodes: %w", err)
	}
	return n, nil
}

// Stats retrieves aggregated statistics over all episodes.
func (s *Store) Stats() (*EpisodeStats, error) {
	stats := &EpisodeStats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(ticks), 0), COALESCE(AVG(ticks), 0) FROM episodes`,
	).Scan(&stats.Count, &stats.BestTicks, &stats.AvgTicks)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(`SELECT created_at FROM episodes ORDER BY id DESC LIMIT 1`).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearEpisodes deletes the whole history.
func (s *Store) ClearEpisodes() error {
	if _, err := s.db.Exec("DELETE FROM episodes"); err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
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
