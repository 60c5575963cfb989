package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents one schema change
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered, append-only schema history. New changes go
// at the end with the next version number.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_tracks",
		SQL: `
			CREATE TABLE IF NOT EXISTS tracks (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				color TEXT NOT NULL DEFAULT '#e74c3c',
				visible INTEGER NOT NULL DEFAULT 1,
				point_count INTEGER NOT NULL DEFAULT 0,
				total_distance REAL NOT NULL DEFAULT 0,
				total_time INTEGER NOT NULL DEFAULT 0,
				moving_time INTEGER NOT NULL DEFAULT 0,
				elevation_gain REAL NOT NULL DEFAULT 0,
				elevation_loss REAL NOT NULL DEFAULT 0,
				max_speed REAL NOT NULL DEFAULT 0,
				avg_speed REAL NOT NULL DEFAULT 0,
				min_lat REAL NOT NULL DEFAULT 0,
				min_lon REAL NOT NULL DEFAULT 0,
				max_lat REAL NOT NULL DEFAULT 0,
				max_lon REAL NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_track_points",
		SQL: `
			CREATE TABLE IF NOT EXISTS track_points (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				track_id TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
				seq INTEGER NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				elevation REAL NOT NULL DEFAULT 0,
				distance REAL NOT NULL DEFAULT 0,
				time INTEGER,
				heart_rate INTEGER,
				cadence INTEGER,
				power INTEGER,
				temperature REAL,
				speed REAL NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_track_points_track
				ON track_points(track_id, seq)
		`,
	},
	{
		Version: 3,
		Name:    "create_journey_segments",
		SQL: `
			CREATE TABLE IF NOT EXISTS journey_segments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				position INTEGER NOT NULL,
				kind TEXT NOT NULL,
				track_id TEXT,
				mode TEXT,
				from_lat REAL NOT NULL DEFAULT 0,
				from_lon REAL NOT NULL DEFAULT 0,
				to_lat REAL NOT NULL DEFAULT 0,
				to_lon REAL NOT NULL DEFAULT 0,
				duration_ms INTEGER NOT NULL DEFAULT 0,
				distance REAL NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_journey_segments_position
				ON journey_segments(position)
		`,
	},
}

// Migrate applies all pending migrations in version order
func Migrate(conn *sql.DB) error {
	if err := initMigrationsTable(conn); err != nil {
		return err
	}

	applied, err := appliedVersions(conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		err := Transaction(conn, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO migrations (version, name) VALUES (?, ?)",
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(conn *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := conn.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(conn *sql.DB) (map[int]bool, error) {
	rows, err := conn.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
