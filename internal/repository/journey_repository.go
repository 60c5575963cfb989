package repository

import (
	"database/sql"
	"fmt"

	"github.com/trailplay/backend-go/internal/database"
	"github.com/trailplay/backend-go/internal/models"
)

// JourneyRepository handles database operations for the ordered journey
// segment list
type JourneyRepository struct {
	db *sql.DB
}

// NewJourneyRepository creates a new journey repository
func NewJourneyRepository(db *sql.DB) *JourneyRepository {
	return &JourneyRepository{db: db}
}

// ListSegments returns the segment list in playback order
func (r *JourneyRepository) ListSegments() ([]models.JourneySegment, error) {
	rows, err := r.db.Query(`
		SELECT id, kind, track_id, mode, from_lat, from_lon, to_lat, to_lon,
			duration_ms, distance
		FROM journey_segments ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.JourneySegment
	for rows.Next() {
		var (
			id                             int64
			kind                           string
			trackID, mode                  sql.NullString
			fromLat, fromLon, toLat, toLon float64
			duration                       int64
			distance                       float64
		)
		if err := rows.Scan(&id, &kind, &trackID, &mode,
			&fromLat, &fromLon, &toLat, &toLon, &duration, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}

		switch models.SegmentKind(kind) {
		case models.KindTrack:
			segments = append(segments, models.TrackSegment{
				ID: id, TrackID: trackID.String, Duration: duration,
			})
		case models.KindTransport:
			segments = append(segments, models.TransportSegment{
				ID:   id,
				Mode: models.TransportMode(mode.String),
				From: models.LatLng{Lat: fromLat, Lon: fromLon},
				To:   models.LatLng{Lat: toLat, Lon: toLon},
				Duration: duration,
				Distance: distance,
			})
		default:
			return nil, fmt.Errorf("unknown segment kind %q in row %d", kind, id)
		}
	}
	return segments, rows.Err()
}

// AppendSegment stores a segment at the end of the list and returns its id
func (r *JourneyRepository) AppendSegment(seg models.JourneySegment) (int64, error) {
	var id int64
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		var position int
		if err := tx.QueryRow(
			"SELECT COALESCE(MAX(position), -1) + 1 FROM journey_segments",
		).Scan(&position); err != nil {
			return fmt.Errorf("failed to find next position: %w", err)
		}

		var result sql.Result
		var err error
		switch s := seg.(type) {
		case models.TrackSegment:
			result, err = tx.Exec(`
				INSERT INTO journey_segments (position, kind, track_id, duration_ms)
				VALUES (?, ?, ?, ?)`,
				position, string(models.KindTrack), s.TrackID, s.Duration)
		case models.TransportSegment:
			result, err = tx.Exec(`
				INSERT INTO journey_segments (position, kind, mode,
					from_lat, from_lon, to_lat, to_lon, duration_ms, distance)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				position, string(models.KindTransport), string(s.Mode),
				s.From.Lat, s.From.Lon, s.To.Lat, s.To.Lon, s.Duration, s.Distance)
		default:
			return fmt.Errorf("unknown segment type %T", seg)
		}
		if err != nil {
			return fmt.Errorf("failed to insert segment: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read segment id: %w", err)
		}
		return nil
	})
	return id, err
}

// UpdateDuration changes a segment's assigned playback duration
func (r *JourneyRepository) UpdateDuration(id int64, durationMs int64) error {
	result, err := r.db.Exec(`
		UPDATE journey_segments
		SET duration_ms = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, durationMs, id)
	if err != nil {
		return fmt.Errorf("failed to update segment duration: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSegment removes a segment and compacts the remaining positions
func (r *JourneyRepository) DeleteSegment(id int64) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM journey_segments WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete segment: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		return compactPositions(tx)
	})
}

// Reorder rewrites the position column to match the given id order. All
// current segment ids must be present exactly once.
func (r *JourneyRepository) Reorder(ids []int64) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow("SELECT COUNT(*) FROM journey_segments").Scan(&count); err != nil {
			return fmt.Errorf("failed to count segments: %w", err)
		}
		if count != len(ids) {
			return fmt.Errorf("reorder expects %d segment ids, got %d", count, len(ids))
		}

		// Two-phase update keeps the UNIQUE-free position column sane
		// even if ids are permuted arbitrarily.
		for i, id := range ids {
			result, err := tx.Exec(
				"UPDATE journey_segments SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
				i, id)
			if err != nil {
				return fmt.Errorf("failed to reposition segment %d: %w", id, err)
			}
			if n, _ := result.RowsAffected(); n == 0 {
				return fmt.Errorf("unknown segment id %d", id)
			}
		}
		return nil
	})
}

// DeleteSegmentsForTrack removes every segment referencing a track,
// called when the track itself is deleted
func (r *JourneyRepository) DeleteSegmentsForTrack(trackID string) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"DELETE FROM journey_segments WHERE track_id = ?", trackID); err != nil {
			return fmt.Errorf("failed to delete segments for track: %w", err)
		}
		return compactPositions(tx)
	})
}

// compactPositions renumbers positions to 0..n-1 preserving order
func compactPositions(tx *sql.Tx) error {
	rows, err := tx.Query("SELECT id FROM journey_segments ORDER BY position")
	if err != nil {
		return fmt.Errorf("failed to list segments for compaction: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan segment id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := tx.Exec(
			"UPDATE journey_segments SET position = ? WHERE id = ?", i, id); err != nil {
			return fmt.Errorf("failed to compact position: %w", err)
		}
	}
	return nil
}
