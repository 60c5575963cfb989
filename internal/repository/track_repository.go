package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trailplay/backend-go/internal/database"
	"github.com/trailplay/backend-go/internal/models"
)

// TrackRepository handles database operations for tracks and their points
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// InsertTrack stores a track and all of its points in one transaction
func (r *TrackRepository) InsertTrack(track *models.Track) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO tracks (id, name, color, visible, point_count,
				total_distance, total_time, moving_time, elevation_gain, elevation_loss,
				max_speed, avg_speed, min_lat, min_lon, max_lat, max_lon)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			track.ID, track.Name, track.Color, boolToInt(track.Visible), len(track.Points),
			track.Stats.TotalDistance, track.Stats.TotalTime, track.Stats.MovingTime,
			track.Stats.ElevationGain, track.Stats.ElevationLoss,
			track.Stats.MaxSpeed, track.Stats.AvgSpeed,
			track.Stats.Bounds.MinLat, track.Stats.Bounds.MinLon,
			track.Stats.Bounds.MaxLat, track.Stats.Bounds.MaxLon,
		)
		if err != nil {
			return fmt.Errorf("failed to insert track: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO track_points (track_id, seq, latitude, longitude, elevation,
				distance, time, heart_rate, cadence, power, temperature, speed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare point insert: %w", err)
		}
		defer stmt.Close()

		for seq, p := range track.Points {
			var ts *int64
			if p.Time != nil {
				ms := p.Time.UnixMilli()
				ts = &ms
			}
			if _, err := stmt.Exec(
				track.ID, seq, p.Latitude, p.Longitude, p.Elevation,
				p.Distance, ts, p.HeartRate, p.Cadence, p.Power, p.Temperature, p.Speed,
			); err != nil {
				return fmt.Errorf("failed to insert point %d: %w", seq, err)
			}
		}

		return nil
	})
}

// GetTrack retrieves a track with its full point sequence. Returns nil
// when no track has the given id.
func (r *TrackRepository) GetTrack(id string) (*models.Track, error) {
	track, err := r.scanTrackRow(r.db.QueryRow(trackColumns+" FROM tracks WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, nil
	}

	points, err := r.getPoints(id)
	if err != nil {
		return nil, err
	}
	track.Points = points
	return track, nil
}

// ListTracks retrieves all tracks with their points, ordered by creation
func (r *TrackRepository) ListTracks() ([]models.Track, error) {
	rows, err := r.db.Query(trackColumns + " FROM tracks ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		track, err := r.scanTrackRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}

	for i := range tracks {
		points, err := r.getPoints(tracks[i].ID)
		if err != nil {
			return nil, err
		}
		tracks[i].Points = points
	}

	return tracks, nil
}

// ListSummaries retrieves all tracks without their point payloads
func (r *TrackRepository) ListSummaries() ([]models.TrackSummary, error) {
	rows, err := r.db.Query(`
		SELECT id, name, color, visible, point_count,
			total_distance, total_time, moving_time, elevation_gain, elevation_loss,
			max_speed, avg_speed, min_lat, min_lon, max_lat, max_lon, created_at
		FROM tracks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query track summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.TrackSummary
	for rows.Next() {
		var s models.TrackSummary
		var visible int
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &visible, &s.PointCount,
			&s.Stats.TotalDistance, &s.Stats.TotalTime, &s.Stats.MovingTime,
			&s.Stats.ElevationGain, &s.Stats.ElevationLoss,
			&s.Stats.MaxSpeed, &s.Stats.AvgSpeed,
			&s.Stats.Bounds.MinLat, &s.Stats.Bounds.MinLon,
			&s.Stats.Bounds.MaxLat, &s.Stats.Bounds.MaxLon,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan track summary: %w", err)
		}
		s.Visible = visible != 0
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateTrack applies the given display attribute changes
func (r *TrackRepository) UpdateTrack(id string, update models.TrackUpdate) error {
	if update.Name == nil && update.Color == nil && update.Visible == nil {
		return nil
	}

	query := "UPDATE tracks SET updated_at = CURRENT_TIMESTAMP"
	var args []interface{}
	if update.Name != nil {
		query += ", name = ?"
		args = append(args, *update.Name)
	}
	if update.Color != nil {
		query += ", color = ?"
		args = append(args, *update.Color)
	}
	if update.Visible != nil {
		query += ", visible = ?"
		args = append(args, boolToInt(*update.Visible))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTrack removes a track and (via cascade) its points
func (r *TrackRepository) DeleteTrack(id string) error {
	result, err := r.db.Exec("DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const trackColumns = `SELECT id, name, color, visible,
	total_distance, total_time, moving_time, elevation_gain, elevation_loss,
	max_speed, avg_speed, min_lat, min_lon, max_lat, max_lon,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *TrackRepository) scanTrackRow(row rowScanner) (*models.Track, error) {
	var track models.Track
	var visible int
	err := row.Scan(&track.ID, &track.Name, &track.Color, &visible,
		&track.Stats.TotalDistance, &track.Stats.TotalTime, &track.Stats.MovingTime,
		&track.Stats.ElevationGain, &track.Stats.ElevationLoss,
		&track.Stats.MaxSpeed, &track.Stats.AvgSpeed,
		&track.Stats.Bounds.MinLat, &track.Stats.Bounds.MinLon,
		&track.Stats.Bounds.MaxLat, &track.Stats.Bounds.MaxLon,
		&track.CreatedAt, &track.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	track.Visible = visible != 0
	return &track, nil
}

func (r *TrackRepository) getPoints(trackID string) ([]models.TrackPoint, error) {
	rows, err := r.db.Query(`
		SELECT latitude, longitude, elevation, distance, time,
			heart_rate, cadence, power, temperature, speed
		FROM track_points WHERE track_id = ? ORDER BY seq`, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to query track points: %w", err)
	}
	defer rows.Close()

	var points []models.TrackPoint
	for rows.Next() {
		var p models.TrackPoint
		var ts sql.NullInt64
		var hr, cadence, power sql.NullInt64
		var temp sql.NullFloat64

		if err := rows.Scan(&p.Latitude, &p.Longitude, &p.Elevation, &p.Distance,
			&ts, &hr, &cadence, &power, &temp, &p.Speed); err != nil {
			return nil, fmt.Errorf("failed to scan track point: %w", err)
		}

		if ts.Valid {
			t := time.UnixMilli(ts.Int64).UTC()
			p.Time = &t
		}
		if hr.Valid {
			v := int(hr.Int64)
			p.HeartRate = &v
		}
		if cadence.Valid {
			v := int(cadence.Int64)
			p.Cadence = &v
		}
		if power.Valid {
			v := int(power.Int64)
			p.Power = &v
		}
		if temp.Valid {
			v := temp.Float64
			p.Temperature = &v
		}

		points = append(points, p)
	}
	return points, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
