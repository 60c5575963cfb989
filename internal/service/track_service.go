package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/repository"
	"github.com/trailplay/backend-go/internal/spatial"
	"github.com/trailplay/backend-go/internal/stats"
)

// defaultPalette is cycled through for tracks uploaded without a color.
var defaultPalette = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6", "#1abc9c", "#e67e22",
}

// TrackService handles business logic for loaded tracks
type TrackService struct {
	trackRepo   *repository.TrackRepository
	journeyRepo *repository.JourneyRepository
}

// NewTrackService creates a new track service
func NewTrackService(trackRepo *repository.TrackRepository, journeyRepo *repository.JourneyRepository) *TrackService {
	return &TrackService{
		trackRepo:   trackRepo,
		journeyRepo: journeyRepo,
	}
}

// Ingest validates an uploaded track, computes its aggregate stats, and
// stores it. Points are expected pre-parsed; GPX/FIT decoding happens
// upstream of this service.
func (s *TrackService) Ingest(upload models.TrackUpload) (*models.Track, error) {
	if len(upload.Points) == 0 {
		return nil, fmt.Errorf("track has no points")
	}

	for i := 1; i < len(upload.Points); i++ {
		if upload.Points[i].Distance < upload.Points[i-1].Distance {
			return nil, fmt.Errorf("cumulative distance decreases at point %d", i)
		}
	}

	color := upload.Color
	if color == "" {
		existing, err := s.trackRepo.ListSummaries()
		if err != nil {
			return nil, fmt.Errorf("failed to pick track color: %w", err)
		}
		color = defaultPalette[len(existing)%len(defaultPalette)]
	}

	track := &models.Track{
		ID:      uuid.NewString(),
		Name:    upload.Name,
		Color:   color,
		Visible: true,
		Points:  upload.Points,
		Stats:   computeStats(upload.Points),
	}

	if err := s.trackRepo.InsertTrack(track); err != nil {
		return nil, fmt.Errorf("failed to store track: %w", err)
	}
	return track, nil
}

// GetTrack retrieves a single track with its points
func (s *TrackService) GetTrack(id string) (*models.Track, error) {
	track, err := s.trackRepo.GetTrack(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil {
		return nil, fmt.Errorf("track not found")
	}
	return track, nil
}

// ListTracks retrieves all track summaries
func (s *TrackService) ListTracks() ([]models.TrackSummary, error) {
	summaries, err := s.trackRepo.ListSummaries()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return summaries, nil
}

// UpdateTrack changes a track's display attributes
func (s *TrackService) UpdateTrack(id string, update models.TrackUpdate) error {
	if err := s.trackRepo.UpdateTrack(id, update); err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}
	return nil
}

// DeleteTrack removes a track and any journey segments referencing it
func (s *TrackService) DeleteTrack(id string) error {
	if err := s.journeyRepo.DeleteSegmentsForTrack(id); err != nil {
		return fmt.Errorf("failed to remove journey segments: %w", err)
	}
	if err := s.trackRepo.DeleteTrack(id); err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	return nil
}

// computeStats derives the aggregate track statistics at ingest time.
func computeStats(points []models.TrackPoint) models.TrackStats {
	coords := make([]spatial.Point, len(points))
	speeds := make([]float64, 0, len(points))
	for i, p := range points {
		coords[i] = spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
		if p.Speed > 0 {
			speeds = append(speeds, p.Speed)
		}
	}

	var st models.TrackStats

	st.TotalDistance = points[len(points)-1].Distance
	if st.TotalDistance == 0 {
		// Ingested without precomputed distances: derive from geometry.
		st.TotalDistance = spatial.PathLength(coords)
	}

	minLat, minLon, maxLat, maxLon := spatial.BoundingBox(coords)
	st.Bounds = models.BoundingBox{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}

	for i := 1; i < len(points); i++ {
		delta := points[i].Elevation - points[i-1].Elevation
		if delta > 0 {
			st.ElevationGain += delta
		} else {
			st.ElevationLoss -= delta
		}
	}

	if first, last := points[0].Time, points[len(points)-1].Time; first != nil && last != nil {
		st.TotalTime = last.Sub(*first).Milliseconds()
		for i := 1; i < len(points); i++ {
			a, b := points[i-1], points[i]
			if a.Time == nil || b.Time == nil {
				continue
			}
			if b.Distance > a.Distance {
				st.MovingTime += b.Time.Sub(*a.Time).Milliseconds()
			}
		}
	}

	st.MaxSpeed = stats.Max(speeds)
	st.AvgSpeed = stats.Mean(speeds)

	return st
}
