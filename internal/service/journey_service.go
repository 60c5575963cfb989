package service

import (
	"fmt"
	"sync"

	"github.com/trailplay/backend-go/internal/journey"
	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/repository"
	"github.com/trailplay/backend-go/internal/spatial"
	"github.com/trailplay/backend-go/internal/stats"
)

// JourneyService owns the single cached ComputedJourney snapshot. The
// snapshot is rebuilt from scratch on every structural change and read
// (immutably) by the per-frame playback queries; a RWMutex separates
// the one writer from the many readers.
type JourneyService struct {
	trackRepo   *repository.TrackRepository
	journeyRepo *repository.JourneyRepository

	mu       sync.RWMutex
	snapshot *models.ComputedJourney
	built    bool

	smoother     *journey.BearingSmoother
	lastProgress float64
}

// NewJourneyService creates a new journey service. smoothingFactor is
// the bearing EMA blend factor in (0,1].
func NewJourneyService(trackRepo *repository.TrackRepository, journeyRepo *repository.JourneyRepository, smoothingFactor float64) *JourneyService {
	return &JourneyService{
		trackRepo:   trackRepo,
		journeyRepo: journeyRepo,
		smoother:    journey.NewBearingSmoother(smoothingFactor),
	}
}

// Segments returns the current segment list in playback order
func (s *JourneyService) Segments() ([]models.JourneySegment, error) {
	segments, err := s.journeyRepo.ListSegments()
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return segments, nil
}

// AddTrackSegment appends a track reference to the journey. The track
// must exist at insertion time; it may still go dangling later if the
// track is deleted out from under the list.
func (s *JourneyService) AddTrackSegment(trackID string, durationMs int64) (models.JourneySegment, error) {
	if durationMs < 0 {
		return nil, fmt.Errorf("duration must not be negative")
	}

	track, err := s.trackRepo.GetTrack(trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up track: %w", err)
	}
	if track == nil {
		return nil, fmt.Errorf("track not found")
	}

	seg := models.TrackSegment{TrackID: trackID, Duration: durationMs}
	id, err := s.journeyRepo.AppendSegment(seg)
	if err != nil {
		return nil, fmt.Errorf("failed to append segment: %w", err)
	}
	seg.ID = id

	s.Invalidate()
	return seg, nil
}

// AddTransportSegment appends a synthetic hop to the journey
func (s *JourneyService) AddTransportSegment(mode models.TransportMode, from, to models.LatLng, durationMs int64) (models.JourneySegment, error) {
	if !models.ValidMode(mode) {
		return nil, fmt.Errorf("unknown transport mode %q", mode)
	}
	if durationMs < 0 {
		return nil, fmt.Errorf("duration must not be negative")
	}

	seg := models.TransportSegment{
		Mode: mode,
		From: from,
		To:   to,
		Duration: durationMs,
		Distance: spatial.Haversine(from.Lat, from.Lon, to.Lat, to.Lon),
	}
	id, err := s.journeyRepo.AppendSegment(seg)
	if err != nil {
		return nil, fmt.Errorf("failed to append segment: %w", err)
	}
	seg.ID = id

	s.Invalidate()
	return seg, nil
}

// UpdateSegmentDuration changes a segment's assigned playback duration
func (s *JourneyService) UpdateSegmentDuration(id int64, durationMs int64) error {
	if durationMs < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if err := s.journeyRepo.UpdateDuration(id, durationMs); err != nil {
		return fmt.Errorf("failed to update segment: %w", err)
	}
	s.Invalidate()
	return nil
}

// DeleteSegment removes a segment from the journey
func (s *JourneyService) DeleteSegment(id int64) error {
	if err := s.journeyRepo.DeleteSegment(id); err != nil {
		return fmt.Errorf("failed to delete segment: %w", err)
	}
	s.Invalidate()
	return nil
}

// Reorder rearranges the segment list to the given id order
func (s *JourneyService) Reorder(ids []int64) error {
	if err := s.journeyRepo.Reorder(ids); err != nil {
		return fmt.Errorf("failed to reorder segments: %w", err)
	}
	s.Invalidate()
	return nil
}

// Invalidate drops the cached snapshot so the next read rebuilds it.
// Called after every structural change, including track mutations.
func (s *JourneyService) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.built = false
	s.smoother.Reset()
	s.lastProgress = 0
	s.mu.Unlock()
}

// Journey returns the current ComputedJourney snapshot, rebuilding it if
// a structural change invalidated the cache. Returns nil when no
// segments exist.
func (s *JourneyService) Journey() (*models.ComputedJourney, error) {
	s.mu.RLock()
	if s.built {
		snapshot := s.snapshot
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	segments, err := s.journeyRepo.ListSegments()
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	tracks, err := s.trackRepo.ListTracks()
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	snapshot := journey.Build(segments, tracks)

	s.mu.Lock()
	s.snapshot = snapshot
	s.built = true
	s.mu.Unlock()

	return snapshot, nil
}

// State answers the per-frame playback query at the given progress:
// marker position, raw and smoothed bearing, and the active segment.
// With no journey assembled but exactly one track loaded, it falls back
// to querying that track directly.
func (s *JourneyService) State(progress float64) (*models.PlaybackState, error) {
	snapshot, err := s.Journey()
	if err != nil {
		return nil, err
	}

	state := &models.PlaybackState{
		Progress:     clamp01(progress),
		Phase:        models.PhaseIdle,
		SegmentIndex: -1,
	}

	if snapshot == nil {
		track, err := s.fallbackTrack()
		if err != nil {
			return nil, err
		}
		if track == nil {
			return state, nil
		}

		point := journey.PointOnTrack(progress, track)
		if point == nil {
			return state, nil
		}
		state.Point = &models.JourneyPoint{
			TrackPoint:   *point,
			SegmentIndex: 0,
			SegmentKind:  models.KindTrack,
			TrackID:      track.ID,
		}
		state.Bearing = journey.BearingOnTrack(progress, track)
		state.SegmentIndex = 0
		state.LocalProgress = state.Progress
		state.Phase = phaseFor(state.Progress)
		state.SmoothedBearing = s.smoothBearing(state.Progress, state.Bearing)
		return state, nil
	}

	state.Phase = phaseFor(state.Progress)
	state.Point = journey.PointAtProgress(progress, snapshot)
	state.Bearing = journey.BearingAtProgress(progress, snapshot)
	state.SmoothedBearing = s.smoothBearing(state.Progress, state.Bearing)

	if pos := journey.SegmentAtProgress(progress, snapshot.Timings); pos != nil {
		timing := pos.Timing
		state.SegmentIndex = timing.SegmentIndex
		state.LocalProgress = pos.LocalProgress
		state.Timing = &timing
	}

	return state, nil
}

// Completed returns the trail-so-far polyline at the given progress
func (s *JourneyService) Completed(progress float64) ([][2]float64, error) {
	snapshot, err := s.Journey()
	if err != nil {
		return nil, err
	}

	if snapshot == nil {
		track, err := s.fallbackTrack()
		if err != nil {
			return nil, err
		}
		if track == nil {
			return nil, nil
		}
		return journey.CompletedOnTrack(progress, track), nil
	}

	return journey.CompletedCoordinates(progress, snapshot), nil
}

// Elevation returns the elevation chart payload. Axis bounds come from
// the 5th/95th elevation percentiles so a single bad GPS spike does not
// flatten the whole chart.
func (s *JourneyService) Elevation() (*models.ElevationProfile, error) {
	snapshot, err := s.Journey()
	if err != nil {
		return nil, err
	}

	samples := journey.ElevationData(snapshot)
	if len(samples) == 0 {
		return &models.ElevationProfile{}, nil
	}

	elevations := make([]float64, len(samples))
	for i, sample := range samples {
		elevations[i] = sample.Elevation
	}

	bounds := stats.Percentiles(elevations, []float64{5, 95})
	pad := (bounds[1] - bounds[0]) * 0.05

	return &models.ElevationProfile{
		Samples: samples,
		AxisMin: bounds[0] - pad,
		AxisMax: bounds[1] + pad,
	}, nil
}

// fallbackTrack returns the single loaded track when exactly one exists
func (s *JourneyService) fallbackTrack() (*models.Track, error) {
	tracks, err := s.trackRepo.ListTracks()
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	if len(tracks) != 1 {
		return nil, nil
	}
	return &tracks[0], nil
}

// smoothBearing feeds the raw bearing through the shared smoother,
// resetting when playback jumps backwards (scrub or restart).
func (s *JourneyService) smoothBearing(progress, raw float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if progress < s.lastProgress {
		s.smoother.Reset()
	}
	s.lastProgress = progress
	return s.smoother.Update(raw)
}

func phaseFor(progress float64) models.PlaybackPhase {
	switch {
	case progress <= 0:
		return models.PhaseIntro
	case progress >= 1:
		return models.PhaseEnded
	default:
		return models.PhasePlaying
	}
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
