package journey

import (
	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/spatial"
)

// Build flattens an ordered segment list into a single coordinate
// timeline with per-segment timing windows. Returns nil when there are
// no segments. Rebuilt from scratch on every structural change; the
// result is treated as an immutable snapshot by all readers.
//
// A track segment whose track id is not present in tracks contributes
// no geometry but still reserves its assigned duration on the timeline,
// so a dangling reference degrades to a gap instead of breaking playback.
func Build(segments []models.JourneySegment, tracks []models.Track) *models.ComputedJourney {
	if len(segments) == 0 {
		return nil
	}

	byID := make(map[string]*models.Track, len(tracks))
	for i := range tracks {
		byID[tracks[i].ID] = &tracks[i]
	}

	// Progress ratios divide by the grand total, so it is needed before
	// the main pass.
	var totalDuration int64
	for _, seg := range segments {
		totalDuration += seg.AssignedDuration()
	}

	journey := &models.ComputedJourney{
		TotalDuration: totalDuration,
	}

	coordIndex := 0
	var accumulatedTime int64
	var totalDistance float64

	for segIdx, seg := range segments {
		timing := models.SegmentTiming{
			SegmentIndex:    segIdx,
			Kind:            seg.Kind(),
			Duration:        seg.AssignedDuration(),
			StartTime:       accumulatedTime,
			EndTime:         accumulatedTime + seg.AssignedDuration(),
			StartCoordIndex: coordIndex,
		}

		switch s := seg.(type) {
		case models.TrackSegment:
			if track, ok := byID[s.TrackID]; ok {
				for _, p := range track.Points {
					journey.Points = append(journey.Points, models.JourneyPoint{
						TrackPoint:   p,
						SegmentIndex: segIdx,
						SegmentKind:  models.KindTrack,
						TrackID:      s.TrackID,
					})
				}
				coordIndex += len(track.Points)
				totalDistance += track.Stats.TotalDistance
				timing.Color = track.Color
			}
			timing.TrackID = s.TrackID
			journey.TrackDuration += s.Duration

		case models.TransportSegment:
			route := InterpolateRoute(
				spatial.Point{Lat: s.From.Lat, Lon: s.From.Lon},
				spatial.Point{Lat: s.To.Lat, Lon: s.To.Lon},
				DefaultTransportSamples,
			)
			speed := ModeSpeedKmh(s.Mode)

			// Per-point distance is the true cumulative length along the
			// interpolated polyline, not the straight-line fraction.
			var cumulative float64
			for i, p := range route {
				if i > 0 {
					cumulative += spatial.Haversine(route[i-1].Lat, route[i-1].Lon, p.Lat, p.Lon)
				}
				journey.Points = append(journey.Points, models.JourneyPoint{
					TrackPoint: models.TrackPoint{
						Latitude:  p.Lat,
						Longitude: p.Lon,
						Elevation: 0,
						Distance:  cumulative,
						Speed:     speed,
					},
					SegmentIndex: segIdx,
					SegmentKind:  models.KindTransport,
					Mode:         s.Mode,
				})
			}
			coordIndex += len(route)
			totalDistance += spatial.Haversine(s.From.Lat, s.From.Lon, s.To.Lat, s.To.Lon)
			timing.Mode = s.Mode
			journey.TransportDuration += s.Duration
		}

		timing.EndCoordIndex = coordIndex - 1
		if totalDuration > 0 {
			timing.ProgressStart = float64(timing.StartTime) / float64(totalDuration)
			timing.ProgressEnd = float64(timing.EndTime) / float64(totalDuration)
		}
		// totalDuration == 0 leaves both ratios at 0 instead of NaN.

		journey.Timings = append(journey.Timings, timing)
		accumulatedTime = timing.EndTime
	}

	journey.TotalDistance = totalDistance
	return journey
}
