package journey

import (
	"math"

	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/spatial"
)

// BearingLookahead is how many coordinate samples ahead of the current
// position the bearing target is taken from. Adjacent GPS samples are
// too noisy to aim the camera at directly.
const BearingLookahead = 10

// SegmentPosition locates a progress value within one segment.
type SegmentPosition struct {
	Timing        models.SegmentTiming
	LocalProgress float64
}

// clampProgress bounds progress to [0,1] at every resolver entry point
// so floating-point drift from the animation driver never propagates.
func clampProgress(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// SegmentAtProgress finds the segment whose progress window contains
// progress; the first match in segment order wins. A value exactly at a
// seam belongs to the later segment (local progress 0), so the handoff
// between segments is deterministic. Returns nil only when there are no
// timings.
func SegmentAtProgress(progress float64, timings []models.SegmentTiming) *SegmentPosition {
	if len(timings) == 0 {
		return nil
	}
	progress = clampProgress(progress)

	for _, timing := range timings {
		width := timing.ProgressEnd - timing.ProgressStart
		// Half-open window; zero-width windows match their single value.
		contains := progress >= timing.ProgressStart &&
			(progress < timing.ProgressEnd || (width == 0 && progress == timing.ProgressEnd))
		if contains {
			local := 0.0
			if width > 0 {
				local = (progress - timing.ProgressStart) / width
			}
			return &SegmentPosition{Timing: timing, LocalProgress: local}
		}
	}

	// Guards against float edge cases at progress ≈ 1: fall back to the
	// last segment, fully traversed.
	return &SegmentPosition{Timing: timings[len(timings)-1], LocalProgress: 1}
}

// fractionalIndex maps a progress value onto a fractional position in
// the flattened coordinate array. The boolean is false when the active
// segment has no coordinates (dangling track reference).
func fractionalIndex(progress float64, journey *models.ComputedJourney) (float64, bool) {
	pos := SegmentAtProgress(progress, journey.Timings)
	if pos == nil || !pos.Timing.HasCoords() {
		return 0, false
	}

	span := pos.Timing.EndCoordIndex - pos.Timing.StartCoordIndex
	idx := float64(pos.Timing.StartCoordIndex) + pos.LocalProgress*float64(span)

	// Clamp against rounding at the very end of the array.
	max := float64(len(journey.Points) - 1)
	if idx > max {
		idx = max
	}
	return idx, true
}

// interpolatePoint blends the two bracket points of a fractional index.
// Numeric motion fields are interpolated linearly; annotation fields are
// carried from the floor point, and only when both brackets carry them,
// so a missing sensor reading never turns into a fabricated number.
func interpolatePoint(journey *models.ComputedJourney, idx float64) *models.JourneyPoint {
	floor := int(math.Floor(idx))
	ceil := int(math.Ceil(idx))
	if ceil > len(journey.Points)-1 {
		ceil = len(journey.Points) - 1
	}

	a := journey.Points[floor]
	if floor == ceil {
		out := a
		return &out
	}

	b := journey.Points[ceil]
	t := idx - float64(floor)

	out := models.JourneyPoint{
		TrackPoint: models.TrackPoint{
			Latitude:    lerp(a.Latitude, b.Latitude, t),
			Longitude:   lerp(a.Longitude, b.Longitude, t),
			Elevation:   lerp(a.Elevation, b.Elevation, t),
			Distance:    lerp(a.Distance, b.Distance, t),
			Speed:       lerp(a.Speed, b.Speed, t),
			Time:        a.Time,
			HeartRate:   carryInt(a.HeartRate, b.HeartRate),
			Cadence:     carryInt(a.Cadence, b.Cadence),
			Power:       carryInt(a.Power, b.Power),
			Temperature: carryFloat(a.Temperature, b.Temperature),
		},
		SegmentIndex: a.SegmentIndex,
		SegmentKind:  a.SegmentKind,
		TrackID:      a.TrackID,
		Mode:         a.Mode,
	}
	return &out
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func carryInt(a, b *int) *int {
	if a == nil || b == nil {
		return nil
	}
	v := *a
	return &v
}

func carryFloat(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a
	return &v
}

// PointAtProgress resolves the interpolated marker position at a global
// progress value. This is the single source of truth for "where is the
// marker right now". Returns nil for a nil/empty journey or when the
// active segment contributed no geometry.
func PointAtProgress(progress float64, journey *models.ComputedJourney) *models.JourneyPoint {
	if journey == nil || len(journey.Points) == 0 {
		return nil
	}

	idx, ok := fractionalIndex(clampProgress(progress), journey)
	if !ok {
		return nil
	}
	return interpolatePoint(journey, idx)
}

// CompletedCoordinates returns the [lon, lat] polyline drawn so far:
// every flattened coordinate strictly before the current fractional
// index, with the exact interpolated tip appended last. Nothing beyond
// the current progress ever leaks in, and the tip keeps the line ending
// on the marker between samples.
func CompletedCoordinates(progress float64, journey *models.ComputedJourney) [][2]float64 {
	if journey == nil || len(journey.Points) == 0 {
		return nil
	}
	progress = clampProgress(progress)

	idx, ok := fractionalIndex(progress, journey)
	if !ok {
		// Active segment has no geometry: return the prefix accumulated
		// before it, without a tip.
		pos := SegmentAtProgress(progress, journey.Timings)
		coords := make([][2]float64, 0, pos.Timing.StartCoordIndex)
		for i := 0; i < pos.Timing.StartCoordIndex && i < len(journey.Points); i++ {
			coords = append(coords, [2]float64{journey.Points[i].Longitude, journey.Points[i].Latitude})
		}
		return coords
	}

	upto := int(math.Ceil(idx))
	coords := make([][2]float64, 0, upto+1)
	for i := 0; i < upto; i++ {
		coords = append(coords, [2]float64{journey.Points[i].Longitude, journey.Points[i].Latitude})
	}

	if tip := interpolatePoint(journey, idx); tip != nil {
		coords = append(coords, [2]float64{tip.Longitude, tip.Latitude})
	}
	return coords
}

// BearingAtProgress computes the forward bearing at a progress value,
// aiming at a point up to BearingLookahead samples ahead (clamped to the
// array). Returns 0 when no direction can be derived.
func BearingAtProgress(progress float64, journey *models.ComputedJourney) float64 {
	if journey == nil || len(journey.Points) < 2 {
		return 0
	}

	idx, ok := fractionalIndex(clampProgress(progress), journey)
	if !ok {
		return 0
	}

	current := interpolatePoint(journey, idx)
	target := int(math.Floor(idx)) + BearingLookahead
	if target > len(journey.Points)-1 {
		target = len(journey.Points) - 1
	}

	ahead := journey.Points[target]
	if ahead.Latitude == current.Latitude && ahead.Longitude == current.Longitude {
		// At the very end of the path: aim along the final leg instead.
		last := len(journey.Points) - 1
		return spatial.Bearing(
			journey.Points[last-1].Latitude, journey.Points[last-1].Longitude,
			journey.Points[last].Latitude, journey.Points[last].Longitude,
		)
	}

	return spatial.Bearing(current.Latitude, current.Longitude, ahead.Latitude, ahead.Longitude)
}

// ElevationData produces one chart sample per flattened coordinate. The
// distance axis is recomputed cumulatively across the whole path because
// per-segment distance fields reset at segment boundaries.
func ElevationData(journey *models.ComputedJourney) []models.ElevationSample {
	if journey == nil || len(journey.Points) == 0 {
		return nil
	}

	n := len(journey.Points)
	samples := make([]models.ElevationSample, 0, n)

	var cumulative float64
	for i, p := range journey.Points {
		if i > 0 {
			prev := journey.Points[i-1]
			cumulative += spatial.Haversine(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
		}

		progress := 0.0
		if n > 1 {
			progress = float64(i) / float64(n-1)
		}

		samples = append(samples, models.ElevationSample{
			Distance:     cumulative,
			Elevation:    p.Elevation,
			Progress:     progress,
			SegmentIndex: p.SegmentIndex,
			SegmentKind:  p.SegmentKind,
		})
	}

	return samples
}
