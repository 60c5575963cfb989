package journey

import (
	"sort"

	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/spatial"
)

// Single-track fast path: when only one track is loaded and no journey
// has been assembled, the same per-frame queries are answered directly
// against the track by binary-searching its cumulative distance. In the
// degenerate one-segment case this agrees with the journey path.

// trackBracket locates the pair of points surrounding the target
// distance and the interpolation fraction between them.
func trackBracket(track *models.Track, progress float64) (lo, hi int, t float64, ok bool) {
	if track == nil || len(track.Points) == 0 {
		return 0, 0, 0, false
	}
	progress = clampProgress(progress)

	points := track.Points
	if len(points) == 1 {
		return 0, 0, 0, true
	}

	target := progress * track.Stats.TotalDistance

	// First point whose cumulative distance exceeds the target.
	hi = sort.Search(len(points), func(i int) bool {
		return points[i].Distance > target
	})
	if hi == 0 {
		return 0, 0, 0, true
	}
	if hi >= len(points) {
		last := len(points) - 1
		return last, last, 0, true
	}

	lo = hi - 1
	span := points[hi].Distance - points[lo].Distance
	if span > 0 {
		t = (target - points[lo].Distance) / span
	}
	return lo, hi, t, true
}

// PointOnTrack resolves the interpolated position at progress against a
// single track, without a ComputedJourney.
func PointOnTrack(progress float64, track *models.Track) *models.TrackPoint {
	lo, hi, t, ok := trackBracket(track, progress)
	if !ok {
		return nil
	}

	a := track.Points[lo]
	if lo == hi {
		out := a
		return &out
	}
	b := track.Points[hi]

	out := models.TrackPoint{
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
	}
	return &out
}

// BearingOnTrack computes the forward bearing at progress against a
// single track, with the same look-ahead window as the journey path.
func BearingOnTrack(progress float64, track *models.Track) float64 {
	if track == nil || len(track.Points) < 2 {
		return 0
	}

	current := PointOnTrack(progress, track)
	lo, _, _, _ := trackBracket(track, progress)

	target := lo + BearingLookahead
	if target > len(track.Points)-1 {
		target = len(track.Points) - 1
	}

	ahead := track.Points[target]
	if ahead.Latitude == current.Latitude && ahead.Longitude == current.Longitude {
		last := len(track.Points) - 1
		return spatial.Bearing(
			track.Points[last-1].Latitude, track.Points[last-1].Longitude,
			track.Points[last].Latitude, track.Points[last].Longitude,
		)
	}

	return spatial.Bearing(current.Latitude, current.Longitude, ahead.Latitude, ahead.Longitude)
}

// CompletedOnTrack returns the [lon, lat] polyline traversed so far on a
// single track, interpolated tip included.
func CompletedOnTrack(progress float64, track *models.Track) [][2]float64 {
	if track == nil || len(track.Points) == 0 {
		return nil
	}

	lo, hi, t, _ := trackBracket(track, progress)

	// Indices strictly before the fractional position lo+t.
	upto := lo
	if t > 0 {
		upto = hi
	}

	coords := make([][2]float64, 0, upto+1)
	for i := 0; i < upto; i++ {
		coords = append(coords, [2]float64{track.Points[i].Longitude, track.Points[i].Latitude})
	}

	if tip := PointOnTrack(progress, track); tip != nil {
		coords = append(coords, [2]float64{tip.Longitude, tip.Latitude})
	}
	return coords
}
