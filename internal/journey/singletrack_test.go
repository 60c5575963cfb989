package journey

import (
	"math"
	"testing"

	"github.com/trailplay/backend-go/internal/models"
)

func TestSingleTrackEquivalence(t *testing.T) {
	// One track wrapped as the sole journey segment: both query paths
	// must agree at matching progress values.
	track := testTrack("a")
	j := Build([]models.JourneySegment{
		models.TrackSegment{TrackID: "a", Duration: 10000},
	}, []models.Track{track})

	for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		viaJourney := PointAtProgress(p, j)
		viaTrack := PointOnTrack(p, &track)
		if viaJourney == nil || viaTrack == nil {
			t.Fatalf("Missing point at progress %f", p)
		}

		if math.Abs(viaJourney.Latitude-viaTrack.Latitude) > 1e-9 ||
			math.Abs(viaJourney.Longitude-viaTrack.Longitude) > 1e-9 {
			t.Errorf("Position mismatch at %f: journey (%f,%f) vs track (%f,%f)",
				p, viaJourney.Latitude, viaJourney.Longitude, viaTrack.Latitude, viaTrack.Longitude)
		}
		if math.Abs(viaJourney.Elevation-viaTrack.Elevation) > 1e-9 {
			t.Errorf("Elevation mismatch at %f: %f vs %f", p, viaJourney.Elevation, viaTrack.Elevation)
		}
	}
}

func TestPointOnTrackInterpolation(t *testing.T) {
	track := testTrack("a")

	// 25% of a 200m track is halfway between points 0 and 1.
	p := PointOnTrack(0.25, &track)
	if p == nil {
		t.Fatal("Expected a point")
	}
	if math.Abs(p.Distance-50) > 1e-9 {
		t.Errorf("Expected distance 50, got %f", p.Distance)
	}
	if math.Abs(p.Longitude-0.0005) > 1e-12 {
		t.Errorf("Expected longitude 0.0005, got %f", p.Longitude)
	}

	// Exactly on a sample.
	p = PointOnTrack(0.5, &track)
	if p.Longitude != 0.001 || math.Abs(p.Distance-100) > 1e-9 {
		t.Errorf("Progress 0.5 should land on point 1, got lon %f dist %f", p.Longitude, p.Distance)
	}
}

func TestPointOnTrackBounds(t *testing.T) {
	track := testTrack("a")

	if p := PointOnTrack(0, &track); p == nil || p.Distance != 0 {
		t.Errorf("Progress 0 should be the first point")
	}
	if p := PointOnTrack(1, &track); p == nil || p.Distance != 200 {
		t.Errorf("Progress 1 should be the last point")
	}
	if p := PointOnTrack(-2, &track); p == nil || p.Distance != 0 {
		t.Errorf("Progress clamps at 0")
	}
	if p := PointOnTrack(0.5, nil); p != nil {
		t.Errorf("Nil track should yield nil")
	}

	empty := models.Track{ID: "e"}
	if p := PointOnTrack(0.5, &empty); p != nil {
		t.Errorf("Empty track should yield nil")
	}
}

func TestBearingOnTrack(t *testing.T) {
	track := testTrack("a")

	b := BearingOnTrack(0.1, &track)
	if math.Abs(b-90) > 1 {
		t.Errorf("Eastward track should bear ~90°, got %f", b)
	}

	b = BearingOnTrack(1, &track)
	if math.Abs(b-90) > 1 {
		t.Errorf("Bearing at track end should follow the final leg, got %f", b)
	}

	if b := BearingOnTrack(0.5, nil); b != 0 {
		t.Errorf("Nil track should yield 0, got %f", b)
	}
}

func TestCompletedOnTrack(t *testing.T) {
	track := testTrack("a")

	coords := CompletedOnTrack(0.25, &track)
	if len(coords) != 2 {
		t.Fatalf("Expected start point plus tip, got %d coordinates", len(coords))
	}
	tip := coords[len(coords)-1]
	if math.Abs(tip[0]-0.0005) > 1e-12 {
		t.Errorf("Tip should be the interpolated position, got %v", tip)
	}

	full := CompletedOnTrack(1, &track)
	if len(full) != 3 {
		t.Errorf("Full traversal should include every point, got %d", len(full))
	}
}
