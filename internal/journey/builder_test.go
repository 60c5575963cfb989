package journey

import (
	"math"
	"testing"

	"github.com/trailplay/backend-go/internal/models"
)

// testTrack builds a 3-point track heading east along the equator with
// uniform 100m spacing, matching the reference playback scenario.
func testTrack(id string) models.Track {
	return models.Track{
		ID:    id,
		Name:  "Track " + id,
		Color: "#ff0000",
		Points: []models.TrackPoint{
			{Latitude: 0, Longitude: 0.000, Elevation: 100, Distance: 0, Speed: 10},
			{Latitude: 0, Longitude: 0.001, Elevation: 110, Distance: 100, Speed: 12},
			{Latitude: 0, Longitude: 0.002, Elevation: 105, Distance: 200, Speed: 11},
		},
		Stats: models.TrackStats{TotalDistance: 200},
	}
}

func TestBuildEmptySegments(t *testing.T) {
	if j := Build(nil, nil); j != nil {
		t.Fatalf("Expected nil journey for empty segment list")
	}
	if j := Build([]models.JourneySegment{}, []models.Track{testTrack("a")}); j != nil {
		t.Fatalf("Expected nil journey for empty segment list")
	}
}

func TestBuildSingleTrack(t *testing.T) {
	track := testTrack("a")
	segments := []models.JourneySegment{
		models.TrackSegment{TrackID: "a", Duration: 10000},
	}

	j := Build(segments, []models.Track{track})
	if j == nil {
		t.Fatal("Build returned nil")
	}

	if len(j.Points) != 3 {
		t.Fatalf("Expected 3 flattened points, got %d", len(j.Points))
	}
	if j.TotalDuration != 10000 || j.TrackDuration != 10000 || j.TransportDuration != 0 {
		t.Errorf("Unexpected durations: total=%d track=%d transport=%d",
			j.TotalDuration, j.TrackDuration, j.TransportDuration)
	}
	if j.TotalDistance != 200 {
		t.Errorf("Expected total distance 200, got %f", j.TotalDistance)
	}

	timing := j.Timings[0]
	if timing.ProgressStart != 0 || timing.ProgressEnd != 1 {
		t.Errorf("Expected progress window [0,1], got [%f,%f]", timing.ProgressStart, timing.ProgressEnd)
	}
	if timing.StartCoordIndex != 0 || timing.EndCoordIndex != 2 {
		t.Errorf("Expected coord range [0,2], got [%d,%d]", timing.StartCoordIndex, timing.EndCoordIndex)
	}
	if timing.Color != "#ff0000" {
		t.Errorf("Track color not carried into timing: %q", timing.Color)
	}

	for i, p := range j.Points {
		if p.SegmentIndex != 0 || p.SegmentKind != models.KindTrack || p.TrackID != "a" {
			t.Errorf("Point %d not tagged with provenance: %+v", i, p)
		}
	}
}

func TestBuildProgressWindowsContiguous(t *testing.T) {
	segments := []models.JourneySegment{
		models.TrackSegment{TrackID: "a", Duration: 5000},
		models.TransportSegment{
			Mode: models.ModeTrain,
			From: models.LatLng{Lat: 0, Lon: 0.002},
			To:   models.LatLng{Lat: 0.5, Lon: 0.5},
			Duration: 2000,
		},
		models.TrackSegment{TrackID: "b", Duration: 3000},
	}
	tracks := []models.Track{testTrack("a"), testTrack("b")}

	j := Build(segments, tracks)
	if j == nil {
		t.Fatal("Build returned nil")
	}

	for i, timing := range j.Timings {
		if timing.ProgressStart > timing.ProgressEnd {
			t.Errorf("Timing %d not monotonic: [%f,%f]", i, timing.ProgressStart, timing.ProgressEnd)
		}
		if i > 0 && j.Timings[i-1].ProgressEnd != timing.ProgressStart {
			t.Errorf("Gap between timings %d and %d: %f vs %f",
				i-1, i, j.Timings[i-1].ProgressEnd, timing.ProgressStart)
		}
	}

	last := j.Timings[len(j.Timings)-1]
	if math.Abs(last.ProgressEnd-1) > 1e-12 {
		t.Errorf("Final progress should be 1, got %f", last.ProgressEnd)
	}
}

func TestBuildTwoEqualTrackSegments(t *testing.T) {
	segments := []models.JourneySegment{
		models.TrackSegment{TrackID: "a", Duration: 5000},
		models.TrackSegment{TrackID: "b", Duration: 5000},
	}
	j := Build(segments, []models.Track{testTrack("a"), testTrack("b")})

	if j.Timings[0].ProgressStart != 0 || j.Timings[0].ProgressEnd != 0.5 {
		t.Errorf("Segment 1 window should be [0,0.5], got [%f,%f]",
			j.Timings[0].ProgressStart, j.Timings[0].ProgressEnd)
	}
	if j.Timings[1].ProgressStart != 0.5 || j.Timings[1].ProgressEnd != 1 {
		t.Errorf("Segment 2 window should be [0.5,1], got [%f,%f]",
			j.Timings[1].ProgressStart, j.Timings[1].ProgressEnd)
	}
}

func TestBuildTransportSegment(t *testing.T) {
	seg := models.TransportSegment{
		Mode:     models.ModePlane,
		From:     models.LatLng{Lat: 0, Lon: 0},
		To:       models.LatLng{Lat: 1, Lon: 1},
		Duration: 4000,
	}
	j := Build([]models.JourneySegment{seg}, nil)
	if j == nil {
		t.Fatal("Build returned nil")
	}

	if len(j.Points) != 51 {
		t.Fatalf("Expected 51 transport points, got %d", len(j.Points))
	}

	for i, p := range j.Points {
		if p.Elevation != 0 {
			t.Fatalf("Transport point %d should have zero elevation, got %f", i, p.Elevation)
		}
		if p.Speed != 500 {
			t.Fatalf("Plane points should carry 500 km/h, got %f", p.Speed)
		}
		if p.SegmentKind != models.KindTransport || p.Mode != models.ModePlane {
			t.Fatalf("Point %d missing transport provenance: %+v", i, p)
		}
		if i > 0 && p.Distance <= j.Points[i-1].Distance {
			t.Fatalf("Cumulative distance not increasing at point %d", i)
		}
	}

	// Polyline distance must be at least the straight-line total.
	polyline := j.Points[50].Distance
	if polyline < j.TotalDistance {
		t.Errorf("Polyline distance %f shorter than straight-line %f", polyline, j.TotalDistance)
	}
	if j.TransportDuration != 4000 || j.TrackDuration != 0 {
		t.Errorf("Unexpected duration split: track=%d transport=%d", j.TrackDuration, j.TransportDuration)
	}
}

func TestBuildDanglingTrackReference(t *testing.T) {
	segments := []models.JourneySegment{
		models.TrackSegment{TrackID: "a", Duration: 4000},
		models.TrackSegment{TrackID: "missing", Duration: 2000},
		models.TrackSegment{TrackID: "b", Duration: 4000},
	}
	j := Build(segments, []models.Track{testTrack("a"), testTrack("b")})
	if j == nil {
		t.Fatal("Build should succeed despite dangling reference")
	}

	// The dangling segment contributes no geometry...
	if len(j.Points) != 6 {
		t.Fatalf("Expected 6 points (3+0+3), got %d", len(j.Points))
	}
	dangling := j.Timings[1]
	if dangling.HasCoords() {
		t.Errorf("Dangling segment should span no coordinates: [%d,%d]",
			dangling.StartCoordIndex, dangling.EndCoordIndex)
	}

	// ...but still reserves its slice of the timeline.
	if dangling.ProgressStart != 0.4 || dangling.ProgressEnd != 0.6 {
		t.Errorf("Dangling segment should occupy [0.4,0.6], got [%f,%f]",
			dangling.ProgressStart, dangling.ProgressEnd)
	}
	if j.Timings[2].StartCoordIndex != 3 {
		t.Errorf("Segment after dangling should start at coord 3, got %d", j.Timings[2].StartCoordIndex)
	}
	if j.TotalDuration != 10000 {
		t.Errorf("Dangling duration must count toward the total, got %d", j.TotalDuration)
	}
}

func TestBuildZeroTotalDuration(t *testing.T) {
	segments := []models.JourneySegment{
		models.TrackSegment{TrackID: "a", Duration: 0},
		models.TrackSegment{TrackID: "b", Duration: 0},
	}
	j := Build(segments, []models.Track{testTrack("a"), testTrack("b")})
	if j == nil {
		t.Fatal("Build returned nil")
	}

	for i, timing := range j.Timings {
		if math.IsNaN(timing.ProgressStart) || math.IsNaN(timing.ProgressEnd) {
			t.Fatalf("Timing %d has NaN ratios", i)
		}
		if timing.ProgressStart != 0 || timing.ProgressEnd != 0 {
			t.Errorf("Zero-duration journey should default ratios to 0, got [%f,%f]",
				timing.ProgressStart, timing.ProgressEnd)
		}
	}

	if p := PointAtProgress(0, j); p == nil {
		t.Errorf("Resolver should still answer at progress 0 for a zero-duration journey")
	}
}
