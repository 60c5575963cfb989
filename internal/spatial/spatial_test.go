package spatial

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// Two points ~140m apart in the Alps
	distance := Haversine(46.0, 7.0, 46.001, 7.001)

	expected := 140.0
	tolerance := 10.0
	if distance < expected-tolerance || distance > expected+tolerance {
		t.Errorf("Expected distance ~%.0fm, got %.0fm", expected, distance)
	}
}

func TestHaversineZero(t *testing.T) {
	if d := Haversine(46.0, 7.0, 46.0, 7.0); d != 0 {
		t.Errorf("Expected 0 for coincident points, got %f", d)
	}
}

func TestBearingCardinals(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected               float64
	}{
		{"north", 0, 0, 1, 0, 0},
		{"east", 0, 0, 0, 1, 90},
		{"south", 1, 0, 0, 0, 180},
		{"west", 0, 1, 0, 0, 270},
	}

	for _, c := range cases {
		got := Bearing(c.lat1, c.lon1, c.lat2, c.lon2)
		if math.Abs(got-c.expected) > 0.5 {
			t.Errorf("%s: expected bearing %.0f, got %.2f", c.name, c.expected, got)
		}
	}
}

func TestBearingRange(t *testing.T) {
	b := Bearing(46.0, 7.0, 45.9, 6.9)
	if b < 0 || b >= 360 {
		t.Errorf("Bearing out of [0,360): %f", b)
	}
}

func TestPathLength(t *testing.T) {
	points := []Point{
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.001, Lon: 7.001}, // ~140m
		{Lat: 46.002, Lon: 7.002}, // ~140m more
	}

	total := PathLength(points)
	if total < 260 || total > 300 {
		t.Errorf("Total path length incorrect: got %.0fm, expected ~280m", total)
	}

	if PathLength(points[:1]) != 0 {
		t.Errorf("Single-point path should have zero length")
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point{
		{Lat: 46.0, Lon: 7.2},
		{Lat: 46.5, Lon: 7.0},
		{Lat: 46.2, Lon: 7.4},
	}

	minLat, minLon, maxLat, maxLon := BoundingBox(points)
	if minLat != 46.0 || minLon != 7.0 || maxLat != 46.5 || maxLon != 7.4 {
		t.Errorf("Unexpected bounding box: %f %f %f %f", minLat, minLon, maxLat, maxLon)
	}
}
