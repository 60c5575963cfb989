package models

import "time"

// TrackPoint represents one sampled position along a loaded track.
// Optional sensor fields use pointers so "no sensor" stays distinct
// from a genuine zero reading.
type TrackPoint struct {
	Latitude    float64    `json:"latitude" db:"latitude"`
	Longitude   float64    `json:"longitude" db:"longitude"`
	Elevation   float64    `json:"elevation" db:"elevation"`
	Distance    float64    `json:"distance" db:"distance"` // cumulative meters from track start
	Time        *time.Time `json:"time,omitempty" db:"time"`
	HeartRate   *int       `json:"heartRate,omitempty" db:"heart_rate"`
	Cadence     *int       `json:"cadence,omitempty" db:"cadence"`
	Power       *int       `json:"power,omitempty" db:"power"`
	Temperature *float64   `json:"temperature,omitempty" db:"temperature"`
	Speed       float64    `json:"speed" db:"speed"` // instantaneous, km/h
}

// BoundingBox is the geographic extent of a track.
type BoundingBox struct {
	MinLat float64 `json:"minLat" db:"min_lat"`
	MinLon float64 `json:"minLon" db:"min_lon"`
	MaxLat float64 `json:"maxLat" db:"max_lat"`
	MaxLon float64 `json:"maxLon" db:"max_lon"`
}

// TrackStats holds aggregate statistics computed at ingest time.
type TrackStats struct {
	TotalDistance float64     `json:"totalDistance" db:"total_distance"` // meters
	TotalTime     int64       `json:"totalTime" db:"total_time"`         // milliseconds
	MovingTime    int64       `json:"movingTime" db:"moving_time"`       // milliseconds
	ElevationGain float64     `json:"elevationGain" db:"elevation_gain"` // meters
	ElevationLoss float64     `json:"elevationLoss" db:"elevation_loss"` // meters
	MaxSpeed      float64     `json:"maxSpeed" db:"max_speed"`           // km/h
	AvgSpeed      float64     `json:"avgSpeed" db:"avg_speed"`           // km/h
	Bounds        BoundingBox `json:"bounds"`
}

// Track is an ordered, non-empty sequence of points plus aggregates.
// The journey engine only ever reads it.
type Track struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Color     string       `json:"color" db:"color"`
	Visible   bool         `json:"visible" db:"visible"`
	Points    []TrackPoint `json:"points,omitempty"`
	Stats     TrackStats   `json:"stats"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}

// TrackSummary is a Track without its point payload, for list responses.
type TrackSummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Visible    bool       `json:"visible"`
	PointCount int        `json:"pointCount"`
	Stats      TrackStats `json:"stats"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// TrackUpload is the ingest request body: points already parsed and
// validated upstream (GPX parsing itself lives outside this service).
type TrackUpload struct {
	Name   string       `json:"name" binding:"required"`
	Color  string       `json:"color"`
	Points []TrackPoint `json:"points" binding:"required"`
}

// TrackUpdate carries the mutable display attributes of a track.
type TrackUpdate struct {
	Name    *string `json:"name"`
	Color   *string `json:"color"`
	Visible *bool   `json:"visible"`
}
