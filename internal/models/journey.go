package models

import (
	"encoding/json"
	"fmt"
)

// SegmentKind discriminates the two journey segment variants.
type SegmentKind string

const (
	KindTrack     SegmentKind = "track"
	KindTransport SegmentKind = "transport"
)

// TransportMode identifies a synthetic hop's vehicle.
type TransportMode string

const (
	ModeCar   TransportMode = "car"
	ModeBus   TransportMode = "bus"
	ModeTrain TransportMode = "train"
	ModePlane TransportMode = "plane"
	ModeBike  TransportMode = "bike"
	ModeWalk  TransportMode = "walk"
	ModeFerry TransportMode = "ferry"
)

// ValidMode reports whether m is one of the known transport modes.
func ValidMode(m TransportMode) bool {
	switch m {
	case ModeCar, ModeBus, ModeTrain, ModePlane, ModeBike, ModeWalk, ModeFerry:
		return true
	}
	return false
}

// LatLng is a bare coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// JourneySegment is a closed sum type: either a TrackSegment or a
// TransportSegment. Consumers switch on the concrete type; the sealed
// marker method keeps the set of variants fixed.
type JourneySegment interface {
	segment()
	// AssignedDuration is the playback duration in milliseconds,
	// independent of any real recorded time.
	AssignedDuration() int64
	Kind() SegmentKind
}

// TrackSegment references a loaded track by id.
type TrackSegment struct {
	ID       int64  `json:"id,omitempty"`
	TrackID  string `json:"trackId"`
	Duration int64  `json:"duration"` // ms
}

func (TrackSegment) segment()                  {}
func (s TrackSegment) AssignedDuration() int64 { return s.Duration }
func (TrackSegment) Kind() SegmentKind         { return KindTrack }

// TransportSegment is a synthetic straight-line hop between two points.
type TransportSegment struct {
	ID       int64         `json:"id,omitempty"`
	Mode     TransportMode `json:"mode"`
	From     LatLng        `json:"from"`
	To       LatLng        `json:"to"`
	Duration int64         `json:"duration"` // ms
	Distance float64       `json:"distance"` // straight-line meters, computed
}

func (TransportSegment) segment()                  {}
func (s TransportSegment) AssignedDuration() int64 { return s.Duration }
func (TransportSegment) Kind() SegmentKind         { return KindTransport }

// SegmentEnvelope is the kind-tagged wire form of a JourneySegment.
type SegmentEnvelope struct {
	Kind     SegmentKind   `json:"kind"`
	ID       int64         `json:"id,omitempty"`
	TrackID  string        `json:"trackId,omitempty"`
	Mode     TransportMode `json:"mode,omitempty"`
	From     *LatLng       `json:"from,omitempty"`
	To       *LatLng       `json:"to,omitempty"`
	Duration int64         `json:"duration"`
	Distance float64       `json:"distance,omitempty"`
}

// WrapSegment converts a segment to its kind-tagged wire form.
func WrapSegment(s JourneySegment) SegmentEnvelope {
	switch seg := s.(type) {
	case TrackSegment:
		return SegmentEnvelope{
			Kind: KindTrack, ID: seg.ID, TrackID: seg.TrackID, Duration: seg.Duration,
		}
	case TransportSegment:
		return SegmentEnvelope{
			Kind: KindTransport, ID: seg.ID, Mode: seg.Mode,
			From: &seg.From, To: &seg.To,
			Duration: seg.Duration, Distance: seg.Distance,
		}
	}
	return SegmentEnvelope{}
}

// MarshalSegment encodes a segment with its kind tag.
func MarshalSegment(s JourneySegment) ([]byte, error) {
	switch s.(type) {
	case TrackSegment, TransportSegment:
		return json.Marshal(WrapSegment(s))
	default:
		return nil, fmt.Errorf("unknown segment type %T", s)
	}
}

// UnmarshalSegment decodes a kind-tagged segment envelope.
func UnmarshalSegment(data []byte) (JourneySegment, error) {
	var env SegmentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode segment: %w", err)
	}
	switch env.Kind {
	case KindTrack:
		if env.TrackID == "" {
			return nil, fmt.Errorf("track segment missing trackId")
		}
		return TrackSegment{ID: env.ID, TrackID: env.TrackID, Duration: env.Duration}, nil
	case KindTransport:
		if !ValidMode(env.Mode) {
			return nil, fmt.Errorf("unknown transport mode %q", env.Mode)
		}
		if env.From == nil || env.To == nil {
			return nil, fmt.Errorf("transport segment missing endpoints")
		}
		return TransportSegment{
			ID: env.ID, Mode: env.Mode, From: *env.From, To: *env.To,
			Duration: env.Duration, Distance: env.Distance,
		}, nil
	default:
		return nil, fmt.Errorf("unknown segment kind %q", env.Kind)
	}
}

// JourneyPoint is a TrackPoint plus provenance: which segment of the
// flattened timeline it belongs to and where that segment came from.
type JourneyPoint struct {
	TrackPoint
	SegmentIndex int           `json:"segmentIndex"`
	SegmentKind  SegmentKind   `json:"segmentKind"`
	TrackID      string        `json:"trackId,omitempty"`
	Mode         TransportMode `json:"mode,omitempty"`
}

// SegmentTiming is the derived timing window of one journey segment,
// expressed both as absolute milliseconds and as normalized progress.
type SegmentTiming struct {
	SegmentIndex    int           `json:"segmentIndex"`
	Kind            SegmentKind   `json:"kind"`
	Duration        int64         `json:"duration"`  // ms
	StartTime       int64         `json:"startTime"` // ms, cumulative
	EndTime         int64         `json:"endTime"`   // ms, cumulative
	StartCoordIndex int           `json:"startCoordIndex"`
	EndCoordIndex   int           `json:"endCoordIndex"` // start-1 when the segment contributed no points
	ProgressStart   float64       `json:"progressStart"`
	ProgressEnd     float64       `json:"progressEnd"`
	TrackID         string        `json:"trackId,omitempty"`
	Color           string        `json:"color,omitempty"`
	Mode            TransportMode `json:"mode,omitempty"`
}

// HasCoords reports whether the timing spans at least one flattened point.
func (t SegmentTiming) HasCoords() bool { return t.EndCoordIndex >= t.StartCoordIndex }

// ComputedJourney is the builder's output: an immutable snapshot of the
// flattened coordinate timeline, per-segment timings, and totals. It is
// rebuilt from scratch on every structural change.
type ComputedJourney struct {
	Points            []JourneyPoint  `json:"points"`
	Timings           []SegmentTiming `json:"timings"`
	TotalDuration     int64           `json:"totalDuration"`     // ms
	TotalDistance     float64         `json:"totalDistance"`     // meters
	TrackDuration     int64           `json:"trackDuration"`     // ms
	TransportDuration int64           `json:"transportDuration"` // ms
}

// ElevationSample is one entry of the elevation-profile chart data.
type ElevationSample struct {
	Distance     float64     `json:"distance"` // cumulative meters along the flattened path
	Elevation    float64     `json:"elevation"`
	Progress     float64     `json:"progress"`
	SegmentIndex int         `json:"segmentIndex"`
	SegmentKind  SegmentKind `json:"segmentKind"`
}
