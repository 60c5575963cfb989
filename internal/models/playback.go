package models

// PlaybackPhase is the animation lifecycle owned by the consumer. The
// engine itself is phase-agnostic; the phase reported here is derived
// from progress for convenience of thin clients.
type PlaybackPhase string

const (
	PhaseIdle    PlaybackPhase = "idle"
	PhaseIntro   PlaybackPhase = "intro"
	PhasePlaying PlaybackPhase = "playing"
	PhaseOutro   PlaybackPhase = "outro"
	PhaseEnded   PlaybackPhase = "ended"
)

// PlaybackState is the per-frame answer to "what is true at progress p".
type PlaybackState struct {
	Progress        float64        `json:"progress"`
	Phase           PlaybackPhase  `json:"phase"`
	Point           *JourneyPoint  `json:"point,omitempty"`
	Bearing         float64        `json:"bearing"`
	SmoothedBearing float64        `json:"smoothedBearing"`
	SegmentIndex    int            `json:"segmentIndex"`
	LocalProgress   float64        `json:"localProgress"`
	Timing          *SegmentTiming `json:"timing,omitempty"`
}

// ElevationProfile is the chart payload: samples plus axis bounds that
// ignore outlier elevation spikes.
type ElevationProfile struct {
	Samples []ElevationSample `json:"samples"`
	AxisMin float64           `json:"axisMin"`
	AxisMax float64           `json:"axisMax"`
}
