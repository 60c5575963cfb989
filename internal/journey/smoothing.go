package journey

import "math"

// BearingSmoother damps the raw per-frame bearing with an exponential
// moving average before it is used for camera orientation. The blend is
// taken over the signed shortest-path difference so the 360°/0° seam
// never produces a full-circle swing.
type BearingSmoother struct {
	factor float64
	value  float64
	primed bool
}

// NewBearingSmoother creates a smoother with the given blend factor in
// (0,1]; higher follows the raw bearing more aggressively. Out-of-range
// factors are clamped.
func NewBearingSmoother(factor float64) *BearingSmoother {
	if factor <= 0 || factor > 1 {
		factor = 0.15
	}
	return &BearingSmoother{factor: factor}
}

// Update feeds one raw bearing sample and returns the smoothed value in
// [0, 360). The first sample primes the smoother directly.
func (s *BearingSmoother) Update(raw float64) float64 {
	raw = math.Mod(math.Mod(raw, 360)+360, 360)

	if !s.primed {
		s.value = raw
		s.primed = true
		return s.value
	}

	// Signed shortest-path difference in (-180, 180].
	diff := math.Mod(raw-s.value+540, 360) - 180
	s.value = math.Mod(s.value+diff*s.factor+360, 360)
	return s.value
}

// Reset clears the smoother state. Called when the journey is rebuilt or
// playback jumps backwards, so stale orientation does not bleed across.
func (s *BearingSmoother) Reset() {
	s.value = 0
	s.primed = false
}
