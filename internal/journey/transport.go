package journey

import (
	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/spatial"
)

// DefaultTransportSamples is the number of interpolation intervals used
// for a synthetic transport hop (yielding DefaultTransportSamples+1 points).
const DefaultTransportSamples = 50

// modeSpeedKmh is the nominal display speed per transport mode.
var modeSpeedKmh = map[models.TransportMode]float64{
	models.ModeCar:   50,
	models.ModeBus:   30,
	models.ModeTrain: 80,
	models.ModePlane: 500,
	models.ModeBike:  15,
	models.ModeWalk:  4,
	models.ModeFerry: 25,
}

// ModeSpeedKmh returns the nominal speed for a transport mode in km/h.
// Unknown modes fall back to the car speed.
func ModeSpeedKmh(mode models.TransportMode) float64 {
	if v, ok := modeSpeedKmh[mode]; ok {
		return v
	}
	return modeSpeedKmh[models.ModeCar]
}

// InterpolateRoute produces numPoints+1 points between from and to via
// linear interpolation in lat/lon space, parameterized by index. This is
// a deliberate rhumb-line approximation: synthetic hops are short enough
// that great-circle interpolation would not be visually distinguishable.
// A degenerate from == to yields numPoints+1 coincident points.
func InterpolateRoute(from, to spatial.Point, numPoints int) []spatial.Point {
	if numPoints < 1 {
		numPoints = DefaultTransportSamples
	}

	points := make([]spatial.Point, 0, numPoints+1)
	for i := 0; i <= numPoints; i++ {
		t := float64(i) / float64(numPoints)
		points = append(points, spatial.Point{
			Lat: from.Lat + (to.Lat-from.Lat)*t,
			Lon: from.Lon + (to.Lon-from.Lon)*t,
		})
	}

	return points
}
