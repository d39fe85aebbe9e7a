package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// destinationPoint walks distance metres from (lat, lon) along bearing
// degrees on the same sphere HaversineDistance uses
func destinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lon)
	theta := bearing * math.Pi / 180
	delta := distance / EarthRadiusMeters

	phi1 := p.Lat.Radians()
	lambda1 := p.Lng.Radians()

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return phi2 * 180 / math.Pi, lambda2 * 180 / math.Pi
}
