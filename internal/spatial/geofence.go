package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/jengzang/taxi-analysis/internal/models"
)

// NoMatch is returned by Identify when no office is close enough
const NoMatch = -1

// ErrNoOffices is returned when a geofence is validated without offices
var ErrNoOffices = errors.New("no offices configured")

// GeofenceParams tunes the hotspot filter
type GeofenceParams struct {
	LatDelta     float64 // half-height of the coarse box, degrees
	LonDelta     float64 // half-width of the coarse box, degrees
	CutoffMeters float64 // exact-match radius
}

// DefaultGeofenceParams returns the deltas tuned for Manhattan office blocks
func DefaultGeofenceParams() GeofenceParams {
	return GeofenceParams{
		LatDelta:     0.001,
		LonDelta:     0.0012,
		CutoffMeters: 50,
	}
}

// Geofence assigns coordinates to the nearest office within a cutoff radius.
// A cheap bounding-box test runs before the great-circle distance so that
// most of the city never reaches the trigonometry.
type Geofence struct {
	offices []models.Office
	boxes   []s2.Rect
	params  GeofenceParams
}

// NewGeofence builds the coarse boxes for every office
func NewGeofence(offices []models.Office, params GeofenceParams) *Geofence {
	size := s2.LatLngFromDegrees(2*params.LatDelta, 2*params.LonDelta)
	boxes := make([]s2.Rect, len(offices))
	for i, o := range offices {
		boxes[i] = s2.RectFromCenterSize(s2.LatLngFromDegrees(o.Lat, o.Lon), size)
	}
	return &Geofence{
		offices: offices,
		boxes:   boxes,
		params:  params,
	}
}

// Offices returns the offices in index order
func (g *Geofence) Offices() []models.Office {
	return g.offices
}

// Identify returns the index of the nearest office whose box contains the
// coordinate and whose distance is below the cutoff, along with that distance
// in meters. On exact ties the lower index wins. Returns NoMatch otherwise.
func (g *Geofence) Identify(lat, lon float64) (int, float64) {
	if !validCoordinate(lat, lon) {
		return NoMatch, 0
	}

	ll := s2.LatLngFromDegrees(lat, lon)
	best := NoMatch
	bestDist := g.params.CutoffMeters
	for i, box := range g.boxes {
		if !box.ContainsLatLng(ll) {
			continue
		}
		d := HaversineDistance(lat, lon, g.offices[i].Lat, g.offices[i].Lon)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	if best == NoMatch {
		return NoMatch, 0
	}
	return best, bestDist
}

// ValidateParams checks that every office's coarse box reaches further than
// the cutoff radius in both directions, so the box never rejects a point the
// distance check would accept
func ValidateParams(offices []models.Office, params GeofenceParams) error {
	if len(offices) == 0 {
		return ErrNoOffices
	}
	if params.LatDelta <= 0 || params.LonDelta <= 0 || params.CutoffMeters <= 0 {
		return fmt.Errorf("geofence parameters must be positive: %+v", params)
	}

	for _, o := range offices {
		if !validCoordinate(o.Lat, o.Lon) {
			return fmt.Errorf("office %q has invalid coordinate (%f, %f)", o.Name, o.Lat, o.Lon)
		}
		halfHeight := HaversineDistance(o.Lat, o.Lon, o.Lat+params.LatDelta, o.Lon)
		halfWidth := HaversineDistance(o.Lat, o.Lon, o.Lat, o.Lon+params.LonDelta)
		if math.Min(halfHeight, halfWidth) <= params.CutoffMeters {
			return fmt.Errorf("geofence box for %q is %.1fm x %.1fm, not larger than the %.0fm cutoff",
				o.Name, 2*halfHeight, 2*halfWidth, params.CutoffMeters)
		}
	}
	return nil
}
