// Package location maintains the bounded position history and its derived
// kinematics (speed, familiarity) for the safety engine.
package location

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidSample is returned when a sample has non-finite coordinates.
var ErrInvalidSample = errors.New("invalid location sample")

// Sample is a single position fix. Immutable once recorded.
type Sample struct {
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	AccuracyMeters float64   `json:"accuracyMeters"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// Valid reports whether the sample's coordinates and accuracy are finite numbers.
func (s Sample) Valid() bool {
	for _, f := range []float64{s.Lat, s.Lng, s.AccuracyMeters} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// earthRadiusKm is the mean Earth radius used for great-circle distance.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
