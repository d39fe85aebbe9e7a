package spatial

import (
	"errors"
	"math"
)

// SecondsPerDay is the period of time-of-day values
const SecondsPerDay = 24 * 3600

// halfDay maps seconds to radians: one full revolution per day
const halfDay = 12 * 3600

// ErrEmptyPopulation is returned when a statistic is requested over no values
var ErrEmptyPopulation = errors.New("empty population")

// PeriodicPoint is a time-of-day embedded on the unit circle, midnight at angle 0
type PeriodicPoint struct {
	X float64 // cos
	Y float64 // sin
}

// MeanResultantLength calculates the mean resultant length (R)
// R ranges from 0 (uniform distribution) to 1 (all angles identical)
func MeanResultantLength(angles []float64, weights []float64) float64 {
	if len(angles) == 0 {
		return 0
	}

	var sumSin, sumCos, sumWeights float64
	for i, angle := range angles {
		w := 1.0
		if weights != nil && i < len(weights) {
			w = weights[i]
		}
		sumSin += w * math.Sin(angle)
		sumCos += w * math.Cos(angle)
		sumWeights += w
	}

	if sumWeights == 0 {
		return 0
	}

	return math.Sqrt(sumSin*sumSin+sumCos*sumCos) / sumWeights
}

// Embed maps a time-of-day in seconds onto the unit circle
func Embed(seconds float64) PeriodicPoint {
	theta := seconds * math.Pi / halfDay
	return PeriodicPoint{X: math.Cos(theta), Y: math.Sin(theta)}
}

// EmbedAll embeds every value
func EmbedAll(values []float64) []PeriodicPoint {
	points := make([]PeriodicPoint, len(values))
	for i, v := range values {
		points[i] = Embed(v)
	}
	return points
}

// FromPeriodic maps a point in the plane back to a time-of-day in [0, 86400).
// The point does not have to lie on the unit circle.
func FromPeriodic(p PeriodicPoint) float64 {
	return NormalizeTimeOfDay(math.Atan2(p.Y, p.X) * halfDay / math.Pi)
}

// NormalizeTimeOfDay wraps seconds into [0, 86400)
func NormalizeTimeOfDay(seconds float64) float64 {
	t := math.Mod(seconds, SecondsPerDay)
	if t < 0 {
		t += SecondsPerDay
	}
	// -tiny + 86400 rounds up to the period itself
	if t >= SecondsPerDay {
		t = 0
	}
	return t
}

// PeriodicAverage returns the circular mean of time-of-day values in seconds
func PeriodicAverage(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyPopulation
	}

	var sum PeriodicPoint
	for _, v := range values {
		p := Embed(v)
		sum.X += p.X
		sum.Y += p.Y
	}
	n := float64(len(values))
	return FromPeriodic(PeriodicPoint{X: sum.X / n, Y: sum.Y / n}), nil
}

// PeriodicStd returns the root-mean-square circular distance, in seconds,
// between each value and the periodic average
func PeriodicStd(values []float64) (float64, error) {
	avg, err := PeriodicAverage(values)
	if err != nil {
		return 0, err
	}

	var sumSq float64
	for _, t := range values {
		d := PeriodicDistance(t, avg)
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values))), nil
}

// PeriodicDistance is the shorter way round the clock between two times-of-day
func PeriodicDistance(a, b float64) float64 {
	return math.Min(NormalizeTimeOfDay(a-b), NormalizeTimeOfDay(b-a))
}

// TimeOfDayConcentration is the mean resultant length of time-of-day values:
// 1 when all pickups happen at the same time, near 0 when spread over the day
func TimeOfDayConcentration(values []float64) float64 {
	angles := make([]float64, len(values))
	for i, v := range values {
		angles[i] = v * math.Pi / halfDay
	}
	return MeanResultantLength(angles, nil)
}
