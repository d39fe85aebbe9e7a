package stats

import "sort"

// Summary is a one-pass description of a sample
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // population
	Min    float64
	Max    float64
	Median float64
	P90    float64
}

// Describe summarises values; an empty slice yields the zero Summary
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	// Sort once for the order statistics
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Count:  len(sorted),
		Mean:   Mean(sorted),
		StdDev: PopulationStdDev(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: sortedQuantile(sorted, 0.5),
		P90:    sortedQuantile(sorted, 0.9),
	}
}
