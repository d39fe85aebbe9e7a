package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// circularDelta compares two times-of-day across midnight
func circularDelta(t *testing.T, expected, actual, delta float64) {
	t.Helper()
	assert.LessOrEqual(t, PeriodicDistance(expected, actual), delta,
		"expected %.6f, got %.6f", expected, actual)
}

func TestPeriodicAverage_SingleValueRoundTrip(t *testing.T) {
	for _, tod := range []float64{0, 1, 3600, 28800, 43200, 63000, 86399, 86399.9} {
		avg, err := PeriodicAverage([]float64{tod})
		require.NoError(t, err)
		circularDelta(t, tod, avg, 1e-6)
		assert.GreaterOrEqual(t, avg, 0.0)
		assert.Less(t, avg, float64(SecondsPerDay))
	}
}

func TestPeriodicAverage_AcrossMidnight(t *testing.T) {
	// 23:00 and 01:00 average to midnight, not noon
	avg, err := PeriodicAverage([]float64{23 * 3600, 1 * 3600})
	require.NoError(t, err)
	circularDelta(t, 0, avg, 1e-6)
}

func TestPeriodicAverage_RotationInvariant(t *testing.T) {
	values := []float64{3600, 7200, 82800, 30000, 61200}
	base, err := PeriodicAverage(values)
	require.NoError(t, err)

	for _, k := range []float64{1, 5000, 43200, 80000} {
		shifted := make([]float64, len(values))
		for i, v := range values {
			shifted[i] = NormalizeTimeOfDay(v + k)
		}
		got, err := PeriodicAverage(shifted)
		require.NoError(t, err)
		circularDelta(t, NormalizeTimeOfDay(base+k), got, 1e-6)
	}
}

func TestPeriodicStd_SingleValue(t *testing.T) {
	std, err := PeriodicStd([]float64{63000})
	require.NoError(t, err)
	assert.InDelta(t, 0, std, 1e-6)
}

func TestPeriodicStd_Symmetric(t *testing.T) {
	// 30 minutes either side of midnight
	std, err := PeriodicStd([]float64{86400 - 1800, 1800})
	require.NoError(t, err)
	assert.InDelta(t, 1800, std, 1e-6)
}

func TestPeriodicStatistics_Empty(t *testing.T) {
	_, err := PeriodicAverage(nil)
	assert.ErrorIs(t, err, ErrEmptyPopulation)

	_, err = PeriodicStd([]float64{})
	assert.ErrorIs(t, err, ErrEmptyPopulation)
}

func TestEmbed_Period(t *testing.T) {
	a := Embed(0)
	b := Embed(SecondsPerDay)
	assert.InDelta(t, a.X, b.X, 1e-12)
	assert.InDelta(t, a.Y, b.Y, 1e-12)

	noon := Embed(43200)
	assert.InDelta(t, -1, noon.X, 1e-12)
	assert.InDelta(t, 0, noon.Y, 1e-12)
}

func TestNormalizeTimeOfDay(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeTimeOfDay(0))
	assert.Equal(t, 0.0, NormalizeTimeOfDay(SecondsPerDay))
	assert.Equal(t, 82800.0, NormalizeTimeOfDay(-3600))
	assert.Equal(t, 3600.0, NormalizeTimeOfDay(90000))
	assert.Equal(t, 0.0, NormalizeTimeOfDay(-1e-13))
}

func TestTimeOfDayConcentration(t *testing.T) {
	assert.InDelta(t, 1, TimeOfDayConcentration([]float64{61200, 61200}), 1e-12)
	assert.InDelta(t, 0, TimeOfDayConcentration([]float64{0, 43200}), 1e-12)
	assert.Equal(t, 0.0, TimeOfDayConcentration(nil))
	assert.False(t, math.IsNaN(TimeOfDayConcentration([]float64{1})))
}
