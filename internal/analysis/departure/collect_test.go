package departure

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jengzang/taxi-analysis/internal/ingest"
	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/jengzang/taxi-analysis/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tripHeader = "medallion,hack_license,vendor_id,rate_code,store_and_fwd_flag,pickup_datetime,dropoff_datetime,passenger_count,trip_time_in_secs,trip_distance,pickup_longitude,pickup_latitude,dropoff_longitude,dropoff_latitude"

func testOffices() []models.Office {
	return []models.Office{
		{Name: "Downtown", Lat: 40.7128, Lon: -74.0060},
		{Name: "Midtown", Lat: 40.7580, Lon: -73.9855},
	}
}

func tripRow(datetime, lon, lat string) string {
	return strings.Join([]string{
		"89D227B655E5C82AECF13C3F540D4CF4", "BA96DE419E711691B9445D6A6307C170", "CMT", "1", "N",
		datetime, "2013-01-15 17:48:00", "1", "1080", "2.10",
		lon, lat, "-73.978165", "40.757977",
	}, ",")
}

func tripCSV(rows ...string) string {
	return tripHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func collect(t *testing.T, data string, opts CollectOptions) (models.PickupTimes, ingest.ScanStats) {
	t.Helper()
	times := models.NewPickupTimes()
	fence := spatial.NewGeofence(testOffices(), spatial.DefaultGeofenceParams())
	stats, err := CollectPickups(context.Background(), strings.NewReader(data), fence, times, opts)
	require.NoError(t, err)
	return times, stats
}

func TestCollectPickups_Scenario(t *testing.T) {
	times, stats := collect(t, tripCSV(tripRow("2013-01-15 17:30:00", "-74.0060", "40.7128")), CollectOptions{})

	assert.Equal(t, 1, stats.Rows)
	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, []float64{63000}, times[0])
	assert.Empty(t, times[1])
}

func TestCollectPickups_SkipsMalformedRows(t *testing.T) {
	data := tripCSV(
		tripRow("2013-01-15 17:30:00", "-74.0060", "40.7128"),
		tripRow("2013-01-15 17:31:00", "-74.0060", "north"),
		tripRow("2013-01-15 08:05:00", "-73.9855", "40.7580"),
		tripRow("2013-01-15 09:00:00", "-73.9000", "40.6000"),
		tripRow("2013-01-15 09:00:00", "0", "0"),
		"short,row",
	)

	var skipped []*ingest.ParseError
	times, stats := collect(t, data, CollectOptions{
		OnSkip: func(perr *ingest.ParseError) { skipped = append(skipped, perr) },
	})

	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 4, stats.Processed())
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 2, times.Total())
	assert.Equal(t, []float64{29100}, times[1])

	require.Len(t, skipped, 2)
	assert.Equal(t, 3, skipped[0].Line)
}

func TestCollectPickups_MaxPickups(t *testing.T) {
	var rows []string
	for i := 0; i < 5; i++ {
		rows = append(rows, tripRow(fmt.Sprintf("2013-01-15 17:3%d:00", i), "-74.0060", "40.7128"))
	}

	times, stats := collect(t, tripCSV(rows...), CollectOptions{MaxPickups: 3})

	assert.Equal(t, 3, stats.Matched)
	assert.Equal(t, 3, stats.Rows)
	assert.Len(t, times[0], 3)
}

func TestCollectPickups_OnMatch(t *testing.T) {
	var matched []int
	collect(t, tripCSV(
		tripRow("2013-01-15 17:30:00", "-73.9855", "40.7580"),
		tripRow("2013-01-15 17:30:00", "-74.0060", "40.7128"),
	), CollectOptions{OnMatch: func(office int) { matched = append(matched, office) }})

	assert.Equal(t, []int{1, 0}, matched)
}

func TestCollectPickups_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fence := spatial.NewGeofence(testOffices(), spatial.DefaultGeofenceParams())
	data := tripCSV(tripRow("2013-01-15 17:30:00", "-74.0060", "40.7128"))
	_, err := CollectPickups(ctx, strings.NewReader(data), fence, models.NewPickupTimes(), CollectOptions{ProgressEvery: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectPickups_EmptyInput(t *testing.T) {
	times, stats := collect(t, "", CollectOptions{})
	assert.Zero(t, stats.Rows)
	assert.Zero(t, times.Total())
}
