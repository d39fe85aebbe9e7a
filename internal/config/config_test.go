package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Offices, 8)
	assert.Len(t, cfg.TripFiles, 12)
	assert.Equal(t, 100, cfg.HistogramBins)
	assert.Equal(t, 100000, cfg.ProgressEvery)
	assert.Equal(t, 0.001, cfg.Geofence.LatDelta)
	assert.Equal(t, 0.0012, cfg.Geofence.LonDelta)
	assert.Equal(t, 50.0, cfg.Geofence.CutoffMeters)
}

func TestDefault_DoesNotShareSlices(t *testing.T) {
	cfg := Default()
	cfg.Offices[0].Name = "changed"
	cfg.TripFiles[0] = "changed.csv"
	assert.Equal(t, "Bank of America Merril Lynch", DefaultOffices[0].Name)
	assert.Equal(t, "trip_data_1.csv", DefaultTripFiles[0])
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("TRIP_FILES", "a.csv, b.csv")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("MAX_PICKUPS", "10")
	t.Setenv("GEOFENCE_CUTOFF_METERS", "40")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, cfg.TripFiles)
	assert.Equal(t, []string{filepath.Join(dir, "trip_fare_1.csv")}, cfg.FareFiles)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 10, cfg.MaxPickups)
	assert.Equal(t, 40.0, cfg.Geofence.CutoffMeters)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("PROGRESS_EVERY", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsCutoffLargerThanBox(t *testing.T) {
	t.Setenv("GEOFENCE_CUTOFF_METERS", "500")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid geofence")
}
