package departure

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jengzang/taxi-analysis/internal/analysis"
	"github.com/jengzang/taxi-analysis/internal/config"
	"github.com/jengzang/taxi-analysis/internal/database"
	"github.com/jengzang/taxi-analysis/internal/metrics"
	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/jengzang/taxi-analysis/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(t *testing.T, tripFiles ...string) analysis.Deps {
	t.Helper()
	dir := t.TempDir()

	db, err := database.Open(database.Config{Path: filepath.Join(dir, "runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	cfg.Offices = testOffices()
	cfg.TripFiles = tripFiles
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.HistogramBins = 24

	return analysis.Deps{DB: db, Config: cfg, Metrics: metrics.NewCollector()}
}

func writeTripFile(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trip_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(tripCSV(rows...)), 0o644))
	return path
}

func silence(deps analysis.Deps) analysis.Deps {
	analysis.RegisterAnalyzer(Name, func(d analysis.Deps) analysis.Analyzer {
		a := New(d).(*Analyzer)
		a.Out = io.Discard
		return a
	})
	return deps
}

func runInfo(t *testing.T, db *sql.DB, runID string) *models.AnalysisRun {
	t.Helper()
	info, err := analysis.NewBaseAnalyzer(db, Name).GetRunInfo(context.Background(), runID)
	require.NoError(t, err)
	return info
}

func TestAnalyze_EndToEnd(t *testing.T) {
	first := writeTripFile(t,
		tripRow("2013-01-15 08:00:00", "-74.0060", "40.7128"),
		tripRow("2013-01-15 08:00:00", "-74.0060", "40.7128"),
		tripRow("2013-01-15 17:00:00", "-74.0060", "40.7128"),
		tripRow("2013-01-15 17:20:00", "-74.0060", "40.7128"),
	)
	second := writeTripFile(t,
		tripRow("2013-01-16 17:10:00", "-74.0060", "40.7128"),
		tripRow("2013-01-16 17:10:00", "-74.0060", "bad"),
		tripRow("2013-01-16 12:00:00", "-73.9000", "40.6000"),
	)
	deps := silence(testDeps(t, first, second))
	ctx := context.Background()

	runID, err := analysis.Run(ctx, Name, deps)
	require.NoError(t, err)

	info := runInfo(t, deps.DB, runID)
	assert.Equal(t, models.RunStatusCompleted, info.Status)
	assert.Equal(t, 2, info.FilesRead)
	assert.Equal(t, 7, info.RowsProcessed)
	assert.Equal(t, 1, info.RowsSkipped)
	assert.Equal(t, 5, info.RowsMatched)

	summaries, err := repository.NewSummaryRepository(deps.DB).GetSummaries(ctx, runID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.InDelta(t, 61800, summaries[0].MeanSeconds, 1e-3)
	assert.Equal(t, 3, summaries[0].DepartureCount)
	assert.Equal(t, SkipNoPickups, summaries[1].SkipReason)

	out := deps.Config.OutputDir
	assert.FileExists(t, filepath.Join(out, "Downtown.jpg"))
	assert.NoFileExists(t, filepath.Join(out, "Midtown.jpg"))
	assert.FileExists(t, filepath.Join(out, WorkbookName))

	assert.Equal(t, 2.0, testutil.ToFloat64(deps.Metrics.FilesRead.WithLabelValues(Name)))
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.Metrics.RowsSkipped.WithLabelValues(Name)))
	assert.Equal(t, 5.0, testutil.ToFloat64(deps.Metrics.PickupsMatched.WithLabelValues("Downtown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.Metrics.OfficesSkipped))
	assert.InDelta(t, 61800, testutil.ToFloat64(deps.Metrics.DepartureMean.WithLabelValues("Downtown")), 1e-3)
}

func TestAnalyze_MissingFileFailsRun(t *testing.T) {
	deps := silence(testDeps(t, filepath.Join(t.TempDir(), "missing.csv")))

	runID, err := analysis.Run(context.Background(), Name, deps)
	require.Error(t, err)
	require.NotEmpty(t, runID)

	info := runInfo(t, deps.DB, runID)
	assert.Equal(t, models.RunStatusFailed, info.Status)
	assert.Contains(t, info.ErrorMessage, "missing.csv")
}

func TestAnalyze_InvalidGeofence(t *testing.T) {
	deps := silence(testDeps(t))
	deps.Config.Geofence.CutoffMeters = 500

	_, err := analysis.Run(context.Background(), Name, deps)
	assert.ErrorContains(t, err, "invalid geofence")
}
