package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jengzang/taxi-analysis/internal/database"
	"github.com/jengzang/taxi-analysis/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, runIDs ...string) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "repo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, id := range runIDs {
		_, err := db.Exec("INSERT INTO analysis_runs (id, analysis) VALUES (?, 'test')", id)
		require.NoError(t, err)
	}
	return db
}

func TestSummaryRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t, "run-1", "run-2")
	repo := NewSummaryRepository(db)
	ctx := context.Background()

	summaries := []models.OfficeSummary{
		{
			OfficeIndex:      1,
			Office:           models.Office{Name: "Citi", Lat: 40.759119, Lon: -73.971885},
			TotalPickups:     40,
			DepartureCluster: 1,
			Departures:       []float64{61200},
			DepartureCount:   25,
			MeanSeconds:      63000,
			StdSeconds:       2400,
			Mean:             "17:30",
			Std:              "00:40",
			Concentration:    0.93,
		},
		{
			OfficeIndex: 0,
			Office:      models.Office{Name: "Barclays Capital", Lat: 40.760542, Lon: -73.982903},
			Mean:        "00:00",
			Std:         "00:00",
			SkipReason:  "no pickups",
		},
	}
	require.NoError(t, repo.SaveSummaries(ctx, "run-1", summaries))

	got, err := repo.GetSummaries(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Barclays Capital", got[0].Office.Name)
	assert.True(t, got[0].Skipped())

	assert.Equal(t, 1, got[1].OfficeIndex)
	assert.Equal(t, "17:30", got[1].Mean)
	assert.Equal(t, 25, got[1].DepartureCount)
	assert.Equal(t, 63000.0, got[1].MeanSeconds)
	assert.Nil(t, got[1].Departures)

	other, err := repo.GetSummaries(ctx, "run-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSummaryRepository_UnknownRunFails(t *testing.T) {
	db := openTestDB(t)
	repo := NewSummaryRepository(db)

	err := repo.SaveSummaries(context.Background(), "missing", []models.OfficeSummary{{Office: models.Office{Name: "x"}}})
	assert.Error(t, err)
}

func TestTipRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t, "run-1")
	repo := NewTipRepository(db)
	ctx := context.Background()

	in := []models.TipStatistics{
		{PaymentType: models.PaymentCredit, Count: 3, Mean: 0.2, StdDev: 0.05, Min: 0.1, Max: 0.3, Median: 0.2, P90: 0.28},
		{PaymentType: models.PaymentCash},
	}
	require.NoError(t, repo.SaveTipStatistics(ctx, "run-1", in))

	got, err := repo.GetTipStatistics(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// CRD sorts before CSH
	assert.Equal(t, in[0], got[0])
	assert.Equal(t, in[1], got[1])
}
