package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/taxi-analysis/internal/database"
	"github.com/jengzang/taxi-analysis/internal/models"
)

// SummaryRepository handles database operations for office departure summaries
type SummaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// SaveSummaries stores every office summary of a run in one transaction
func (r *SummaryRepository) SaveSummaries(ctx context.Context, runID string, summaries []models.OfficeSummary) error {
	query := `INSERT OR REPLACE INTO office_summaries (
		run_id, office_index, office_name, lat, lon, total_pickups,
		departure_cluster, departure_count, mean_seconds, std_seconds,
		mean_clock, std_clock, concentration, skip_reason
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare summary insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range summaries {
			_, err := stmt.ExecContext(ctx,
				runID, s.OfficeIndex, s.Office.Name, s.Office.Lat, s.Office.Lon, s.TotalPickups,
				s.DepartureCluster, s.DepartureCount, s.MeanSeconds, s.StdSeconds,
				s.Mean, s.Std, s.Concentration, s.SkipReason,
			)
			if err != nil {
				return fmt.Errorf("failed to insert summary for %s: %w", s.Office.Name, err)
			}
		}
		return nil
	})
}

// GetSummaries retrieves the summaries of a run in office order.
// Cluster members are not persisted, so Clusters and Departures are empty.
func (r *SummaryRepository) GetSummaries(ctx context.Context, runID string) ([]models.OfficeSummary, error) {
	query := `SELECT office_index, office_name, lat, lon, total_pickups,
		departure_cluster, departure_count, mean_seconds, std_seconds,
		mean_clock, std_clock, concentration, skip_reason
		FROM office_summaries
		WHERE run_id = ?
		ORDER BY office_index`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.OfficeSummary
	for rows.Next() {
		var s models.OfficeSummary
		err := rows.Scan(
			&s.OfficeIndex, &s.Office.Name, &s.Office.Lat, &s.Office.Lon, &s.TotalPickups,
			&s.DepartureCluster, &s.DepartureCount, &s.MeanSeconds, &s.StdSeconds,
			&s.Mean, &s.Std, &s.Concentration, &s.SkipReason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summaries: %w", err)
	}

	return summaries, nil
}
