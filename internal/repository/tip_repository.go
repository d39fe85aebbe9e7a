package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/taxi-analysis/internal/database"
	"github.com/jengzang/taxi-analysis/internal/models"
)

// TipRepository handles database operations for tip statistics
type TipRepository struct {
	db *sql.DB
}

// NewTipRepository creates a new tip repository
func NewTipRepository(db *sql.DB) *TipRepository {
	return &TipRepository{db: db}
}

// SaveTipStatistics stores the per payment type statistics of a run
func (r *TipRepository) SaveTipStatistics(ctx context.Context, runID string, stats []models.TipStatistics) error {
	query := `INSERT OR REPLACE INTO tip_statistics (
		run_id, payment_type, count, mean, std_dev, min, max, median, p90
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		for _, s := range stats {
			_, err := tx.ExecContext(ctx, query,
				runID, s.PaymentType, s.Count, s.Mean, s.StdDev, s.Min, s.Max, s.Median, s.P90)
			if err != nil {
				return fmt.Errorf("failed to insert tip statistics for %s: %w", s.PaymentType, err)
			}
		}
		return nil
	})
}

// GetTipStatistics retrieves the statistics of a run ordered by payment type
func (r *TipRepository) GetTipStatistics(ctx context.Context, runID string) ([]models.TipStatistics, error) {
	query := `SELECT payment_type, count, mean, std_dev, min, max, median, p90
		FROM tip_statistics
		WHERE run_id = ?
		ORDER BY payment_type`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tip statistics: %w", err)
	}
	defer rows.Close()

	var out []models.TipStatistics
	for rows.Next() {
		var s models.TipStatistics
		if err := rows.Scan(&s.PaymentType, &s.Count, &s.Mean, &s.StdDev, &s.Min, &s.Max, &s.Median, &s.P90); err != nil {
			return nil, fmt.Errorf("failed to scan tip statistics: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
