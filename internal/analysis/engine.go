package analysis

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/taxi-analysis/internal/config"
	"github.com/jengzang/taxi-analysis/internal/metrics"
	"github.com/jengzang/taxi-analysis/internal/models"
)

// Analyzer is the interface that all analyses must implement
type Analyzer interface {
	// Analyze runs the analysis end to end, recording progress under runID
	Analyze(ctx context.Context, runID string) error

	// GetName returns the name of the analyzer
	GetName() string
}

// Deps are the shared resources handed to every analyzer
type Deps struct {
	DB      *sql.DB
	Config  *config.Config
	Metrics *metrics.Collector
}

// Progress represents the progress of an analysis run
type Progress struct {
	FilesRead int
	Processed int // rows read
	Skipped   int // rows that failed to parse
	Matched   int // rows kept by the analysis
}

// BaseAnalyzer provides common functionality for all analyzers
type BaseAnalyzer struct {
	DB   *sql.DB
	Name string
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(db *sql.DB, name string) *BaseAnalyzer {
	return &BaseAnalyzer{
		DB:   db,
		Name: name,
	}
}

// GetName returns the analyzer name
func (a *BaseAnalyzer) GetName() string {
	return a.Name
}

// CreateRun inserts a pending run row and returns its id
func (a *BaseAnalyzer) CreateRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := a.DB.ExecContext(ctx,
		"INSERT INTO analysis_runs (id, analysis, status) VALUES (?, ?, ?)",
		id, a.Name, models.RunStatusPending)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// UpdateRunProgress updates the counters of a run
func (a *BaseAnalyzer) UpdateRunProgress(ctx context.Context, runID string, p Progress) error {
	query := `
		UPDATE analysis_runs
		SET files_read = ?,
		    rows_processed = ?,
		    rows_skipped = ?,
		    rows_matched = ?
		WHERE id = ?
	`

	_, err := a.DB.ExecContext(ctx, query, p.FilesRead, p.Processed, p.Skipped, p.Matched, runID)
	return err
}

// MarkRunAsRunning marks a run as running
func (a *BaseAnalyzer) MarkRunAsRunning(ctx context.Context, runID string) error {
	query := `
		UPDATE analysis_runs
		SET status = ?,
		    started_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := a.DB.ExecContext(ctx, query, models.RunStatusRunning, runID)
	return err
}

// MarkRunAsCompleted marks a run as completed
func (a *BaseAnalyzer) MarkRunAsCompleted(ctx context.Context, runID string) error {
	query := `
		UPDATE analysis_runs
		SET status = ?,
		    completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := a.DB.ExecContext(ctx, query, models.RunStatusCompleted, runID)
	return err
}

// MarkRunAsFailed marks a run as failed with an error message
func (a *BaseAnalyzer) MarkRunAsFailed(ctx context.Context, runID string, errorMsg string) error {
	query := `
		UPDATE analysis_runs
		SET status = ?,
		    error_message = ?,
		    completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := a.DB.ExecContext(ctx, query, models.RunStatusFailed, errorMsg, runID)
	return err
}

// GetRunInfo retrieves run information from the database
func (a *BaseAnalyzer) GetRunInfo(ctx context.Context, runID string) (*models.AnalysisRun, error) {
	query := `
		SELECT id, analysis, status, rows_processed, rows_skipped, rows_matched,
		       files_read, error_message, created_at, started_at, completed_at
		FROM analysis_runs
		WHERE id = ?
	`

	var info models.AnalysisRun
	var errorMsg, startedAt, completedAt sql.NullString

	err := a.DB.QueryRowContext(ctx, query, runID).Scan(
		&info.ID, &info.Analysis, &info.Status, &info.RowsProcessed, &info.RowsSkipped,
		&info.RowsMatched, &info.FilesRead, &errorMsg, &info.CreatedAt,
		&startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	info.ErrorMessage = errorMsg.String
	if startedAt.Valid {
		info.StartedAt = &startedAt.String
	}
	if completedAt.Valid {
		info.CompletedAt = &completedAt.String
	}

	return &info, nil
}

// AnalyzerFactory is a function that creates an analyzer instance
type AnalyzerFactory func(deps Deps) Analyzer

// AnalyzerRegistry maps analysis names to analyzer factories
var AnalyzerRegistry = make(map[string]AnalyzerFactory)

// RegisterAnalyzer registers an analyzer factory for an analysis name
func RegisterAnalyzer(name string, factory AnalyzerFactory) {
	AnalyzerRegistry[name] = factory
}

// GetAnalyzer retrieves an analyzer instance for an analysis name
func GetAnalyzer(name string, deps Deps) Analyzer {
	factory, ok := AnalyzerRegistry[name]
	if !ok {
		return nil
	}
	return factory(deps)
}

// Names lists the registered analyses
func Names() []string {
	names := make([]string, 0, len(AnalyzerRegistry))
	for name := range AnalyzerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run creates a run row, executes the named analyzer and records the outcome
func Run(ctx context.Context, name string, deps Deps) (string, error) {
	analyzer := GetAnalyzer(name, deps)
	if analyzer == nil {
		return "", fmt.Errorf("unknown analysis %q (registered: %v)", name, Names())
	}

	base := NewBaseAnalyzer(deps.DB, name)
	runID, err := base.CreateRun(ctx)
	if err != nil {
		return "", err
	}
	log.Printf("[%s] Starting run %s", name, runID)

	if err := base.MarkRunAsRunning(ctx, runID); err != nil {
		return runID, fmt.Errorf("failed to mark run as running: %w", err)
	}

	start := time.Now()
	runErr := analyzer.Analyze(ctx, runID)
	if deps.Metrics != nil {
		deps.Metrics.RunDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}

	// The run's own context may already be cancelled; the outcome is still recorded
	statusCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		if err := base.MarkRunAsFailed(statusCtx, runID, runErr.Error()); err != nil {
			log.Printf("[%s] Failed to mark run %s as failed: %v", name, runID, err)
		}
		return runID, runErr
	}

	if err := base.MarkRunAsCompleted(statusCtx, runID); err != nil {
		return runID, fmt.Errorf("failed to mark run as completed: %w", err)
	}
	elapsed := time.Since(start).Round(time.Millisecond)
	info, err := base.GetRunInfo(statusCtx, runID)
	if err != nil {
		return runID, fmt.Errorf("failed to read run %s: %w", runID, err)
	}
	log.Printf("[%s] Run %s %s in %s: %d files, %d rows, %d skipped, %d matched",
		name, runID, info.Status, elapsed, info.FilesRead, info.RowsProcessed, info.RowsSkipped, info.RowsMatched)
	return runID, nil
}
