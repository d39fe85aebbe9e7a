package models

// AnalysisRun represents one execution of an analysis over a set of input files
type AnalysisRun struct {
	ID       string `json:"id" db:"id"` // uuid
	Analysis string `json:"analysis" db:"analysis"`

	// Status
	Status string `json:"status" db:"status"` // pending, running, completed, failed

	// Execution info
	RowsProcessed int `json:"rows_processed" db:"rows_processed"`
	RowsSkipped   int `json:"rows_skipped" db:"rows_skipped"`
	RowsMatched   int `json:"rows_matched" db:"rows_matched"`
	FilesRead     int `json:"files_read" db:"files_read"`

	// Results
	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`

	// Metadata
	CreatedAt   string  `json:"created_at" db:"created_at"`
	StartedAt   *string `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *string `json:"completed_at,omitempty" db:"completed_at"`
}

// RunStatus constants
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
