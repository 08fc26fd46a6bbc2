// backend/src/models/batch.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the lifecycle state of an import batch.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// RowError records a per-row failure or warning with its 1-based data row
// number, so the user can locate the line in the source file.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportBatch is the audit record of one CSV upload. The pipeline fills it in
// memory and hands it to the caller; persistence happens afterwards, never
// mid-run.
type ImportBatch struct {
	ID             uuid.UUID   `json:"id"`
	Filename       string      `json:"filename"`
	DetectedFormat string      `json:"detected_format"`
	Status         BatchStatus `json:"status"`
	TotalRows      int         `json:"total_rows"`
	ImportedCount  int         `json:"imported_count"`
	SkippedCount   int         `json:"skipped_count"`
	ErrorCount     int         `json:"error_count"`
	ErrorDetails   []RowError  `json:"error_details"`
	Warnings       []RowError  `json:"warnings,omitempty"`
	StartedAt      time.Time   `json:"started_at"`
	CompletedAt    time.Time   `json:"completed_at"`
	CreatedBy      string      `json:"created_by"`
}

// Duration is the wall-clock time the import took.
func (b *ImportBatch) Duration() time.Duration {
	if b.CompletedAt.IsZero() {
		return 0
	}
	return b.CompletedAt.Sub(b.StartedAt)
}
