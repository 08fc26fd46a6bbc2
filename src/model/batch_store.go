package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/misehero/HeroWizzard-version2/src/models"
)

var ErrBatchNotFound = errors.New("import batch not found")

const batchColumns = `
	id, filename, detected_format, status, total_rows,
	imported_count, skipped_count, error_count, error_details, warnings,
	started_at, completed_at, created_by`

func encodeRowErrors(errs []models.RowError) (string, error) {
	if len(errs) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(errs)
	if err != nil {
		return "", fmt.Errorf("encoding row errors: %w", err)
	}
	return string(b), nil
}

func decodeRowErrors(raw string) ([]models.RowError, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var errs []models.RowError
	if err := json.Unmarshal([]byte(raw), &errs); err != nil {
		return nil, fmt.Errorf("decoding row errors: %w", err)
	}
	return errs, nil
}

// InsertImportBatch records a finished (or failed) batch. Batches are
// write-once audit rows and never updated afterwards.
func InsertImportBatch(db DBTX, b *models.ImportBatch) error {
	errDetails, err := encodeRowErrors(b.ErrorDetails)
	if err != nil {
		return err
	}
	warnings, err := encodeRowErrors(b.Warnings)
	if err != nil {
		return err
	}
	query := `INSERT INTO import_batches (` + batchColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.Exec(query,
		b.ID.String(), b.Filename, b.DetectedFormat, string(b.Status), b.TotalRows,
		b.ImportedCount, b.SkippedCount, b.ErrorCount, errDetails, warnings,
		b.StartedAt, b.CompletedAt, b.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("inserting import batch: %w", err)
	}
	return nil
}

func scanBatch(rows *sql.Rows) (*models.ImportBatch, error) {
	var b models.ImportBatch
	var id, status, errDetails, warnings string

	if err := rows.Scan(
		&id, &b.Filename, &b.DetectedFormat, &status, &b.TotalRows,
		&b.ImportedCount, &b.SkippedCount, &b.ErrorCount, &errDetails, &warnings,
		&b.StartedAt, &b.CompletedAt, &b.CreatedBy,
	); err != nil {
		return nil, err
	}

	var err error
	if b.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid batch id %q: %w", id, err)
	}
	b.Status = models.BatchStatus(status)
	if b.ErrorDetails, err = decodeRowErrors(errDetails); err != nil {
		return nil, err
	}
	if b.Warnings, err = decodeRowErrors(warnings); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListImportBatches returns batches newest-first.
func ListImportBatches(db DBTX, limit int) ([]models.ImportBatch, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + batchColumns + ` FROM import_batches
		ORDER BY started_at DESC LIMIT ?`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []models.ImportBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

func GetImportBatchByID(db DBTX, id uuid.UUID) (*models.ImportBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM import_batches WHERE id = ?`
	rows, err := db.Query(query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrBatchNotFound
	}
	return scanBatch(rows)
}
