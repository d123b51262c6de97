package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// ImportBatchRepository provides data access methods for the import batch table.
type ImportBatchRepository struct {
	db *sql.DB
}

// NewImportBatchRepository creates a new ImportBatchRepository with the provided database connection.
func NewImportBatchRepository(db *sql.DB) *ImportBatchRepository {
	return &ImportBatchRepository{db: db}
}

// Insert writes one import batch row. The execer may be an open *sql.Tx
// so the batch row commits atomically with its transactions; nil falls
// back to the repository's own handle.
func (r *ImportBatchRepository) Insert(ctx context.Context, exec Execer, batch *model.ImportBatch) error {
	if exec == nil {
		exec = r.db
	}

	query := `
		INSERT INTO import_batch (id, inserted, parsed, skipped, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := exec.ExecContext(ctx, query,
		batch.ID,
		batch.Inserted,
		batch.Parsed,
		batch.Skipped,
		batch.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import batch: %w", err)
	}

	return nil
}

// GetAll retrieves all import batches, newest first.
func (r *ImportBatchRepository) GetAll(ctx context.Context) ([]model.ImportBatch, error) {
	query := `
		SELECT id, inserted, parsed, skipped, created_at, rolled_back_at
		FROM import_batch
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query import_batch table: %w", err)
	}
	defer rows.Close()

	batches := []model.ImportBatch{}
	for rows.Next() {
		batch, err := scanImportBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import_batch table: %w", err)
	}

	return batches, nil
}

// GetByID retrieves one import batch. Returns sql.ErrNoRows when no
// batch matches.
func (r *ImportBatchRepository) GetByID(ctx context.Context, id string) (model.ImportBatch, error) {
	query := `
		SELECT id, inserted, parsed, skipped, created_at, rolled_back_at
		FROM import_batch
		WHERE id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to query import_batch table: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.ImportBatch{}, fmt.Errorf("error iterating import_batch table: %w", err)
		}
		return model.ImportBatch{}, sql.ErrNoRows
	}

	return scanImportBatch(rows)
}

// MarkRolledBack stamps the batch's rollback time.
func (r *ImportBatchRepository) MarkRolledBack(ctx context.Context, exec Execer, id string, at time.Time) error {
	if exec == nil {
		exec = r.db
	}

	query := `UPDATE import_batch SET rolled_back_at = ? WHERE id = ?`

	_, err := exec.ExecContext(ctx, query, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to mark batch rolled back: %w", err)
	}

	return nil
}

func scanImportBatch(rows *sql.Rows) (model.ImportBatch, error) {
	var batch model.ImportBatch
	var createdAtStr string
	var rolledBackStr sql.NullString

	err := rows.Scan(
		&batch.ID,
		&batch.Inserted,
		&batch.Parsed,
		&batch.Skipped,
		&createdAtStr,
		&rolledBackStr,
	)
	if err != nil {
		return batch, fmt.Errorf("failed to scan import_batch row: %w", err)
	}

	batch.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return batch, err
	}

	if rolledBackStr.Valid {
		rolledBack, err := ParseTime(rolledBackStr.String)
		if err != nil {
			return batch, err
		}
		batch.RolledBackAt = &rolledBack
	}

	return batch, nil
}
