package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/config"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/csvimport"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/repository"
)

// ImportService orchestrates CSV imports end to end: parse, validate,
// simulate against the current ledger, then commit the accepted rows
// atomically. Imports are serialized with a mutex so the simulation a
// commit is based on cannot be invalidated by a concurrent import.
type ImportService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	batchRepo       *repository.ImportBatchRepository
	cfg             config.ImportConfig

	mu sync.Mutex
}

// NewImportService creates a new ImportService with the provided database
// handle, repositories and import policy configuration.
func NewImportService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	batchRepo *repository.ImportBatchRepository,
	cfg config.ImportConfig,
) *ImportService {
	return &ImportService{
		db:              db,
		transactionRepo: transactionRepo,
		batchRepo:       batchRepo,
		cfg:             cfg,
	}
}

// Import runs one CSV import.
//
// Parameters:
//   - csvText: raw CSV payload including the header row
//   - dryRun: when true, runs the full validation pipeline but persists nothing
//   - preview: when true, echoes the parsed rows back in the result
//
// Returns a result whose counts always satisfy parsed == inserted + skipped.
// Rows are processed in file order but validated in replay order: each
// candidate is spliced into the ledger at its trade-date position and the
// merged ledger replayed, so a sell is checked against the open quantity at
// its trade date rather than the end state. A row that fails validation,
// duplicates an existing entry or would not replay cleanly is skipped with
// a row error while the rest of the batch proceeds. Accepted rows commit in
// a single database transaction together with their batch record, so a
// crash mid-commit leaves no partial batch behind.
func (s *ImportService) Import(ctx context.Context, csvText string, dryRun, preview bool) (model.ImportResult, error) {
	result := model.ImportResult{Errors: []model.RowError{}}

	if strings.TrimSpace(csvText) == "" {
		return result, apperrors.ErrEmptyCSV
	}

	rows, err := csvimport.Parse(csvText, csvimport.Options{DecimalSeparator: s.cfg.DecimalSeparator})
	if err != nil {
		return result, err
	}
	if len(rows) > s.cfg.MaxRows {
		return result, fmt.Errorf("%w: %d rows exceed limit of %d", apperrors.ErrTooManyRows, len(rows), s.cfg.MaxRows)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.transactionRepo.ReadAll(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	if err := replayWith(ledger); err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	existingKeys, err := s.existingKeys(ctx, rows)
	if err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	result.Parsed = len(rows)
	now := time.Now().UTC()
	batchKeys := make(map[string]bool)
	insertable := make([]model.Transaction, 0, len(rows))

	for _, row := range rows {
		if !row.Valid {
			s.skip(&result, row.RowNumber, row.Error)
			continue
		}

		candidate := rowToTransaction(row, now)

		if !s.cfg.AllowDuplicates {
			if existingKeys[candidate.DedupKey] || batchKeys[candidate.DedupKey] {
				s.skip(&result, row.RowNumber, apperrors.ErrDuplicateTransaction.Error())
				continue
			}
		}

		// Rows already accepted in this batch are part of the state the
		// next row is validated against. The candidate replays at its
		// trade-date position, not at the end of the ledger.
		if err := replayWith(ledger, append(insertable, candidate)...); err != nil {
			s.skip(&result, row.RowNumber, err.Error())
			continue
		}

		batchKeys[candidate.DedupKey] = true
		insertable = append(insertable, candidate)
	}

	result.Inserted = len(insertable)

	if preview {
		limit := min(len(rows), s.cfg.PreviewCap)
		result.Preview = make([]model.PreviewRow, 0, limit)
		for _, row := range rows[:limit] {
			result.Preview = append(result.Preview, row.ToPreview())
		}
	}

	if dryRun || len(insertable) == 0 {
		return result, nil
	}

	batchID, err := s.commit(ctx, insertable, result, now)
	if err != nil {
		return model.ImportResult{Errors: []model.RowError{}, Parsed: result.Parsed}, err
	}
	result.BatchID = batchID

	return result, nil
}

// commit persists the batch record and its transactions in one database
// transaction.
func (s *ImportService) commit(ctx context.Context, txs []model.Transaction, result model.ImportResult, now time.Time) (string, error) {
	batch := &model.ImportBatch{
		ID:        uuid.New().String(),
		Inserted:  result.Inserted,
		Parsed:    result.Parsed,
		Skipped:   result.Skipped,
		CreatedAt: now,
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}
	defer dbTx.Rollback() //nolint:errcheck // no-op after commit

	if err := s.batchRepo.Insert(ctx, dbTx, batch); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}
	for i := range txs {
		txs[i].ImportBatchID = batch.ID
		if err := s.transactionRepo.Insert(ctx, dbTx, &txs[i]); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	return batch.ID, nil
}

// ListBatches retrieves all import batches, newest first.
func (s *ImportService) ListBatches(ctx context.Context) ([]model.ImportBatch, error) {
	batches, err := s.batchRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveBatches, err)
	}
	return batches, nil
}

// GetBatch retrieves one import batch by ID.
func (s *ImportService) GetBatch(ctx context.Context, id string) (model.ImportBatch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ImportBatch{}, apperrors.ErrImportBatchNotFound
	}
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveBatches, err)
	}
	return batch, nil
}

// RollbackBatch appends reversal entries for every transaction in the
// batch and stamps the batch rolled back, all in one database
// transaction. The original rows stay in the ledger. Rolling back fails
// when reversing the batch would strand a later sell without enough open
// quantity.
func (s *ImportService) RollbackBatch(ctx context.Context, id string) (model.ImportBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.GetBatch(ctx, id)
	if err != nil {
		return model.ImportBatch{}, err
	}
	if batch.RolledBackAt != nil {
		return model.ImportBatch{}, apperrors.ErrBatchAlreadyRolledBack
	}

	txs, err := s.transactionRepo.GetByBatch(ctx, id)
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRollbackBatch, err)
	}

	now := time.Now().UTC()
	reversals := make([]model.Transaction, 0, len(txs))
	for _, original := range txs {
		if original.ReversalOf != "" {
			continue
		}
		reversal := model.Transaction{
			ID:          uuid.New().String(),
			TradeDate:   now.Truncate(24 * time.Hour),
			Type:        original.Type,
			ISIN:        original.ISIN,
			Symbol:      original.Symbol,
			Name:        original.Name,
			Quantity:    original.Quantity,
			Price:       original.Price,
			Fees:        original.Fees,
			Notes:       fmt.Sprintf("rollback of batch %s", id),
			AccountName: original.AccountName,
			ReversalOf:  original.ID,
			CreatedAt:   now,
		}
		reversal.DedupKey = dedupKey(reversal)
		reversals = append(reversals, reversal)
	}

	ledger, err := s.transactionRepo.ReadAll(ctx)
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRollbackBatch, err)
	}
	if err := NewLotMatcher().Replay(append(ledger, reversals...)); err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRollbackBatch, err)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRollbackBatch, err)
	}
	defer dbTx.Rollback() //nolint:errcheck // no-op after commit

	for i := range reversals {
		if err := s.transactionRepo.Insert(ctx, dbTx, &reversals[i]); err != nil {
			return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRollbackBatch, err)
		}
	}
	if err := s.batchRepo.MarkRolledBack(ctx, dbTx, id, now); err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRollbackBatch, err)
	}
	if err := dbTx.Commit(); err != nil {
		return model.ImportBatch{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRollbackBatch, err)
	}

	batch.RolledBackAt = &now
	return batch, nil
}

func (s *ImportService) skip(result *model.ImportResult, row int, message string) {
	result.Skipped++
	result.Errors = append(result.Errors, model.RowError{Row: row, Message: message})
}

// existingKeys looks up which of the valid rows' dedup keys are already
// in the ledger.
func (s *ImportService) existingKeys(ctx context.Context, rows []csvimport.Row) (map[string]bool, error) {
	if s.cfg.AllowDuplicates {
		return map[string]bool{}, nil
	}

	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Valid {
			keys = append(keys, dedupKey(rowToTransaction(row, time.Time{})))
		}
	}
	return s.transactionRepo.ExistingDedupKeys(ctx, keys)
}

// rowToTransaction builds the ledger entry for an accepted CSV row.
func rowToTransaction(row csvimport.Row, createdAt time.Time) model.Transaction {
	t := model.Transaction{
		ID:          uuid.New().String(),
		TradeDate:   row.Date,
		Type:        row.Type,
		ISIN:        row.ISIN,
		Symbol:      row.Symbol,
		Name:        row.Name,
		Quantity:    row.Quantity,
		Price:       row.Price,
		Fees:        row.Fees,
		Notes:       row.Notes,
		AccountName: row.Account,
		CreatedAt:   createdAt,
	}
	t.DedupKey = dedupKey(t)
	return t
}
