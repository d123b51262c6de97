package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/request"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/repository"
)

// TransactionService handles direct ledger entry business logic.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	allowDuplicates bool
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	allowDuplicates bool,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		allowDuplicates: allowDuplicates,
	}
}

// ListTransactions retrieves the full ledger in replay order.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.transactionRepo.ReadAll(ctx)
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return t, err
}

// CreateTransaction appends one directly-entered ledger row. Sell rows
// are validated against current open quantity; a sell that would drive
// the position negative is rejected, never partially applied. The
// duplicate policy mirrors the import pipeline.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	tradeDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		ID:          uuid.New().String(),
		TradeDate:   tradeDate.UTC(),
		Type:        strings.ToLower(req.Type),
		ISIN:        strings.ToUpper(req.ISIN),
		Symbol:      strings.ToUpper(req.Symbol),
		Name:        req.Name,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Fees:        req.Fees,
		Notes:       req.Notes,
		AccountName: req.AccountName,
		CreatedAt:   time.Now().UTC(),
	}
	transaction.DedupKey = dedupKey(*transaction)

	if !s.allowDuplicates {
		existing, err := s.transactionRepo.ExistingDedupKeys(ctx, []string{transaction.DedupKey})
		if err != nil {
			return nil, fmt.Errorf("failed to check duplicates: %w", err)
		}
		if existing[transaction.DedupKey] {
			return nil, apperrors.ErrDuplicateTransaction
		}
	}

	if transaction.Type == model.TypeSell {
		if err := s.validateSell(ctx, transaction); err != nil {
			return nil, err
		}
	}

	if err := s.transactionRepo.Insert(ctx, nil, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return transaction, nil
}

// ReverseTransaction appends a compensating entry for an existing
// transaction. The original row is never touched; during lot-matcher
// replay the pair cancels out. Reversing is refused when the entry is
// itself a reversal, already has one, or when cancelling it would leave
// a later sell without enough open quantity.
func (s *TransactionService) ReverseTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	original, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.ReversalOf != "" {
		return nil, fmt.Errorf("%w: cannot reverse a reversal entry", apperrors.ErrAlreadyReversed)
	}

	hasReversal, err := s.transactionRepo.HasReversal(ctx, id)
	if err != nil {
		return nil, err
	}
	if hasReversal {
		return nil, apperrors.ErrAlreadyReversed
	}

	reversal := &model.Transaction{
		ID:          uuid.New().String(),
		TradeDate:   time.Now().UTC().Truncate(24 * time.Hour),
		Type:        original.Type,
		ISIN:        original.ISIN,
		Symbol:      original.Symbol,
		Name:        original.Name,
		Quantity:    original.Quantity,
		Price:       original.Price,
		Fees:        original.Fees,
		Notes:       fmt.Sprintf("reversal of %s", original.ID),
		AccountName: original.AccountName,
		ReversalOf:  original.ID,
		CreatedAt:   time.Now().UTC(),
	}
	reversal.DedupKey = dedupKey(*reversal)

	// Cancelling a buy whose lots were already consumed must fail the
	// same way an oversell does.
	ledger, err := s.transactionRepo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := NewLotMatcher().Replay(append(ledger, *reversal)); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Insert(ctx, nil, reversal); err != nil {
		return nil, fmt.Errorf("failed to create reversal: %w", err)
	}

	return reversal, nil
}

// validateSell splices the sell into the ledger at its trade-date
// position and replays the result, so a backdated sell is checked
// against the open quantity at its trade date rather than the end state.
func (s *TransactionService) validateSell(ctx context.Context, sell *model.Transaction) error {
	ledger, err := s.transactionRepo.ReadAll(ctx)
	if err != nil {
		return err
	}

	return replayWith(ledger, *sell)
}
