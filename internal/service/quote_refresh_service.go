package service

import (
	"context"
	"fmt"
	"log"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/quote"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/repository"
)

// QuoteRefreshService warms the quote cache for every symbol present in
// the ledger. The cron scheduler in main invokes it on the configured
// schedule.
type QuoteRefreshService struct {
	transactionRepo *repository.TransactionRepository
	cache           *quote.Cache
}

// NewQuoteRefreshService creates a new QuoteRefreshService with the provided repository and cache.
func NewQuoteRefreshService(transactionRepo *repository.TransactionRepository, cache *quote.Cache) *QuoteRefreshService {
	return &QuoteRefreshService{
		transactionRepo: transactionRepo,
		cache:           cache,
	}
}

// Refresh fetches fresh prices for all distinct ledger symbols.
func (s *QuoteRefreshService) Refresh(ctx context.Context) error {
	symbols, err := s.transactionRepo.DistinctSymbols(ctx)
	if err != nil {
		return fmt.Errorf("failed to list symbols for refresh: %w", err)
	}
	if len(symbols) == 0 {
		return nil
	}

	if err := s.cache.Refresh(ctx, symbols); err != nil {
		return fmt.Errorf("quote refresh: %w", err)
	}

	log.Printf("Refreshed quotes for %d symbols", len(symbols))
	return nil
}
