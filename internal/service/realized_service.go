package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// RealizedPnlService projects the ledger into realized gains and losses
// from completed FIFO disposals.
type RealizedPnlService struct {
	ledger LedgerStore
}

// NewRealizedPnlService creates a new RealizedPnlService with the provided ledger store.
func NewRealizedPnlService(ledger LedgerStore) *RealizedPnlService {
	return &RealizedPnlService{ledger: ledger}
}

// ComputeRealized replays the ledger and returns one disposal record per
// sell, in ledger order, each carrying the lots it consumed. When asOf is
// set only entries traded on or before that date contribute.
func (s *RealizedPnlService) ComputeRealized(ctx context.Context, asOf *time.Time) ([]model.RealizedDisposal, error) {
	ledger, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	matcher := NewLotMatcher()
	if err := matcher.Replay(filterAsOf(ledger, asOf)); err != nil {
		return nil, err
	}

	disposals := matcher.Disposals()
	if disposals == nil {
		disposals = []model.RealizedDisposal{}
	}
	return disposals, nil
}

// SummarizeRealized aggregates disposals per security, sorted by symbol.
func (s *RealizedPnlService) SummarizeRealized(ctx context.Context, asOf *time.Time) ([]model.RealizedSummary, error) {
	disposals, err := s.ComputeRealized(ctx, asOf)
	if err != nil {
		return nil, err
	}

	bySecurity := make(map[string]*model.RealizedSummary)
	for _, d := range disposals {
		key := d.Symbol
		if key == "" {
			key = d.ISIN
		}
		summary, ok := bySecurity[key]
		if !ok {
			summary = &model.RealizedSummary{Symbol: key}
			bySecurity[key] = summary
		}
		summary.Realized = summary.Realized.Add(d.Realized)
		summary.QtySold = summary.QtySold.Add(d.QuantitySold)
	}

	summaries := make([]model.RealizedSummary, 0, len(bySecurity))
	for _, summary := range bySecurity {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Symbol < summaries[j].Symbol
	})

	return summaries, nil
}
