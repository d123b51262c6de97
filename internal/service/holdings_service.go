package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/quote"
)

// priceConcurrency bounds parallel quote lookups while enriching a
// holdings snapshot.
const priceConcurrency = 4

// HoldingsService projects the ledger into current open positions and
// joins live market prices onto them.
type HoldingsService struct {
	ledger LedgerStore
	quotes quote.Client
}

// NewHoldingsService creates a new HoldingsService with the provided ledger store and quote client.
func NewHoldingsService(ledger LedgerStore, quotes quote.Client) *HoldingsService {
	return &HoldingsService{
		ledger: ledger,
		quotes: quotes,
	}
}

// ComputeHoldings replays the ledger through the lot matcher and returns
// the open positions, one per security, sorted by symbol. When asOf is
// set, only entries traded on or before that date contribute. Positions
// whose quantity has fallen to zero are excluded.
//
// Market prices are fetched per symbol; a failed lookup leaves that
// holding unpriced (Priced=false, cost-only figures) rather than failing
// the whole read.
func (s *HoldingsService) ComputeHoldings(ctx context.Context, asOf *time.Time) ([]model.Holding, error) {
	ledger, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	matcher := NewLotMatcher()
	if err := matcher.Replay(filterAsOf(ledger, asOf)); err != nil {
		return nil, err
	}

	holdings := matcher.SnapshotHoldings()
	if err := s.price(ctx, holdings); err != nil {
		return nil, err
	}

	return holdings, nil
}

// price enriches holdings with live quotes in parallel. Lookup failures
// are swallowed per holding; only a cancelled context aborts.
func (s *HoldingsService) price(ctx context.Context, holdings []model.Holding) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceConcurrency)

	for i := range holdings {
		holding := &holdings[i]
		if holding.Symbol == "" {
			continue
		}

		g.Go(func() error {
			q, err := s.quotes.GetQuote(ctx, holding.Symbol)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}

			holding.Priced = true
			holding.MarketPrice = q.Price
			holding.CurrentValue = q.Price.Mul(holding.Quantity)
			holding.GainLoss = holding.CurrentValue.Sub(holding.BuyValue)
			if !holding.AverageCost.IsZero() {
				holding.ChangePercent = q.Price.Sub(holding.AverageCost).
					Div(holding.AverageCost).
					Mul(decimal.NewFromInt(100)).
					Round(2)
			}
			return nil
		})
	}

	return g.Wait()
}
