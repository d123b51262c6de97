package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// LotMatcher maintains, per (account, security) pair, an ordered queue of
// open BUY lots and matches SELL events against them first-in-first-out.
// Lots are ordered by trade date ascending with ledger insertion order
// breaking ties, which is why callers must feed transactions in ledger
// order (trade date, then seq).
//
// A matcher instance is not safe for concurrent use; each read or import
// simulation replays its own instance.
type LotMatcher struct {
	queues    map[string][]*model.Lot
	disposals []model.RealizedDisposal
}

// NewLotMatcher creates an empty lot matcher.
func NewLotMatcher() *LotMatcher {
	return &LotMatcher{
		queues: make(map[string][]*model.Lot),
	}
}

// queueKey scopes lot queues to one security within one account.
func queueKey(account, security string) string {
	return account + "\x00" + security
}

// Replay applies a slice of committed ledger transactions in order.
// Reversed entries and their reversal markers cancel out and are both
// skipped. An oversell during replay indicates a corrupted ledger and is
// returned as an error.
func (m *LotMatcher) Replay(txs []model.Transaction) error {
	reversed := make(map[string]bool)
	for _, tx := range txs {
		if tx.ReversalOf != "" {
			reversed[tx.ReversalOf] = true
		}
	}

	for _, tx := range txs {
		if tx.ReversalOf != "" || reversed[tx.ID] {
			continue
		}
		if err := m.Apply(tx); err != nil {
			return fmt.Errorf("replay of transaction %s: %w", tx.ID, err)
		}
	}

	return nil
}

// replayWith replays the committed ledger with candidate entries spliced
// in at their trade-date position. Candidates sort after committed
// entries sharing a trade date, matching the seq order they would get on
// insert. An error means the merged ledger would not replay cleanly and
// the candidates must be rejected: validating a candidate against the
// end-state ledger instead would let a backdated sell through.
func replayWith(ledger []model.Transaction, candidates ...model.Transaction) error {
	merged := make([]model.Transaction, 0, len(ledger)+len(candidates))
	merged = append(merged, ledger...)
	merged = append(merged, candidates...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TradeDate.Before(merged[j].TradeDate)
	})

	return NewLotMatcher().Replay(merged)
}

// Apply routes one transaction into the matcher. Dividend, fee, split and
// other rows are ledger-only and do not affect lots.
func (m *LotMatcher) Apply(tx model.Transaction) error {
	switch tx.Type {
	case model.TypeBuy:
		m.applyBuy(tx)
		return nil
	case model.TypeSell:
		_, err := m.applySell(tx)
		return err
	default:
		return nil
	}
}

// applyBuy appends a new open lot. The unit cost folds the buy fees into
// the price: (price * quantity + fees) / quantity.
func (m *LotMatcher) applyBuy(tx model.Transaction) {
	unitCost := tx.Price.Mul(tx.Quantity).Add(tx.Fees).Div(tx.Quantity)

	key := queueKey(tx.AccountName, tx.SecurityKey())
	m.queues[key] = append(m.queues[key], &model.Lot{
		TransactionID: tx.ID,
		AccountName:   tx.AccountName,
		ISIN:          tx.ISIN,
		Symbol:        tx.Symbol,
		Name:          tx.Name,
		TradeDate:     tx.TradeDate,
		Remaining:     tx.Quantity,
		UnitCost:      unitCost,
	})
}

// applySell consumes open lots from the front of the queue until the sell
// quantity is satisfied. If the open quantity is insufficient the sell is
// rejected outright; the queue is left untouched, never partially drained.
// Sell fees are allocated across the consumed lots proportionally by
// quantity, with the final lot absorbing the rounding remainder.
func (m *LotMatcher) applySell(tx model.Transaction) (model.RealizedDisposal, error) {
	key := queueKey(tx.AccountName, tx.SecurityKey())
	queue := m.queues[key]

	open := decimal.Zero
	for _, lot := range queue {
		open = open.Add(lot.Remaining)
	}
	if open.LessThan(tx.Quantity) {
		return model.RealizedDisposal{}, fmt.Errorf(
			"%w: sell of %s exceeds open quantity %s for %s",
			apperrors.ErrOversell, tx.Quantity, open, tx.SecurityKey(),
		)
	}

	disposal := model.RealizedDisposal{
		SellTransactionID: tx.ID,
		AccountName:       tx.AccountName,
		ISIN:              tx.ISIN,
		Symbol:            tx.Symbol,
		Name:              tx.Name,
		TradeDate:         tx.TradeDate,
		QuantitySold:      tx.Quantity,
		SaleProceeds:      tx.Price.Mul(tx.Quantity),
		Fees:              tx.Fees,
		CostBasis:         decimal.Zero,
	}

	remaining := tx.Quantity
	allocatedFees := decimal.Zero
	for remaining.IsPositive() {
		lot := queue[0]

		consumed := decimal.Min(remaining, lot.Remaining)
		feeShare := tx.Fees.Mul(consumed).Div(tx.Quantity)
		if consumed.Equal(remaining) {
			// Final consumption absorbs the rounding remainder so the
			// shares always sum to the sell's fees exactly.
			feeShare = tx.Fees.Sub(allocatedFees)
		}
		allocatedFees = allocatedFees.Add(feeShare)

		disposal.CostBasis = disposal.CostBasis.Add(consumed.Mul(lot.UnitCost))
		disposal.Consumed = append(disposal.Consumed, model.LotConsumption{
			BuyTransactionID: lot.TransactionID,
			Quantity:         consumed,
			UnitCost:         lot.UnitCost,
			FeeShare:         feeShare,
		})

		lot.Remaining = lot.Remaining.Sub(consumed)
		remaining = remaining.Sub(consumed)

		if lot.Remaining.IsZero() {
			queue = queue[1:]
		}
	}
	m.queues[key] = queue

	disposal.Realized = disposal.SaleProceeds.Sub(disposal.CostBasis).Sub(disposal.Fees)
	m.disposals = append(m.disposals, disposal)

	return disposal, nil
}

// OpenQuantity returns the total open quantity for a security within an
// account.
func (m *LotMatcher) OpenQuantity(account, security string) decimal.Decimal {
	open := decimal.Zero
	for _, lot := range m.queues[queueKey(account, security)] {
		open = open.Add(lot.Remaining)
	}
	return open
}

// Disposals returns all realized disposals recorded so far, in apply order.
func (m *LotMatcher) Disposals() []model.RealizedDisposal {
	return m.disposals
}

// SnapshotHoldings aggregates open lots into per-security holdings with
// weighted-average cost. Securities whose open quantity has fallen to
// zero are excluded. Market-price fields are left unset; the holdings
// service joins live prices. Results are sorted by symbol then ISIN for
// stable pagination.
func (m *LotMatcher) SnapshotHoldings() []model.Holding {
	bySecurity := make(map[string]*model.Holding)

	for _, queue := range m.queues {
		for _, lot := range queue {
			if lot.Remaining.IsZero() {
				continue
			}
			security := lot.ISIN
			if security == "" {
				security = lot.Symbol
			}
			holding, ok := bySecurity[security]
			if !ok {
				holding = &model.Holding{
					ISIN:   lot.ISIN,
					Symbol: lot.Symbol,
					Name:   lot.Name,
				}
				bySecurity[security] = holding
			}
			holding.Quantity = holding.Quantity.Add(lot.Remaining)
			holding.BuyValue = holding.BuyValue.Add(lot.Remaining.Mul(lot.UnitCost))
			if holding.Symbol == "" {
				holding.Symbol = lot.Symbol
			}
			if holding.Name == "" {
				holding.Name = lot.Name
			}
		}
	}

	holdings := make([]model.Holding, 0, len(bySecurity))
	for _, holding := range bySecurity {
		holding.AverageCost = holding.BuyValue.Div(holding.Quantity)
		holdings = append(holdings, *holding)
	}

	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].Symbol != holdings[j].Symbol {
			return holdings[i].Symbol < holdings[j].Symbol
		}
		return holdings[i].ISIN < holdings[j].ISIN
	})

	return holdings
}
