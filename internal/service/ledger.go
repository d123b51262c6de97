package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// LedgerStore abstracts the append-only transaction ledger. The sqlite
// repository is the production implementation; projections depend only
// on this interface so they can be exercised against any store.
//
// Implementations must return transactions in replay order: trade date
// ascending, insertion order breaking ties.
type LedgerStore interface {
	Append(ctx context.Context, txs []model.Transaction) error
	ReadAll(ctx context.Context) ([]model.Transaction, error)
	ReadSince(ctx context.Context, since time.Time) ([]model.Transaction, error)
}

// dedupKey derives the duplicate-detection key for a ledger entry:
// a SHA-256 over the fields that make two imports of the same row
// indistinguishable. Decimal fields are normalized through String so
// "10.0" and "10" hash identically.
func dedupKey(t model.Transaction) string {
	parts := []string{
		t.TradeDate.Format("2006-01-02"),
		t.Type,
		t.ISIN,
		t.Symbol,
		t.Quantity.String(),
		t.Price.String(),
		t.Fees.String(),
		t.AccountName,
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// filterAsOf drops entries with a trade date after asOf. A nil asOf
// means the full ledger.
func filterAsOf(txs []model.Transaction, asOf *time.Time) []model.Transaction {
	if asOf == nil {
		return txs
	}

	bounded := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.TradeDate.After(*asOf) {
			bounded = append(bounded, t)
		}
	}
	return bounded
}
