package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types accepted by the ledger.
const (
	TypeBuy      = "buy"
	TypeSell     = "sell"
	TypeDividend = "dividend"
	TypeFee      = "fee"
	TypeSplit    = "split"
	TypeOther    = "other"
)

// Transaction is an immutable ledger entry for one security in one account.
// Entries are never mutated after insertion; corrections happen through
// reversal entries that reference the original via ReversalOf.
type Transaction struct {
	ID            string          `json:"id"`
	Seq           int64           `json:"-"`
	TradeDate     time.Time       `json:"tradeDate"`
	Type          string          `json:"type"`
	ISIN          string          `json:"isin,omitempty"`
	Symbol        string          `json:"symbol,omitempty"`
	Name          string          `json:"name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Fees          decimal.Decimal `json:"fees"`
	Notes         string          `json:"notes,omitempty"`
	AccountName   string          `json:"accountName,omitempty"`
	ImportBatchID string          `json:"importBatchId,omitempty"`
	DedupKey      string          `json:"-"`
	ReversalOf    string          `json:"reversalOf,omitempty"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}

// SecurityKey identifies the security a transaction belongs to.
// ISIN is preferred; symbol is the fallback for rows without one.
func (t Transaction) SecurityKey() string {
	if t.ISIN != "" {
		return t.ISIN
	}
	return t.Symbol
}
