package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a derived open BUY tranche with remaining quantity.
// Lots are never persisted; they exist only inside a lot-matcher replay.
// UnitCost is fee-adjusted: (price * quantity + fees) / quantity.
type Lot struct {
	TransactionID string          `json:"transactionId"`
	AccountName   string          `json:"accountName,omitempty"`
	ISIN          string          `json:"isin,omitempty"`
	Symbol        string          `json:"symbol,omitempty"`
	Name          string          `json:"name,omitempty"`
	TradeDate     time.Time       `json:"tradeDate"`
	Remaining     decimal.Decimal `json:"remaining"`
	UnitCost      decimal.Decimal `json:"unitCost"`
}
