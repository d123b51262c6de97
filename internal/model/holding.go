package model

import "github.com/shopspring/decimal"

// Holding is the current-state projection for one security with open lots.
// It is recomputed from the transaction ledger on every read and never
// stored, so it cannot diverge from the source of truth.
//
// GainLoss covers unrealized gain only; realized gains live in the
// realized P&L projection.
type Holding struct {
	ISIN          string          `json:"isin,omitempty"`
	Symbol        string          `json:"symbol,omitempty"`
	Name          string          `json:"name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	AverageCost   decimal.Decimal `json:"averageCost"`
	BuyValue      decimal.Decimal `json:"buyValue"`
	MarketPrice   decimal.Decimal `json:"marketPrice"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	GainLoss      decimal.Decimal `json:"gainLoss"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Priced        bool            `json:"priced"`
}
