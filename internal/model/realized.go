package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotConsumption records one SELL taking quantity from one open lot.
// FeeShare is this consumption's slice of the sell's fees, allocated
// proportionally by quantity; shares sum to the sell's fees exactly.
type LotConsumption struct {
	BuyTransactionID string          `json:"buyTransactionId"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	FeeShare         decimal.Decimal `json:"feeShare"`
}

// RealizedDisposal describes one SELL's consumption of one or more lots.
// Realized = SaleProceeds - CostBasis - Fees.
type RealizedDisposal struct {
	SellTransactionID string           `json:"sellTransactionId"`
	AccountName       string           `json:"accountName,omitempty"`
	ISIN              string           `json:"isin,omitempty"`
	Symbol            string           `json:"symbol,omitempty"`
	Name              string           `json:"name,omitempty"`
	TradeDate         time.Time        `json:"tradeDate"`
	QuantitySold      decimal.Decimal  `json:"quantitySold"`
	CostBasis         decimal.Decimal  `json:"costBasis"`
	SaleProceeds      decimal.Decimal  `json:"saleProceeds"`
	Fees              decimal.Decimal  `json:"fees"`
	Realized          decimal.Decimal  `json:"realized"`
	Consumed          []LotConsumption `json:"consumed,omitempty"`
}

// RealizedSummary aggregates realized gains per security symbol.
type RealizedSummary struct {
	Symbol   string          `json:"symbol"`
	Realized decimal.Decimal `json:"realized"`
	QtySold  decimal.Decimal `json:"qtySold"`
}
